package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NameIndex is the unique index enforcing item name uniqueness.
// It carries the server's default name, so an existing name_1 index is reused.
const NameIndex = "name_1"

const duplicateKeyCode = 11000

// uniqueIndexFields maps unique index names to the field they guard.
var uniqueIndexFields = map[string]string{
	NameIndex: model.FieldName,
}

var indexInMessage = regexp.MustCompile(`index: (\S+) dup key`)

// mongoStore implements ItemStore on a MongoDB collection.
type mongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore creates an ItemStore backed by coll.
// EnsureIndexes must have run against coll for name uniqueness to hold.
func NewMongoStore(coll *mongo.Collection) ItemStore {
	return &mongoStore{
		coll: coll,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureIndexes creates the unique name index and the listing indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: model.FieldName, Value: 1}}, Options: options.Index().SetName(NameIndex).SetUnique(true)},
		{Keys: bson.D{{Key: model.FieldIsDeleted, Value: 1}, {Key: model.FieldCreatedAt, Value: -1}}},
		{Keys: bson.D{{Key: model.FieldPrice, Value: 1}}},
		{Keys: bson.D{{Key: model.FieldBrand, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Find returns matching items ordered and windowed by opts.
func (s *mongoStore) Find(ctx context.Context, p filter.Predicate, opts FindOptions) ([]model.Item, error) {
	query, err := toBSON(p)
	if err != nil {
		return nil, err
	}
	findOpts := options.Find().SetSkip(max(opts.Skip, 0))
	if len(opts.Sort) > 0 {
		findOpts.SetSort(toSort(opts.Sort))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cur, err := s.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]model.Item, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	for i := range items {
		normalize(&items[i])
	}
	return items, nil
}

// Count returns the number of matching items.
func (s *mongoStore) Count(ctx context.Context, p filter.Predicate) (int64, error) {
	query, err := toBSON(p)
	if err != nil {
		return 0, err
	}
	n, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// FindByID retrieves an item by its ID.
func (s *mongoStore) FindByID(ctx context.Context, id model.ID) (*model.Item, error) {
	var item model.Item
	err := s.coll.FindOne(ctx, bson.M{model.FieldID: id}).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	normalize(&item)
	return &item, nil
}

// Insert creates a new item and returns it.
func (s *mongoStore) Insert(ctx context.Context, item model.Item) (*model.Item, error) {
	now := s.now()
	item.ID = model.NewID()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Images == nil {
		item.Images = []string{}
	}
	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return nil, duplicateKey(err)
	}
	return &item, nil
}

// UpdateByID applies change atomically and returns the item after the update.
func (s *mongoStore) UpdateByID(ctx context.Context, id model.ID, change model.Change) (*model.Item, error) {
	set := bson.M{model.FieldUpdatedAt: s.now()}
	for k, v := range change.Set() {
		set[k] = v
	}
	update := bson.M{"$set": set}
	if len(change.Unset) > 0 {
		unset := bson.M{}
		for _, f := range change.Unset {
			unset[f] = ""
		}
		update["$unset"] = unset
	}

	var item model.Item
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{model.FieldID: id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err != nil {
		return nil, duplicateKey(notFound(err))
	}
	normalize(&item)
	return &item, nil
}

// DeleteByID deletes an item by its ID and returns it.
func (s *mongoStore) DeleteByID(ctx context.Context, id model.ID) (*model.Item, error) {
	var item model.Item
	if err := s.coll.FindOneAndDelete(ctx, bson.M{model.FieldID: id}).Decode(&item); err != nil {
		return nil, notFound(err)
	}
	normalize(&item)
	return &item, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return perrors.ErrItemNotFound
	}
	return err
}

// duplicateKey maps a unique index violation to *DuplicateKeyError.
func duplicateKey(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return &DuplicateKeyError{Field: duplicateField(err), Err: err}
}

// duplicateField reads the violated key from the server's error document.
// Inserts fail with a WriteException, find-and-modify with a CommandError.
func duplicateField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code != duplicateKeyCode {
				continue
			}
			if field := keyField(e.Raw, e.Message); field != "" {
				return field
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == duplicateKeyCode {
		return keyField(ce.Raw, ce.Message)
	}
	return ""
}

// keyField prefers the keyPattern of a single-field index and falls back to the index name in msg.
func keyField(raw bson.Raw, msg string) string {
	if raw != nil {
		if pattern, ok := raw.Lookup("keyPattern").DocumentOK(); ok {
			if elems, err := pattern.Elements(); err == nil && len(elems) == 1 {
				return elems[0].Key()
			}
		}
	}
	if m := indexInMessage.FindStringSubmatch(msg); m != nil {
		return uniqueIndexFields[m[1]]
	}
	return ""
}

// normalize restores empty slices that BSON round-trips as nil.
func normalize(item *model.Item) {
	if item.Sizes == nil {
		item.Sizes = []float64{}
	}
	if item.Colors == nil {
		item.Colors = []string{}
	}
	if item.Images == nil {
		item.Images = []string{}
	}
}
