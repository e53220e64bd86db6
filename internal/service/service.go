// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/abgdnv/shoecatalog/internal/filter"
	"github.com/abgdnv/shoecatalog/internal/lifecycle"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/abgdnv/shoecatalog/internal/query"
	"github.com/abgdnv/shoecatalog/internal/store"
	"github.com/abgdnv/shoecatalog/internal/validation"
	"github.com/abgdnv/shoecatalog/pkg/messaging"
	"github.com/abgdnv/shoecatalog/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// CatalogService defines the operations exposed to the transport layer.
type CatalogService interface {
	// List returns one page of live items matching the filter, sort and page parameters.
	List(ctx context.Context, params url.Values) (*ListDto, error)

	// Suggest returns up to the configured number of live items whose name or brand contains q.
	// Returns an empty slice for a blank q.
	Suggest(ctx context.Context, q string) ([]SuggestionDto, error)

	// Get retrieves an item by id, including tombstoned items.
	// Returns ErrInvalidID or ErrItemNotFound.
	Get(ctx context.Context, id string) (*ItemDto, error)

	// Create validates input in full mode and stores a new item.
	// Returns a *ValidationError or ErrDuplicateName.
	Create(ctx context.Context, input validation.Input) (*ItemDto, error)

	// Update validates input in partial mode and applies it to the item.
	// Returns ErrInvalidID, a *ValidationError, ErrItemNotFound or ErrDuplicateName.
	Update(ctx context.Context, id string, input validation.Input) (*ItemDto, error)

	// SoftDelete tombstones an item. Returns ErrInvalidID or ErrItemNotFound.
	SoftDelete(ctx context.Context, id string) (*ItemDto, error)

	// Restore revives a tombstoned item. Returns ErrInvalidID or ErrItemNotFound.
	Restore(ctx context.Context, id string) (*ItemDto, error)

	// HardDelete permanently removes an item. Returns ErrInvalidID or ErrItemNotFound.
	HardDelete(ctx context.Context, id string) error
}

// Config holds the listing and suggestion defaults.
type Config struct {
	Query        query.Config
	SuggestLimit int
}

// DefaultConfig returns the listing defaults and a suggestion limit of 7.
func DefaultConfig() Config {
	return Config{Query: query.DefaultConfig(), SuggestLimit: 7}
}

// Service implements CatalogService.
type Service struct {
	store     store.ItemStore
	validator *validation.Validator
	executor  *query.Executor
	lifecycle *lifecycle.Manager
	publisher messaging.Publisher
	cfg       Config
}

// NewService creates a new instance of CatalogService on top of the given store.
// A nil publisher disables events.
func NewService(s store.ItemStore, publisher messaging.Publisher, cfg Config) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		store:     s,
		validator: validation.New(),
		executor:  query.NewExecutor(s),
		lifecycle: lifecycle.NewManager(s),
		publisher: publisher,
		cfg:       cfg,
	}
}

// List returns one page of live items.
func (s *Service) List(ctx context.Context, params url.Values) (*ListDto, error) {
	p := filter.Build(params)
	sort := s.cfg.Query.ParseSort(params.Get(query.ParamSortBy), params.Get(query.ParamOrder))
	page := s.cfg.Query.ParsePage(params.Get(query.ParamPage), params.Get(query.ParamLimit))

	res, err := s.executor.Execute(ctx, p, sort, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return toListDto(res), nil
}

// Suggest returns autocomplete entries ordered by name.
func (s *Service) Suggest(ctx context.Context, q string) ([]SuggestionDto, error) {
	p, ok := filter.Suggest(q)
	if !ok {
		return []SuggestionDto{}, nil
	}
	items, err := s.store.Find(ctx, p, store.FindOptions{
		Sort:  []store.SortField{{Field: model.FieldName}, {Field: model.FieldID}},
		Limit: int64(s.cfg.SuggestLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to suggest items: %w", err)
	}
	out := make([]SuggestionDto, len(items))
	for i, it := range items {
		out[i] = SuggestionDto{ID: it.ID.Hex(), Name: it.Name, Brand: it.Brand}
	}
	return out, nil
}

// Get retrieves an item by its id.
func (s *Service) Get(ctx context.Context, rawID string) (*ItemDto, error) {
	id, err := model.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item by ID %s: %w", rawID, err)
	}
	return toDto(item), nil
}

// Create validates and stores a new item.
func (s *Service) Create(ctx context.Context, input validation.Input) (*ItemDto, error) {
	fields, err := s.validator.Validate(input, validation.Full)
	if err != nil {
		return nil, err
	}
	created, err := guardWrite(s.store.Insert(ctx, model.NewItem(fields)))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	s.publish(ctx, events.KindCreated, created)
	return toDto(created), nil
}

// Update validates a partial input and applies it to the item.
func (s *Service) Update(ctx context.Context, rawID string, input validation.Input) (*ItemDto, error) {
	id, err := model.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	fields, err := s.validator.Validate(input, validation.Partial)
	if err != nil {
		return nil, err
	}
	updated, err := guardWrite(s.store.UpdateByID(ctx, id, model.Change{Fields: fields}))
	if err != nil {
		return nil, fmt.Errorf("failed to update item with ID %s: %w", rawID, err)
	}
	s.publish(ctx, events.KindUpdated, updated)
	return toDto(updated), nil
}

// SoftDelete tombstones an item.
func (s *Service) SoftDelete(ctx context.Context, rawID string) (*ItemDto, error) {
	item, err := s.lifecycle.SoftDelete(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to soft delete item with ID %s: %w", rawID, err)
	}
	s.publish(ctx, events.KindDeleted, item)
	return toDto(item), nil
}

// Restore revives a tombstoned item.
func (s *Service) Restore(ctx context.Context, rawID string) (*ItemDto, error) {
	item, err := s.lifecycle.Restore(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore item with ID %s: %w", rawID, err)
	}
	s.publish(ctx, events.KindRestored, item)
	return toDto(item), nil
}

// HardDelete permanently removes an item.
func (s *Service) HardDelete(ctx context.Context, rawID string) error {
	item, err := s.lifecycle.Purge(ctx, rawID)
	if err != nil {
		return fmt.Errorf("failed to delete item with ID %s: %w", rawID, err)
	}
	s.publish(ctx, events.KindPurged, item)
	return nil
}

// publish emits an item event. Failures are logged and never fail the operation.
func (s *Service) publish(ctx context.Context, kind string, item *model.Item) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := events.ItemEvent{
		Carrier:    carrier,
		Kind:       kind,
		ItemID:     item.ID.Hex(),
		Name:       item.Name,
		Brand:      item.Brand,
		IsDeleted:  item.IsDeleted,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish item event", "subject", event.Subject(), "ID", event.ItemID, "error", err)
	}
}
