package store

import (
	"fmt"
	"regexp"

	"github.com/abgdnv/shoecatalog/internal/filter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toBSON translates a predicate tree into a MongoDB query document.
func toBSON(p filter.Predicate) (bson.M, error) {
	switch p := p.(type) {
	case nil:
		return bson.M{}, nil
	case filter.And:
		if len(p) == 0 {
			return bson.M{}, nil
		}
		parts, err := children(p)
		if err != nil {
			return nil, err
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return bson.M{"$and": parts}, nil
	case filter.Or:
		if len(p) == 0 {
			// matches nothing
			return bson.M{"_id": bson.M{"$exists": false}}, nil
		}
		parts, err := children(p)
		if err != nil {
			return nil, err
		}
		return bson.M{"$or": parts}, nil
	case filter.Contains:
		return bson.M{p.Field: primitive.Regex{Pattern: regexp.QuoteMeta(p.Term), Options: "i"}}, nil
	case filter.Equals:
		return bson.M{p.Field: p.Value}, nil
	case filter.Range:
		bounds := bson.M{}
		if p.Min != nil {
			bounds["$gte"] = *p.Min
		}
		if p.Max != nil {
			bounds["$lte"] = *p.Max
		}
		return bson.M{p.Field: bounds}, nil
	case filter.HasElement:
		return bson.M{p.Field: bson.M{"$in": bson.A{p.Value}}}, nil
	case filter.HasAll:
		return bson.M{p.Field: bson.M{"$all": p.Values}}, nil
	case filter.NotTrue:
		return bson.M{p.Field: bson.M{"$ne": true}}, nil
	default:
		return nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func children[T ~[]filter.Predicate](ps T) ([]bson.M, error) {
	parts := make([]bson.M, 0, len(ps))
	for _, c := range ps {
		m, err := toBSON(c)
		if err != nil {
			return nil, err
		}
		parts = append(parts, m)
	}
	return parts, nil
}

func toSort(fields []SortField) bson.D {
	sort := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	return sort
}
