package service

import (
	"errors"

	perrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/abgdnv/shoecatalog/internal/model"
	"github.com/abgdnv/shoecatalog/internal/store"
)

// guardWrite classifies the outcome of a create or update.
// A unique index violation on name becomes ErrDuplicateName; every other error passes through unchanged.
// Uniqueness is never pre-checked: the store's unique index is the only arbiter.
func guardWrite(item *model.Item, err error) (*model.Item, error) {
	if err == nil {
		return item, nil
	}
	var dup *store.DuplicateKeyError
	if errors.As(err, &dup) && dup.Field == model.FieldName {
		return nil, perrors.ErrDuplicateName
	}
	return nil, err
}
