package messaging

import (
	"context"
)

// Item lifecycle subjects. ItemsWildcardSubject covers all of them.
const (
	ItemsWildcardSubject = "catalog.items.>"
	ItemCreatedSubject   = "catalog.items.created"
	ItemUpdatedSubject   = "catalog.items.updated"
	ItemDeletedSubject   = "catalog.items.deleted"
	ItemRestoredSubject  = "catalog.items.restored"
	ItemPurgedSubject    = "catalog.items.purged"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
