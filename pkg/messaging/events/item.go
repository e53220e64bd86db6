package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/shoecatalog/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

// ItemEvent reports a change to a catalog item.
// Carrier holds the trace context of the request that caused it.
type ItemEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	Kind       string                 `json:"kind"`
	ItemID     string                 `json:"item_id"`
	Name       string                 `json:"name"`
	Brand      string                 `json:"brand"`
	IsDeleted  bool                   `json:"is_deleted"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Event kinds, one per subject.
const (
	KindCreated  = "created"
	KindUpdated  = "updated"
	KindDeleted  = "deleted"
	KindRestored = "restored"
	KindPurged   = "purged"
)

var subjects = map[string]string{
	KindCreated:  messaging.ItemCreatedSubject,
	KindUpdated:  messaging.ItemUpdatedSubject,
	KindDeleted:  messaging.ItemDeletedSubject,
	KindRestored: messaging.ItemRestoredSubject,
	KindPurged:   messaging.ItemPurgedSubject,
}

func (e ItemEvent) Subject() string {
	return subjects[e.Kind]
}

func (e ItemEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
