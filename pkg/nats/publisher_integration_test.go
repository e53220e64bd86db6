package nats

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/shoecatalog/pkg/messaging"
	"github.com/abgdnv/shoecatalog/pkg/messaging/events"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
)

const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	natsContainer *tcnats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.natsContainer, err = tcnats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)

	s.nc, err = NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err, "Failed to connect to NATS")

	s.js, err = NewJetStreamContext(s.nc)
	require.NoError(s.T(), err, "Failed to get JetStream context")
}

func (s *PublisherSuite) TearDownSuite() {
	s.nc.Close()
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.T().Logf("Failed to terminate NATS container: %v", err)
	}
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestEnsureStreamIsIdempotent() {
	name := "ITEMS_" + uuid.NewString()
	subject := "idem." + uuid.NewString() + ".>"

	require.NoError(s.T(), EnsureStream(s.ctx, s.js, name, subject))
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, name, subject))

	stream, err := s.js.Stream(s.ctx, name)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{subject}, stream.CachedInfo().Config.Subjects)
}

func (s *PublisherSuite) TestPublishItemEvents() {
	// given
	stream := "ITEMS_" + uuid.NewString()
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, stream, messaging.ItemsWildcardSubject))
	s.T().Cleanup(func() { _ = s.js.DeleteStream(s.ctx, stream) })
	publisher := NewNatsPublisher(s.js)

	sent := []events.ItemEvent{
		{Kind: events.KindCreated, ItemID: "65a1b2c3d4e5f60718293a4b", Name: "Air Zoom", Brand: "Nike", OccurredAt: time.Now().UTC()},
		{Kind: events.KindDeleted, ItemID: "65a1b2c3d4e5f60718293a4b", Name: "Air Zoom", Brand: "Nike", IsDeleted: true, OccurredAt: time.Now().UTC()},
	}

	// when
	for _, e := range sent {
		require.NoError(s.T(), publisher.Publish(s.ctx, e))
	}

	// then
	consumer, err := s.js.CreateOrUpdateConsumer(s.ctx, stream, jetstream.ConsumerConfig{
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	require.NoError(s.T(), err)
	batch, err := consumer.Fetch(len(sent), jetstream.FetchMaxWait(3*time.Second))
	require.NoError(s.T(), err)

	var got []events.ItemEvent
	var subjects []string
	for msg := range batch.Messages() {
		var e events.ItemEvent
		require.NoError(s.T(), json.Unmarshal(msg.Data(), &e))
		got = append(got, e)
		subjects = append(subjects, msg.Subject())
		require.NoError(s.T(), msg.Ack())
	}
	require.NoError(s.T(), batch.Error())
	require.Len(s.T(), got, len(sent))
	assert.Equal(s.T(), []string{messaging.ItemCreatedSubject, messaging.ItemDeletedSubject}, subjects)
	assert.Equal(s.T(), events.KindDeleted, got[1].Kind)
	assert.True(s.T(), got[1].IsDeleted)
}

func (s *PublisherSuite) TestPublishWithoutStreamFails() {
	// given
	publisher := NewNatsPublisher(s.js)
	event := unroutedEvent{subject: "nostream." + uuid.NewString()}

	// when
	err := publisher.Publish(s.ctx, event)

	// then
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), event.subject)
}

// unroutedEvent targets a subject no stream captures.
type unroutedEvent struct {
	subject string
}

func (e unroutedEvent) Subject() string          { return e.subject }
func (e unroutedEvent) Payload() ([]byte, error) { return []byte(`{}`), nil }
