//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"rokthona/pkg/testutil/containers"
)

func TestKafkaPublisherDeliversEvents(t *testing.T) {
	kc := containers.NewKafkaContainer(t)
	const topic = "rokthona.audit.test"
	kc.CreateTopic(t, topic)

	logger := slog.New(slog.DiscardHandler)
	publisher, err := NewKafkaPublisher(kc.Seeds, topic, logger)
	require.NoError(t, err)

	ctx := context.Background()
	publisher.Emit(ctx, Event{
		Action:     ActionDonationConfirmed,
		ActorEmail: "bob@example.com",
		Subject:    "req-1",
		RequestID:  "test-request",
	})
	require.NoError(t, publisher.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(kc.Seeds...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "req-1", string(records[0].Key))

	var payload struct {
		Action     string `json:"action"`
		ActorEmail string `json:"actor_email"`
		Subject    string `json:"subject"`
		RequestID  string `json:"request_id"`
		Timestamp  string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(records[0].Value, &payload))
	assert.Equal(t, "donation_confirmed", payload.Action)
	assert.Equal(t, "bob@example.com", payload.ActorEmail)
	assert.Equal(t, "test-request", payload.RequestID)
	assert.NotEmpty(t, payload.Timestamp)
}
