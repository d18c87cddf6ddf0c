//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "peoplehub/pkg/domain"
	audit "peoplehub/pkg/platform/audit"
	"peoplehub/pkg/testutil/containers"
)

func TestStore_AppendRoundTrip(t *testing.T) {
	broker := containers.NewKafkaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient(broker.Brokers)
	require.NoError(t, err)
	defer client.Close()

	const topic = "peoplehub.audit.test"
	require.NoError(t, EnsureTopic(ctx, client, topic))
	require.NoError(t, EnsureTopic(ctx, client, topic), "second ensure tolerates an existing topic")

	store := New(client, topic)
	accountID := id.AccountID(uuid.New())
	require.NoError(t, store.Append(ctx, audit.Event{
		AccountID: accountID,
		Action:    string(audit.EventAccountCreated),
	}))

	records := broker.Consume(ctx, t, topic, 1)
	require.Len(t, records, 1)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, accountID, got.AccountID)
}
