package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/audit"
	"peoplehub/pkg/platform/audit/publisher"
	auditmemory "peoplehub/pkg/platform/audit/store/memory"
	"peoplehub/pkg/requestcontext"
)

func TestDenialAuditorEmitsRoleDenied(t *testing.T) {
	sink := auditmemory.NewInMemoryStore()
	accountID := id.NewAccountID()
	ctx := requestcontext.WithRequestID(context.Background(), "req-1")

	NewDenialAuditor(publisher.NewPublisher(sink), nil).RecordDenied(ctx, accountID, "employee", "/settings")

	events, err := sink.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventRoleDenied), events[0].Action)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
	assert.Equal(t, "/settings", events[0].Subject)
	assert.Equal(t, "req-1", events[0].RequestID)
}
