package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

func TestEmitter_NilProducerIsNoOp(t *testing.T) {
	e := NewEmitter(nil, zap.NewNop())
	assert.False(t, e.Enabled())

	ctx := context.Background()
	posting := &models.CanonicalPosting{ID: "p1", Fingerprint: "fp"}
	run := &models.ScrapeRun{ID: "r1", Status: models.RunCompleted}

	require.NoError(t, e.EmitPostingCreated(ctx, posting))
	require.NoError(t, e.EmitPostingMerged(ctx, posting))
	require.NoError(t, e.EmitRunCompleted(ctx, run))
}

func TestNewBaseEvent(t *testing.T) {
	event := NewBaseEvent(EventTypePostingCreated)
	assert.Equal(t, EventTypePostingCreated, event.EventType)
	assert.Equal(t, SchemaVersion, event.SchemaVersion)
	assert.False(t, event.Timestamp.IsZero())
	assert.NotEmpty(t, event.CorrelationID)
}
