package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
)

// recordingMetrics captures recorded operations for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	operations []string
	statuses   []string
}

func (r *recordingMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, operation)
	r.statuses = append(r.statuses, status)
}

func (r *recordingMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (r *recordingMetrics) RecordConnectionDelta(ctx context.Context, delta int64) {}

func TestRecordUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	inner, _ := newTestUseCase(t)
	rm := &recordingMetrics{}
	uc := NewRecordUseCaseWithMetrics(inner, rm)

	t.Run("success status", func(t *testing.T) {
		_, err := uc.CreateString(ctx, CreateRecordInput{
			Key:  "pad-1",
			Type: storeDomain.PadConfig,
		}, "value")
		require.NoError(t, err)

		rm.mu.Lock()
		defer rm.mu.Unlock()
		assert.Contains(t, rm.operations, "record_create")
		assert.Contains(t, rm.statuses, "success")
	})

	t.Run("error status", func(t *testing.T) {
		_, err := uc.GetByID(ctx, "missing")
		require.Error(t, err)

		rm.mu.Lock()
		defer rm.mu.Unlock()
		assert.Equal(t, "record_get", rm.operations[len(rm.operations)-1])
		assert.Equal(t, "error", rm.statuses[len(rm.statuses)-1])
	})
}
