package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-radar/internal/logging"
)

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	var runs atomic.Int32
	s := New(func(ctx context.Context) { runs.Add(1) }, 6, logging.Discard())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	// The startup run is asynchronous; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_StopPreventsFurtherTicks(t *testing.T) {
	var runs atomic.Int32
	s := New(func(ctx context.Context) { runs.Add(1) }, 1, logging.Discard())

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	// Only the startup run should ever fire with an hourly spec.
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), int32(1))
}
