package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddTicker_Runs(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var runs atomic.Int32
	s.AddTicker("tick", 10*time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() >= 2 },
		time.Second, 5*time.Millisecond)
}

func TestAddTicker_ReplaceByName(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var first, second atomic.Int32
	s.AddTicker("job", 10*time.Millisecond, func() { first.Add(1) })
	s.AddTicker("job", 10*time.Millisecond, func() { second.Add(1) })

	assert.Eventually(t, func() bool { return second.Load() >= 2 },
		time.Second, 5*time.Millisecond)
	require.Len(t, s.Tasks(), 1)
}

func TestTasks_TracksRuns(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	s.AddTicker("tracked", 10*time.Millisecond, func() {})

	assert.Eventually(t, func() bool {
		tasks := s.Tasks()
		return len(tasks) == 1 && tasks[0].Runs >= 1 && tasks[0].LastRun != nil
	}, time.Second, 5*time.Millisecond)

	tasks := s.Tasks()
	assert.Equal(t, "tracked", tasks[0].Name)
	assert.Equal(t, 10*time.Millisecond, tasks[0].Interval)
}

func TestRemove_StopsTask(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var runs atomic.Int32
	s.AddTicker("removable", 10*time.Millisecond, func() { runs.Add(1) })
	s.Remove("removable")

	before := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), before+1, "at most one in-flight tick after removal")
	assert.Empty(t, s.Tasks())
}

func TestAddDelay_RunsOnce(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var runs atomic.Int32
	s.AddDelay("once", 10*time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestTaskPanic_DoesNotKillScheduler(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var runs atomic.Int32
	s.AddTicker("panicky", 10*time.Millisecond, func() {
		runs.Add(1)
		panic("boom")
	})

	// Keeps ticking after panics.
	assert.Eventually(t, func() bool { return runs.Load() >= 3 },
		time.Second, 5*time.Millisecond)
}
