package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleFiresOnce(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule(10, 10*time.Millisecond, func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestScheduleReplacesPendingTask(t *testing.T) {
	s := New()
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule(10, 50*time.Millisecond, func() { first.Add(1) })
	s.Schedule(10, 10*time.Millisecond, func() { second.Add(1) })

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "replaced task must not fire")
}

func TestCancel(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule(10, 20*time.Millisecond, func() { fired.Add(1) })
	s.Cancel(10)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestCancelUnknownChatIsNoop(t *testing.T) {
	s := New()
	defer s.Stop()

	s.Cancel(999)
}

func TestTasksForDifferentChatsAreIndependent(t *testing.T) {
	s := New()
	defer s.Stop()

	var a, b atomic.Int32
	s.Schedule(1, 10*time.Millisecond, func() { a.Add(1) })
	s.Schedule(2, 10*time.Millisecond, func() { b.Add(1) })
	s.Cancel(1)

	assert.Eventually(t, func() bool { return b.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), a.Load())
}
