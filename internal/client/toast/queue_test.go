package toast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShowAssignsUniqueIDs(t *testing.T) {
	q := NewQueue()

	seen := map[int64]bool{}
	for i := 0; i < 100; i++ {
		id := q.Show(KindInfo, fmt.Sprintf("msg %d", i), time.Minute)
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, q.Messages(), 100)
}

func TestShowAppliesDefaultTTL(t *testing.T) {
	q := NewQueue()

	q.Show(KindSuccess, "saved", 0)
	require.Len(t, q.Messages(), 1)
}

func TestAutoDismissAfterTTL(t *testing.T) {
	q := NewQueue()

	q.Show(KindInfo, "short-lived", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(q.Messages()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDismissCancelsTimer(t *testing.T) {
	q := NewQueue()

	id := q.Show(KindError, "oops", 20*time.Millisecond)
	q.Dismiss(id)
	require.Empty(t, q.Messages())

	// The timer must not fire later against a reused list position.
	q.Show(KindInfo, "still here", time.Minute)
	time.Sleep(40 * time.Millisecond)
	require.Len(t, q.Messages(), 1)
}

func TestDismissUnknownIDIsNoop(t *testing.T) {
	q := NewQueue()

	q.Show(KindInfo, "kept", time.Minute)
	q.Dismiss(12345)
	require.Len(t, q.Messages(), 1)
}

func TestTimersAreIndependent(t *testing.T) {
	q := NewQueue()

	q.Show(KindInfo, "fast", 10*time.Millisecond)
	slow := q.Show(KindInfo, "slow", time.Minute)

	require.Eventually(t, func() bool {
		msgs := q.Messages()
		return len(msgs) == 1 && msgs[0].ID == slow
	}, time.Second, 5*time.Millisecond)
}

func TestSubscribeNotifiedOnChange(t *testing.T) {
	q := NewQueue()

	var last []Message
	unsub := q.Subscribe(func(msgs []Message) { last = msgs })

	id := q.Show(KindWarning, "careful", time.Minute)
	require.Len(t, last, 1)
	require.Equal(t, "careful", last[0].Text)

	q.Dismiss(id)
	require.Empty(t, last)

	unsub()
	q.Show(KindInfo, "after unsubscribe", time.Minute)
	require.Empty(t, last)
}
