package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/agriaid/internal/core"
)

func turn(i int) core.Turn {
	return core.Turn{
		Question: fmt.Sprintf("question %d", i),
		Answer:   fmt.Sprintf("answer %d", i),
		At:       time.Now(),
	}
}

func TestStore_AppendAndHistory(t *testing.T) {
	t.Parallel()

	store := NewStore(10)

	store.Append("s1", turn(1))
	store.Append("s1", turn(2))

	history := store.History("s1")
	assert.Len(t, history, 2)
	assert.Equal(t, "question 1", history[0].Question)
	assert.Equal(t, "question 2", history[1].Question)
}

func TestStore_WindowEvictsOldest(t *testing.T) {
	t.Parallel()

	const k = 10
	store := NewStore(k)

	for i := 1; i <= k+5; i++ {
		store.Append("s1", turn(i))
	}

	history := store.History("s1")
	assert.Len(t, history, k)
	assert.Equal(t, "question 6", history[0].Question)
	assert.Equal(t, "question 15", history[k-1].Question)
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	t.Parallel()

	store := NewStore(10)

	store.Append("alice", turn(1))
	store.Append("bob", turn(2))

	assert.Len(t, store.History("alice"), 1)
	assert.Len(t, store.History("bob"), 1)
	assert.Equal(t, "question 1", store.History("alice")[0].Question)
	assert.Empty(t, store.History("carol"))
}

func TestStore_HistoryReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewStore(10)
	store.Append("s1", turn(1))

	history := store.History("s1")
	history[0].Question = "mutated"

	assert.Equal(t, "question 1", store.History("s1")[0].Question)
}

func TestStore_ZeroKDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	for i := 0; i < 20; i++ {
		store.Append("s1", turn(i))
	}

	assert.Equal(t, 10, store.Len("s1"))
}
