package viewstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatest_StaleResponseIsDropped(t *testing.T) {
	var l Latest[string]

	first := l.Begin()
	second := l.Begin()

	assert.True(t, l.Commit(second, "refetch"))
	assert.False(t, l.Commit(first, "initial"), "older load must not overwrite")

	v, ok := l.Get()
	assert.True(t, ok)
	assert.Equal(t, "refetch", v)
}

func TestLatest_EarlyCommitIsReplacedByNewer(t *testing.T) {
	var l Latest[int]

	first := l.Begin()
	assert.True(t, l.Commit(first, 1))

	second := l.Begin()
	assert.True(t, l.Commit(second, 2))

	v, _ := l.Get()
	assert.Equal(t, 2, v)
}

func TestLatest_PendingNewerLoadBlocksOlderCommit(t *testing.T) {
	var l Latest[int]

	first := l.Begin()
	_ = l.Begin() // newer load still in flight

	assert.False(t, l.Commit(first, 1))
	_, ok := l.Get()
	assert.False(t, ok)
}

func TestLatest_ConcurrentCommitsKeepNewest(t *testing.T) {
	var l Latest[uint64]
	seqs := make([]uint64, 50)
	for i := range seqs {
		seqs[i] = l.Begin()
	}

	var wg sync.WaitGroup
	for _, s := range seqs {
		wg.Add(1)
		go func(s uint64) {
			defer wg.Done()
			l.Commit(s, s)
		}(s)
	}
	wg.Wait()

	v, ok := l.Get()
	assert.True(t, ok)
	assert.Equal(t, seqs[len(seqs)-1], v)
}
