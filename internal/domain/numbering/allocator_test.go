package numbering

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
)

// memIndex is an in-memory document collection implementing NumberIndex.
// Claim simulates the persist step including the uniqueness constraint.
type memIndex struct {
	mu      sync.Mutex
	numbers []string // newest first
	held    map[string]bool
}

func newMemIndex(seed ...string) *memIndex {
	idx := &memIndex{held: make(map[string]bool)}
	for _, n := range seed {
		idx.mustInsert(n)
	}
	return idx
}

func (m *memIndex) mustInsert(number string) {
	m.numbers = append([]string{number}, m.numbers...)
	m.held[number] = true
}

// Claim is the persist callback: fails with ErrDuplicateNumber like a
// unique index would.
func (m *memIndex) Claim(ctx context.Context, number string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[number] {
		return ErrDuplicateNumber
	}
	m.mustInsert(number)
	return nil
}

func (m *memIndex) RecentNumbers(ctx context.Context, tenantID id.ID, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.numbers) {
		limit = len(m.numbers)
	}
	out := make([]string, limit)
	copy(out, m.numbers[:limit])
	return out, nil
}

func (m *memIndex) NumberExists(ctx context.Context, tenantID id.ID, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[number], nil
}

func (m *memIndex) HighestWithPrefix(ctx context.Context, tenantID id.ID, prefix string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matching []string
	for n := range m.held {
		if strings.HasPrefix(n, prefix) {
			matching = append(matching, n)
		}
	}
	if len(matching) == 0 {
		return "", nil
	}
	sort.Strings(matching)
	return matching[len(matching)-1], nil
}

func newTestAllocator(idx NumberIndex) *Allocator {
	svc := NewService(&memTemplates{templates: map[string]*SeriesTemplate{}}, newMemCounters())
	svc.now = fixedClock(2025, time.May)

	opts := DefaultAllocatorOptions()
	opts.RetryDelay = time.Millisecond
	return NewAllocator(idx, svc, opts)
}

func TestAllocateUniqueContinuesExistingSeries(t *testing.T) {
	idx := newMemIndex("PAFO-2025-00002", "PAFO-2025-00001")
	alloc := newTestAllocator(idx)

	num, err := alloc.AllocateUnique(context.Background(), id.New(), SeriesPayment, idx.Claim)
	require.NoError(t, err)
	assert.Equal(t, "PAFO-2025-00003", num)
}

func TestAllocateUniqueSeedsEmptyCollection(t *testing.T) {
	idx := newMemIndex()
	alloc := newTestAllocator(idx)

	num, err := alloc.AllocateUnique(context.Background(), id.New(), SeriesPayment, idx.Claim)
	require.NoError(t, err)
	assert.Equal(t, "PAFO-2025-00001", num)
}

// An external process inserts PAFO-2025-00003 between the allocator's
// existence check and its persist. The allocator must recover to
// PAFO-2025-00004 instead of failing or colliding.
func TestAllocateUniqueRecoversFromPersistRace(t *testing.T) {
	idx := newMemIndex("PAFO-2025-00002", "PAFO-2025-00001")
	alloc := newTestAllocator(idx)

	raced := false
	persist := func(ctx context.Context, number string) error {
		if !raced {
			raced = true
			// external writer wins the race for 00003
			require.NoError(t, idx.Claim(ctx, "PAFO-2025-00003"))
		}
		return idx.Claim(ctx, number)
	}

	num, err := alloc.AllocateUnique(context.Background(), id.New(), SeriesPayment, persist)
	require.NoError(t, err)
	assert.Equal(t, "PAFO-2025-00004", num)
}

func TestAllocateUniqueConcurrentCallersNeverCollide(t *testing.T) {
	idx := newMemIndex("PAFO-2025-00001")
	alloc := newTestAllocator(idx)
	tenantID := id.New()

	const callers = 8
	results := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = alloc.AllocateUnique(context.Background(), tenantID, SeriesPayment, idx.Claim)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]int)
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i], "caller %d", i)
		seen[results[i]]++
	}
	for num, count := range seen {
		assert.Equal(t, 1, count, "number %s allocated %d times", num, count)
	}
}

func TestAllocateUniqueExhaustsAfterBoundedAttempts(t *testing.T) {
	idx := newMemIndex("PAFO-2025-00001")
	alloc := newTestAllocator(idx)
	alloc.opts.MaxAttempts = 3

	// persist always loses the race
	persist := func(ctx context.Context, number string) error {
		return ErrDuplicateNumber
	}

	_, err := alloc.AllocateUnique(context.Background(), id.New(), SeriesPayment, persist)
	require.Error(t, err)
	assert.True(t, apperror.IsAllocationExhausted(err))
}

func TestAllocateUniquePropagatesPersistFailure(t *testing.T) {
	idx := newMemIndex("PAFO-2025-00001")
	alloc := newTestAllocator(idx)

	persist := func(ctx context.Context, number string) error {
		return context.DeadlineExceeded
	}

	_, err := alloc.AllocateUnique(context.Background(), id.New(), SeriesPayment, persist)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSplitNumber(t *testing.T) {
	prefix, val, width, ok := splitNumber("PAFO-2025-00042")
	require.True(t, ok)
	assert.Equal(t, "PAFO-2025-", prefix)
	assert.Equal(t, int64(42), val)
	assert.Equal(t, 5, width)

	_, _, _, ok = splitNumber("NO-DIGITS-")
	assert.False(t, ok)
}
