package numbering

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/pkg/logger"
)

// trailingDigits splits a number into its literal prefix and numeric suffix.
var trailingDigits = regexp.MustCompile(`^(.*?)(\d+)$`)

// AllocatorOptions bound the retry loop.
type AllocatorOptions struct {
	// SampleSize is the number of recent documents scanned to derive
	// the current maximum (default 500).
	SampleSize int

	// MaxAttempts bounds the allocate loop (default 50). Exhausting it
	// is a terminal ALLOCATION_EXHAUSTED error, never a colliding number.
	MaxAttempts int

	// RetryDelay is the base pause between attempts (default 30ms);
	// actual delay is jittered to avoid thundering-herd retries.
	RetryDelay time.Duration
}

// DefaultAllocatorOptions returns production defaults.
func DefaultAllocatorOptions() AllocatorOptions {
	return AllocatorOptions{
		SampleSize:  500,
		MaxAttempts: 50,
		RetryDelay:  30 * time.Millisecond,
	}
}

// Allocator assigns unique document numbers for series where a plain
// counter is not protection enough: manually entered numbers and imports
// can desynchronize the counter from the documents that actually exist.
//
// It derives the true maximum from the document collection itself and
// converts the check-then-insert race into a bounded, self-healing retry:
// there is no transaction spanning the existence check and the persist,
// so a second writer can win in between; the storage-level uniqueness
// constraint then rejects the write and the loop re-reads the real
// maximum (jump-to-max) before retrying.
type Allocator struct {
	index    NumberIndex
	fallback *Service
	opts     AllocatorOptions

	// sleep is swappable for tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewAllocator creates an allocator over one document collection.
func NewAllocator(index NumberIndex, fallback *Service, opts AllocatorOptions) *Allocator {
	if opts.SampleSize <= 0 {
		opts.SampleSize = 500
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 50
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 30 * time.Millisecond
	}
	return &Allocator{
		index:    index,
		fallback: fallback,
		opts:     opts,
		sleep:    sleepCtx,
	}
}

// AllocateUnique produces a number guaranteed unique within the collection
// and invokes persist with it. persist must return ErrDuplicateNumber
// (possibly wrapped) when the uniqueness constraint rejects the write;
// any other persist error aborts the loop and propagates as-is.
func (a *Allocator) AllocateUnique(ctx context.Context, tenantID id.ID, seriesCode string, persist func(ctx context.Context, number string) error) (string, error) {
	candidate, err := a.initialCandidate(ctx, tenantID, seriesCode)
	if err != nil {
		return "", err
	}

	for attempt := 1; attempt <= a.opts.MaxAttempts; attempt++ {
		exists, err := a.index.NumberExists(ctx, tenantID, candidate)
		if err != nil {
			return "", fmt.Errorf("check number %s: %w", candidate, err)
		}

		if !exists {
			err := persist(ctx, candidate)
			if err == nil {
				if attempt > 1 {
					logger.Info(ctx, "allocated number after collision recovery",
						"number", candidate,
						"attempts", attempt,
					)
				}
				return candidate, nil
			}
			if !errors.Is(err, ErrDuplicateNumber) {
				return "", err
			}
			// A second writer claimed the candidate between the
			// existence check and the write. Recover below.
			logger.Warn(ctx, "number collision at persist time",
				"number", candidate,
				"attempt", attempt,
			)
		}

		candidate, err = a.jumpToMax(ctx, tenantID, candidate)
		if err != nil {
			return "", err
		}

		if err := a.sleep(ctx, a.jitteredDelay()); err != nil {
			return "", err
		}
	}

	logger.Error(ctx, "number allocation exhausted",
		"series", seriesCode,
		"attempts", a.opts.MaxAttempts,
	)
	return "", apperror.NewAllocationExhausted(seriesCode, a.opts.MaxAttempts)
}

// ValidateManual checks an externally supplied number against the
// series' effective pattern before the unique index gets to see it.
func (a *Allocator) ValidateManual(ctx context.Context, tenantID id.ID, seriesCode, number string) error {
	return a.fallback.ValidateNumber(ctx, tenantID, seriesCode, number)
}

// initialCandidate derives the first candidate from a bounded sample of
// recent documents, falling back to the numbering service to seed the
// very first number of a series.
func (a *Allocator) initialCandidate(ctx context.Context, tenantID id.ID, seriesCode string) (string, error) {
	numbers, err := a.index.RecentNumbers(ctx, tenantID, a.opts.SampleSize)
	if err != nil {
		return "", fmt.Errorf("sample recent numbers: %w", err)
	}

	prefix, maxVal, width, found := maxBySuffix(numbers)
	if !found {
		seed, err := a.fallback.Next(ctx, tenantID, seriesCode)
		if err != nil {
			return "", fmt.Errorf("seed first number: %w", err)
		}
		return seed, nil
	}

	return formatCandidate(prefix, maxVal+1, width), nil
}

// jumpToMax re-reads the true highest allocated number for the candidate's
// prefix and advances past it; when storage shows nothing higher, the
// candidate is bumped by one.
func (a *Allocator) jumpToMax(ctx context.Context, tenantID id.ID, candidate string) (string, error) {
	prefix, candVal, width, ok := splitNumber(candidate)
	if !ok {
		// Candidate without a numeric suffix cannot be advanced.
		return "", apperror.NewInternal(fmt.Errorf("candidate %q has no numeric suffix", candidate))
	}

	highest, err := a.index.HighestWithPrefix(ctx, tenantID, prefix)
	if err != nil {
		return "", fmt.Errorf("query highest for prefix %s: %w", prefix, err)
	}

	if highest != "" {
		if _, highVal, highWidth, ok := splitNumber(highest); ok && highVal >= candVal {
			if highWidth > width {
				width = highWidth
			}
			return formatCandidate(prefix, highVal+1, width), nil
		}
	}

	return formatCandidate(prefix, candVal+1, width), nil
}

func (a *Allocator) jitteredDelay() time.Duration {
	base := a.opts.RetryDelay
	// 50%..150% of base
	return base/2 + time.Duration(rand.Int63n(int64(base)))
}

// sleepCtx pauses for d, returning early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// splitNumber extracts the literal prefix, numeric suffix value and the
// suffix's zero-padded width from a document number.
func splitNumber(number string) (prefix string, val int64, width int, ok bool) {
	m := trailingDigits.FindStringSubmatch(number)
	if m == nil {
		return "", 0, 0, false
	}
	v, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	return m[1], v, len(m[2]), true
}

// maxBySuffix finds the maximum numeric suffix among samples sharing the
// shape (prefix and padding) of the newest parsable sample.
func maxBySuffix(numbers []string) (prefix string, maxVal int64, width int, found bool) {
	for _, n := range numbers {
		p, v, w, ok := splitNumber(n)
		if !ok {
			continue
		}
		if !found {
			prefix, maxVal, width, found = p, v, w, true
			continue
		}
		if p != prefix {
			continue
		}
		if v > maxVal {
			maxVal = v
			width = w
		}
	}
	return prefix, maxVal, width, found
}

// formatCandidate renders prefix + zero-padded value; the width grows
// naturally when the value outgrows the padding.
func formatCandidate(prefix string, val int64, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, val)
}
