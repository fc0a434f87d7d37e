/*
 *	Copyright 2024 The Marian-Go Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package tuner implements adaptive selection among semantically-equivalent
// algorithm variants.
//
// Several candidate implementations of the same logical operation are
// registered under a fingerprint -- a hash derived from the coarsened operand
// shapes and operation flags. The first time a fingerprint is run, every
// candidate is executed once, sequentially, and wall-clock timed; the fastest
// one wins and its result is returned. Subsequent runs of the same
// fingerprint replay the winner directly, without re-measuring.
//
// A Tuner is an explicit selection context owned by the caller; there is no
// hidden global or thread-local state. It is not safe for concurrent use:
// each worker owns its own Tuner, which also means measured timings are not
// shared between workers.
package tuner

import (
	"time"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Recorder receives timing-attribution marks from the nodes a candidate
// creates. A candidate tags every intermediate node it builds with its
// per-candidate hash, marking the last one final, so that timing boundaries
// remain attributable to the correct candidate.
type Recorder interface {
	Record(hash uint64, final bool)
}

// Candidate is one deferred algorithm variant: invoking it both performs the
// operation and returns its result.
type Candidate[T any] func() T

// selection holds the per-fingerprint state machine: unseen (no entry) ->
// measuring -> resolved.
type selection struct {
	resolved bool
	winner   int // Ordinal of the winning candidate.
	timings  []time.Duration
}

// Tuner selects among candidate algorithms per fingerprint.
//
// Candidates must be re-registered (Insert) for every outer operation
// invocation, after a Clear; measurements and resolved choices survive Clear
// and live for the lifetime of the Tuner, so a fingerprint measured once is
// replayed cheaply on later invocations.
type Tuner[T any] struct {
	candidates map[uint64][]Candidate[T]
	selections map[uint64]*selection

	// Stopwatch state for the candidate currently being measured.
	measuring     bool
	measureStart  time.Time
	measureStop   time.Duration
	measureClosed bool
}

// New creates an empty Tuner. The caller owns it; scope one per outer
// operation invocation, or share one across calls to reuse measurements.
func New[T any]() *Tuner[T] {
	return &Tuner[T]{
		candidates: make(map[uint64][]Candidate[T]),
		selections: make(map[uint64]*selection),
	}
}

// Clear discards all registered candidates, so a new set can be inserted for
// the next invocation. Resolved choices and timings are kept: re-measuring
// every call would defeat the cache, and the fingerprint already encodes the
// shapes the choice depends on.
func (t *Tuner[T]) Clear() {
	clear(t.candidates)
}

// Reset discards candidates and all cached choices and timings, returning
// the Tuner to its initial state.
func (t *Tuner[T]) Reset() {
	clear(t.candidates)
	clear(t.selections)
}

// Insert registers one candidate algorithm under the fingerprint. Multiple
// candidates inserted under the same fingerprint compete; their ordinal is
// the insertion order.
func (t *Tuner[T]) Insert(fingerprint uint64, candidate Candidate[T]) {
	t.candidates[fingerprint] = append(t.candidates[fingerprint], candidate)
}

// NumCandidates returns how many candidates are currently registered under
// the fingerprint.
func (t *Tuner[T]) NumCandidates(fingerprint uint64) int {
	return len(t.candidates[fingerprint])
}

// IsResolved reports whether a winner has already been selected for the
// fingerprint.
func (t *Tuner[T]) IsResolved(fingerprint uint64) bool {
	sel := t.selections[fingerprint]
	return sel != nil && sel.resolved
}

// Record implements Recorder. During a measurement, a final mark closes the
// timing window at the point the candidate's result node is created; marks
// arriving outside a measurement are ignored.
func (t *Tuner[T]) Record(hash uint64, final bool) {
	if !t.measuring || !final {
		return
	}
	t.measureStop = time.Since(t.measureStart)
	t.measureClosed = true
	_ = hash // Attribution is positional: candidates run strictly one at a time.
}

// Run executes the selection for the fingerprint and returns the winning
// candidate's result.
//
// For an unresolved fingerprint every registered candidate is executed once,
// strictly sequentially, and wall-clock timed; the minimum wins. For a
// resolved fingerprint the winner is re-invoked directly. A candidate failure
// (panic) propagates unmodified -- the Tuner does not mask candidate errors.
//
// Run panics if no candidate is registered under the fingerprint: that is a
// programmer error.
func (t *Tuner[T]) Run(fingerprint uint64) T {
	candidates := t.candidates[fingerprint]
	if len(candidates) == 0 {
		exceptions.Panicf("tuner: no candidate algorithm registered for fingerprint %#x", fingerprint)
	}

	sel := t.selections[fingerprint]
	if sel != nil && sel.resolved {
		if sel.winner >= len(candidates) {
			exceptions.Panicf("tuner: fingerprint %#x resolved to candidate #%d, but only %d candidates are registered",
				fingerprint, sel.winner, len(candidates))
		}
		return candidates[sel.winner]()
	}

	sel = &selection{timings: make([]time.Duration, len(candidates))}
	t.selections[fingerprint] = sel

	var result T
	best := -1
	for ordinal, candidate := range candidates {
		value, elapsed := t.measure(candidate)
		sel.timings[ordinal] = elapsed
		if best < 0 || elapsed < sel.timings[best] {
			best = ordinal
			result = value
		}
		klog.V(1).Infof("tuner: fingerprint %#x candidate #%d took %s", fingerprint, ordinal, elapsed)
	}
	sel.winner = best
	sel.resolved = true
	klog.V(1).Infof("tuner: fingerprint %#x resolved to candidate #%d", fingerprint, best)
	return result
}

// RunErr is like Run, but returns an error instead of panicking when no
// candidate is registered. Candidate panics still propagate unmodified.
func (t *Tuner[T]) RunErr(fingerprint uint64) (value T, err error) {
	if len(t.candidates[fingerprint]) == 0 {
		err = errors.Errorf("tuner: no candidate algorithm registered for fingerprint %#x", fingerprint)
		return
	}
	return t.Run(fingerprint), nil
}

// measure invokes one candidate with the stopwatch running. If the candidate
// marked a final node through Record, the window closes there; otherwise it
// closes when the candidate returns.
func (t *Tuner[T]) measure(candidate Candidate[T]) (value T, elapsed time.Duration) {
	t.measuring = true
	t.measureClosed = false
	t.measureStart = time.Now()
	defer func() {
		// Leave the stopwatch clean even if the candidate panics; the panic
		// itself propagates unmodified.
		t.measuring = false
	}()
	value = candidate()
	if t.measureClosed {
		elapsed = t.measureStop
	} else {
		elapsed = time.Since(t.measureStart)
	}
	return
}
