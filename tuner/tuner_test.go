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

package tuner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMeasuresEveryCandidateOnce(t *testing.T) {
	tn := New[int]()
	const fp = uint64(0x1234)
	var calls [2]int
	tn.Insert(fp, func() int { calls[0]++; time.Sleep(2 * time.Millisecond); return 10 })
	tn.Insert(fp, func() int { calls[1]++; return 20 })

	got := tn.Run(fp)
	assert.Equal(t, 1, calls[0], "every candidate must be measured exactly once")
	assert.Equal(t, 1, calls[1])
	assert.Equal(t, 20, got, "the faster candidate's result must be returned")
	assert.True(t, tn.IsResolved(fp))
}

func TestRunReplaysResolvedWinner(t *testing.T) {
	tn := New[int]()
	const fp = uint64(0x42)
	var slow, fast int
	insert := func() {
		tn.Insert(fp, func() int { slow++; time.Sleep(2 * time.Millisecond); return 1 })
		tn.Insert(fp, func() int { fast++; return 2 })
	}
	insert()
	require.Equal(t, 2, tn.Run(fp))

	// Clear keeps the resolved choice; after re-inserting candidates, only
	// the winner runs again.
	tn.Clear()
	assert.Equal(t, 0, tn.NumCandidates(fp))
	insert()
	require.Equal(t, 2, tn.Run(fp))
	assert.Equal(t, 1, slow, "loser must not be re-measured")
	assert.Equal(t, 2, fast)
}

func TestResetDiscardsChoices(t *testing.T) {
	tn := New[int]()
	const fp = uint64(7)
	tn.Insert(fp, func() int { return 1 })
	tn.Run(fp)
	require.True(t, tn.IsResolved(fp))

	tn.Reset()
	assert.False(t, tn.IsResolved(fp))
	assert.Equal(t, 0, tn.NumCandidates(fp))
}

func TestRunWithoutCandidatesPanics(t *testing.T) {
	tn := New[int]()
	require.Panics(t, func() { tn.Run(123) })

	_, err := tn.RunErr(123)
	require.Error(t, err)
}

func TestCandidatePanicsPropagate(t *testing.T) {
	tn := New[int]()
	const fp = uint64(9)
	boom := "candidate exploded"
	tn.Insert(fp, func() int { panic(boom) })

	defer func() {
		r := recover()
		require.Equal(t, boom, r, "candidate failures must propagate unmodified")
		assert.False(t, tn.IsResolved(fp))
	}()
	tn.Run(fp)
}

func TestRecordClosesTimingWindow(t *testing.T) {
	tn := New[int]()
	const fp = uint64(0xabc)
	// The candidate marks its final node, then keeps working: the extra time
	// must not count against it.
	tn.Insert(fp, func() int {
		tn.Record(1, true)
		time.Sleep(5 * time.Millisecond)
		return 1
	})
	tn.Insert(fp, func() int {
		time.Sleep(2 * time.Millisecond)
		return 2
	})
	got := tn.Run(fp)
	assert.Equal(t, 1, got)
}

func TestRecordOutsideMeasurementIsIgnored(t *testing.T) {
	tn := New[int]()
	assert.NotPanics(t, func() { tn.Record(1, true) })
}

func TestFingerprintsAreIndependent(t *testing.T) {
	tn := New[int]()
	tn.Insert(1, func() int { return 10 })
	tn.Insert(2, func() int { return 20 })
	assert.Equal(t, 10, tn.Run(1))
	assert.Equal(t, 20, tn.Run(2))
	assert.True(t, tn.IsResolved(1))
	assert.True(t, tn.IsResolved(2))
}
