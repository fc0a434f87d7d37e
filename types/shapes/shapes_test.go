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

package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	s := Make(2, 3, 4)
	assert.Equal(t, 3, s.Rank())
	assert.Equal(t, 24, s.Size())
	assert.Equal(t, "[2 3 4]", s.String())

	scalar := Scalar()
	assert.Equal(t, 0, scalar.Rank())
	assert.Equal(t, 1, scalar.Size())
	assert.True(t, scalar.IsScalar())

	require.Panics(t, func() { Make(2, 0, 4) }, "size-0 dimensions are not supported")
	require.Panics(t, func() { Make(-1) })
}

func TestAxis(t *testing.T) {
	s := Make(5, 6, 7)
	assert.Equal(t, 2, s.Axis(-1))
	assert.Equal(t, 0, s.Axis(-3))
	assert.Equal(t, 1, s.Axis(1))
	assert.Equal(t, 7, s.Dim(-1))
	assert.Equal(t, 5, s.Dim(0))

	require.Panics(t, func() { s.Axis(3) })
	require.Panics(t, func() { s.Axis(-4) })
}

func TestEqAndClone(t *testing.T) {
	s := Make(2, 3)
	c := s.Clone()
	assert.True(t, s.Eq(c))
	c.Dimensions[0] = 7
	assert.False(t, s.Eq(c), "Clone must be a deep copy")
	assert.False(t, s.Eq(Make(2, 3, 1)))
	assert.True(t, Scalar().Eq(Shape{}))
}

func TestBroadcast(t *testing.T) {
	testCases := []struct {
		a, b       Shape
		compatible bool
		want       Shape
	}{
		{Make(2, 3), Make(2, 3), true, Make(2, 3)},
		{Make(2, 3), Make(3), true, Make(2, 3)},
		{Make(2, 1), Make(1, 3), true, Make(2, 3)},
		{Make(4, 1, 3), Make(2, 1), true, Make(4, 2, 3)},
		{Make(2, 3), Scalar(), true, Make(2, 3)},
		{Make(2, 3), Make(2, 4), false, Shape{}},
		{Make(2, 3), Make(3, 3), false, Shape{}},
	}
	for _, tc := range testCases {
		assert.Equalf(t, tc.compatible, BroadcastCompatible(tc.a, tc.b), "BroadcastCompatible(%s, %s)", tc.a, tc.b)
		assert.Equalf(t, tc.compatible, BroadcastCompatible(tc.b, tc.a), "BroadcastCompatible(%s, %s)", tc.b, tc.a)
		if tc.compatible {
			got := Broadcast(tc.a, tc.b)
			assert.Truef(t, got.Eq(tc.want), "Broadcast(%s, %s): got %s, want %s", tc.a, tc.b, got, tc.want)
		} else {
			require.Panicsf(t, func() { Broadcast(tc.a, tc.b) }, "Broadcast(%s, %s)", tc.a, tc.b)
		}
	}
}

func TestHash(t *testing.T) {
	a := Make(32, 64)
	b := Make(32, 64)
	c := Make(64, 32)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())

	// Rank must participate: [2 3] vs [1 2 3] must differ even though a
	// trailing-aligned read would look similar.
	assert.NotEqual(t, Make(2, 3).Hash(), Make(1, 2, 3).Hash())

	seed := a.Hash()
	assert.NotEqual(t, HashCombine(seed, 1), HashCombine(seed, 2))
	assert.Equal(t, HashCombine(seed, 1), HashCombine(seed, 1))
}
