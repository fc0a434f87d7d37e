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

// Package shapes defines Shape and associated tools.
//
// Shape describes the dimensionality of the value a node in a computation
// graph produces. It is created once, when the node is constructed, and is
// immutable thereafter -- derived shapes for new nodes are always computed
// fresh.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a tensor.
//   - Axis: the index of a dimension. Negative axes are valid addressing
//     syntax: -1 means the last axis, -2 the one before it, and so on.
//   - Dimension: the size of a tensor along one of its axes.
//   - Scalar: a shape with no axes, a single value.
package shapes

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
)

// Shape represents the shape of a tensor or of the expected value of a
// computation node.
//
// Use Make to create a new shape. The zero value is a valid scalar shape.
type Shape struct {
	Dimensions []int
}

// Make returns a Shape with the given dimensions. Every dimension must be
// at least 1 -- size-0 tensors are not supported. It panics otherwise.
func Make(dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions)}
	for _, dim := range dimensions {
		if dim < 1 {
			exceptions.Panicf("shapes.Make(%v): cannot create a shape with an axis with dimension < 1", dimensions)
		}
	}
	return s
}

// Scalar returns a rank-0 shape.
func Scalar() Shape {
	return Shape{}
}

// Rank returns the number of axes of the shape. Scalars have rank 0.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape has rank 0.
func (s Shape) IsScalar() bool { return s.Rank() == 0 }

// Size returns the total number of elements held by a tensor of this shape.
// Scalars have size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// Clone makes a deep copy of the shape.
func (s Shape) Clone() Shape {
	return Shape{Dimensions: slices.Clone(s.Dimensions)}
}

// Eq compares two shapes for equality: same rank and same dimensions.
func (s Shape) Eq(other Shape) bool {
	return slices.Equal(s.Dimensions, other.Dimensions)
}

// Axis resolves an axis index to the range [0, rank): negative values count
// from the end, so -1 is the last axis. It panics if the resolved index falls
// outside the shape's rank.
func (s Shape) Axis(axis int) int {
	adjusted := axis
	if axis < 0 {
		adjusted = s.Rank() + axis
	}
	if adjusted < 0 || adjusted >= s.Rank() {
		exceptions.Panicf("invalid axis %d for shape %s (rank %d)", axis, s, s.Rank())
	}
	return adjusted
}

// Dim returns the dimension of the given axis, resolving negative axes as
// Axis does.
func (s Shape) Dim(axis int) int {
	return s.Dimensions[s.Axis(axis)]
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	if s.IsScalar() {
		return "[]"
	}
	parts := make([]string, len(s.Dimensions))
	for ii, dim := range s.Dimensions {
		parts[ii] = fmt.Sprintf("%d", dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// BroadcastCompatible reports whether a and b can be combined element-wise:
// aligned from the trailing dimension, each pair of dimensions must be equal
// or one of them must be 1.
func BroadcastCompatible(a, b Shape) bool {
	rank := min(a.Rank(), b.Rank())
	for ii := 1; ii <= rank; ii++ {
		dimA := a.Dimensions[a.Rank()-ii]
		dimB := b.Dimensions[b.Rank()-ii]
		if dimA != dimB && dimA != 1 && dimB != 1 {
			return false
		}
	}
	return true
}

// Broadcast returns the shape resulting from combining a and b element-wise.
// It panics if the shapes are not broadcast-compatible.
func Broadcast(a, b Shape) Shape {
	if !BroadcastCompatible(a, b) {
		exceptions.Panicf("shapes %s and %s are not broadcast-compatible", a, b)
	}
	rank := max(a.Rank(), b.Rank())
	dims := make([]int, rank)
	for ii := 1; ii <= rank; ii++ {
		dim := 1
		if ii <= a.Rank() {
			dim = a.Dimensions[a.Rank()-ii]
		}
		if ii <= b.Rank() {
			dim = max(dim, b.Dimensions[b.Rank()-ii])
		}
		dims[rank-ii] = dim
	}
	return Shape{Dimensions: dims}
}

// Hash returns an FNV-1a hash of the shape's rank and dimensions.
func (s Shape) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(v uint64) {
		for ii := range buf {
			buf[ii] = byte(v >> (8 * ii))
		}
		_, _ = h.Write(buf[:])
	}
	write(uint64(s.Rank()))
	for _, dim := range s.Dimensions {
		write(uint64(dim))
	}
	return h.Sum64()
}

// HashCombine mixes value into seed. It mirrors the usual boost-style
// hash_combine formula.
func HashCombine(seed, value uint64) uint64 {
	return seed ^ (value + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}
