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

package graph

import (
	. "github.com/gomlx/exceptions"
	"github.com/jeanru/marian/types/shapes"
)

// Shape manipulation: reshape, transpose, concatenate and friends. These
// never copy data; they construct nodes describing the re-interpretation.

// Reshape reinterprets a with the given dimensions. The element count must
// be preserved.
func Reshape(a *Node, dimensions ...int) *Node {
	g := validateBuildingGraphFromInputs(a)
	shape := shapes.Make(dimensions...)
	if shape.Size() != a.shape.Size() {
		Panicf("Reshape(%s -> %s): element count mismatch (%d != %d)",
			a.shape, shape, a.shape.Size(), shape.Size())
	}
	return newNode(g, shape, &nodeInputsReshape{shape: shape}, []*Node{a})
}

// Flatten reshapes a to rank 1, preserving the element count.
func Flatten(a *Node) *Node {
	return Reshape(a, a.Shape().Size())
}

// Flatten2D reshapes a to rank 2, keeping the last dimension and collapsing
// all the leading ones.
func Flatten2D(a *Node) *Node {
	lastDim := a.Shape().Dim(-1)
	return Reshape(a, a.Shape().Size()/lastDim, lastDim)
}

// AtLeastND returns a if its rank is already >= n; otherwise it reshapes a,
// left-padding the shape with 1s until rank n, keeping the existing
// dimensions aligned to the right. No data is copied.
func AtLeastND(a *Node, n int) *Node {
	a.AssertValid()
	if a.Rank() >= n {
		return a
	}
	dims := make([]int, n)
	for ii := range dims {
		dims[ii] = 1
	}
	copy(dims[n-a.Rank():], a.shape.Dimensions)
	return Reshape(a, dims...)
}

// AtLeast1D is AtLeastND with n=1.
func AtLeast1D(a *Node) *Node { return AtLeastND(a, 1) }

// AtLeast2D is AtLeastND with n=2.
func AtLeast2D(a *Node) *Node { return AtLeastND(a, 2) }

// AtLeast3D is AtLeastND with n=3.
func AtLeast3D(a *Node) *Node { return AtLeastND(a, 3) }

// AtLeast4D is AtLeastND with n=4.
func AtLeast4D(a *Node) *Node { return AtLeastND(a, 4) }

// Transpose swaps the last two axes of a. For rank < 2 the permutation is
// the identity.
func Transpose(a *Node) *Node {
	a.AssertValid()
	axes := make([]int, a.Rank())
	for ii := range axes {
		axes[ii] = ii
	}
	if len(axes) > 1 {
		axes[len(axes)-1] = len(axes) - 2
		axes[len(axes)-2] = len(axes) - 1
	}
	return TransposeAxes(a, axes...)
}

// TransposeAxes permutes the axes of a: output axis ii takes its dimension
// from input axis axes[ii]. axes must be a permutation of [0, rank).
func TransposeAxes(a *Node, axes ...int) *Node {
	g := validateBuildingGraphFromInputs(a)
	rank := a.Rank()
	if len(axes) != rank {
		Panicf("TransposeAxes: got %d axes for shape %s (rank %d)", len(axes), a.shape, rank)
	}
	seen := make([]bool, rank)
	dims := make([]int, rank)
	for ii, axis := range axes {
		if axis < 0 || axis >= rank || seen[axis] {
			Panicf("TransposeAxes: axes %v is not a permutation of [0, %d)", axes, rank)
		}
		seen[axis] = true
		dims[ii] = a.shape.Dimensions[axis]
	}
	perm := make([]int, rank)
	copy(perm, axes)
	return newNode(g, shapes.Shape{Dimensions: dims}, &nodeInputsTranspose{permutation: perm}, []*Node{a})
}

// SwapAxes exchanges two axes of x, resolving negative axis indices. If both
// resolve to the same axis, x is returned unchanged. Otherwise it builds the
// corresponding permutation and transposes -- there is no dedicated
// two-axis-swap kernel.
func SwapAxes(x *Node, axis1, axis2 int) *Node {
	x.AssertValid()
	axis1 = x.shape.Axis(axis1)
	axis2 = x.shape.Axis(axis2)
	if axis1 == axis2 {
		return x
	}
	axes := make([]int, x.Rank())
	for ii := range axes {
		axes[ii] = ii
	}
	axes[axis1], axes[axis2] = axes[axis2], axes[axis1]
	return TransposeAxes(x, axes...)
}

// Concatenate joins the given nodes along the axis (resolved against the
// first node). All nodes must share rank and dimensions, except along the
// concatenation axis.
func Concatenate(nodes []*Node, axis int) *Node {
	g := validateBuildingGraphFromInputs(nodes...)
	first := nodes[0]
	resolved := first.shape.Axis(axis)
	dims := first.shape.Clone().Dimensions
	for ii, node := range nodes[1:] {
		if node.Rank() != first.Rank() {
			Panicf("Concatenate: node #%d has rank %d, want %d", ii+1, node.Rank(), first.Rank())
		}
		for jj, dim := range node.shape.Dimensions {
			if jj == resolved {
				dims[jj] += dim
				continue
			}
			if dim != first.shape.Dimensions[jj] {
				Panicf("Concatenate: node #%d has shape %s, incompatible with %s along axis %d",
					ii+1, node.shape, first.shape, resolved)
			}
		}
	}
	return newNode(g, shapes.Shape{Dimensions: dims}, &nodeInputsConcatenate{axis: resolved}, nodes)
}

// Repeat concatenates n copies of a along the axis. Repeat(a, 1, axis)
// returns a unchanged.
func Repeat(a *Node, n int, axis int) *Node {
	a.AssertValid()
	if n < 1 {
		Panicf("Repeat: n must be >= 1, got %d", n)
	}
	if n == 1 {
		return a
	}
	nodes := make([]*Node, n)
	for ii := range nodes {
		nodes[ii] = a
	}
	return Concatenate(nodes, axis)
}

// Shift moves the values of a by the given offset along each axis, padding
// vacated positions with padValue. One offset per axis is required; the
// shape is unchanged.
func Shift(a *Node, offsets []int, padValue float32) *Node {
	g := validateBuildingGraphFromInputs(a)
	if len(offsets) != a.Rank() {
		Panicf("Shift: got %d offsets for shape %s (rank %d)", len(offsets), a.shape, a.Rank())
	}
	inputs := &nodeInputsShift{offsets: append([]int(nil), offsets...), padValue: padValue}
	return newNode(g, a.shape.Clone(), inputs, []*Node{a})
}

// Step selects index step along the axis, keeping the axis with dimension 1.
func Step(a *Node, step, axis int) *Node {
	g := validateBuildingGraphFromInputs(a)
	resolved := a.shape.Axis(axis)
	if step < 0 || step >= a.shape.Dimensions[resolved] {
		Panicf("Step: index %d out of range for axis %d of shape %s", step, resolved, a.shape)
	}
	shape := a.shape.Clone()
	shape.Dimensions[resolved] = 1
	return newNode(g, shape, &nodeInputsStep{step: step, axis: resolved}, []*Node{a})
}
