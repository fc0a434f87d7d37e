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
	"github.com/jeanru/marian/backends"
	"github.com/jeanru/marian/tuner"
	"github.com/jeanru/marian/types/shapes"
)

// Matrix products and their adaptive dispatch. Dot and Affine pick between
// the general float kernel and the reduced-precision int16 kernel depending
// on the backend; Affine additionally lets a Tuner measure both paths and
// remember the faster one per operand-shape fingerprint.

// matMulShape infers the output shape of a (possibly transposed) matrix
// product. The inner dimensions must agree after the transposes are applied;
// leading (batch) dimensions are taken from a.
func matMulShape(opName string, a, b shapes.Shape, transA, transB bool) shapes.Shape {
	if a.Rank() < 2 || b.Rank() < 2 {
		Panicf("%s: operands must be at least rank 2, got %s and %s", opName, a, b)
	}
	shapeA := a.Clone()
	if transA {
		rank := shapeA.Rank()
		shapeA.Dimensions[rank-1], shapeA.Dimensions[rank-2] =
			shapeA.Dimensions[rank-2], shapeA.Dimensions[rank-1]
	}
	shapeB := b.Clone()
	if transB {
		rank := shapeB.Rank()
		shapeB.Dimensions[rank-1], shapeB.Dimensions[rank-2] =
			shapeB.Dimensions[rank-2], shapeB.Dimensions[rank-1]
	}
	if shapeA.Dim(-1) != shapeB.Dim(-2) {
		Panicf("%s: inner dimensions do not match for %s x %s (transA=%t, transB=%t)",
			opName, a, b, transA, transB)
	}
	out := shapeA
	out.Dimensions[out.Rank()-1] = shapeB.Dim(-1)
	return out
}

// Dot returns the matrix product a x b, transposing the last two axes of
// either operand first when the corresponding flag is set, and scaling the
// result by scale.
//
// On an optimized CPU backend the product is lowered to the reduced-precision
// int16 kernel; that kernel computes A·Bᵀ, so b is transposed when transB is
// false, not when it is true. Otherwise the operands are clipped to the
// backend's clip value and a general product node is built.
func Dot(a, b *Node, transA, transB bool, scale float32) *Node {
	g := validateBuildingGraphFromInputs(a, b)
	clipValue := g.Backend().Clip()

	if g.IsOptimized() && g.Device().Type == backends.CPU {
		lhs := a
		if transA {
			lhs = Transpose(a)
		}
		rhs := b
		if !transB {
			rhs = Transpose(b)
		}
		return DotInt16(QuantizeInt16(lhs, clipValue), QuantizeInt16(rhs, clipValue), scale)
	}

	shape := matMulShape("Dot", a.shape, b.shape, transA, transB)
	inputs := &nodeInputsDot{nodeType: NodeTypeDot, transA: transA, transB: transB, scale: scale}
	return newNode(g, shape, inputs, []*Node{Clip(a, clipValue), Clip(b, clipValue)})
}

// Bdot returns the batched matrix product a x b: the last two axes are
// multiplied, the leading axes must match and are carried over. There is no
// reduced-precision path for batched products.
func Bdot(a, b *Node, transA, transB bool, scale float32) *Node {
	g := validateBuildingGraphFromInputs(a, b)
	if a.Rank() != b.Rank() {
		Panicf("Bdot: operands must have the same rank, got %s and %s", a.shape, b.shape)
	}
	for ii := 0; ii < a.Rank()-2; ii++ {
		if a.shape.Dimensions[ii] != b.shape.Dimensions[ii] {
			Panicf("Bdot: batch dimensions do not match for %s and %s", a.shape, b.shape)
		}
	}
	shape := matMulShape("Bdot", a.shape, b.shape, transA, transB)
	inputs := &nodeInputsDot{nodeType: NodeTypeDotBatched, transA: transA, transB: transB, scale: scale}
	return newNode(g, shape, inputs, []*Node{a, b})
}

// Affine returns a x b + bias, with the same transpose and scale semantics
// as Dot. bias must be broadcast-compatible with the product's shape.
//
// On an optimized CPU backend the two candidate implementations (the int16
// kernel and the general float kernel) are measured against each other with
// a throwaway Tuner. Use AffineWithTuner to keep the measured choice across
// calls.
func Affine(a, b, bias *Node, transA, transB bool, scale float32) *Node {
	g := validateBuildingGraphFromInputs(a, b, bias)
	if g.IsOptimized() && g.Device().Type == backends.CPU {
		return AffineWithTuner(tuner.New[*Node](), a, b, bias, transA, transB, scale)
	}
	return affineGeneral(a, b, bias, transA, transB, scale)
}

// AffineWithTuner is Affine with a caller-owned Tuner: the first call for a
// given operand-shape fingerprint measures both candidate implementations,
// later calls replay the faster one. On a backend without the
// reduced-precision path there is nothing to choose between and the tuner is
// not consulted.
func AffineWithTuner(t *tuner.Tuner[*Node], a, b, bias *Node, transA, transB bool, scale float32) *Node {
	g := validateBuildingGraphFromInputs(a, b, bias)
	if !g.IsOptimized() || g.Device().Type != backends.CPU {
		return affineGeneral(a, b, bias, transA, transB, scale)
	}

	// Candidates are re-registered per call; measurements persist.
	t.Clear()
	return affineAutotuned(t, a, b, bias, transA, transB, scale)
}

// affineAutotuned registers the int16 and the general float candidate under
// the fingerprint of the current operand shapes and runs the tuner's
// selection.
func affineAutotuned(t *tuner.Tuner[*Node], a, b, bias *Node, transA, transB bool, scale float32) *Node {
	g := a.Graph()
	clipValue := g.Backend().Clip()

	// Fingerprint of the call context. Dimensions are coarsened so that
	// near-identical shapes (varying batch or length) share a choice.
	hash := coarseShapeHash(a.shape)
	hash = shapes.HashCombine(hash, coarseShapeHash(b.shape))
	hash = shapes.HashCombine(hash, coarseShapeHash(bias.shape))
	hash = shapes.HashCombine(hash, boolHash(transA))
	hash = shapes.HashCombine(hash, boolHash(transB))

	// First candidate: reduced-precision int16 kernel.
	hash1 := shapes.HashCombine(hash, 1)
	rec1 := func(e *Node, final bool) *Node {
		return e.Record(t, hash1, final)
	}
	t.Insert(hash, func() *Node {
		lhs := a
		if transA {
			lhs = rec1(Transpose(a), false)
		}
		rhs := b
		if !transB {
			rhs = Transpose(b)
		}
		return rec1(
			AffineInt16(
				rec1(QuantizeInt16(lhs, clipValue), false),
				QuantizeInt16(rhs, clipValue),
				bias,
				scale),
			true)
	})

	// Second candidate: general float kernel.
	hash2 := shapes.HashCombine(hash, 2)
	rec2 := func(e *Node, final bool) *Node {
		return e.Record(t, hash2, final)
	}
	t.Insert(hash, func() *Node {
		ac := Clip(a, clipValue)
		if ac != a {
			ac = rec2(ac, false)
		}
		bc := Clip(b, clipValue)
		if bc != b {
			bc = rec2(bc, false)
		}
		return rec2(affineNode(ac, bc, bias, transA, transB, scale), true)
	})

	return t.Run(hash)
}

// affineGeneral builds the general float affine node, clipping the operands
// to the backend's clip value first.
func affineGeneral(a, b, bias *Node, transA, transB bool, scale float32) *Node {
	clipValue := a.Graph().Backend().Clip()
	return affineNode(Clip(a, clipValue), Clip(b, clipValue), bias, transA, transB, scale)
}

// affineNode builds the 4-input affine node [a, b, bias, ones]: the all-ones
// column with one row per row of a lets the kernel fold the bias addition
// into the matrix product itself.
func affineNode(a, b, bias *Node, transA, transB bool, scale float32) *Node {
	g := validateBuildingGraphFromInputs(a, b, bias)
	shape := matMulShape("Affine", a.shape, b.shape, transA, transB)
	if !shapes.BroadcastCompatible(shape, bias.shape) {
		Panicf("Affine: bias shape %s is not broadcast-compatible with product shape %s", bias.shape, shape)
	}
	rows := a.shape.Size() / a.shape.Dim(-1)
	ones := g.Ones(shapes.Make(rows, 1))
	inputs := &nodeInputsAffine{transA: transA, transB: transB, scale: scale}
	return newNode(g, shape, inputs, []*Node{a, b, bias, ones})
}

// coarseShapeHash hashes the shape with every dimension divided by 4,
// reducing fingerprint sparsity so that shapes differing only slightly map
// to the same tuning context.
func coarseShapeHash(s shapes.Shape) uint64 {
	coarse := s.Clone()
	for ii := range coarse.Dimensions {
		coarse.Dimensions[ii] /= 4
	}
	return coarse.Hash()
}

func boolHash(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
