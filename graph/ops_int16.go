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

// Reduced-precision int16 primitives. These are the CPU fast path behind Dot
// and Affine on an optimized backend; they can also be composed directly
// when the caller manages quantization itself.
//
// Both product kernels compute A·Bᵀ, so the second operand is expected
// already transposed relative to the mathematical product. Dot and Affine
// handle that inversion when they lower to these primitives.

// QuantizeInt16 converts a to the reduced-precision int16 representation.
// When clip is non-zero the values are clipped to [-clip, clip] first, which
// bounds the quantization range. The shape is unchanged.
func QuantizeInt16(a *Node, clip float32) *Node {
	g := validateBuildingGraphFromInputs(a)
	return newNode(g, a.shape.Clone(), &nodeInputsQuantizeInt16{clip: clip}, []*Node{a})
}

// DotInt16 returns the reduced-precision product qa·qbᵀ scaled by scale.
// Both operands must be quantized; their last dimensions must match, and the
// output takes qb's second-to-last dimension as its last.
func DotInt16(qa, qb *Node, scale float32) *Node {
	g := validateBuildingGraphFromInputs(qa, qb)
	shape := int16ProductShape("DotInt16", qa, qb)
	inputs := &nodeInputsInt16Product{nodeType: NodeTypeDotInt16, scale: scale}
	return newNode(g, shape, inputs, []*Node{qa, qb})
}

// AffineInt16 returns the reduced-precision product qa·qbᵀ scaled by scale,
// plus bias. bias is not quantized; it must be broadcast-compatible with the
// product's shape.
func AffineInt16(qa, qb, bias *Node, scale float32) *Node {
	g := validateBuildingGraphFromInputs(qa, qb, bias)
	shape := int16ProductShape("AffineInt16", qa, qb)
	if !shapes.BroadcastCompatible(shape, bias.shape) {
		Panicf("AffineInt16: bias shape %s is not broadcast-compatible with product shape %s",
			bias.shape, shape)
	}
	inputs := &nodeInputsInt16Product{nodeType: NodeTypeAffineInt16, scale: scale}
	return newNode(g, shape, inputs, []*Node{qa, qb, bias})
}

func int16ProductShape(opName string, qa, qb *Node) shapes.Shape {
	if qa.Rank() < 2 || qb.Rank() < 2 {
		Panicf("%s: operands must be at least rank 2, got %s and %s", opName, qa.shape, qb.shape)
	}
	if qa.shape.Dim(-1) != qb.shape.Dim(-1) {
		Panicf("%s: inner dimensions do not match for %s x %sᵀ", opName, qa.shape, qb.shape)
	}
	shape := qa.shape.Clone()
	shape.Dimensions[shape.Rank()-1] = qb.shape.Dim(-2)
	return shape
}
