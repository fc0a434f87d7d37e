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
	"fmt"
	"slices"

	"github.com/jeanru/marian/types/shapes"
)

// The nodeInputs<Op> structs below are the concrete members of the
// NodeInputs tagged variant. Each carries the scalar parameters of one
// operation kind; the input expressions themselves live in Node.inputNodes.

// nodeInputsParameter is a named graph input.
type nodeInputsParameter struct {
	name string
}

func (ni *nodeInputsParameter) Type() NodeType { return NodeTypeParameter }
func (ni *nodeInputsParameter) String() string { return fmt.Sprintf("Parameter(%q)", ni.name) }

// Parameters are never deduplicated structurally; Graph.Parameter caches
// them by name instead.
func (ni *nodeInputsParameter) equal(NodeInputs) bool { return false }

// nodeInputsConstant is a tensor filled with a single value.
type nodeInputsConstant struct {
	shape shapes.Shape
	value float32
}

func (ni *nodeInputsConstant) Type() NodeType { return NodeTypeConstant }
func (ni *nodeInputsConstant) String() string {
	return fmt.Sprintf("Constant(%s, %g)", ni.shape, ni.value)
}
func (ni *nodeInputsConstant) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsConstant)
	return ok && o.value == ni.value && o.shape.Eq(ni.shape)
}

// nodeInputsIndices is a rank-1 integer index tensor.
type nodeInputsIndices struct {
	indices []int32
}

func (ni *nodeInputsIndices) Type() NodeType { return NodeTypeIndices }
func (ni *nodeInputsIndices) String() string { return fmt.Sprintf("Indices(%v)", ni.indices) }
func (ni *nodeInputsIndices) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsIndices)
	return ok && slices.Equal(o.indices, ni.indices)
}

// Indices returns the concrete index list of a NodeTypeIndices node.
func (ni *nodeInputsIndices) Indices() []int32 { return ni.indices }

// nodeInputsUnary covers the parameter-free element-wise unary operations
// and the normalizing operations that only depend on their input (Sigmoid,
// Relu, Log, Exp, Swish, Neg, Square, Tanh, Softmax, LogSoftmax, Highway).
type nodeInputsUnary struct {
	nodeType NodeType
}

func (ni *nodeInputsUnary) Type() NodeType { return ni.nodeType }
func (ni *nodeInputsUnary) String() string { return ni.nodeType.String() }
func (ni *nodeInputsUnary) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsUnary)
	return ok && o.nodeType == ni.nodeType
}

// nodeInputsPRelu is a parametric rectifier: x when x > 0, alpha*x otherwise.
type nodeInputsPRelu struct {
	alpha float32
}

func (ni *nodeInputsPRelu) Type() NodeType { return NodeTypePRelu }
func (ni *nodeInputsPRelu) String() string { return fmt.Sprintf("PRelu(alpha=%g)", ni.alpha) }
func (ni *nodeInputsPRelu) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsPRelu)
	return ok && o.alpha == ni.alpha
}

// nodeInputsClip clips values to [-value, value].
type nodeInputsClip struct {
	value float32
}

func (ni *nodeInputsClip) Type() NodeType { return NodeTypeClip }
func (ni *nodeInputsClip) String() string { return fmt.Sprintf("Clip(%g)", ni.value) }
func (ni *nodeInputsClip) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsClip)
	return ok && o.value == ni.value
}

// nodeInputsSqrt computes sqrt(x + epsilon).
type nodeInputsSqrt struct {
	epsilon float32
}

func (ni *nodeInputsSqrt) Type() NodeType { return NodeTypeSqrt }
func (ni *nodeInputsSqrt) String() string { return fmt.Sprintf("Sqrt(eps=%g)", ni.epsilon) }
func (ni *nodeInputsSqrt) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsSqrt)
	return ok && o.epsilon == ni.epsilon
}

// nodeInputsBinary covers the parameter-free element-wise binary operations
// (Add, Sub, Mul, Div, LogAddExp, Maximum, Minimum) and the parameter-free
// two-input gathers (Rows, Cols, CrossEntropy).
type nodeInputsBinary struct {
	nodeType NodeType
}

func (ni *nodeInputsBinary) Type() NodeType { return ni.nodeType }
func (ni *nodeInputsBinary) String() string { return ni.nodeType.String() }
func (ni *nodeInputsBinary) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsBinary)
	return ok && o.nodeType == ni.nodeType
}

// nodeInputsScalarOp combines a tensor with one scalar (ScalarAdd,
// ScalarMul). No constant tensor is materialized for the scalar.
type nodeInputsScalarOp struct {
	nodeType NodeType
	scalar   float32
}

func (ni *nodeInputsScalarOp) Type() NodeType { return ni.nodeType }
func (ni *nodeInputsScalarOp) String() string {
	return fmt.Sprintf("%s(%g)", ni.nodeType, ni.scalar)
}
func (ni *nodeInputsScalarOp) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsScalarOp)
	return ok && o.nodeType == ni.nodeType && o.scalar == ni.scalar
}

// nodeInputsReshape reinterprets the input with a new shape of the same
// element count.
type nodeInputsReshape struct {
	shape shapes.Shape
}

func (ni *nodeInputsReshape) Type() NodeType { return NodeTypeReshape }
func (ni *nodeInputsReshape) String() string { return fmt.Sprintf("Reshape(%s)", ni.shape) }
func (ni *nodeInputsReshape) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsReshape)
	return ok && o.shape.Eq(ni.shape)
}

// nodeInputsTranspose permutes the axes of the input.
type nodeInputsTranspose struct {
	permutation []int
}

func (ni *nodeInputsTranspose) Type() NodeType { return NodeTypeTranspose }
func (ni *nodeInputsTranspose) String() string {
	return fmt.Sprintf("Transpose(%v)", ni.permutation)
}
func (ni *nodeInputsTranspose) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsTranspose)
	return ok && slices.Equal(o.permutation, ni.permutation)
}

// nodeInputsConcatenate joins its inputs along one axis.
type nodeInputsConcatenate struct {
	axis int
}

func (ni *nodeInputsConcatenate) Type() NodeType { return NodeTypeConcatenate }
func (ni *nodeInputsConcatenate) String() string {
	return fmt.Sprintf("Concatenate(axis=%d)", ni.axis)
}
func (ni *nodeInputsConcatenate) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsConcatenate)
	return ok && o.axis == ni.axis
}

// nodeInputsShift moves the input by the given per-axis offsets, padding
// vacated positions with padValue.
type nodeInputsShift struct {
	offsets  []int
	padValue float32
}

func (ni *nodeInputsShift) Type() NodeType { return NodeTypeShift }
func (ni *nodeInputsShift) String() string {
	return fmt.Sprintf("Shift(%v, pad=%g)", ni.offsets, ni.padValue)
}
func (ni *nodeInputsShift) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsShift)
	return ok && o.padValue == ni.padValue && slices.Equal(o.offsets, ni.offsets)
}

// nodeInputsStep selects one index along an axis, keeping the axis with
// dimension 1.
type nodeInputsStep struct {
	step int
	axis int
}

func (ni *nodeInputsStep) Type() NodeType { return NodeTypeStep }
func (ni *nodeInputsStep) String() string {
	return fmt.Sprintf("Step(%d, axis=%d)", ni.step, ni.axis)
}
func (ni *nodeInputsStep) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsStep)
	return ok && o.step == ni.step && o.axis == ni.axis
}

// nodeInputsReduce covers axis reductions (ReduceSum, ReduceMean). The
// reduced axis is kept with dimension 1.
type nodeInputsReduce struct {
	nodeType NodeType
	axis     int
}

func (ni *nodeInputsReduce) Type() NodeType { return ni.nodeType }
func (ni *nodeInputsReduce) String() string {
	return fmt.Sprintf("%s(axis=%d)", ni.nodeType, ni.axis)
}
func (ni *nodeInputsReduce) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsReduce)
	return ok && o.nodeType == ni.nodeType && o.axis == ni.axis
}

// nodeInputsScalarProduct multiplies its two inputs element-wise and sums
// over one axis.
type nodeInputsScalarProduct struct {
	axis int
}

func (ni *nodeInputsScalarProduct) Type() NodeType { return NodeTypeScalarProduct }
func (ni *nodeInputsScalarProduct) String() string {
	return fmt.Sprintf("ScalarProduct(axis=%d)", ni.axis)
}
func (ni *nodeInputsScalarProduct) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsScalarProduct)
	return ok && o.axis == ni.axis
}

// nodeInputsSelect gathers indexed slices along an axis.
type nodeInputsSelect struct {
	axis int
}

func (ni *nodeInputsSelect) Type() NodeType { return NodeTypeSelect }
func (ni *nodeInputsSelect) String() string { return fmt.Sprintf("Select(axis=%d)", ni.axis) }
func (ni *nodeInputsSelect) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsSelect)
	return ok && o.axis == ni.axis
}

// nodeInputsDot covers the general matrix products (Dot, DotBatched).
type nodeInputsDot struct {
	nodeType NodeType
	transA   bool
	transB   bool
	scale    float32
}

func (ni *nodeInputsDot) Type() NodeType { return ni.nodeType }
func (ni *nodeInputsDot) String() string {
	return fmt.Sprintf("%s(transA=%t, transB=%t, scale=%g)", ni.nodeType, ni.transA, ni.transB, ni.scale)
}
func (ni *nodeInputsDot) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsDot)
	return ok && o.nodeType == ni.nodeType && o.transA == ni.transA && o.transB == ni.transB && o.scale == ni.scale
}

// nodeInputsAffine is a matrix product with the bias folded in: inputs are
// [a, b, bias, ones], where the all-ones column turns the bias addition into
// part of the product.
type nodeInputsAffine struct {
	transA bool
	transB bool
	scale  float32
}

func (ni *nodeInputsAffine) Type() NodeType { return NodeTypeAffine }
func (ni *nodeInputsAffine) String() string {
	return fmt.Sprintf("Affine(transA=%t, transB=%t, scale=%g)", ni.transA, ni.transB, ni.scale)
}
func (ni *nodeInputsAffine) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsAffine)
	return ok && o.transA == ni.transA && o.transB == ni.transB && o.scale == ni.scale
}

// nodeInputsLayerNorm normalizes over the last axis; inputs are [x, gamma]
// or [x, gamma, beta] -- a missing beta means no bias.
type nodeInputsLayerNorm struct {
	epsilon float32
}

func (ni *nodeInputsLayerNorm) Type() NodeType { return NodeTypeLayerNorm }
func (ni *nodeInputsLayerNorm) String() string {
	return fmt.Sprintf("LayerNorm(eps=%g)", ni.epsilon)
}
func (ni *nodeInputsLayerNorm) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsLayerNorm)
	return ok && o.epsilon == ni.epsilon
}

// nodeInputsQuantizeInt16 converts to the reduced-precision representation,
// clipping to [-clip, clip] first (0 disables clipping).
type nodeInputsQuantizeInt16 struct {
	clip float32
}

func (ni *nodeInputsQuantizeInt16) Type() NodeType { return NodeTypeQuantizeInt16 }
func (ni *nodeInputsQuantizeInt16) String() string {
	return fmt.Sprintf("QuantizeInt16(clip=%g)", ni.clip)
}
func (ni *nodeInputsQuantizeInt16) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsQuantizeInt16)
	return ok && o.clip == ni.clip
}

// nodeInputsInt16Product covers the reduced-precision products (DotInt16,
// AffineInt16). The kernel computes A·Bᵀ.
type nodeInputsInt16Product struct {
	nodeType NodeType
	scale    float32
}

func (ni *nodeInputsInt16Product) Type() NodeType { return ni.nodeType }
func (ni *nodeInputsInt16Product) String() string {
	return fmt.Sprintf("%s(scale=%g)", ni.nodeType, ni.scale)
}
func (ni *nodeInputsInt16Product) equal(other NodeInputs) bool {
	o, ok := other.(*nodeInputsInt16Product)
	return ok && o.nodeType == ni.nodeType && o.scale == ni.scale
}
