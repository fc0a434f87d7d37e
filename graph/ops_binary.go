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

// Element-wise binary operations over two expressions, with broadcasting,
// and their scalar variants. The scalar variants build a specialized
// tensor-with-scalar node instead of materializing a constant tensor -- with
// one exception, see ScalarDiv.

// newElementwiseBinary constructs a parameter-free binary node; the output
// shape is the broadcast of the two input shapes.
func newElementwiseBinary(nodeType NodeType, a, b *Node) *Node {
	g := validateBuildingGraphFromInputs(a, b)
	shape := shapes.Broadcast(a.shape, b.shape)
	return newNode(g, shape, &nodeInputsBinary{nodeType: nodeType}, []*Node{a, b})
}

// Add returns a+b, element-wise with broadcasting.
func Add(a, b *Node) *Node {
	return newElementwiseBinary(NodeTypeAdd, a, b)
}

// Sub returns a-b, element-wise with broadcasting.
func Sub(a, b *Node) *Node {
	return newElementwiseBinary(NodeTypeSub, a, b)
}

// Mul returns a*b, element-wise with broadcasting.
func Mul(a, b *Node) *Node {
	return newElementwiseBinary(NodeTypeMul, a, b)
}

// Div returns a/b, element-wise with broadcasting.
func Div(a, b *Node) *Node {
	return newElementwiseBinary(NodeTypeDiv, a, b)
}

// LogAddExp returns log(exp(a)+exp(b)), element-wise with broadcasting,
// computed in a numerically stable way by the kernel.
func LogAddExp(a, b *Node) *Node {
	return newElementwiseBinary(NodeTypeLogAddExp, a, b)
}

// Maximum returns max(a, b), element-wise with broadcasting.
func Maximum(a, b *Node) *Node {
	return newElementwiseBinary(NodeTypeMaximum, a, b)
}

// Minimum returns min(a, b), element-wise with broadcasting.
func Minimum(a, b *Node) *Node {
	return newElementwiseBinary(NodeTypeMinimum, a, b)
}

// newScalarOp constructs a tensor-with-scalar node with the same shape as
// its tensor input.
func newScalarOp(nodeType NodeType, a *Node, scalar float32) *Node {
	g := validateBuildingGraphFromInputs(a)
	return newNode(g, a.shape.Clone(), &nodeInputsScalarOp{nodeType: nodeType, scalar: scalar}, []*Node{a})
}

// AddScalar returns a+b, element-wise.
func AddScalar(a *Node, b float32) *Node {
	return newScalarOp(NodeTypeScalarAdd, a, b)
}

// SubScalar returns a-b, element-wise.
func SubScalar(a *Node, b float32) *Node {
	return AddScalar(a, -b)
}

// ScalarSub returns b-a, element-wise.
func ScalarSub(b float32, a *Node) *Node {
	return AddScalar(Neg(a), b)
}

// MulScalar returns a*b, element-wise.
func MulScalar(a *Node, b float32) *Node {
	return newScalarOp(NodeTypeScalarMul, a, b)
}

// DivScalar returns a/b, element-wise, implemented as a*(1/b).
func DivScalar(a *Node, b float32) *Node {
	if b == 0 {
		Panicf("division by zero in DivScalar")
	}
	return MulScalar(a, 1/b)
}

// ScalarDiv returns b/a, element-wise.
//
// Unlike the other scalar variants there is no specialized
// scalar-over-tensor division node: the numerator is materialized as a
// constant tensor and divided element-wise.
func ScalarDiv(b float32, a *Node) *Node {
	g := validateBuildingGraphFromInputs(a)
	numerator := g.Constant(shapes.Scalar(), b)
	return Div(numerator, a)
}

// OneMinus returns 1-a, element-wise.
func OneMinus(a *Node) *Node {
	return ScalarSub(1, a)
}
