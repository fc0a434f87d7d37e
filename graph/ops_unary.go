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

// Element-wise unary operations: one input node, same output shape.

// newElementwiseUnary constructs a parameter-free unary node with the same
// shape as its input.
func newElementwiseUnary(nodeType NodeType, a *Node) *Node {
	g := validateBuildingGraphFromInputs(a)
	return newNode(g, a.shape.Clone(), &nodeInputsUnary{nodeType: nodeType}, []*Node{a})
}

// Sigmoid returns the logistic function 1/(1+exp(-a)), element-wise.
func Sigmoid(a *Node) *Node {
	return newElementwiseUnary(NodeTypeSigmoid, a)
}

// Relu returns max(a, 0), element-wise.
func Relu(a *Node) *Node {
	return newElementwiseUnary(NodeTypeRelu, a)
}

// LeakyRelu is Prelu with a fixed slope of 0.01 for negative values.
func LeakyRelu(a *Node) *Node {
	return Prelu(a, 0.01)
}

// Prelu returns a where a > 0 and alpha*a otherwise, element-wise.
func Prelu(a *Node, alpha float32) *Node {
	g := validateBuildingGraphFromInputs(a)
	return newNode(g, a.shape.Clone(), &nodeInputsPRelu{alpha: alpha}, []*Node{a})
}

// Clip limits the values of a to [-c, c], element-wise. A clipping value of
// 0 means "disabled": Clip(a, 0) returns a itself, no node is created.
func Clip(a *Node, c float32) *Node {
	if c == 0 {
		return a
	}
	g := validateBuildingGraphFromInputs(a)
	return newNode(g, a.shape.Clone(), &nodeInputsClip{value: c}, []*Node{a})
}

// Log returns the natural logarithm of a, element-wise.
func Log(a *Node) *Node {
	return newElementwiseUnary(NodeTypeLog, a)
}

// Exp returns e^a, element-wise.
func Exp(a *Node) *Node {
	return newElementwiseUnary(NodeTypeExp, a)
}

// Swish returns a*sigmoid(a), element-wise.
func Swish(a *Node) *Node {
	return newElementwiseUnary(NodeTypeSwish, a)
}

// Neg returns -a, element-wise.
func Neg(a *Node) *Node {
	return newElementwiseUnary(NodeTypeNeg, a)
}

// Sqrt returns sqrt(a + eps), element-wise. The epsilon guards against
// vanishing gradients at 0.
func Sqrt(a *Node, eps float32) *Node {
	g := validateBuildingGraphFromInputs(a)
	return newNode(g, a.shape.Clone(), &nodeInputsSqrt{epsilon: eps}, []*Node{a})
}

// Square returns a², element-wise.
func Square(a *Node) *Node {
	return newElementwiseUnary(NodeTypeSquare, a)
}

// Tanh returns the hyperbolic tangent of a, element-wise.
func Tanh(a *Node) *Node {
	return newElementwiseUnary(NodeTypeTanh, a)
}

// Debug marks a to be logged with the given message during execution and
// returns a itself.
func Debug(a *Node, message string) *Node {
	a.AssertValid()
	return a.SetDebug(message)
}

// ConstantLike returns a constant with the same shape as a, filled with
// value.
func ConstantLike(a *Node, value float32) *Node {
	g := validateBuildingGraphFromInputs(a)
	return g.Constant(a.shape.Clone(), value)
}
