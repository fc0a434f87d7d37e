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

// LayerNorm normalizes a over its last axis and applies the learned scale
// gamma and, if non-nil, the shift beta. gamma and beta must be
// broadcast-compatible with a. The output keeps a's shape.
func LayerNorm(a, gamma, beta *Node, epsilon float32) *Node {
	inputNodes := []*Node{a, gamma}
	if beta != nil {
		inputNodes = append(inputNodes, beta)
	}
	g := validateBuildingGraphFromInputs(inputNodes...)
	if !shapes.BroadcastCompatible(a.shape, gamma.shape) {
		Panicf("LayerNorm: gamma shape %s is not broadcast-compatible with %s", gamma.shape, a.shape)
	}
	if beta != nil && !shapes.BroadcastCompatible(a.shape, beta.shape) {
		Panicf("LayerNorm: beta shape %s is not broadcast-compatible with %s", beta.shape, a.shape)
	}
	return newNode(g, a.shape.Clone(), &nodeInputsLayerNorm{epsilon: epsilon}, inputNodes)
}

// Highway combines two inputs through a sigmoid gate:
// sigmoid(gate)*input1 + (1-sigmoid(gate))*input2. All three must share the
// same shape, which is also the output shape.
func Highway(input1, input2, gate *Node) *Node {
	g := validateBuildingGraphFromInputs(input1, input2, gate)
	if !input1.shape.Eq(input2.shape) || !input1.shape.Eq(gate.shape) {
		Panicf("Highway: shapes must match, got %s, %s and %s",
			input1.shape, input2.shape, gate.shape)
	}
	inputs := &nodeInputsUnary{nodeType: NodeTypeHighway}
	return newNode(g, input1.shape.Clone(), inputs, []*Node{input1, input2, gate})
}

// HighwayLayer builds a named highway layer over x: a sigmoid-activated
// dense gate and a relu-activated dense candidate over the last axis,
// combined as gate*candidate + (1-gate)*x. The layer's weights are
// registered as graph parameters under the prefix.
func HighwayLayer(prefix string, x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	outDim := x.shape.Dim(-1)
	dense := func(name string, activation func(*Node) *Node) *Node {
		w := g.Parameter(name+"_W", shapes.Make(outDim, outDim))
		b := g.Parameter(name+"_b", shapes.Make(1, outDim))
		return activation(Affine(x, w, b, false, false, 1))
	}
	gate := dense(prefix+"_highway_d1", Sigmoid)
	candidate := dense(prefix+"_highway_d2", Relu)
	return Add(Mul(gate, candidate), Mul(OneMinus(gate), x))
}
