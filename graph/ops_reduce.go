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
	"github.com/jeanru/marian/types/shapes"
)

func newReduce(nodeType NodeType, a *Node, axis int) *Node {
	g := validateBuildingGraphFromInputs(a)
	resolved := a.shape.Axis(axis)
	shape := a.shape.Clone()
	shape.Dimensions[resolved] = 1
	return newNode(g, shape, &nodeInputsReduce{nodeType: nodeType, axis: resolved}, []*Node{a})
}

// Sum reduces a along the axis by summation. The reduced axis is kept with
// dimension 1.
func Sum(a *Node, axis int) *Node {
	return newReduce(NodeTypeReduceSum, a, axis)
}

// Mean reduces a along the axis by averaging. The reduced axis is kept with
// dimension 1.
func Mean(a *Node, axis int) *Node {
	return newReduce(NodeTypeReduceMean, a, axis)
}

// ScalarProduct multiplies a and b elementwise (with broadcasting) and sums
// the products along the axis, kept with dimension 1. The axis is resolved
// against the broadcast shape.
func ScalarProduct(a, b *Node, axis int) *Node {
	g := validateBuildingGraphFromInputs(a, b)
	broadcast := shapes.Broadcast(a.shape, b.shape)
	resolved := broadcast.Axis(axis)
	shape := broadcast.Clone()
	shape.Dimensions[resolved] = 1
	inputs := &nodeInputsScalarProduct{axis: resolved}
	return newNode(g, shape, inputs, []*Node{a, b})
}

// WeightedAverage computes sum(in*weights, axis) / sum(weights, axis). It
// is a composition, not a primitive.
func WeightedAverage(in, weights *Node, axis int) *Node {
	p := ScalarProduct(in, weights, axis)
	s := Sum(weights, axis)
	return Div(p, s)
}
