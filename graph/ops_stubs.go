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

// Multi-input variants of the element-wise activations. Only TanhN has a
// fused kernel; the remaining variants are declared for interface
// completeness and fail fast when called.

// TanhN sums the given nodes and applies tanh as one fused operation. All
// nodes must be broadcast-compatible; the output shape is the broadcast of
// all input shapes.
func TanhN(nodes ...*Node) *Node {
	g := validateBuildingGraphFromInputs(nodes...)
	shape := nodes[0].shape.Clone()
	for _, node := range nodes[1:] {
		shape = shapes.Broadcast(shape, node.shape)
	}
	return newNode(g, shape, &nodeInputsUnary{nodeType: NodeTypeTanh}, nodes)
}

// PlusN is not implemented.
func PlusN(nodes ...*Node) *Node {
	Panicf("PlusN: not implemented")
	return nil
}

// SwishN is not implemented.
func SwishN(nodes ...*Node) *Node {
	Panicf("SwishN: not implemented")
	return nil
}

// SigmoidN is not implemented.
func SigmoidN(nodes ...*Node) *Node {
	Panicf("SigmoidN: not implemented")
	return nil
}

// ReluN is not implemented.
func ReluN(nodes ...*Node) *Node {
	Panicf("ReluN: not implemented")
	return nil
}

// LeakyReluN is not implemented.
func LeakyReluN(nodes ...*Node) *Node {
	Panicf("LeakyReluN: not implemented")
	return nil
}

// PreluN is not implemented.
func PreluN(alpha float32, nodes ...*Node) *Node {
	Panicf("PreluN: not implemented")
	return nil
}
