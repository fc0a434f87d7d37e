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

// Gather and selection operations. Indices are expressions themselves
// (usually built with Graph.Indices), so a gather can also take indices
// produced by another part of the graph.

func checkIndicesNode(opName string, indices *Node) {
	if indices.Rank() != 1 {
		Panicf("%s: indices must be rank 1, got shape %s", opName, indices.shape)
	}
}

// Rows gathers rows of the rank-2 node a, one per entry of indices, in
// order. Output shape is [len(indices), cols(a)].
func Rows(a, indices *Node) *Node {
	g := validateBuildingGraphFromInputs(a, indices)
	if a.Rank() != 2 {
		Panicf("Rows: input must be rank 2, got shape %s", a.shape)
	}
	checkIndicesNode("Rows", indices)
	shape := shapes.Make(indices.shape.Dimensions[0], a.shape.Dimensions[1])
	return newNode(g, shape, &nodeInputsBinary{nodeType: NodeTypeRows}, []*Node{a, indices})
}

// RowsOf is Rows with literal indices.
func RowsOf(a *Node, indices []int32) *Node {
	return Rows(a, a.Graph().Indices(indices))
}

// Cols gathers columns of the rank-2 node a, one per entry of indices, in
// order. Output shape is [rows(a), len(indices)].
func Cols(a, indices *Node) *Node {
	g := validateBuildingGraphFromInputs(a, indices)
	if a.Rank() != 2 {
		Panicf("Cols: input must be rank 2, got shape %s", a.shape)
	}
	checkIndicesNode("Cols", indices)
	shape := shapes.Make(a.shape.Dimensions[0], indices.shape.Dimensions[0])
	return newNode(g, shape, &nodeInputsBinary{nodeType: NodeTypeCols}, []*Node{a, indices})
}

// ColsOf is Cols with literal indices.
func ColsOf(a *Node, indices []int32) *Node {
	return Cols(a, a.Graph().Indices(indices))
}

// Select gathers slices of a along the axis, one per entry of indices. The
// output shape is a's shape with the selected axis resized to len(indices).
func Select(a, indices *Node, axis int) *Node {
	g := validateBuildingGraphFromInputs(a, indices)
	checkIndicesNode("Select", indices)
	resolved := a.shape.Axis(axis)
	shape := a.shape.Clone()
	shape.Dimensions[resolved] = indices.shape.Dimensions[0]
	return newNode(g, shape, &nodeInputsSelect{axis: resolved}, []*Node{a, indices})
}

// SelectOf is Select with literal indices.
func SelectOf(a *Node, indices []int32, axis int) *Node {
	return Select(a, a.Graph().Indices(indices), axis)
}

// CrossEntropy computes the cross-entropy of the scores against the given
// per-position label indices, combining log-softmax over the last axis with
// the gather of the labelled score. labels must match the scores' shape
// with the last axis set to 1. The output keeps that shape.
func CrossEntropy(scores, labels *Node) *Node {
	g := validateBuildingGraphFromInputs(scores, labels)
	if labels.Rank() != scores.Rank() {
		Panicf("CrossEntropy: labels rank %d does not match scores shape %s", labels.Rank(), scores.shape)
	}
	for ii, dim := range labels.shape.Dimensions {
		want := scores.shape.Dimensions[ii]
		if ii == labels.Rank()-1 {
			want = 1
		}
		if dim != want {
			Panicf("CrossEntropy: labels shape %s does not match scores shape %s", labels.shape, scores.shape)
		}
	}
	shape := scores.shape.Clone()
	shape.Dimensions[shape.Rank()-1] = 1
	return newNode(g, shape, &nodeInputsBinary{nodeType: NodeTypeCrossEntropy}, []*Node{scores, labels})
}
