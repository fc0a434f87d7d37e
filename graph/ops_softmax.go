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

// maskBias is the additive bias applied to masked-out positions before a
// softmax: large enough (in magnitude) to drive their probability to ~0.
const maskBias = -99999999.0

// Softmax normalizes a to a probability distribution along the given axis
// (-1 for the last axis).
//
// The kernel only implements softmax over the last axis: for any other axis
// the target axis is swapped to the last position, softmax applied there,
// and the axes swapped back.
func Softmax(a *Node, axis int) *Node {
	g := validateBuildingGraphFromInputs(a)
	if a.shape.Axis(axis) != a.Rank()-1 {
		return SwapAxes(Softmax(SwapAxes(a, axis, -1), -1), axis, -1)
	}
	return newNode(g, a.shape.Clone(), &nodeInputsUnary{nodeType: NodeTypeSoftmax}, []*Node{a})
}

// MaskedSoftmax is Softmax with positions where mask is 0 excluded: those
// positions receive an additive bias of ~-1e8 before the softmax, driving
// their probability to ~0. mask is a zero/one tensor broadcastable with a.
//
// It composes from existing primitives -- softmax(a + (1-mask)*bias) --
// rather than using a dedicated masked-softmax kernel.
func MaskedSoftmax(a, mask *Node, axis int) *Node {
	_ = validateBuildingGraphFromInputs(a, mask)
	logMask := MulScalar(OneMinus(mask), maskBias)
	return Softmax(Add(a, logMask), axis)
}

// LogSoftmax returns log(softmax(a)) over the last axis, as a distinct
// numerically-stable log-domain primitive (not composed as Log(Softmax(a))).
func LogSoftmax(a *Node) *Node {
	g := validateBuildingGraphFromInputs(a)
	return newNode(g, a.shape.Clone(), &nodeInputsUnary{nodeType: NodeTypeLogSoftmax}, []*Node{a})
}
