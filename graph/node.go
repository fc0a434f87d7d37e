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

	. "github.com/gomlx/exceptions"
	"github.com/jeanru/marian/tuner"
	"github.com/jeanru/marian/types/shapes"
)

// NodeID is a unique node id within a Graph.
type NodeID int

// InvalidNodeID indicates a node that failed to be created.
const InvalidNodeID = NodeID(-1)

// Node is a handle to one operation in a computation Graph: the expression
// it computes, its fixed output Shape, and the edges to the expressions it
// reads.
//
// Node equality is identity equality: the Graph deduplicates structurally
// identical constructions, so two identical calls return the same *Node, and
// "was a new node created" is answered by comparing pointers.
type Node struct {
	graph *Graph
	id    NodeID
	shape shapes.Shape

	// inputNodes are the edges of the computation graph: exactly the
	// expressions whose values this node reads.
	inputNodes []*Node

	// inputs is the closed tagged variant over operation kinds; it carries
	// the scalar parameters of the operation.
	inputs NodeInputs

	// debugMessage is set if the node is marked for debug-logging during
	// execution.
	debugMessage string

	// Timing-attribution tag, set by the adaptive selection in Affine. See
	// Node.Record.
	recorded    bool
	recordHash  uint64
	recordFinal bool
}

// NodeInputs is the interface implemented by the per-operation parameter
// structs (the tagged variant). The operator set is fixed and finite, so the
// variant is closed: the interface is not implementable outside this package.
type NodeInputs interface {
	// Type identifies the operation performed by the node.
	Type() NodeType

	// String prints a descriptive representation of the operation and its
	// parameters.
	String() string

	// equal reports whether other carries the same operation kind and the
	// same scalar parameters. Input nodes are compared separately, by
	// identity.
	equal(other NodeInputs) bool
}

// newNode builds (or re-uses, see deduplication in graph.go) a node with the
// given shape, operation parameters and input edges. The shape must have been
// computed purely from the inputs' shapes and the operation parameters.
func newNode(g *Graph, shape shapes.Shape, inputs NodeInputs, inputNodes []*Node) *Node {
	g.AssertValid()
	if duplicate := g.findDuplicateNode(inputs, inputNodes); duplicate != nil {
		return duplicate
	}
	node := &Node{
		graph:      g,
		shape:      shape,
		inputNodes: inputNodes,
		inputs:     inputs,
	}
	node.id = g.registerNode(node)
	g.registerForDeduplication(node)
	return node
}

// Graph that holds this Node.
func (n *Node) Graph() *Graph {
	if n == nil {
		return nil
	}
	return n.graph
}

// Shape of the Node's output.
func (n *Node) Shape() shapes.Shape {
	if n == nil {
		return shapes.Shape{}
	}
	return n.shape
}

// Rank of the Node's shape.
func (n *Node) Rank() int { return n.Shape().Rank() }

// IsScalar returns whether the node's shape is a scalar.
func (n *Node) IsScalar() bool { return n.Shape().IsScalar() }

// ID is the unique id of this node within its Graph.
func (n *Node) ID() NodeID {
	if n == nil {
		return InvalidNodeID
	}
	return n.id
}

// Type identifies the operation performed by the node.
func (n *Node) Type() NodeType {
	if n == nil || n.inputs == nil {
		return NodeTypeInvalid
	}
	return n.inputs.Type()
}

// Inputs are the nodes whose values this node reads.
func (n *Node) Inputs() []*Node { return n.inputNodes }

// AssertValid panics if n is nil or in an invalid state.
func (n *Node) AssertValid() {
	if n == nil {
		Panicf("Node is nil")
	}
	if n.inputs == nil {
		Panicf("Node in an invalid state: no operation attached")
	}
	n.graph.AssertValid()
}

// SetDebug marks the node to be logged with the given message when the graph
// is executed. It returns the node itself for chaining.
func (n *Node) SetDebug(message string) *Node {
	n.debugMessage = message
	return n
}

// IsDebugged returns whether the node is marked for debug-logging.
func (n *Node) IsDebugged() bool { return n.debugMessage != "" }

// DebugMessage associated with the node, if any.
func (n *Node) DebugMessage() string { return n.debugMessage }

// Record tags the node with a candidate-algorithm hash for timing
// attribution, marking whether this is the candidate's final node, and
// notifies the recorder. Since the actual tensor computation is deferred to
// the external execution phase, the notification happens at construction
// time. It returns the node itself for chaining.
func (n *Node) Record(recorder tuner.Recorder, hash uint64, final bool) *Node {
	n.AssertValid()
	n.recorded = true
	n.recordHash = hash
	n.recordFinal = final
	if recorder != nil {
		recorder.Record(hash, final)
	}
	return n
}

// IsRecorded returns whether the node carries a timing-attribution tag.
func (n *Node) IsRecorded() bool { return n.recorded }

// RecordHash returns the candidate-algorithm hash the node is tagged with.
// Only meaningful if IsRecorded.
func (n *Node) RecordHash() uint64 { return n.recordHash }

// RecordFinal returns whether the node is the final node of its candidate.
// Only meaningful if IsRecorded.
func (n *Node) RecordFinal() bool { return n.recordFinal }

// String implements fmt.Stringer.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	if n.inputs == nil {
		return "Node(invalid)"
	}
	str := n.inputs.String()
	if n.debugMessage != "" {
		str += fmt.Sprintf(" [Debug: %q]", n.debugMessage)
	}
	return fmt.Sprintf("%s -> %s", str, n.shape)
}

// validateBuildingGraphFromInputs checks that all input nodes are valid and
// belong to the same Graph, which it returns.
func validateBuildingGraphFromInputs(inputs ...*Node) *Graph {
	if len(inputs) == 0 {
		Panicf("no input nodes given")
	}
	var g *Graph
	for ii, node := range inputs {
		if node == nil {
			Panicf("input node #%d is nil", ii)
		}
		node.AssertValid()
		if g == nil {
			g = node.graph
		} else if node.graph != g {
			Panicf("input node #%d belongs to a different graph (%q) than the previous inputs (%q)",
				ii, node.graph.name, g.name)
		}
	}
	return g
}
