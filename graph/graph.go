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

// Package graph builds lazily-constructed computation graphs of tensor
// operations.
//
// The main elements of the package are:
//
//   - Graph: owns the nodes of one computation. Create it with NewGraph and a
//     backends.Backend describing the device the computation targets.
//
//   - Node: the result of an operation ("op" for short), a handle into the
//     Graph. Each node has a fixed Shape, computed when the node is built.
//
//   - Ops: package-level functions (Add, Sigmoid, Softmax, Dot, ...) that
//     validate shapes and construct nodes. Nothing is computed at this point:
//     graph building only assembles the program; execution is owned by the
//     device backend and is out of scope here.
//
// For the performance-critical Dot and Affine operations on an optimized CPU
// backend, construction routes through an adaptive selection between a
// reduced-precision integer path and the general path; see the tuner package
// and ops_matmul.go.
//
// ## Error handling
//
// Shape violations and programmer errors (for example running a tuner
// selection with no registered candidate) panic with an error value carrying
// a stack trace, via github.com/gomlx/exceptions. A failed construction call
// aborts graph building; there is no partial-graph recovery.
//
// Graph construction is single-threaded per Graph instance.
package graph

import (
	"fmt"
	"strings"

	. "github.com/gomlx/exceptions"
	"github.com/jeanru/marian/backends"
	"github.com/jeanru/marian/types/shapes"
)

// Graph holds the operations and dependencies of one computation.
//
// A Graph references its Backend for construction decisions (device class,
// clip value, optimized flag) but does not own it.
type Graph struct {
	backend backends.Backend
	name    string
	nodes   []*Node

	// scalars caches scalar constants per value, so common values like 0 and
	// 1 are built only once per graph.
	scalars map[float32]*Node

	// dedup indexes structurally-identical nodes, a form of common
	// subexpression elimination: two identical construction calls return the
	// same *Node, and node equality is identity equality.
	dedup map[nodeDedupKey][]*Node

	parameters      []*Node
	parameterByName map[string]*Node
}

// NewGraph constructs an empty Graph named name, built against the given
// backend.
func NewGraph(backend backends.Backend, name string) *Graph {
	return &Graph{
		backend:         backend,
		name:            name,
		scalars:         make(map[float32]*Node),
		dedup:           make(map[nodeDedupKey][]*Node),
		parameterByName: make(map[string]*Node),
	}
}

// Name of the computation this Graph defines.
func (g *Graph) Name() string { return g.name }

// Backend this Graph is built against.
func (g *Graph) Backend() backends.Backend { return g.backend }

// Device returns the device the computation targets, from the backend.
func (g *Graph) Device() backends.Device { return g.backend.Device() }

// IsOptimized reports whether the backend enables the reduced-precision
// integer path for CPU matrix products.
func (g *Graph) IsOptimized() bool { return g.backend.IsOptimized() }

// AssertValid panics if the Graph is nil or was built without NewGraph.
func (g *Graph) AssertValid() {
	if g == nil {
		Panicf("Graph is nil")
	}
	if g.backend == nil {
		Panicf("Graph %q has no backend; use NewGraph", g.name)
	}
}

// NumNodes returns the number of nodes registered so far.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NodeByID returns the node with the given id, in order of creation.
func (g *Graph) NodeByID(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		Panicf("invalid Graph.NodeByID(%d): graph %q has %d nodes", id, g.name, len(g.nodes))
	}
	return g.nodes[id]
}

// LastNode returns the most recently created node.
func (g *Graph) LastNode() *Node {
	if len(g.nodes) == 0 {
		Panicf("Graph %q has no nodes", g.name)
	}
	return g.nodes[len(g.nodes)-1]
}

// String lists all nodes of the graph, one per line.
func (g *Graph) String() string {
	parts := []string{fmt.Sprintf("Graph %q: %d nodes", g.name, len(g.nodes))}
	for ii, node := range g.nodes {
		parts = append(parts, fmt.Sprintf("#%d\t%s", ii, node))
	}
	return strings.Join(parts, "\n")
}

// Constant creates a node filled with the given value. Scalar constants are
// cached per value and reused.
func (g *Graph) Constant(shape shapes.Shape, value float32) *Node {
	g.AssertValid()
	if shape.IsScalar() {
		if node, found := g.scalars[value]; found {
			return node
		}
		node := newNode(g, shape, &nodeInputsConstant{shape: shape, value: value}, nil)
		g.scalars[value] = node
		return node
	}
	return newNode(g, shape, &nodeInputsConstant{shape: shape, value: value}, nil)
}

// Ones creates a node of the given shape filled with 1s.
func (g *Graph) Ones(shape shapes.Shape) *Node {
	return g.Constant(shape, 1)
}

// Zeros creates a node of the given shape filled with 0s.
func (g *Graph) Zeros(shape shapes.Shape) *Node {
	return g.Constant(shape, 0)
}

// Indices creates a rank-1 integer index node from a concrete list of
// indices. It is the index-tensor factory used by the list forms of Rows,
// Cols and Select.
func (g *Graph) Indices(indices []int32) *Node {
	g.AssertValid()
	if len(indices) == 0 {
		Panicf("Graph.Indices requires at least one index")
	}
	inputs := &nodeInputsIndices{indices: indices}
	return newNode(g, shapes.Make(len(indices)), inputs, nil)
}

// Parameter registers an input of the computation under the given name.
// Registering the same name twice returns the previously created node; the
// shapes must then match.
func (g *Graph) Parameter(name string, shape shapes.Shape) *Node {
	g.AssertValid()
	if name == "" {
		name = fmt.Sprintf("p#%d", len(g.parameters))
	}
	if node, found := g.parameterByName[name]; found {
		if !node.shape.Eq(shape) {
			Panicf("parameter %q already exists with shape %s, requested shape %s", name, node.shape, shape)
		}
		return node
	}
	node := newNode(g, shape, &nodeInputsParameter{name: name}, nil)
	g.parameters = append(g.parameters, node)
	g.parameterByName[name] = node
	return node
}

// NumParameters returns the number of parameters registered in this graph.
func (g *Graph) NumParameters() int { return len(g.parameters) }

// ParameterByName returns the parameter registered with the given name, or
// nil if no such parameter exists.
func (g *Graph) ParameterByName(name string) *Node {
	return g.parameterByName[name]
}

// registerNode assigns the node an id within the graph and records it.
func (g *Graph) registerNode(node *Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node)
	return id
}

// nodeDedupKey narrows the candidate set when searching for a structurally
// identical node: operation kind, input count and first input.
type nodeDedupKey struct {
	nodeType   NodeType
	inputCount int
	firstInput *Node // nil when the node has no inputs.
}

func makeNodeDedupKey(nodeType NodeType, inputNodes []*Node) nodeDedupKey {
	key := nodeDedupKey{nodeType: nodeType, inputCount: len(inputNodes)}
	if len(inputNodes) > 0 {
		key.firstInput = inputNodes[0]
	}
	return key
}

// findDuplicateNode returns an existing node matching the given operation, or
// nil if there is none.
func (g *Graph) findDuplicateNode(inputs NodeInputs, inputNodes []*Node) *Node {
	key := makeNodeDedupKey(inputs.Type(), inputNodes)
	for _, candidate := range g.dedup[key] {
		if !nodesEqual(candidate.inputNodes, inputNodes) {
			continue
		}
		if candidate.inputs.equal(inputs) {
			return candidate
		}
	}
	return nil
}

func (g *Graph) registerForDeduplication(node *Node) {
	key := makeNodeDedupKey(node.Type(), node.inputNodes)
	g.dedup[key] = append(g.dedup[key], node)
}

// nodesEqual compares two input lists by node identity.
func nodesEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for ii := range a {
		if a[ii] != b[ii] {
			return false
		}
	}
	return true
}
