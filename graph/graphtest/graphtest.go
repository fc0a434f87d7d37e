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

// Package graphtest holds test utilities for packages that depend on the
// graph package.
package graphtest

import (
	"testing"

	"github.com/jeanru/marian/backends"
	"github.com/jeanru/marian/graph"
	"github.com/jeanru/marian/types/shapes"
	"github.com/stretchr/testify/require"
)

// BuildTestBackend returns a plain CPU backend without the reduced-precision
// path, the configuration under which operator composition is easiest to
// inspect.
func BuildTestBackend() backends.Backend {
	return backends.New()
}

// BuildOptimizedTestBackend returns a CPU backend with the reduced-precision
// path enabled and the given operand clip value, for testing the int16
// lowering and the adaptive affine selection.
func BuildOptimizedTestBackend(clip float32) backends.Backend {
	return backends.New(backends.WithOptimized(true), backends.WithClip(clip))
}

// TestGraphFn builds the nodes under test in g and returns the ones whose
// shapes should be checked.
type TestGraphFn func(g *graph.Graph) []*graph.Node

// RunShapeTest builds a fresh graph, runs graphFn on it and compares the
// shapes of the returned nodes against want, reporting any mismatch in t.
func RunShapeTest(t *testing.T, testName string, graphFn TestGraphFn, want []shapes.Shape) {
	t.Run(testName, func(t *testing.T) {
		g := graph.NewGraph(BuildTestBackend(), testName)
		var outputs []*graph.Node
		require.NotPanicsf(t, func() { outputs = graphFn(g) }, "%s: failed to build graph", testName)
		require.Lenf(t, outputs, len(want), "%s: number of outputs", testName)
		for ii, node := range outputs {
			require.NotNilf(t, node, "%s: outputs[%d] is nil", testName, ii)
			require.Truef(t, node.Shape().Eq(want[ii]),
				"%s: outputs[%d] has shape %s, want %s", testName, ii, node.Shape(), want[ii])
		}
	})
}

// RequirePanics asserts that building fn on a fresh graph panics.
func RequirePanics(t *testing.T, testName string, fn func(g *graph.Graph)) {
	t.Run(testName, func(t *testing.T) {
		g := graph.NewGraph(BuildTestBackend(), testName)
		require.Panicsf(t, func() { fn(g) }, "%s: expected graph building to panic", testName)
	})
}
