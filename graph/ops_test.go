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

package graph_test

import (
	"testing"

	. "github.com/jeanru/marian/graph"
	"github.com/jeanru/marian/graph/graphtest"
	"github.com/jeanru/marian/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) *Graph {
	return NewGraph(graphtest.BuildTestBackend(), t.Name())
}

func TestClipIdentity(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3))
	assert.Same(t, a, Clip(a, 0), "Clip with value 0 is the identity")
	c := Clip(a, 5)
	assert.NotSame(t, a, c)
	assert.Equal(t, NodeTypeClip, c.Type())
	require.True(t, c.Shape().Eq(a.Shape()))
}

func TestUnaryShapes(t *testing.T) {
	graphtest.RunShapeTest(t, "elementwise", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(2, 3, 4))
		return []*Node{
			Sigmoid(a), Relu(a), LeakyRelu(a), Prelu(a, 0.2),
			Log(a), Exp(a), Swish(a), Neg(a), Sqrt(a, 1e-6), Square(a), Tanh(a),
		}
	}, []shapes.Shape{
		MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4),
		MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4),
		MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4),
	})
}

func TestLeakyReluIsPrelu(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(3))
	assert.Same(t, Prelu(a, 0.01), LeakyRelu(a))
}

func TestBinaryBroadcast(t *testing.T) {
	graphtest.RunShapeTest(t, "broadcast", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(2, 3, 4))
		b := g.Parameter("b", MakeShape(3, 1))
		return []*Node{Add(a, b), Sub(a, b), Mul(a, b), Div(a, b),
			LogAddExp(a, b), Maximum(a, b), Minimum(a, b)}
	}, []shapes.Shape{
		MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4),
		MakeShape(2, 3, 4), MakeShape(2, 3, 4), MakeShape(2, 3, 4),
	})

	graphtest.RequirePanics(t, "incompatible", func(g *Graph) {
		a := g.Parameter("a", MakeShape(2, 3))
		b := g.Parameter("b", MakeShape(2, 4))
		Add(a, b)
	})
}

func TestScalarOps(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3))

	sum := AddScalar(a, 2)
	assert.Equal(t, NodeTypeScalarAdd, sum.Type())
	require.True(t, sum.Shape().Eq(a.Shape()))

	// a-b and b-a both reduce to scalar additions.
	assert.Equal(t, NodeTypeScalarAdd, SubScalar(a, 2).Type())
	assert.Equal(t, NodeTypeScalarAdd, ScalarSub(2, a).Type())

	// a/b becomes a multiplication by the inverse.
	div := DivScalar(a, 4)
	assert.Equal(t, NodeTypeScalarMul, div.Type())
	assert.Panics(t, func() { DivScalar(a, 0) })

	// b/a has no scalar node form: the scalar is materialized as a constant
	// and divided element-wise.
	inv := ScalarDiv(1, a)
	assert.Equal(t, NodeTypeDiv, inv.Type())

	om := OneMinus(a)
	require.True(t, om.Shape().Eq(a.Shape()))
}

func TestReshape(t *testing.T) {
	graphtest.RunShapeTest(t, "reshape", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(2, 3, 4))
		return []*Node{
			Reshape(a, 6, 4),
			Flatten(a),
			Flatten2D(a),
		}
	}, []shapes.Shape{MakeShape(6, 4), MakeShape(24), MakeShape(6, 4)})

	graphtest.RequirePanics(t, "element count mismatch", func(g *Graph) {
		a := g.Parameter("a", MakeShape(2, 3, 4))
		Reshape(a, 5, 5)
	})
}

func TestAtLeastND(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(3, 4))

	// Rank already sufficient: identity.
	assert.Same(t, a, AtLeast1D(a))
	assert.Same(t, a, AtLeast2D(a))

	b := AtLeast4D(a)
	require.True(t, b.Shape().Eq(MakeShape(1, 1, 3, 4)), "got %s", b.Shape())
	assert.Equal(t, NodeTypeReshape, b.Type())
}

func TestTranspose(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3, 4))

	tr := Transpose(a)
	require.True(t, tr.Shape().Eq(MakeShape(2, 4, 3)))
	// Transposing twice restores the shape but builds fresh nodes.
	back := Transpose(tr)
	require.True(t, back.Shape().Eq(a.Shape()))
	assert.NotSame(t, a, back)

	perm := TransposeAxes(a, 2, 0, 1)
	require.True(t, perm.Shape().Eq(MakeShape(4, 2, 3)))

	assert.Panics(t, func() { TransposeAxes(a, 0, 1) })
	assert.Panics(t, func() { TransposeAxes(a, 0, 0, 1) })
}

func TestSwapAxes(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3, 4))

	// Same axis, including via negative indexing: identity.
	assert.Same(t, a, SwapAxes(a, 1, 1))
	assert.Same(t, a, SwapAxes(a, -1, 2))

	sw := SwapAxes(a, 0, -1)
	require.True(t, sw.Shape().Eq(MakeShape(4, 3, 2)))
	assert.Equal(t, NodeTypeTranspose, sw.Type())
}

func TestConcatenateAndRepeat(t *testing.T) {
	graphtest.RunShapeTest(t, "concatenate", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(2, 3))
		b := g.Parameter("b", MakeShape(2, 5))
		return []*Node{Concatenate([]*Node{a, b}, -1)}
	}, []shapes.Shape{MakeShape(2, 8)})

	graphtest.RequirePanics(t, "mismatched off-axis dims", func(g *Graph) {
		a := g.Parameter("a", MakeShape(2, 3))
		b := g.Parameter("b", MakeShape(3, 3))
		Concatenate([]*Node{a, b}, 1)
	})

	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3))
	assert.Same(t, a, Repeat(a, 1, 0), "a single repeat is the identity")
	r := Repeat(a, 3, 0)
	require.True(t, r.Shape().Eq(MakeShape(6, 3)))
	assert.Equal(t, NodeTypeConcatenate, r.Type())
	assert.Panics(t, func() { Repeat(a, 0, 0) })
}

func TestShiftAndStep(t *testing.T) {
	graphtest.RunShapeTest(t, "shift keeps shape", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(4, 5))
		return []*Node{Shift(a, []int{1, 0}, 0)}
	}, []shapes.Shape{MakeShape(4, 5)})

	graphtest.RequirePanics(t, "offset per axis", func(g *Graph) {
		a := g.Parameter("a", MakeShape(4, 5))
		Shift(a, []int{1}, 0)
	})

	graphtest.RunShapeTest(t, "step", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(4, 5))
		return []*Node{Step(a, 2, 0), Step(a, 4, -1)}
	}, []shapes.Shape{MakeShape(1, 5), MakeShape(4, 1)})

	graphtest.RequirePanics(t, "step out of range", func(g *Graph) {
		a := g.Parameter("a", MakeShape(4, 5))
		Step(a, 5, -1)
	})
}

func TestReductions(t *testing.T) {
	graphtest.RunShapeTest(t, "sum and mean keep the axis", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(2, 3, 4))
		return []*Node{Sum(a, 1), Mean(a, -1), Sum(a, -3)}
	}, []shapes.Shape{MakeShape(2, 1, 4), MakeShape(2, 3, 1), MakeShape(1, 3, 4)})

	graphtest.RunShapeTest(t, "scalar product", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(2, 3, 4))
		w := g.Parameter("w", MakeShape(3, 1))
		return []*Node{ScalarProduct(a, w, -1)}
	}, []shapes.Shape{MakeShape(2, 3, 1)})
}

func TestWeightedAverageComposition(t *testing.T) {
	g := newTestGraph(t)
	in := g.Parameter("in", MakeShape(2, 3, 4))
	weights := g.Parameter("weights", MakeShape(2, 3, 4))

	avg := WeightedAverage(in, weights, -1)
	require.True(t, avg.Shape().Eq(MakeShape(2, 3, 1)))
	require.Equal(t, NodeTypeDiv, avg.Type())
	assert.Equal(t, NodeTypeScalarProduct, avg.Inputs()[0].Type())
	assert.Equal(t, NodeTypeReduceSum, avg.Inputs()[1].Type())

	// The same composition built by hand deduplicates against it.
	byHand := Div(ScalarProduct(in, weights, -1), Sum(weights, -1))
	assert.Same(t, avg, byHand)
}

func TestGather(t *testing.T) {
	graphtest.RunShapeTest(t, "rows and cols", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(5, 8))
		return []*Node{
			RowsOf(a, []int32{0, 4, 4}),
			ColsOf(a, []int32{1, 2}),
			SelectOf(a, []int32{0, 1, 0}, -1),
		}
	}, []shapes.Shape{MakeShape(3, 8), MakeShape(5, 2), MakeShape(5, 3)})

	graphtest.RequirePanics(t, "rows needs rank 2", func(g *Graph) {
		a := g.Parameter("a", MakeShape(5, 8, 2))
		RowsOf(a, []int32{0})
	})
}

func TestCrossEntropy(t *testing.T) {
	graphtest.RunShapeTest(t, "cross entropy", func(g *Graph) []*Node {
		scores := g.Parameter("scores", MakeShape(7, 2, 100))
		labels := g.Parameter("labels", MakeShape(7, 2, 1))
		return []*Node{CrossEntropy(scores, labels)}
	}, []shapes.Shape{MakeShape(7, 2, 1)})

	graphtest.RequirePanics(t, "label shape mismatch", func(g *Graph) {
		scores := g.Parameter("scores", MakeShape(7, 2, 100))
		labels := g.Parameter("labels", MakeShape(7, 3, 1))
		CrossEntropy(scores, labels)
	})
}

func TestSoftmax(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3, 4))

	last := Softmax(a, -1)
	assert.Equal(t, NodeTypeSoftmax, last.Type())
	require.True(t, last.Shape().Eq(a.Shape()))

	// A non-last axis is handled by swapping it into last position, applying
	// softmax, and swapping back.
	middle := Softmax(a, 1)
	assert.Equal(t, NodeTypeTranspose, middle.Type())
	require.True(t, middle.Shape().Eq(a.Shape()))
	assert.Equal(t, NodeTypeSoftmax, middle.Inputs()[0].Type())

	ls := LogSoftmax(a)
	assert.Equal(t, NodeTypeLogSoftmax, ls.Type())
}

func TestMaskedSoftmax(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(1, 3))
	mask := g.Parameter("mask", MakeShape(1, 3))

	masked := MaskedSoftmax(a, mask, -1)
	require.True(t, masked.Shape().Eq(MakeShape(1, 3)))
	assert.Equal(t, NodeTypeSoftmax, masked.Type())
	// The mask is folded in additively before the softmax.
	assert.Equal(t, NodeTypeAdd, masked.Inputs()[0].Type())

	// A nil mask would not make sense; an all-ones mask still builds the
	// additive term, it is not short-circuited.
	ones := g.Ones(MakeShape(1, 3))
	assert.Equal(t, NodeTypeSoftmax, MaskedSoftmax(a, ones, -1).Type())
}

func TestLayerNorm(t *testing.T) {
	graphtest.RunShapeTest(t, "with and without beta", func(g *Graph) []*Node {
		a := g.Parameter("a", MakeShape(2, 8))
		gamma := g.Parameter("gamma", MakeShape(1, 8))
		beta := g.Parameter("beta", MakeShape(1, 8))
		return []*Node{
			LayerNorm(a, gamma, beta, 1e-9),
			LayerNorm(a, gamma, nil, 1e-9),
		}
	}, []shapes.Shape{MakeShape(2, 8), MakeShape(2, 8)})

	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 8))
	gamma := g.Parameter("gamma", MakeShape(1, 8))
	withBeta := LayerNorm(a, gamma, g.Parameter("beta", MakeShape(1, 8)), 1e-9)
	withoutBeta := LayerNorm(a, gamma, nil, 1e-9)
	assert.Len(t, withBeta.Inputs(), 3)
	assert.Len(t, withoutBeta.Inputs(), 2)

	graphtest.RequirePanics(t, "incompatible gamma", func(g *Graph) {
		a := g.Parameter("a", MakeShape(2, 8))
		gamma := g.Parameter("gamma", MakeShape(1, 4))
		LayerNorm(a, gamma, nil, 1e-9)
	})
}

func TestHighway(t *testing.T) {
	graphtest.RunShapeTest(t, "highway", func(g *Graph) []*Node {
		y := g.Parameter("y", MakeShape(2, 8))
		x := g.Parameter("x", MakeShape(2, 8))
		gate := g.Parameter("gate", MakeShape(2, 8))
		return []*Node{Highway(y, x, gate)}
	}, []shapes.Shape{MakeShape(2, 8)})

	graphtest.RequirePanics(t, "shape mismatch", func(g *Graph) {
		y := g.Parameter("y", MakeShape(2, 8))
		x := g.Parameter("x", MakeShape(2, 4))
		gate := g.Parameter("gate", MakeShape(2, 8))
		Highway(y, x, gate)
	})
}

func TestHighwayLayer(t *testing.T) {
	g := newTestGraph(t)
	x := g.Parameter("x", MakeShape(2, 8))

	out := HighwayLayer("enc", x)
	require.True(t, out.Shape().Eq(MakeShape(2, 8)))

	// The layer registered its own weights under the prefix.
	assert.NotNil(t, g.ParameterByName("enc_highway_d1_W"))
	assert.NotNil(t, g.ParameterByName("enc_highway_d1_b"))
	assert.NotNil(t, g.ParameterByName("enc_highway_d2_W"))
	assert.NotNil(t, g.ParameterByName("enc_highway_d2_b"))
	assert.Equal(t, 5, g.NumParameters())

	// Same prefix reuses the same parameters and composes the same nodes.
	assert.Same(t, out, HighwayLayer("enc", x))
}

func TestMultiInputVariants(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3))
	b := g.Parameter("b", MakeShape(2, 3))

	fused := TanhN(a, b)
	assert.Equal(t, NodeTypeTanh, fused.Type())
	assert.Len(t, fused.Inputs(), 2)

	assert.Panics(t, func() { PlusN(a, b) })
	assert.Panics(t, func() { SwishN(a, b) })
	assert.Panics(t, func() { SigmoidN(a, b) })
	assert.Panics(t, func() { ReluN(a, b) })
	assert.Panics(t, func() { LeakyReluN(a, b) })
	assert.Panics(t, func() { PreluN(0.1, a, b) })
}

func TestConstantLike(t *testing.T) {
	g := newTestGraph(t)
	a := g.Parameter("a", MakeShape(2, 3))
	c := ConstantLike(a, 7)
	assert.Equal(t, NodeTypeConstant, c.Type())
	require.True(t, c.Shape().Eq(a.Shape()))
}
