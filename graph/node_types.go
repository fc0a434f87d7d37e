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

// NodeType identifies the operation performed by a node. The set is closed:
// every concrete operator kind the graph supports is listed here.
type NodeType int

const (
	NodeTypeInvalid NodeType = iota

	// Sources.
	NodeTypeParameter
	NodeTypeConstant
	NodeTypeIndices

	// Element-wise unary.
	NodeTypeSigmoid
	NodeTypeRelu
	NodeTypePRelu
	NodeTypeClip
	NodeTypeLog
	NodeTypeExp
	NodeTypeSwish
	NodeTypeNeg
	NodeTypeSqrt
	NodeTypeSquare
	NodeTypeTanh

	// Normalizing.
	NodeTypeSoftmax
	NodeTypeLogSoftmax
	NodeTypeLayerNorm
	NodeTypeHighway

	// Element-wise binary.
	NodeTypeAdd
	NodeTypeSub
	NodeTypeMul
	NodeTypeDiv
	NodeTypeLogAddExp
	NodeTypeMaximum
	NodeTypeMinimum

	// Tensor-with-scalar.
	NodeTypeScalarAdd
	NodeTypeScalarMul

	// Shape manipulation.
	NodeTypeReshape
	NodeTypeTranspose
	NodeTypeConcatenate
	NodeTypeShift
	NodeTypeStep

	// Reductions.
	NodeTypeReduceSum
	NodeTypeReduceMean
	NodeTypeScalarProduct

	// Indexed gather.
	NodeTypeRows
	NodeTypeCols
	NodeTypeSelect
	NodeTypeCrossEntropy

	// Matrix products.
	NodeTypeDot
	NodeTypeDotBatched
	NodeTypeAffine

	// Reduced-precision path.
	NodeTypeQuantizeInt16
	NodeTypeDotInt16
	NodeTypeAffineInt16
)

var nodeTypeNames = [...]string{
	NodeTypeInvalid:       "Invalid",
	NodeTypeParameter:     "Parameter",
	NodeTypeConstant:      "Constant",
	NodeTypeIndices:       "Indices",
	NodeTypeSigmoid:       "Sigmoid",
	NodeTypeRelu:          "Relu",
	NodeTypePRelu:         "PRelu",
	NodeTypeClip:          "Clip",
	NodeTypeLog:           "Log",
	NodeTypeExp:           "Exp",
	NodeTypeSwish:         "Swish",
	NodeTypeNeg:           "Neg",
	NodeTypeSqrt:          "Sqrt",
	NodeTypeSquare:        "Square",
	NodeTypeTanh:          "Tanh",
	NodeTypeSoftmax:       "Softmax",
	NodeTypeLogSoftmax:    "LogSoftmax",
	NodeTypeLayerNorm:     "LayerNorm",
	NodeTypeHighway:       "Highway",
	NodeTypeAdd:           "Add",
	NodeTypeSub:           "Sub",
	NodeTypeMul:           "Mul",
	NodeTypeDiv:           "Div",
	NodeTypeLogAddExp:     "LogAddExp",
	NodeTypeMaximum:       "Maximum",
	NodeTypeMinimum:       "Minimum",
	NodeTypeScalarAdd:     "ScalarAdd",
	NodeTypeScalarMul:     "ScalarMul",
	NodeTypeReshape:       "Reshape",
	NodeTypeTranspose:     "Transpose",
	NodeTypeConcatenate:   "Concatenate",
	NodeTypeShift:         "Shift",
	NodeTypeStep:          "Step",
	NodeTypeReduceSum:     "ReduceSum",
	NodeTypeReduceMean:    "ReduceMean",
	NodeTypeScalarProduct: "ScalarProduct",
	NodeTypeRows:          "Rows",
	NodeTypeCols:          "Cols",
	NodeTypeSelect:        "Select",
	NodeTypeCrossEntropy:  "CrossEntropy",
	NodeTypeDot:           "Dot",
	NodeTypeDotBatched:    "DotBatched",
	NodeTypeAffine:        "Affine",
	NodeTypeQuantizeInt16: "QuantizeInt16",
	NodeTypeDotInt16:      "DotInt16",
	NodeTypeAffineInt16:   "AffineInt16",
}

// String implements fmt.Stringer.
func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "Invalid"
	}
	return nodeTypeNames[t]
}
