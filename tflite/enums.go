package tflite

// BuiltinOperator is the opcode enumeration from schema.fbs. Only the values
// nnsched's cost model and graph builder care about are named; the rest of
// the (much larger) real enumeration is represented by its raw int32.
type BuiltinOperator int32

const (
	ADD                BuiltinOperator = 0
	AVERAGE_POOL_2D    BuiltinOperator = 1
	CONCATENATION      BuiltinOperator = 2
	CONV_2D            BuiltinOperator = 3
	DEPTHWISE_CONV_2D  BuiltinOperator = 4
	FULLY_CONNECTED    BuiltinOperator = 9
	MAX_POOL_2D        BuiltinOperator = 17
	RESHAPE            BuiltinOperator = 22
	MEAN               BuiltinOperator = 40
)

var builtinOperatorNames = map[BuiltinOperator]string{
	ADD:               "ADD",
	AVERAGE_POOL_2D:   "AVERAGE_POOL_2D",
	CONCATENATION:     "CONCATENATION",
	CONV_2D:           "CONV_2D",
	DEPTHWISE_CONV_2D: "DEPTHWISE_CONV_2D",
	FULLY_CONNECTED:   "FULLY_CONNECTED",
	MAX_POOL_2D:       "MAX_POOL_2D",
	RESHAPE:           "RESHAPE",
	MEAN:              "MEAN",
}

// Name returns the opcode's schema name, or "OPCODE_UNKNOWN" for opcodes
// outside the subset this package names.
func (b BuiltinOperator) Name() string {
	if n, ok := builtinOperatorNames[b]; ok {
		return n
	}
	return "OPCODE_UNKNOWN"
}

// TensorType is the tensor element-type enumeration from schema.fbs.
type TensorType int8

const (
	FLOAT32 TensorType = 0
	FLOAT16 TensorType = 1
	INT32   TensorType = 2
	UINT8   TensorType = 3
	INT64   TensorType = 4
	STRING  TensorType = 5
	BOOL    TensorType = 6
	INT16   TensorType = 7
	INT8    TensorType = 9
)
