// Package tflite is a hand-trimmed set of flatbuffer accessors for the
// subset of the TFLite model schema (schema.fbs) that the rest of nnsched
// touches: Model, SubGraph, Operator, OperatorCode, Tensor and Buffer, plus
// the BuiltinOperator/TensorType enumerations and Pool2DOptions.
//
// This package is deliberately thin. It mirrors the shape flatc itself
// generates (a _tab flatbuffers.Table embedded per type, field accessors
// computed from the type's vtable), but only for the fields nnsched reads.
// It is a pure flatbuffer decoder — none of the scheduling, costing or
// rewriting logic lives here.
package tflite
