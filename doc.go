// Package nnsched analyzes TFLite models for activation-memory efficiency
// and can patch them in place to use a lower-peak-memory execution order.
//
// Given a model's flatbuffer bytes, nnsched builds an in-memory graph of
// the first subgraph's tensors and operators, reports per-tensor and
// per-operator cost figures, searches for the operator order minimizing
// peak working-set memory, and either reports the result or rewrites the
// model's operator vector in place to use it.
//
// Everything is organized under a handful of subpackages:
//
//	tflite/    — flatbuffer accessors for the subset of the TFLite schema nnsched reads
//	graph/     — tensor/operator DAG construction and predecessor analysis
//	lifetime/  — per-tensor first-use/last-use bounds and working-set sizing
//	cost/      — per-operator MAC counts and weight-byte totals
//	schedule/  — the memoized backward subset search for minimal peak memory
//	rewrite/   — in-place patching of the subgraph's operator vector
//	cluster/   — k-means weight clustering for CONV_2D/DEPTHWISE_CONV_2D/FULLY_CONNECTED kernels
//	report/    — tensor/schedule tables, CSV export, and peak-memory plots
//
// A single model is loaded once via Load and then driven through its
// methods; nnsched holds exclusive ownership of the underlying bytes for
// the lifetime of a Model, and a Model is not meant to be shared across
// goroutines.
package nnsched
