// Package harness provides a conformance testing framework for the
// conditional layout engine.
//
// A scenario bundles a scene (view tree, rules, script) with assertions on
// the resulting activation trace and final active sets. Unlike hand-written
// unit tests, scenarios exercise the whole pipeline: YAML decoding, condition
// compilation, observer installation, script-driven state mutation, update
// coalescing, and pass recording.
//
// Scenarios run against the real engine. Item ids come from the sequential
// generator and pass sequence numbers from the engine clock, so the same
// scenario always produces byte-identical traces; golden files (see
// RunWithGolden) pin those traces down.
package harness
