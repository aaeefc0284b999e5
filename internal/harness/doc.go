// Package harness runs scenario files against the engine.
//
// A scenario is a YAML file holding one request, optional engine settings
// and a canned model reply for fallback extraction, the expected outcome,
// and assertions on the sorted records and rendered output. Each scenario
// runs with a deterministic clock and run ID against a fresh in-memory
// store, so its snapshot is byte-stable and can be compared with a golden
// file.
package harness
