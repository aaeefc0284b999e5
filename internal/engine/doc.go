// Package engine runs the structure-sort pipeline.
//
// A Request flows through four stages:
//
//  1. parse: raw text -> value.Value (format.ParseDocument), with an
//     optional fallback Extractor consulted only on *format.ParseError
//  2. flatten: value -> records (flatten.Flatten)
//  3. sort: records -> records (sorter.Resolve + sorter.Sort)
//  4. render: records -> text (format.Render)
//
// Empty input and parse failures end the run with success=false and no
// partial output. Unknown sort keys and missing fields never fail a run;
// they show up in the result's Stats.
//
// Batch processing fans requests out over a bounded errgroup and collects
// results by input index. Each run is appended to an in-memory history and,
// when configured, handed to a Recorder.
package engine
