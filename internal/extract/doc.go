// Package extract recovers structured values from input the format parsers
// rejected, by asking a chat-completion model to restate it as JSON.
//
// The engine only consults an Extractor after a parse error. Nothing here is
// part of the engine's correctness guarantees: a reply that cannot be read as
// JSON is passed back wrapped as {"raw_content": ..., "parsed": false}.
package extract
