// Package extract turns one free-text utterance into structured entity
// proposals against the current specification.
//
// Extraction is pattern/heuristic matching, not natural-language parsing.
// Extract is a pure function of its inputs: no hidden state, no I/O,
// deterministic for identical input. All side effects (merging, status,
// question selection) belong to the dialog controller, which keeps this
// package unit-testable without a live conversation.
//
// The central disambiguation rule is multi-item splitting: when a clause
// yields more than one candidate entity ("components: AcSystem, Engine"),
// the engine emits independent proposals rather than one garbled name.
// Unrecognized fragments are dropped, never fabricated into entities;
// the ambiguity-note channel reports what was discarded so the controller
// can decide whether to re-prompt.
package extract
