// Package rng implements streaming RELAX NG validation based on pattern
// derivatives.
//
// A schema front-end builds one canonical pattern tree through a Builder and
// compiles it into an Engine. The engine validates any number of documents,
// concurrently, by computing event-by-event residual patterns: each document
// event yields the pattern describing the remaining valid continuations, so
// validation is single-pass with no backtracking. The same pattern
// primitives back the static ambiguity analysis used when translating
// grammars into stricter schema formalisms.
package rng
