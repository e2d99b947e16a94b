// Package core defines the data model produced by the JACL parser.
//
// This package contains:
//   - Scalar values (Value) and their kinds
//   - Structures (Struct) in three variants: Object, Table and Map
//   - Insertion-ordered maps backing entries and properties
//   - The pure merge operation applied to repeated declarations
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// The lexer, parser and query layer depend on core, not the reverse.
package core
