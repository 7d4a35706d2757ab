// Package types defines the column schema, cell values, snapshots, the Store
// and Observer interfaces, and the standard errors for the tabula table store.
//
// Coerce is the single place where untyped edit input becomes a typed Value;
// nothing deeper in the store parses strings.
package types
