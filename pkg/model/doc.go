// Package model defines the typed field definitions shared by the schema
// loader, the field type registry, and the query builder. It is a leaf
// package: field kinds are a closed string enum and operator names are
// canonical constants, so every other package dispatches on declared types
// instead of inspecting raw config values at evaluation time.
package model
