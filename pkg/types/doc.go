// Package types defines the record, value and schema types, the Table
// interface, the project and sector entities, and the standard error values
// shared by every sectorboard component.
package types
