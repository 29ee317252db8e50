package ast

import "github.com/txta-lang/txtacheck/source"

// Symbol is a resolved identifier with a type. Equality is identity, so
// Symbols are always passed and compared as pointers, never copied.
type Symbol struct {
	Name string
	Type Type
	Pos  source.Pos
}
