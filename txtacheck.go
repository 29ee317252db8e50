// Package txtacheck is the module's top-level entry point: the four
// parse→build→check pipelines of SPEC_FULL.md §6.
package txtacheck

import (
	"github.com/txta-lang/txtacheck/ast"
	"github.com/txta-lang/txtacheck/build"
	"github.com/txta-lang/txtacheck/eval"
	"github.com/txta-lang/txtacheck/parse"
	"github.com/txta-lang/txtacheck/semantic"
	"github.com/txta-lang/txtacheck/source"
)

// CheckBuffer type-checks buf as a single classic-dialect document named
// name, reporting everything through sink. It returns the built system
// (nil if parsing failed, possibly partial if building failed) and whether
// the whole pipeline succeeded.
func CheckBuffer(name string, buf []byte, sink source.Sink) (*ast.System, bool) {
	list := source.FromBuffer(name, buf)
	return run(list, sink, parse.Parse)
}

// CheckFile is CheckBuffer over the concatenation of one or more files,
// following #include-style multi-file source lists (§6).
func CheckFile(filenames []string, sink source.Sink) (*ast.System, bool) {
	list, err := source.Concat(filenames, nil)
	if err != nil {
		sink.HandleError(source.NoPos, source.NoPos, err.Error())
		return nil, false
	}
	return run(list, sink, parse.Parse)
}

// CheckMarkupBuffer is CheckBuffer for the XML dialect.
func CheckMarkupBuffer(name string, buf []byte, sink source.Sink) (*ast.System, bool) {
	list := source.FromBuffer(name, buf)
	return run(list, sink, parse.ParseMarkup)
}

// CheckMarkupFile is CheckFile for the XML dialect.
func CheckMarkupFile(filenames []string, sink source.Sink) (*ast.System, bool) {
	list, err := source.Concat(filenames, nil)
	if err != nil {
		sink.HandleError(source.NoPos, source.NoPos, err.Error())
		return nil, false
	}
	return run(list, sink, parse.ParseMarkup)
}

func run(list *source.List, sink source.Sink, parseFn func(*source.List, source.Sink) (*parse.File, bool)) (*ast.System, bool) {
	f, ok := parseFn(list, sink)
	if !ok {
		return nil, false
	}
	sys, ok := build.Build(f, sink)
	if !ok {
		return sys, false
	}
	ev := eval.NewInterpreter(sys, 1024)
	return sys, semantic.Check(sys, sink, ev)
}
