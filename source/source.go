// Package source tracks byte-offset positions across one or more
// concatenated input files and collects the diagnostics the checker and its
// collaborators emit against those positions.
package source

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Pos is a byte offset into a List's concatenated text. NoPos means the
// position is unknown or the expression is empty.
type Pos int

const NoPos Pos = -1

// File records where one input's text begins in the concatenated buffer.
type File struct {
	Name  string
	start Pos
	Text  []byte
}

func (f File) position(text []byte, pos Pos) (line, col int) {
	line = 1
	lineStart := int(f.start)
	for i := lineStart; i < int(pos) && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, int(pos) - lineStart + 1
}

// List is the concatenation of one or more named source files (or a single
// unnamed buffer) together with the error sink collected while parsing and
// checking them.
type List struct {
	Text  string
	Files []File
	errs  Diagnostics
}

// Concat reads filenames in order and appends buf (the unnamed tail buffer,
// e.g. a CLI-supplied query or a markup document) after them.
func Concat(filenames []string, buf []byte) (*List, error) {
	var b strings.Builder
	var files []File
	for _, name := range filenames {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: name, start: Pos(b.Len()), Text: data})
		b.Write(data)
		b.WriteByte('\n')
	}
	files = append(files, File{Name: "", start: Pos(b.Len()), Text: buf})
	b.Write(buf)
	return &List{Text: b.String(), Files: files}, nil
}

// FromBuffer wraps a single named buffer, with no include files.
func FromBuffer(name string, buf []byte) *List {
	return &List{Text: string(buf), Files: []File{{Name: name, start: 0, Text: buf}}}
}

func (l *List) fileOf(pos Pos) File {
	i := sort.Search(len(l.Files), func(i int) bool { return l.Files[i].start > pos }) - 1
	if i < 0 {
		i = 0
	}
	return l.Files[i]
}

// Sink is the error handler collaborator of §6: the checker and its
// collaborators append to it but never read or clear it mid-pass.
type Sink interface {
	HandleError(pos, end Pos, msg string)
	HandleWarning(pos, end Pos, msg string)
	HasErrors() bool
}

// Diagnostic is a single (position, severity, message) triple.
type Diagnostic struct {
	Pos, End Pos
	Warning  bool
	Msg      string
	list     *List
}

func (d Diagnostic) String() string {
	if d.list == nil {
		return d.Msg
	}
	f := d.list.fileOf(d.Pos)
	line, col := f.position([]byte(d.list.Text), d.Pos)
	var b strings.Builder
	b.WriteString(d.Msg)
	if f.Name != "" {
		fmt.Fprintf(&b, " in %s", f.Name)
	}
	fmt.Fprintf(&b, " at line %d, column %d", line, col)
	return b.String()
}

// Diagnostics is an ordered list of Diagnostic; it implements error so a
// whole pass's worth of diagnostics can be returned as a single error value.
type Diagnostics []Diagnostic

func (d Diagnostics) Error() string {
	var b strings.Builder
	for i, diag := range d {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(diag.String())
	}
	return b.String()
}

func (l *List) HandleError(pos, end Pos, msg string) {
	l.errs = append(l.errs, Diagnostic{Pos: pos, End: end, Msg: msg, list: l})
}

func (l *List) HandleWarning(pos, end Pos, msg string) {
	l.errs = append(l.errs, Diagnostic{Pos: pos, End: end, Warning: true, Msg: msg, list: l})
}

func (l *List) HasErrors() bool {
	for _, d := range l.errs {
		if !d.Warning {
			return true
		}
	}
	return false
}

// Diagnostics returns every diagnostic recorded so far, errors and warnings
// alike, in the order the checker emitted them.
func (l *List) Diagnostics() Diagnostics {
	return l.errs
}

// Error returns a non-nil error iff at least one error-severity diagnostic
// was recorded.
func (l *List) Error() error {
	if !l.HasErrors() {
		return nil
	}
	return l.errs
}
