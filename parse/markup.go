package parse

import (
	"encoding/xml"
	"fmt"

	"github.com/txta-lang/txtacheck/source"
)

// The markup dialect has no representation in the example pack's dependency
// stack (none of the teacher's or the rest of the pack's go.mod files
// import an XML or templating library for parsing structured documents),
// so this file is the one place the checker leans on the standard
// library's encoding/xml rather than a third-party package.

type xmlNTA struct {
	Declaration string        `xml:"declaration"`
	Templates   []xmlTemplate `xml:"template"`
	System      string        `xml:"system"`
	Queries     []xmlQuery    `xml:"queries>query"`
}

type xmlTemplate struct {
	Name        string          `xml:"name"`
	Parameter   string          `xml:"parameter"`
	Declaration string          `xml:"declaration"`
	Locations   []xmlLocation   `xml:"location"`
	Init        xmlInit         `xml:"init"`
	Transitions []xmlTransition `xml:"transition"`
}

type xmlLocation struct {
	ID     string     `xml:"id,attr"`
	Name   string     `xml:"name"`
	Labels []xmlLabel `xml:"label"`
}

type xmlInit struct {
	Ref string `xml:"ref,attr"`
}

type xmlTransition struct {
	Source xmlInit    `xml:"source"`
	Target xmlInit    `xml:"target"`
	Labels []xmlLabel `xml:"label"`
}

type xmlLabel struct {
	Kind string `xml:"kind,attr"`
	Text string `xml:",chardata"`
}

type xmlQuery struct {
	Formula string `xml:"formula"`
}

// ParseMarkup parses the XML dialect, reusing the classic expression and
// declaration grammar for every text fragment the document carries
// (declarations, guards, invariants, assignments, synchronisations,
// parameter lists, and query formulas), matching §4.8's "element for
// element" mirroring of the classic dialect.
func ParseMarkup(list *source.List, sink source.Sink) (f *File, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			pe, isPE := r.(parseError)
			if !isPE {
				panic(r)
			}
			sink.HandleError(pe.pos, pe.pos, pe.msg)
			ok = false
		}
	}()
	var doc xmlNTA
	if err := xml.Unmarshal([]byte(list.Text), &doc); err != nil {
		sink.HandleError(source.NoPos, source.NoPos, fmt.Sprintf("malformed markup document: %v", err))
		return nil, false
	}

	f = &File{}
	if ok := parseFragmentInto(f, doc.Declaration, sink); !ok {
		return f, false
	}

	locNames := make(map[string]string) // id -> name, for source/target resolution
	for _, tpl := range doc.Templates {
		locNames = map[string]string{}
		for _, loc := range tpl.Locations {
			locNames[loc.ID] = loc.Name
		}
		td, ok := buildXMLTemplate(tpl, locNames, sink)
		if !ok {
			return f, false
		}
		f.Templates = append(f.Templates, td)
	}

	if doc.System != "" {
		sysFrag, ok := Parse(source.FromBuffer("<system>", []byte(doc.System+"\n")), sink)
		if !ok {
			return f, false
		}
		f.System = sysFrag.System
		f.Instances = append(f.Instances, sysFrag.Instances...)
		f.Globals = append(f.Globals, sysFrag.Globals...)
	}

	for _, q := range doc.Queries {
		if q.Formula == "" {
			continue
		}
		qp := &parser{toks: lex(q.Formula + ";")}
		var parsed QueryDecl
		failed := false
		func() {
			defer func() {
				if r := recover(); r != nil {
					pe, isPE := r.(parseError)
					if !isPE {
						panic(r)
					}
					sink.HandleError(pe.pos, pe.pos, pe.msg)
					failed = true
				}
			}()
			parsed = qp.parseQuery()
		}()
		if failed {
			return f, false
		}
		f.Queries = append(f.Queries, parsed)
	}

	return f, !sink.HasErrors()
}

// parseFragmentInto parses a standalone declaration fragment (global
// variables, typedefs, and process instantiations) and merges it into f.
func parseFragmentInto(f *File, text string, sink source.Sink) bool {
	if text == "" {
		return true
	}
	frag, ok := Parse(source.FromBuffer("<declaration>", []byte(text)), sink)
	if !ok {
		return false
	}
	f.Typedefs = append(f.Typedefs, frag.Typedefs...)
	f.Globals = append(f.Globals, frag.Globals...)
	f.Instances = append(f.Instances, frag.Instances...)
	return true
}

func buildXMLTemplate(tpl xmlTemplate, locNames map[string]string, sink source.Sink) (TemplateDecl, bool) {
	td := TemplateDecl{Name: tpl.Name}

	if tpl.Parameter != "" {
		pp := &parser{toks: lex(tpl.Parameter + ")")}
		pp.toks = append([]token{{kind: tPunct, text: "("}}, pp.toks...)
		td.Params = pp.parseParamList()
	}

	tmpFile := &File{}
	if !parseFragmentInto(tmpFile, tpl.Declaration, sink) {
		return td, false
	}
	td.Locals = tmpFile.Globals

	for _, loc := range tpl.Locations {
		sd := StateDecl{Name: loc.Name}
		for _, lbl := range loc.Labels {
			if lbl.Kind != "invariant" || lbl.Text == "" {
				continue
			}
			ep := &parser{toks: lex(lbl.Text)}
			sd.Invariant = ep.parseExpr()
		}
		td.States = append(td.States, sd)
	}
	if tpl.Init.Ref != "" {
		td.Init = locNames[tpl.Init.Ref]
	}

	for _, tr := range tpl.Transitions {
		rd := TransitionDecl{Source: locNames[tr.Source.Ref], Target: locNames[tr.Target.Ref]}
		for _, lbl := range tr.Labels {
			if lbl.Text == "" {
				continue
			}
			ep := &parser{toks: lex(lbl.Text + ";")}
			switch lbl.Kind {
			case "guard":
				rd.Guard = ep.parseExpr()
			case "synchronisation":
				rd.Sync = ep.parseExpr()
			case "assignment":
				rd.Assign = ep.parseExpr()
			}
		}
		td.Trans = append(td.Trans, rd)
	}

	return td, true
}
