// Package build is the system builder of §4.9 (D3): it resolves every
// declared name to a Symbol, assigns ExprIDs in the System's arena, and
// produces the populated *ast.System the checker package operates on. It
// is spec.md's "symbol-table and scope construction" collaborator, given a
// concrete implementation so the module runs end to end.
package build

import (
	"fmt"

	"github.com/txta-lang/txtacheck/ast"
	"github.com/txta-lang/txtacheck/eval"
	"github.com/txta-lang/txtacheck/parse"
	"github.com/txta-lang/txtacheck/source"
)

type builder struct {
	sys        *ast.System
	sink       source.Sink
	typedefs   map[string]*ast.Frame
	templates  map[string]*ast.Template
	global     *scope
	instByName map[string]*ast.Instance
}

// Build resolves a parsed File into a System. Symbol resolution failures
// (unknown identifier, unknown type, unknown template) are reported
// through sink and leave the offending Symbol pointer nil rather than
// aborting the build, so the checker still sees as much of the system as
// could be resolved.
func Build(f *parse.File, sink source.Sink) (*ast.System, bool) {
	b := &builder{
		sys:        ast.NewSystem(),
		sink:       sink,
		typedefs:   make(map[string]*ast.Frame),
		templates:  make(map[string]*ast.Template),
		instByName: make(map[string]*ast.Instance),
	}
	b.global = newScope(nil)

	for _, td := range f.Typedefs {
		b.buildTypedef(td)
	}
	for _, d := range f.Globals {
		b.buildGlobalDecl(d)
	}
	for _, t := range f.Templates {
		b.buildTemplate(t)
	}
	for _, inst := range f.Instances {
		b.buildInstance(inst)
	}
	b.resolveSystem(f.System)
	for _, q := range f.Queries {
		b.sys.Queries = append(b.sys.Queries, &ast.Query{Expr: b.buildExpr(b.global, q.Expr), Pos: q.Pos})
	}

	b.foldConstants()

	return b.sys, !sink.HasErrors()
}

func (b *builder) buildTypedef(td parse.TypedefDecl) {
	frame := &ast.Frame{Name: td.Name}
	for _, f := range td.Fields {
		frame.Entries = append(frame.Entries, ast.FrameEntry{Name: f.Name, Type: b.resolveType(b.global, f.Type)})
	}
	b.typedefs[td.Name] = frame
}

func (b *builder) buildGlobalDecl(d parse.Decl) {
	v := b.buildVariable(b.global, d)
	if d.Type.Const {
		b.sys.Consts = append(b.sys.Consts, v)
	} else {
		b.sys.Globals = append(b.sys.Globals, v)
	}
}

func (b *builder) buildVariable(sc *scope, d parse.Decl) *ast.Variable {
	t := b.resolveType(sc, d.Type)
	sym := &ast.Symbol{Name: d.Name, Type: t, Pos: d.Pos}
	sc.define(sym)
	init := b.buildExpr(sc, d.Init)
	return &ast.Variable{Symbol: sym, Init: init}
}

func (b *builder) resolveType(sc *scope, t *parse.TypeSpec) ast.Type {
	if t == nil {
		return ast.TypeVoid
	}
	var prefixes ast.Prefix
	if t.Const {
		prefixes |= ast.CONST
	}
	if t.Reference {
		prefixes |= ast.REFERENCE
	}
	if t.Urgent {
		prefixes |= ast.URGENT
	}
	if t.Broadcast {
		prefixes |= ast.BROADCAST
	}

	switch t.Base {
	case "void":
		r := ast.TypeVoid
		r.Prefixes = prefixes
		return r
	case "clock":
		r := ast.TypeClock
		r.Prefixes = prefixes
		return r
	case "bool":
		r := ast.TypeBool
		r.Prefixes = prefixes
		return r
	case "int":
		r := ast.TypeInt
		r.Prefixes = prefixes
		if t.RangeLo != nil {
			r.RangeLo = b.buildExpr(sc, t.RangeLo)
			r.RangeHi = b.buildExpr(sc, t.RangeHi)
		}
		return r
	case "chan":
		r := ast.ChannelOf(prefixes)
		return r
	case "array":
		elem := b.resolveType(sc, t.Elem)
		r := ast.ArrayOf(b.buildExpr(sc, t.ArraySize), elem)
		r.Prefixes = prefixes
		return r
	case "record":
		frame := b.typedefs[t.RecordName]
		if t.RecordName == "" {
			frame = &ast.Frame{}
			for _, f := range t.Fields {
				frame.Entries = append(frame.Entries, ast.FrameEntry{Name: f.Name, Type: b.resolveType(sc, f.Type)})
			}
		} else if frame == nil {
			b.sink.HandleError(source.NoPos, source.NoPos, fmt.Sprintf("unknown record type %q", t.RecordName))
			frame = &ast.Frame{}
		}
		r := ast.RecordOf(frame)
		r.Prefixes = prefixes
		return r
	default:
		b.sink.HandleError(source.NoPos, source.NoPos, fmt.Sprintf("unknown type %q", t.Base))
		return ast.TypeVoid
	}
}

// buildExpr converts a parse.Expr into the arena, resolving IDENTIFIER and
// FUNCALL-callee names against sc as it descends.
func (b *builder) buildExpr(sc *scope, e *parse.Expr) ast.ExprID {
	if e == nil {
		return ast.NoExpr
	}
	children := make([]ast.ExprID, len(e.Children))
	for i, c := range e.Children {
		children[i] = b.buildExpr(sc, c)
	}
	n := ast.Node{
		Kind:        e.Kind,
		Children:    children,
		ChildNames:  e.ChildNames,
		Int:         e.Int,
		Name:        e.Name,
		SyncReceive: e.SyncReceive,
		Pos:         e.Pos,
		End:         e.End,
	}
	if e.Kind == ast.IDENTIFIER {
		sym := sc.lookup(e.Name)
		if sym == nil {
			msg := fmt.Sprintf("undeclared identifier %q", e.Name)
			if hint := sc.suggest(e.Name); hint != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", hint)
			}
			b.sink.HandleError(e.Pos, e.End, msg)
		}
		n.Symbol = sym
	}
	return b.sys.NewExpr(n)
}

func (b *builder) paramFrame(sc *scope, params []parse.Param) (*ast.Frame, []*ast.Symbol) {
	frame := &ast.Frame{}
	syms := make([]*ast.Symbol, 0, len(params))
	for _, p := range params {
		t := b.resolveType(sc, p.Type)
		sym := &ast.Symbol{Name: p.Name, Type: t}
		sc.define(sym)
		frame.Entries = append(frame.Entries, ast.FrameEntry{Name: p.Name, Type: t})
		syms = append(syms, sym)
	}
	return frame, syms
}

func (b *builder) buildTemplate(td parse.TemplateDecl) *ast.Template {
	tsc := newScope(b.global)
	params, paramSy := b.paramFrame(tsc, td.Params)

	t := &ast.Template{Params: params, ParamSy: paramSy}
	t.Symbol = &ast.Symbol{Name: td.Name, Type: ast.TypeVoid, Pos: td.Pos}
	b.global.define(t.Symbol)

	for _, d := range td.Locals {
		v := b.buildVariable(tsc, d)
		if d.Type.Const {
			t.Consts = append(t.Consts, v)
		} else {
			t.Locals = append(t.Locals, v)
		}
	}

	for _, fd := range td.Funcs {
		t.Funcs = append(t.Funcs, b.buildFunction(tsc, fd))
	}

	states := make(map[string]*ast.State, len(td.States))
	for _, sd := range td.States {
		st := &ast.State{
			Symbol:    &ast.Symbol{Name: sd.Name, Type: ast.TypeVoid, Pos: sd.Pos},
			Invariant: b.buildExpr(tsc, sd.Invariant),
		}
		states[sd.Name] = st
		t.States = append(t.States, st)
	}
	if td.Init != "" {
		t.Init = states[td.Init]
		if t.Init == nil {
			b.sink.HandleError(td.Pos, td.Pos, fmt.Sprintf("unknown initial location %q", td.Init))
		}
	}

	for _, trd := range td.Trans {
		tr := &ast.Transition{Source: states[trd.Source], Target: states[trd.Target]}
		if tr.Source == nil {
			b.sink.HandleError(trd.Pos, trd.Pos, fmt.Sprintf("unknown location %q", trd.Source))
		}
		if tr.Target == nil {
			b.sink.HandleError(trd.Pos, trd.Pos, fmt.Sprintf("unknown location %q", trd.Target))
		}
		tr.Guard = b.buildExpr(tsc, trd.Guard)
		tr.Sync = b.buildExpr(tsc, trd.Sync)
		if trd.Assign != nil {
			tr.Assign = b.buildExpr(tsc, trd.Assign)
		} else {
			tr.Assign = b.sys.NewExpr(ast.Node{Kind: ast.CONSTANT, Int: 1, Pos: trd.Pos, End: trd.Pos})
			tr.ImplicitAssign = true
		}
		t.Trans = append(t.Trans, tr)
	}

	b.registerTemplate(td.Name, t)
	return t
}

func (b *builder) registerTemplate(name string, t *ast.Template) {
	b.templates[name] = t
	b.sys.Templates = append(b.sys.Templates, t)
}

func (b *builder) buildFunction(tsc *scope, fd parse.FuncDecl) *ast.Function {
	fsc := newScope(tsc)
	params, _ := b.paramFrame(fsc, fd.Params)
	ret := b.resolveType(tsc, fd.Return)
	sym := &ast.Symbol{Name: fd.Name, Type: ast.FuncOf(params, ret), Pos: fd.Pos}
	tsc.define(sym)

	f := &ast.Function{Symbol: sym, Params: params}
	for _, s := range fd.Body {
		f.Body = append(f.Body, b.buildStmt(fsc, s))
	}
	return f
}

func (b *builder) buildStmt(sc *scope, s parse.Stmt) ast.Stmt {
	switch st := s.(type) {
	case *parse.EmptyStmt:
		return &ast.EmptyStmt{}
	case *parse.ExprStmt:
		return &ast.ExprStmt{Expr: b.buildExpr(sc, st.Expr)}
	case *parse.ForStmt:
		return &ast.ForStmt{
			Init: b.buildExpr(sc, st.Init), Cond: b.buildExpr(sc, st.Cond), Step: b.buildExpr(sc, st.Step),
			Body: b.buildStmt(sc, st.Body),
		}
	case *parse.WhileStmt:
		return &ast.WhileStmt{Cond: b.buildExpr(sc, st.Cond), Body: b.buildStmt(sc, st.Body)}
	case *parse.DoWhileStmt:
		return &ast.DoWhileStmt{Cond: b.buildExpr(sc, st.Cond), Body: b.buildStmt(sc, st.Body)}
	case *parse.BlockStmt:
		block := &ast.BlockStmt{}
		inner := newScope(sc)
		for _, s := range st.Stmts {
			block.Stmts = append(block.Stmts, b.buildStmt(inner, s))
		}
		return block
	case *parse.IfStmt:
		ifs := &ast.IfStmt{Cond: b.buildExpr(sc, st.Cond), Then: b.buildStmt(sc, st.Then)}
		if st.Else != nil {
			ifs.Else = b.buildStmt(sc, st.Else)
		}
		return ifs
	case *parse.SwitchStmt:
		return &ast.SwitchStmt{Cond: b.buildExpr(sc, st.Cond), Body: b.buildStmt(sc, st.Body)}
	case *parse.CaseStmt:
		return &ast.CaseStmt{Cond: b.buildExpr(sc, st.Cond), Body: b.buildStmt(sc, st.Body)}
	case *parse.DefaultStmt:
		return &ast.DefaultStmt{Body: b.buildStmt(sc, st.Body)}
	case *parse.BreakStmt:
		return &ast.BreakStmt{}
	case *parse.ContinueStmt:
		return &ast.ContinueStmt{}
	case *parse.ReturnStmt:
		return &ast.ReturnStmt{Value: b.buildExpr(sc, st.Value)}
	default:
		return &ast.EmptyStmt{}
	}
}

func (b *builder) buildInstance(id parse.InstanceDecl) {
	tmpl := b.templates[id.TemplateName]
	if tmpl == nil {
		b.sink.HandleError(id.Pos, id.Pos, fmt.Sprintf("unknown process %q", id.TemplateName))
		return
	}
	inst := &ast.Instance{
		Symbol:   &ast.Symbol{Name: id.Name, Type: ast.TypeVoid, Pos: id.Pos},
		Template: tmpl,
	}
	for i, arg := range id.Args {
		if i >= len(tmpl.ParamSy) {
			b.sink.HandleError(id.Pos, id.Pos, fmt.Sprintf("too many arguments to %q", id.TemplateName))
			break
		}
		inst.Args = append(inst.Args, ast.InstanceArg{Param: tmpl.ParamSy[i], Arg: b.buildExpr(b.global, arg)})
	}
	b.global.define(inst.Symbol)
	b.instByName[id.Name] = inst
}

// resolveSystem appends the instances named in a "system p1, p2, ...;"
// statement, in listed order; a document with no system statement (the
// markup dialect's <system> element is handled the same way upstream)
// composes every declared instance, matching how a single-process model
// with no explicit system line is normally accepted.
func (b *builder) resolveSystem(stmt *parse.SystemStmt) {
	if stmt == nil {
		for _, inst := range b.instByName {
			b.sys.Instances = append(b.sys.Instances, inst)
		}
		return
	}
	for _, name := range stmt.Names {
		inst, ok := b.instByName[name]
		if !ok {
			b.sink.HandleError(stmt.Pos, stmt.Pos, fmt.Sprintf("unknown process instance %q", name))
			continue
		}
		b.sys.Instances = append(b.sys.Instances, inst)
	}
}

// foldConstants evaluates every const declaration's initializer against the
// constants folded so far, in declaration order, and records the result in
// sys.ConstVal. An initializer that isn't yet computable (e.g. it depends
// on a template parameter) is left out of ConstVal; the checker treats a
// missing entry as "not a known constant" rather than an error here.
func (b *builder) foldConstants() {
	interp := eval.NewInterpreter(b.sys, 256)
	fold := func(consts []*ast.Variable) {
		for _, v := range consts {
			if v.Init == ast.NoExpr {
				continue
			}
			val, err := interp.EvalInt(b.sys, v.Init, nil)
			if err == nil {
				b.sys.ConstVal[v.Symbol] = val
			}
		}
	}
	fold(b.sys.Consts)
	for _, t := range b.sys.Templates {
		fold(t.Consts)
	}
}
