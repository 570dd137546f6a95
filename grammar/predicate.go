package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// WherePredicate is a parsed `where` clause: a relational expression over
// labeled sibling elements of the rule it is attached to (spec.md §4.1,
// e.g. `where length == uint16(len(content))`). The raw text is retained so
// it can be re-emitted verbatim when the grammar is serialized back to the
// oracle (spec.md §6's request schema carries `grammar_text`).
type WherePredicate struct {
	Raw  string
	expr whereExpr
}

func (p *WherePredicate) String() string { return "where " + p.Raw }

// whereExpr is the tiny expression AST: identifiers (bound to a sibling's
// rendered value), integer literals, unary casts, and binary comparisons.
type whereExpr interface {
	eval(bindings map[string]GenValue) (GenValue, error)
}

type identExpr struct{ name string }

func (e *identExpr) eval(b map[string]GenValue) (GenValue, error) {
	v, ok := b[e.name]
	if !ok {
		return GenValue{}, fmt.Errorf("undefined reference in where-clause: %s", e.name)
	}
	return v, nil
}

type intLitExpr struct{ v int64 }

func (e *intLitExpr) eval(map[string]GenValue) (GenValue, error) { return IntValue(e.v), nil }

type callExpr struct {
	name string
	arg  whereExpr
}

func (e *callExpr) eval(b map[string]GenValue) (GenValue, error) {
	v, err := e.arg.eval(b)
	if err != nil {
		return GenValue{}, err
	}
	switch e.name {
	case "len":
		return IntValue(int64(len(v.String()))), nil
	case "uint16":
		f, ok := v.AsFloat()
		if !ok {
			return GenValue{}, fmt.Errorf("uint16: argument is not numeric")
		}
		return IntValue(int64(uint16(int64(f)))), nil
	case "int":
		f, ok := v.AsFloat()
		if !ok {
			return GenValue{}, fmt.Errorf("int: argument is not numeric")
		}
		return IntValue(int64(f)), nil
	}
	return GenValue{}, fmt.Errorf("unknown function in where-clause: %s", e.name)
}

type binExpr struct {
	op   string
	l, r whereExpr
}

func (e *binExpr) eval(b map[string]GenValue) (GenValue, error) {
	lv, err := e.l.eval(b)
	if err != nil {
		return GenValue{}, err
	}
	rv, err := e.r.eval(b)
	if err != nil {
		return GenValue{}, err
	}

	if e.op == "==" || e.op == "!=" {
		eq := lv.String() == rv.String()
		if lf, ok := lv.AsFloat(); ok {
			if rf, ok := rv.AsFloat(); ok {
				eq = lf == rf
			}
		}
		if e.op == "!=" {
			eq = !eq
		}
		return BoolValue(eq), nil
	}

	lf, ok1 := lv.AsFloat()
	rf, ok2 := rv.AsFloat()
	if !ok1 || !ok2 {
		return GenValue{}, fmt.Errorf("operator %s requires numeric operands", e.op)
	}
	var res bool
	switch e.op {
	case "<":
		res = lf < rf
	case ">":
		res = lf > rf
	case "<=":
		res = lf <= rf
	case ">=":
		res = lf >= rf
	default:
		return GenValue{}, fmt.Errorf("unknown operator: %s", e.op)
	}
	return BoolValue(res), nil
}

// Eval evaluates a where-predicate against bound sibling values. A reject
// (predicate false) signals the generator to retry the parent expansion
// (spec.md §4.2).
func (p *WherePredicate) Eval(bindings map[string]GenValue) (bool, error) {
	v, err := p.expr.eval(bindings)
	if err != nil {
		return false, err
	}
	if v.kind != "bool" {
		return false, fmt.Errorf("where-clause did not evaluate to a boolean: %q", p.Raw)
	}
	return v.b, nil
}

// ParseWhere parses the text following a `where` keyword into a
// WherePredicate. Supported grammar:
//
//	expr       := call | ident | intLit
//	expr        (op) expr      where op in {==, !=, <, >, <=, >=}
//	call       := NAME '(' expr ')'
//	ident      := <NAME> | NAME
func ParseWhere(text string) (*WherePredicate, error) {
	toks, err := tokenizeWhere(text)
	if err != nil {
		return nil, err
	}
	p := &whereParser{toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected trailing tokens in where-clause: %q", text)
	}
	return &WherePredicate{Raw: strings.TrimSpace(text), expr: e}, nil
}

type whereParser struct {
	toks []string
	pos  int
}

func (p *whereParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *whereParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *whereParser) parseExpr() (whereExpr, error) {
	l, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch p.peek() {
	case "==", "!=", "<", ">", "<=", ">=":
		op := p.next()
		r, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &binExpr{op: op, l: l, r: r}, nil
	}
	return l, nil
}

func (p *whereParser) parsePrimary() (whereExpr, error) {
	t := p.next()
	if t == "" {
		return nil, fmt.Errorf("unexpected end of where-clause")
	}
	if t == "(" {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("expected closing ')' in where-clause")
		}
		return e, nil
	}
	if strings.HasPrefix(t, "<") && strings.HasSuffix(t, ">") {
		return &identExpr{name: strings.TrimSuffix(strings.TrimPrefix(t, "<"), ">")}, nil
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return &intLitExpr{v: n}, nil
	}
	if p.peek() == "(" {
		p.next()
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("expected closing ')' after call to %s", t)
		}
		return &callExpr{name: t, arg: arg}, nil
	}
	return &identExpr{name: t}, nil
}

func tokenizeWhere(text string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case strings.HasPrefix(text[i:], "=="), strings.HasPrefix(text[i:], "!="),
			strings.HasPrefix(text[i:], "<="), strings.HasPrefix(text[i:], ">="):
			toks = append(toks, text[i:i+2])
			i += 2
		case c == '<' && i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\t':
			j := strings.IndexByte(text[i:], '>')
			if j < 0 {
				return nil, fmt.Errorf("unterminated '<' reference in where-clause: %q", text)
			}
			toks = append(toks, text[i:i+j+1])
			i += j + 1
		case c == '<' || c == '>':
			toks = append(toks, string(c))
			i++
		default:
			j := i
			for j < len(text) && !strings.ContainsRune(" \t()<>", rune(text[j])) {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("unexpected character %q in where-clause", string(c))
			}
			toks = append(toks, text[i:j])
			i = j
		}
	}
	return toks, nil
}
