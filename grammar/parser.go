package grammar

import (
	"strings"

	"github.com/nihei9/infergen/internal/specerr"
)

// ruleAST is the surface-syntax form of one `<name> ::= body [:= expr]`
// declaration plus any `where` lines that immediately follow it, before
// validation binds generator names to table entries.
type ruleAST struct {
	Name      string
	Row       int
	BodyToks  []bodyToken
	GenName   string
	GenArgs   []string
	HasGen    bool
	WhereRaws []whereRaw
}

type whereRaw struct {
	Text string
	Row  int
}

// rootAST is the parsed (not yet validated) form of a whole grammar file.
type rootAST struct {
	Rules []*ruleAST
}

// Parse parses grammar source text into a validated Grammar, using the
// supplied generator table to resolve the `:= expr` bindings; `where`
// clauses are parsed against the fixed built-ins of predicate.go, with no
// predicate table. It returns specerr.GrammarErrors (syntax and/or
// semantic) on failure.
func Parse(text string, gens GeneratorTable) (*Grammar, error) {
	root, errs := parseRoot(text)
	if len(errs) > 0 {
		return nil, specerr.GrammarErrors(errs)
	}
	return build(root, gens)
}

func parseRoot(text string) (*rootAST, []error) {
	var errs []error
	var root rootAST

	lines := strings.Split(text, "\n")
	var cur *ruleAST

	flushRule := func() {
		if cur != nil {
			root.Rules = append(root.Rules, cur)
			cur = nil
		}
	}

	for lineNo, raw := range lines {
		row := lineNo + 1
		line := stripComment(raw)
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flushRule()
			continue
		}

		if strings.HasPrefix(trimmed, "where ") || trimmed == "where" {
			if cur == nil {
				errs = append(errs, &specerr.GrammarSyntaxError{
					Pos:    specerr.Pos{Row: row},
					Reason: "where-clause with no preceding rule",
				})
				continue
			}
			cur.WhereRaws = append(cur.WhereRaws, whereRaw{
				Text: strings.TrimSpace(strings.TrimPrefix(trimmed, "where")),
				Row:  row,
			})
			continue
		}

		if ra, ok := parseRuleHead(trimmed, row, &errs); ok {
			flushRule()
			cur = ra
			continue
		}

		// Continuation of the current rule's body across multiple lines.
		if cur == nil {
			errs = append(errs, &specerr.GrammarSyntaxError{
				Pos:    specerr.Pos{Row: row},
				Reason: "expected a rule declaration (<name> ::= ...)",
			})
			continue
		}
		appendBodyLine(cur, trimmed, row, &errs)
	}
	flushRule()

	if len(root.Rules) == 0 && len(errs) == 0 {
		errs = append(errs, &specerr.GrammarSyntaxError{Reason: "grammar is empty"})
	}

	return &root, errs
}

// parseRuleHead recognizes `<name> ::= rest...` and returns a fresh ruleAST
// with `rest` processed as the first body line. ok is false if the line is
// not a rule head at all (i.e. it's a continuation line).
func parseRuleHead(line string, row int, errs *[]error) (*ruleAST, bool) {
	if !strings.HasPrefix(line, "<") {
		return nil, false
	}
	close := strings.IndexByte(line, '>')
	if close < 0 {
		return nil, false
	}
	name := line[1:close]
	rest := strings.TrimSpace(line[close+1:])
	if !strings.HasPrefix(rest, "::=") {
		return nil, false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "::="))

	ra := &ruleAST{Name: name, Row: row}
	appendBodyLine(ra, rest, row, errs)
	return ra, true
}

// appendBodyLine extends a rule's body tokens with one more physical line,
// splitting off the `:= expr` generator suffix (which extends to
// end-of-line) the first time it is encountered.
func appendBodyLine(ra *ruleAST, line string, row int, errs *[]error) {
	if ra.HasGen {
		*errs = append(*errs, &specerr.GrammarSyntaxError{
			Pos:    specerr.Pos{Row: row},
			Reason: "unexpected content after ':=' generator clause",
		})
		return
	}

	bodyPart := line
	if idx := findGeneratorMarker(line); idx >= 0 {
		bodyPart = line[:idx]
		genText := strings.TrimSpace(line[idx+2:])
		name, args, err := parseGeneratorCall(genText)
		if err != nil {
			*errs = append(*errs, &specerr.GrammarSyntaxError{Pos: specerr.Pos{Row: row}, Reason: err.Error()})
			return
		}
		ra.GenName = name
		ra.GenArgs = args
		ra.HasGen = true
	}

	toks, err := tokenizeBody(bodyPart)
	if err != nil {
		*errs = append(*errs, &specerr.GrammarSyntaxError{Pos: specerr.Pos{Row: row}, Reason: err.Error()})
		return
	}
	ra.BodyToks = append(ra.BodyToks, toks...)
}

// findGeneratorMarker finds the ':=' token outside of a quoted string.
func findGeneratorMarker(line string) int {
	inQuote := false
	escaped := false
	for i := 0; i < len(line)-1; i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inQuote:
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == ':' && line[i+1] == '=' && !inQuote:
			return i
		}
	}
	return -1
}

// parseGeneratorCall parses "name(arg1, arg2, ...)" into its name and
// literal argument strings (not evaluated here; see GeneratorCall).
func parseGeneratorCall(text string) (string, []string, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return strings.TrimSpace(text), nil, nil
	}
	if !strings.HasSuffix(text, ")") {
		return "", nil, callSyntaxErr(text)
	}
	name := strings.TrimSpace(text[:open])
	inner := text[open+1 : len(text)-1]
	if strings.TrimSpace(inner) == "" {
		return name, nil, nil
	}
	parts := strings.Split(inner, ",")
	args := make([]string, len(parts))
	for i, p := range parts {
		args[i] = strings.TrimSpace(p)
	}
	return name, args, nil
}

func callSyntaxErr(text string) error {
	return &specerr.GrammarSyntaxError{Reason: "malformed generator call: " + text}
}

// parseAlternations parses a token stream into an alternation list:
// altList := concat ('|' concat)*
func parseAlternations(toks []bodyToken) ([]Alternation, error) {
	p := &bodyParser{toks: toks}
	alts, err := p.parseAltList()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, &specerr.GrammarSyntaxError{Reason: "unexpected trailing tokens in rule body"}
	}
	return alts, nil
}

type bodyParser struct {
	toks []bodyToken
	pos  int
}

func (p *bodyParser) peek() (bodyToken, bool) {
	if p.pos >= len(p.toks) {
		return bodyToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *bodyParser) parseAltList() ([]Alternation, error) {
	var alts []Alternation
	alt, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	alts = append(alts, alt)
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokPipe {
			break
		}
		p.pos++
		alt, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	return alts, nil
}

func (p *bodyParser) parseConcat() (Alternation, error) {
	var elems []Element
	for {
		t, ok := p.peek()
		if !ok || t.kind == tokPipe || t.kind == tokRParen {
			break
		}
		e, err := p.parseElement()
		if err != nil {
			return Alternation{}, err
		}
		elems = append(elems, e)
	}
	if len(elems) == 0 {
		return Alternation{}, &specerr.GrammarSyntaxError{Reason: "empty alternative"}
	}
	return Alternation{Elements: elems}, nil
}

func (p *bodyParser) parseElement() (Element, error) {
	t, ok := p.peek()
	if !ok {
		return Element{}, &specerr.GrammarSyntaxError{Reason: "unexpected end of rule body"}
	}

	var e Element
	switch t.kind {
	case tokLiteral:
		e = Element{Kind: ElemLiteral, Literal: t.text}
		p.pos++
	case tokRef:
		e = Element{Kind: ElemNonTerminal, Ref: t.text, Label: t.text}
		p.pos++
	case tokLParen:
		p.pos++
		group, err := p.parseAltList()
		if err != nil {
			return Element{}, err
		}
		closeTok, ok := p.peek()
		if !ok || closeTok.kind != tokRParen {
			return Element{}, &specerr.GrammarSyntaxError{Reason: "expected closing ')'"}
		}
		p.pos++
		e = Element{Kind: ElemGroup, Group: group}
	default:
		return Element{}, &specerr.GrammarSyntaxError{Reason: "unexpected token in rule body"}
	}

	if qt, ok := p.peek(); ok && qt.kind == tokQuant {
		p.pos++
		switch qt.text {
		case "?":
			e.Quantifier = QuantOpt
		case "*":
			e.Quantifier = QuantStar
		case "+":
			e.Quantifier = QuantPlus
		}
	}
	return e, nil
}
