// Package expr implements the small sandboxed boolean grammar used by CUSTOM
// status rules and field validations.
//
// Grammar (case-insensitive keywords):
//
//	expr    := term (OR term)*
//	term    := factor (AND factor)*
//	factor  := NOT factor | "(" expr ")" | predicate
//	predicate := field cmp "literal"
//	           | ISBLANK(field) | NOTBLANK(field)
//	           | LEN(field) cmp integer
//	           | MATCHES(field, "pattern")
//	cmp     := "=" | "!=" | "<>" | ">=" | "<=" | ">" | "<"
//
// The grammar expresses no loops or recursion, so evaluation always
// terminates. Programs are compiled once and are safe for concurrent use.
package expr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"onboard/internal/onboarding/models"
	dErrors "onboard/pkg/domain-errors"
)

// maxDepth caps parser nesting so pathological inputs fail fast instead of
// exhausting the stack.
const maxDepth = 32

// Bindings maps field names to their current values. For status rules the
// values are requirement status strings; field validations may bind arbitrary
// form values.
type Bindings map[string]string

// Program is a compiled expression.
type Program struct {
	src  string
	root node
}

// Compile parses src into a reusable Program. Syntax errors, unknown
// functions, and invalid regular expressions are reported at compile time.
func Compile(src string) (*Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, dErrors.New(dErrors.CodeEvaluation, "empty expression")
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, dErrors.Newf(dErrors.CodeEvaluation, "unexpected %q after expression", p.peek().text)
	}
	return &Program{src: src, root: root}, nil
}

// Evaluate compiles and runs src in one call. Prefer Compile when the same
// expression runs more than once.
func Evaluate(src string, b Bindings) (bool, error) {
	prog, err := Compile(src)
	if err != nil {
		return false, err
	}
	return prog.Eval(b)
}

// Eval runs the program against the given bindings. A reference to a field
// absent from the bindings is an evaluation error, never a silent false.
func (p *Program) Eval(b Bindings) (bool, error) {
	return p.root.eval(b)
}

// Source returns the original expression text.
func (p *Program) Source() string {
	return p.src
}

// --- AST ---

type node interface {
	eval(b Bindings) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(b Bindings) (bool, error) {
	ok, err := n.left.eval(b)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(b)
}

type andNode struct{ left, right node }

func (n andNode) eval(b Bindings) (bool, error) {
	ok, err := n.left.eval(b)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(b)
}

type notNode struct{ inner node }

func (n notNode) eval(b Bindings) (bool, error) {
	ok, err := n.inner.eval(b)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type cmpNode struct {
	field   string
	op      string
	literal string
}

func (n cmpNode) eval(b Bindings) (bool, error) {
	value, ok := b[n.field]
	if !ok {
		return false, dErrors.Newf(dErrors.CodeEvaluation, "unknown field %q", n.field)
	}
	switch n.op {
	case "=":
		return strings.EqualFold(value, n.literal), nil
	case "!=", "<>":
		return !strings.EqualFold(value, n.literal), nil
	}

	// Ordering comparisons are defined only over the ranked requirement
	// statuses. Denied is non-comparable and only meaningful under equality.
	left, lOK := statusRank(value)
	right, rOK := statusRank(n.literal)
	if !lOK {
		return false, dErrors.Newf(dErrors.CodeEvaluation, "field %q value %q is not comparable with %s", n.field, value, n.op)
	}
	if !rOK {
		return false, dErrors.Newf(dErrors.CodeEvaluation, "literal %q is not comparable with %s", n.literal, n.op)
	}
	switch n.op {
	case ">":
		return left > right, nil
	case ">=":
		return left >= right, nil
	case "<":
		return left < right, nil
	case "<=":
		return left <= right, nil
	}
	return false, dErrors.Newf(dErrors.CodeEvaluation, "unsupported operator %q", n.op)
}

func statusRank(raw string) (int, bool) {
	switch models.RequirementStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case models.RequirementNotStarted:
		return 0, true
	case models.RequirementIncomplete:
		return 1, true
	case models.RequirementComplete:
		return 2, true
	case models.RequirementApproved:
		return 3, true
	}
	return 0, false
}

type blankNode struct {
	field  string
	negate bool
}

func (n blankNode) eval(b Bindings) (bool, error) {
	value, ok := b[n.field]
	if !ok {
		return false, dErrors.Newf(dErrors.CodeEvaluation, "unknown field %q", n.field)
	}
	blank := strings.TrimSpace(value) == ""
	if n.negate {
		return !blank, nil
	}
	return blank, nil
}

type lenNode struct {
	field string
	op    string
	n     int
}

func (n lenNode) eval(b Bindings) (bool, error) {
	value, ok := b[n.field]
	if !ok {
		return false, dErrors.Newf(dErrors.CodeEvaluation, "unknown field %q", n.field)
	}
	l := len(value)
	switch n.op {
	case "=":
		return l == n.n, nil
	case "!=", "<>":
		return l != n.n, nil
	case ">":
		return l > n.n, nil
	case ">=":
		return l >= n.n, nil
	case "<":
		return l < n.n, nil
	case "<=":
		return l <= n.n, nil
	}
	return false, dErrors.Newf(dErrors.CodeEvaluation, "unsupported operator %q", n.op)
}

type matchNode struct {
	field string
	re    *regexp.Regexp
}

func (n matchNode) eval(b Bindings) (bool, error) {
	value, ok := b[n.field]
	if !ok {
		return false, dErrors.Newf(dErrors.CodeEvaluation, "unknown field %q", n.field)
	}
	return n.re.MatchString(value), nil
}

// --- lexer ---

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, dErrors.New(dErrors.CodeEvaluation, "unterminated string literal")
			}
			toks = append(toks, token{tokString, string(runes[i+1 : j])})
			i = j + 1
		case r == '=':
			toks = append(toks, token{tokOp, "="})
			i++
		case r == '!':
			if i+1 < len(runes) && runes[i+1] == '=' {
				toks = append(toks, token{tokOp, "!="})
				i += 2
			} else {
				return nil, dErrors.New(dErrors.CodeEvaluation, "unexpected '!'")
			}
		case r == '<':
			switch {
			case i+1 < len(runes) && runes[i+1] == '>':
				toks = append(toks, token{tokOp, "<>"})
				i += 2
			case i+1 < len(runes) && runes[i+1] == '=':
				toks = append(toks, token{tokOp, "<="})
				i += 2
			default:
				toks = append(toks, token{tokOp, "<"})
				i++
			}
		case r == '>':
			if i+1 < len(runes) && runes[i+1] == '=' {
				toks = append(toks, token{tokOp, ">="})
				i += 2
			} else {
				toks = append(toks, token{tokOp, ">"})
				i++
			}
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			toks = append(toks, token{tokNumber, string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '.') {
				j++
			}
			toks = append(toks, token{tokIdent, string(runes[i:j])})
			i = j
		default:
			return nil, dErrors.Newf(dErrors.CodeEvaluation, "unexpected character %q", string(r))
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

// --- parser ---

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) eof() bool {
	return p.peek().kind == tokEOF
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return token{}, dErrors.Newf(dErrors.CodeEvaluation, "expected %s, got %q", what, t.text)
	}
	return t, nil
}

func (p *parser) parseExpr(depth int) (node, error) {
	if depth > maxDepth {
		return nil, dErrors.New(dErrors.CodeEvaluation, "expression nested too deeply")
	}
	left, err := p.parseTerm(depth + 1)
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "OR") {
		p.next()
		right, err := p.parseTerm(depth + 1)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm(depth int) (node, error) {
	if depth > maxDepth {
		return nil, dErrors.New(dErrors.CodeEvaluation, "expression nested too deeply")
	}
	left, err := p.parseFactor(depth + 1)
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "AND") {
		p.next()
		right, err := p.parseFactor(depth + 1)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseFactor(depth int) (node, error) {
	if depth > maxDepth {
		return nil, dErrors.New(dErrors.CodeEvaluation, "expression nested too deeply")
	}
	t := p.peek()
	switch {
	case t.kind == tokLParen:
		p.next()
		inner, err := p.parseExpr(depth + 1)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case t.kind == tokIdent && strings.EqualFold(t.text, "NOT"):
		p.next()
		inner, err := p.parseFactor(depth + 1)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	case t.kind == tokIdent:
		return p.parsePredicate()
	default:
		return nil, dErrors.Newf(dErrors.CodeEvaluation, "expected field or function, got %q", t.text)
	}
}

func (p *parser) parsePredicate() (node, error) {
	ident := p.next()
	upper := strings.ToUpper(ident.text)
	switch upper {
	case "ISBLANK", "NOTBLANK":
		field, err := p.parseFieldArg(upper)
		if err != nil {
			return nil, err
		}
		return blankNode{field: field, negate: upper == "NOTBLANK"}, nil
	case "LEN":
		field, err := p.parseFieldArg(upper)
		if err != nil {
			return nil, err
		}
		op, err := p.expect(tokOp, "comparison operator")
		if err != nil {
			return nil, err
		}
		num, err := p.expect(tokNumber, "integer")
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(num.text)
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeEvaluation, "invalid length %q", num.text)
		}
		return lenNode{field: field, op: op.text, n: n}, nil
	case "MATCHES":
		if _, err := p.expect(tokLParen, "("); err != nil {
			return nil, err
		}
		field, err := p.expect(tokIdent, "field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokComma, ","); err != nil {
			return nil, err
		}
		pattern, err := p.expect(tokString, "pattern string")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pattern.text)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeEvaluation, fmt.Sprintf("invalid pattern %q", pattern.text))
		}
		return matchNode{field: field.text, re: re}, nil
	default:
		// Plain field comparison.
		op, err := p.expect(tokOp, "comparison operator")
		if err != nil {
			return nil, err
		}
		lit, err := p.expect(tokString, "quoted literal")
		if err != nil {
			return nil, err
		}
		return cmpNode{field: ident.text, op: op.text, literal: lit.text}, nil
	}
}

func (p *parser) parseFieldArg(fn string) (string, error) {
	if _, err := p.expect(tokLParen, "("); err != nil {
		return "", err
	}
	field, err := p.expect(tokIdent, "field name")
	if err != nil {
		return "", dErrors.Newf(dErrors.CodeEvaluation, "%s expects a field name argument", fn)
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return "", err
	}
	return field.text, nil
}
