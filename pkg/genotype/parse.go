package genotype

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Field names of the encoding, in positional order.
const (
	fieldNormal       = "normal"
	fieldNormalConcat = "normal_concat"
	fieldReduce       = "reduce"
	fieldReduceConcat = "reduce_concat"
)

var fieldOrder = []string{fieldNormal, fieldNormalConcat, fieldReduce, fieldReduceConcat}

// maxRangeLen bounds the number of states a range expression may expand to.
const maxRangeLen = 1 << 10

// Parse decodes a genotype from its textual encoding and validates it. Arguments may be given
// by keyword or position; edges may be tuples or lists; concat lists may be written as
// range(stop), range(start, stop) or explicit integer lists. A cell written as a flat list of
// edges is split into nodes of two edges each.
func Parse(s string) (*Genotype, error) {
	p := newParser(s)
	args, err := p.parseGenotype()
	if err != nil {
		return nil, errors.Wrapf(err, "malformed genotype %q", s)
	}

	g, err := fromArgs(args)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed genotype %q", s)
	}

	var result *multierror.Error
	for _, err := range g.Validate() {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "invalid genotype")
	}
	return g, nil
}

// MustParse is like Parse but panics on error. It is meant for genotypes compiled into binaries
// and tests.
func MustParse(s string) *Genotype {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// value is an int, a string, or a []value (lists and tuples are not distinguished).
type value interface{}

type argument struct {
	name  string
	value value
}

type parser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func newParser(src string) *parser {
	p := &parser{}
	p.s.Init(strings.NewReader(src))
	// Single-quoted strings are read by hand since text/scanner treats them as char literals.
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail("%s", msg)
	}
	p.next()
	return p
}

func (p *parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = errors.Errorf("%s at offset %d", fmt.Sprintf(format, args...), p.s.Pos().Offset)
	}
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail("expected %s, found %s", scanner.TokenString(tok), p.describe())
		return
	}
	p.next()
}

func (p *parser) describe() string {
	if p.tok == scanner.EOF {
		return "end of input"
	}
	return strconv.Quote(p.s.TokenText())
}

func (p *parser) parseGenotype() ([]argument, error) {
	if p.tok == scanner.Ident {
		// Accept qualified constructors such as gt.Genotype.
		for p.tok == scanner.Ident && p.err == nil {
			name := p.s.TokenText()
			p.next()
			if p.tok != '.' {
				if name != "Genotype" {
					p.fail("unknown constructor %q", name)
				}
				break
			}
			p.next()
		}
	}
	p.expect('(')

	var args []argument
	for p.tok != ')' && p.tok != scanner.EOF && p.err == nil {
		args = append(args, p.parseArgument())
		if p.tok != ',' {
			break
		}
		p.next()
	}
	p.expect(')')
	if p.tok != scanner.EOF {
		p.fail("unexpected %s after genotype", p.describe())
	}
	return args, p.err
}

func (p *parser) parseArgument() argument {
	if p.tok == scanner.Ident && p.s.TokenText() != "range" {
		name := p.s.TokenText()
		p.next()
		p.expect('=')
		return argument{name: name, value: p.parseValue()}
	}
	return argument{value: p.parseValue()}
}

func (p *parser) parseValue() value {
	switch p.tok {
	case '[':
		return p.parseSequence('[', ']')
	case '(':
		return p.parseSequence('(', ')')
	case scanner.Int, '-':
		return p.parseInt()
	case scanner.String:
		text, err := strconv.Unquote(p.s.TokenText())
		if err != nil {
			p.fail("invalid string %s", p.s.TokenText())
		}
		p.next()
		return text
	case '\'':
		return p.parseSingleQuoted()
	case scanner.Ident:
		if p.s.TokenText() == "range" {
			return p.parseRange()
		}
	}
	p.fail("unexpected %s", p.describe())
	return nil
}

func (p *parser) parseSequence(open, closing rune) []value {
	p.expect(open)
	items := []value{}
	for p.tok != closing && p.tok != scanner.EOF && p.err == nil {
		items = append(items, p.parseValue())
		if p.tok != ',' {
			break
		}
		p.next()
	}
	p.expect(closing)
	return items
}

func (p *parser) parseSingleQuoted() string {
	var sb strings.Builder
	for {
		ch := p.s.Next()
		switch ch {
		case scanner.EOF, '\n':
			p.fail("unterminated string")
			return ""
		case '\'':
			p.next()
			return sb.String()
		}
		sb.WriteRune(ch)
	}
}

func (p *parser) parseInt() int {
	negative := false
	if p.tok == '-' {
		negative = true
		p.next()
	}
	if p.tok != scanner.Int {
		p.fail("expected integer, found %s", p.describe())
		return 0
	}
	n, err := strconv.Atoi(p.s.TokenText())
	if err != nil {
		p.fail("invalid integer %s", p.s.TokenText())
	}
	p.next()
	if negative {
		return -n
	}
	return n
}

// parseRange expands range(stop), range(start, stop) and range(start, stop, step).
func (p *parser) parseRange() []value {
	p.next()
	p.expect('(')
	var bounds []int
	for p.tok != ')' && p.tok != scanner.EOF && p.err == nil {
		bounds = append(bounds, p.parseInt())
		if p.tok != ',' {
			break
		}
		p.next()
	}
	p.expect(')')

	start, stop, step := 0, 0, 1
	switch len(bounds) {
	case 1:
		stop = bounds[0]
	case 2:
		start, stop = bounds[0], bounds[1]
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
	default:
		p.fail("range expects 1 to 3 arguments, got %d", len(bounds))
		return nil
	}
	if step <= 0 {
		p.fail("range step must be positive")
		return nil
	}
	if stop > start {
		// Unsigned arithmetic keeps the span exact for any pair of int bounds.
		if n := (uint64(stop)-uint64(start)-1)/uint64(step) + 1; n > maxRangeLen {
			p.fail("range(%d, %d, %d) expands to %d states, at most %d are allowed",
				start, stop, step, n, maxRangeLen)
			return nil
		}
	}

	items := []value{}
	for i := start; i < stop; i += step {
		items = append(items, i)
	}
	return items
}

func fromArgs(args []argument) (*Genotype, error) {
	fields := map[string]value{}
	for i, arg := range args {
		name := arg.name
		if name == "" {
			if i >= len(fieldOrder) {
				return nil, errors.Errorf("too many positional arguments")
			}
			name = fieldOrder[i]
		}
		if _, ok := fields[name]; ok {
			return nil, errors.Errorf("argument %s given more than once", name)
		}
		fields[name] = arg.value
	}

	var errs *multierror.Error
	for name := range fields {
		if !contains(fieldOrder, name) {
			errs = multierror.Append(errs, errors.Errorf("unexpected argument %s", name))
		}
	}
	for _, name := range fieldOrder {
		if _, ok := fields[name]; !ok {
			errs = multierror.Append(errs, errors.Errorf("missing argument %s", name))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	g := &Genotype{}
	var err error
	if g.Normal, err = toCell(fields[fieldNormal]); err != nil {
		return nil, errors.Wrap(err, fieldNormal)
	}
	if g.NormalConcat, err = toInts(fields[fieldNormalConcat]); err != nil {
		return nil, errors.Wrap(err, fieldNormalConcat)
	}
	if g.Reduce, err = toCell(fields[fieldReduce]); err != nil {
		return nil, errors.Wrap(err, fieldReduce)
	}
	if g.ReduceConcat, err = toInts(fields[fieldReduceConcat]); err != nil {
		return nil, errors.Wrap(err, fieldReduceConcat)
	}
	return g, nil
}

func toCell(v value) ([]Node, error) {
	items, ok := v.([]value)
	if !ok {
		return nil, errors.New("expected a list of nodes")
	}

	// A flat list of edges holds two edges per node.
	if len(items) > 0 {
		if first, ok := items[0].([]value); ok && len(first) > 0 {
			if _, isOp := first[0].(string); isOp {
				if len(items)%2 != 0 {
					return nil, errors.Errorf("flat edge list has odd length %d", len(items))
				}
				grouped := make([]value, 0, len(items)/2)
				for i := 0; i < len(items); i += 2 {
					grouped = append(grouped, []value{items[i], items[i+1]})
				}
				items = grouped
			}
		}
	}

	nodes := make([]Node, 0, len(items))
	for i, item := range items {
		rawEdges, ok := item.([]value)
		if !ok {
			return nil, errors.Errorf("node %d: expected a list of edges", i)
		}
		node := make(Node, 0, len(rawEdges))
		for j, rawEdge := range rawEdges {
			edge, err := toEdge(rawEdge)
			if err != nil {
				return nil, errors.Wrapf(err, "node %d edge %d", i, j)
			}
			node = append(node, edge)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func toEdge(v value) (Edge, error) {
	pair, ok := v.([]value)
	if !ok || len(pair) != 2 {
		return Edge{}, errors.New("expected an (operation, input) pair")
	}
	op, ok := pair[0].(string)
	if !ok {
		return Edge{}, errors.New("operation must be a string")
	}
	input, ok := pair[1].(int)
	if !ok {
		return Edge{}, errors.New("input must be an integer")
	}
	return Edge{Op: op, Input: input}, nil
}

func toInts(v value) ([]int, error) {
	items, ok := v.([]value)
	if !ok {
		return nil, errors.New("expected a list of integers")
	}
	ints := make([]int, 0, len(items))
	for _, item := range items {
		i, ok := item.(int)
		if !ok {
			return nil, errors.New("expected a list of integers")
		}
		ints = append(ints, i)
	}
	return ints, nil
}

func contains(xs []string, x string) bool {
	for _, candidate := range xs {
		if candidate == x {
			return true
		}
	}
	return false
}
