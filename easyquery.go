// Package easyquery provides composable, immutable Query objects for
// filtering tabular data.
//
// A Query represents a predicate over a table: evaluated against a concrete
// table it yields a boolean mask (one entry per row), a filtered copy of the
// table, or a count of matching rows. Queries hold no reference to any
// table, so one Query can be reused against arbitrarily many tables, and
// concurrent evaluation is safe without locking.
//
// A Query is built from string expressions evaluated by a vectorized
// expression engine, or from callables applied to named columns:
//
//	q, err := easyquery.New("a > 3")
//	mask, err := q.Mask(table)      // []bool
//	subset, err := q.Filter(table)  // same container shape as table
//	n, err := q.Count(table)
//
// Queries combine with And, Or, Xor, and Not; every combination returns a
// new Query and never mutates its operands:
//
//	q2 := q.Not().And(easyquery.MustNew("b > c"))
//
// Three table shapes are supported out of the box: a []Record slice, the
// labelled columnar *Table, and an Arrow record batch (arrow.Record). The
// shape is detected at evaluation time, so the same Query runs unmodified
// over any of them.
package easyquery

import (
	"context"
	"encoding/binary"
	"reflect"
	"sort"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// ColumnFunc is a callable condition body. It receives the requested
// columns positionally, each as a value slice with one entry per row, and
// returns one boolean per row. A result of the wrong length fails the
// evaluation with ErrResultLengthMismatch.
type ColumnFunc func(cols ...[]any) ([]bool, error)

// CallableCondition pairs a ColumnFunc with the ordered column names it
// consumes. Build one with Callable.
type CallableCondition struct {
	// Fn is invoked positionally with the named columns.
	Fn ColumnFunc

	// Columns are the column names, in argument order. At least one is
	// required and each must be a valid identifier.
	Columns []string
}

// Callable builds a callable condition for New.
//
//	q, err := easyquery.New(easyquery.Callable(isPrime, "a"))
func Callable(fn ColumnFunc, columns ...string) CallableCondition {
	return CallableCondition{Fn: fn, Columns: columns}
}

// Query is an immutable predicate over tabular data. The zero value is the
// always-true query: its mask is all true and its filter returns the table
// unchanged.
//
// Query values are compared with Equal and hashed with Hash; they contain
// slices and must not be used directly as map keys.
type Query struct {
	root node
}

// New creates a Query from zero or more conditions. Each condition is a
// string expression, a CallableCondition, an existing Query, or nil (which
// is ignored). Two or more conditions are combined with AND. No conditions
// yields the always-true query.
//
// Construction validates only the shape of each condition; whether an
// expression parses or its columns exist is not checked until the first
// evaluation against a concrete table.
func New(conditions ...any) (Query, error) {
	nodes := make([]node, 0, len(conditions))
	for _, cond := range conditions {
		n, err := conditionNode(cond)
		if err != nil {
			return Query{}, err
		}
		if n == nil {
			continue
		}
		nodes = append(nodes, n)
	}
	switch len(nodes) {
	case 0:
		return Query{}, nil
	case 1:
		return Query{root: nodes[0]}, nil
	default:
		return Query{root: combinator{op: opAnd, operands: nodes}}, nil
	}
}

// MustNew is like New but panics on a malformed condition. It is intended
// for conditions known valid at compile time, such as literal expressions.
func MustNew(conditions ...any) Query {
	q, err := New(conditions...)
	if err != nil {
		panic(err)
	}
	return q
}

// conditionNode validates one condition's shape and converts it to a tree
// node. nil conditions return a nil node, which the caller drops.
func conditionNode(cond any) (node, error) {
	switch c := cond.(type) {
	case nil:
		return nil, nil
	case string:
		return exprLeaf{expr: c}, nil
	case Query:
		return c.node(), nil
	case CallableCondition:
		if c.Fn == nil {
			return nil, invalidArgumentf("callable condition requires a function")
		}
		if len(c.Columns) == 0 {
			return nil, invalidArgumentf("callable condition requires at least one column name")
		}
		columns := make([]string, len(c.Columns))
		for i, name := range c.Columns {
			if !isIdentifier(name) {
				return nil, invalidArgumentf("column name %q is not a valid identifier", name)
			}
			columns[i] = name
		}
		return callableLeaf{fn: c.Fn, columns: columns}, nil
	default:
		return nil, invalidArgumentf("condition must be a string expression, a CallableCondition, or a Query; got %T", cond)
	}
}

// node returns the root, substituting the always-true node for the zero
// value so evaluation and combination never see a nil root.
func (q Query) node() node {
	if q.root == nil {
		return matchAll{}
	}
	return q.root
}

// And returns a new Query matching rows both queries match.
func (q Query) And(other Query) Query {
	return q.combine(other, opAnd)
}

// Or returns a new Query matching rows either query matches.
func (q Query) Or(other Query) Query {
	return q.combine(other, opOr)
}

// Xor returns a new Query matching rows exactly one of the queries matches.
func (q Query) Xor(other Query) Query {
	return q.combine(other, opXor)
}

// Not returns a new Query matching the rows this query rejects. Negating a
// negation unwraps it, so q.Not().Not() is equal to q.
func (q Query) Not() Query {
	if c, ok := q.node().(combinator); ok && c.op == opNot {
		return Query{root: c.operands[0]}
	}
	return Query{root: combinator{op: opNot, operands: []node{q.node()}}}
}

// combine joins two queries under an n-ary operator. When either side
// already carries the same operator its operand list is merged rather than
// nested, so a chain like q1.And(q2).And(q3) produces a single AND node
// with three children and association order does not affect equality.
// Operand slices are always freshly allocated; existing trees are shared,
// never mutated.
func (q Query) combine(other Query, op operator) Query {
	a, b := q.node(), other.node()

	var left, right []node
	if c, ok := a.(combinator); ok && c.op == op {
		left = c.operands
	} else {
		left = []node{a}
	}
	if c, ok := b.(combinator); ok && c.op == op {
		right = c.operands
	} else {
		right = []node{b}
	}

	operands := make([]node, 0, len(left)+len(right))
	operands = append(operands, left...)
	operands = append(operands, right...)
	return Query{root: combinator{op: op, operands: operands}}
}

// Mask evaluates the query against table and returns one boolean per row.
func (q Query) Mask(table any) ([]bool, error) {
	b, err := bindTable(table)
	if err != nil {
		return nil, err
	}

	done := startEvaluation("mask", b.rowCount())
	mask, err := resolveMask(q.node(), b)
	done(err)
	return mask, err
}

// Filter returns a new table of the same shape holding only the rows the
// query matches, in their original order. The always-true query returns the
// input table unchanged.
//
// An AND query filters by each operand in turn, so later operands evaluate
// over progressively smaller tables; the result is identical to masking the
// whole table once.
func (q Query) Filter(table any) (any, error) {
	root := q.node()
	if _, ok := root.(matchAll); ok {
		return table, nil
	}

	if c, ok := root.(combinator); ok && c.op == opAnd {
		current := table
		for _, operand := range c.operands {
			next, err := (Query{root: operand}).Filter(current)
			if err != nil {
				return nil, err
			}
			current = next
		}
		return current, nil
	}

	b, err := bindTable(table)
	if err != nil {
		return nil, err
	}

	done := startEvaluation("filter", b.rowCount())
	out, err := filterBound(root, b)
	done(err)
	return out, err
}

func filterBound(root node, b backend) (any, error) {
	mask, err := resolveMask(root, b)
	if err != nil {
		return nil, err
	}
	return b.selectRows(mask)
}

// Count returns the number of rows the query matches. The mask is reduced
// directly; no filtered table is materialized.
func (q Query) Count(table any) (int, error) {
	b, err := bindTable(table)
	if err != nil {
		return 0, err
	}

	if _, ok := q.node().(matchAll); ok {
		return b.rowCount(), nil
	}

	done := startEvaluation("count", b.rowCount())
	mask, err := resolveMask(q.node(), b)
	done(err)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n, nil
}

// Equal reports structural equality: the same operator tags, leaf contents,
// and child order. Combination flattens same-operator chains, so
// a.And(b).And(c) equals a.And(b.And(c)); beyond that, semantically
// equivalent but differently shaped queries compare unequal. Callable
// conditions compare by function pointer and column names.
func (q Query) Equal(other Query) bool {
	return nodesEqual(q.node(), other.node())
}

// Hash returns a hash consistent with Equal: equal queries hash equally.
// Hashes of callable conditions incorporate the function pointer and are
// therefore stable only within a single process.
func (q Query) Hash() uint64 {
	d := xxhash.New()
	hashNode(q.node(), d)
	return d.Sum64()
}

func hashNode(n node, d *xxhash.Digest) {
	switch t := n.(type) {
	case matchAll:
		_, _ = d.WriteString("T\x00")
	case exprLeaf:
		_, _ = d.WriteString("E\x00")
		_, _ = d.WriteString(t.expr)
		_, _ = d.WriteString("\x00")
	case callableLeaf:
		_, _ = d.WriteString("C\x00")
		var ptr [8]byte
		binary.LittleEndian.PutUint64(ptr[:], uint64(reflect.ValueOf(t.fn).Pointer()))
		_, _ = d.Write(ptr[:])
		for _, name := range t.columns {
			_, _ = d.WriteString(name)
			_, _ = d.WriteString("\x00")
		}
	case combinator:
		_, _ = d.WriteString("B\x00")
		_, _ = d.WriteString(t.op.String())
		_, _ = d.WriteString("\x00")
		for _, operand := range t.operands {
			hashNode(operand, d)
		}
		_, _ = d.WriteString("\x01")
	}
}

// VariableNames returns the sorted distinct column names the query
// references: stored names for callable conditions, parsed identifiers for
// string expressions. A malformed expression fails with an ExpressionError,
// the same way it would at evaluation.
func (q Query) VariableNames() ([]string, error) {
	seen := make(map[string]struct{})
	if err := variableNames(q.node(), seen); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Filter is a one-shot convenience: Query(conditions...).Filter(table).
func Filter(table any, conditions ...any) (any, error) {
	q, err := New(conditions...)
	if err != nil {
		return nil, err
	}
	return q.Filter(table)
}

// Count is a one-shot convenience: Query(conditions...).Count(table).
func Count(table any, conditions ...any) (int, error) {
	q, err := New(conditions...)
	if err != nil {
		return 0, err
	}
	return q.Count(table)
}

// Mask is a one-shot convenience: Query(conditions...).Mask(table).
func Mask(table any, conditions ...any) ([]bool, error) {
	q, err := New(conditions...)
	if err != nil {
		return nil, err
	}
	return q.Mask(table)
}

// isIdentifier reports whether name is usable as a column identifier: a
// letter or underscore followed by letters, digits, or underscores.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// startEvaluation opens a span and starts the metric clock for one public
// operation; the returned func records the outcome.
func startEvaluation(op string, rows int) func(error) {
	hub := currentObservability()
	start := time.Now()
	ctx, span := hub.tracer.StartEvaluation(context.Background(), op, rows)
	return func(err error) {
		hub.metrics.RecordEvaluation(ctx, op, rows, float64(time.Since(start).Microseconds())/1000.0, err)
		endEvaluation(span, err)
	}
}
