package easyquery

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/yymao/easyquery/internal/evaluator"
)

// operator tags the boolean combinators.
type operator uint8

const (
	opAnd operator = iota + 1
	opOr
	opXor
	opNot
)

func (op operator) String() string {
	switch op {
	case opAnd:
		return "and"
	case opOr:
		return "or"
	case opXor:
		return "xor"
	case opNot:
		return "not"
	default:
		return "unknown"
	}
}

// node is one predicate tree node. Nodes are immutable after construction;
// combination always builds new nodes, so subtrees are safely shared between
// queries and may be evaluated concurrently against different tables.
type node interface {
	node()
}

// matchAll is the always-true predicate backing the empty Query.
type matchAll struct{}

func (matchAll) node() {}

// exprLeaf holds an expression string verbatim. Column names are not parsed
// or validated at construction; resolution is fully deferred to evaluation,
// so a malformed expression or a missing column only surfaces on the first
// mask, filter, or count call.
type exprLeaf struct {
	expr string
}

func (exprLeaf) node() {}

// callableLeaf holds a column function and the names of the columns passed
// to it, in argument order.
type callableLeaf struct {
	fn      ColumnFunc
	columns []string
}

func (callableLeaf) node() {}

// combinator applies a boolean operator over child nodes. opNot has exactly
// one operand; the n-ary operators reduce left to right.
type combinator struct {
	op       operator
	operands []node
}

func (combinator) node() {}

// resolveMask evaluates a predicate tree against a bound table and returns
// one boolean per row. An empty table short-circuits to an empty mask
// without invoking the expression engine or any callable.
func resolveMask(n node, b backend) ([]bool, error) {
	rows := b.rowCount()
	if rows == 0 {
		return []bool{}, nil
	}

	switch t := n.(type) {
	case matchAll:
		mask := make([]bool, rows)
		for i := range mask {
			mask[i] = true
		}
		return mask, nil

	case exprLeaf:
		return resolveExpr(t.expr, b, rows)

	case callableLeaf:
		return resolveCallable(t, b, rows)

	case combinator:
		return resolveCombinator(t, b, rows)

	default:
		return nil, fmt.Errorf("easyquery: unknown predicate node %T", n)
	}
}

// resolveExpr runs a string expression through the expression engine with a
// namespace of every column the table exposes. Columns that cannot be
// fetched are left out rather than failing the whole call: the engine only
// reads columns the expression references, so an unrelated malformed column
// must not break evaluation. A referenced column that was skipped surfaces
// as an engine resolution error.
func resolveExpr(expr string, b backend, rows int) ([]bool, error) {
	namespace := make(map[string][]any)
	for _, name := range b.columns() {
		col, err := b.column(name)
		if err != nil {
			continue
		}
		namespace[name] = col
	}

	vals, err := evaluator.Default.Evaluate(expr, namespace, rows)
	if err != nil {
		return nil, &ExpressionError{Expr: expr, Err: err}
	}

	mask := make([]bool, rows)
	for i, v := range vals {
		flag, ok := v.(bool)
		if !ok {
			return nil, &InvalidResultTypeError{Expr: expr, Value: v}
		}
		mask[i] = flag
	}
	return mask, nil
}

// resolveCallable fetches the stored columns in order and invokes the
// function positionally with them.
func resolveCallable(leaf callableLeaf, b backend, rows int) ([]bool, error) {
	cols := make([][]any, len(leaf.columns))
	for i, name := range leaf.columns {
		col, err := b.column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	mask, err := leaf.fn(cols...)
	if err != nil {
		return nil, fmt.Errorf("easyquery: callable over columns %v: %w", leaf.columns, err)
	}
	if len(mask) != rows {
		return nil, &ResultLengthMismatchError{Want: rows, Got: len(mask)}
	}
	return mask, nil
}

func resolveCombinator(c combinator, b backend, rows int) ([]bool, error) {
	if c.op == opNot {
		mask, err := resolveMask(c.operands[0], b)
		if err != nil {
			return nil, err
		}
		out := make([]bool, len(mask))
		for i, v := range mask {
			out[i] = !v
		}
		return out, nil
	}

	mask, err := resolveMask(c.operands[0], b)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(mask))
	copy(out, mask)

	for _, operand := range c.operands[1:] {
		next, err := resolveMask(operand, b)
		if err != nil {
			return nil, err
		}
		for i := range out {
			switch c.op {
			case opAnd:
				out[i] = out[i] && next[i]
			case opOr:
				out[i] = out[i] || next[i]
			case opXor:
				out[i] = out[i] != next[i]
			}
		}
	}
	return out, nil
}

// variableNames collects the distinct column names a tree references.
// Expression leaves are parsed through the engine, so a malformed
// expression reports an ExpressionError here just as it would at
// evaluation time.
func variableNames(n node, into map[string]struct{}) error {
	switch t := n.(type) {
	case matchAll:
		return nil
	case exprLeaf:
		names, err := evaluator.Default.Identifiers(t.expr)
		if err != nil {
			return &ExpressionError{Expr: t.expr, Err: err}
		}
		for _, name := range names {
			into[name] = struct{}{}
		}
		return nil
	case callableLeaf:
		for _, name := range t.columns {
			into[name] = struct{}{}
		}
		return nil
	case combinator:
		for _, operand := range t.operands {
			if err := variableNames(operand, into); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New("easyquery: unknown predicate node")
	}
}

// nodesEqual reports structural equality: same operator tags, same leaf
// contents, same child order. Callable leaves compare by function pointer
// and column names; semantically equivalent but differently shaped trees
// compare unequal.
func nodesEqual(a, b node) bool {
	switch x := a.(type) {
	case matchAll:
		_, ok := b.(matchAll)
		return ok
	case exprLeaf:
		y, ok := b.(exprLeaf)
		return ok && x.expr == y.expr
	case callableLeaf:
		y, ok := b.(callableLeaf)
		if !ok || len(x.columns) != len(y.columns) {
			return false
		}
		if reflect.ValueOf(x.fn).Pointer() != reflect.ValueOf(y.fn).Pointer() {
			return false
		}
		for i := range x.columns {
			if x.columns[i] != y.columns[i] {
				return false
			}
		}
		return true
	case combinator:
		y, ok := b.(combinator)
		if !ok || x.op != y.op || len(x.operands) != len(y.operands) {
			return false
		}
		for i := range x.operands {
			if !nodesEqual(x.operands[i], y.operands[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
