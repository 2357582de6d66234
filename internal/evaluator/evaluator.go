// Package evaluator binds the CEL expression engine to column-oriented data.
//
// The package evaluates a single expression once per row, resolving column
// names through a lazy activation so that only the columns an expression
// actually references are ever touched. Compiled programs are cached per
// (expression, column-name set) pair because compilation dominates the cost
// of evaluating short expressions over small tables.
package evaluator

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
	"github.com/google/cel-go/interpreter"
)

// Engine compiles and evaluates expressions against named columns.
// The zero value is not usable; create instances with New.
// An Engine is safe for concurrent use.
type Engine struct {
	progs  *programCache
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCacheSize bounds the compiled-program cache.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.progs = newProgramCache(n)
	}
}

// New creates an Engine with the default program cache.
func New(opts ...Option) *Engine {
	e := &Engine{
		progs:  newProgramCache(defaultCacheSize),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Default is the engine used by callers that do not configure their own.
var Default = New()

// Evaluate runs expr once per row and returns one result value per row.
//
// The namespace maps column names to column values; every key is declared to
// the expression environment, but a column's values are only read if the
// expression references its name. rows is the authoritative row count: a
// namespace entry shorter than rows causes an evaluation error for the rows
// it cannot cover, and rows == 0 returns an empty result without compiling
// the expression.
func (e *Engine) Evaluate(expr string, namespace map[string][]any, rows int) ([]any, error) {
	if rows == 0 {
		return []any{}, nil
	}

	prg, err := e.program(expr, namespace)
	if err != nil {
		return nil, err
	}

	out := make([]any, rows)
	for i := 0; i < rows; i++ {
		val, _, err := prg.Eval(rowActivation{namespace: namespace, row: i})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = val.Value()
	}
	return out, nil
}

// Identifiers returns the distinct identifiers referenced by expr, sorted.
// The expression is parsed but not type-checked, so unknown names are fine;
// a syntactically malformed expression returns an error.
func (e *Engine) Identifiers(expr string) ([]string, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, err
	}
	parsed, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("parse: %w", iss.Err())
	}
	names := identifiers(parsed)
	sort.Strings(names)
	return names, nil
}

// program returns a compiled program for expr declared over the namespace's
// column names, consulting the cache first.
func (e *Engine) program(expr string, namespace map[string][]any) (cel.Program, error) {
	names := make([]string, 0, len(namespace))
	for name := range namespace {
		names = append(names, name)
	}
	sort.Strings(names)

	key := cacheKey(expr, names)
	if prg, ok := e.progs.get(key); ok {
		return prg, nil
	}
	e.logger.Debug("compiling expression", "expr", expr)

	opts := []cel.EnvOption{
		ext.Strings(),
		ext.Math(),
		cel.CrossTypeNumericComparisons(true),
	}
	for _, name := range names {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile: %w", iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}

	e.progs.put(key, prg)
	return prg, nil
}

// rowActivation resolves a column name to that column's value at one row.
// Resolution is lazy: columns the expression never names are never indexed,
// so a namespace may safely contain entries of the wrong length or type as
// long as the expression does not reference them.
type rowActivation struct {
	namespace map[string][]any
	row       int
}

func (a rowActivation) ResolveName(name string) (any, bool) {
	col, ok := a.namespace[name]
	if !ok {
		return nil, false
	}
	if a.row >= len(col) {
		return nil, false
	}
	return normalize(col[a.row]), true
}

func (a rowActivation) Parent() interpreter.Activation {
	return nil
}
