package evaluator

import (
	"github.com/google/cel-go/cel"
	celast "github.com/google/cel-go/common/ast"
)

// identifiers walks a parsed expression and collects every identifier
// reference. Select chains (a.b.c) contribute only their root identifier,
// which is the form column references take here.
func identifiers(parsed *cel.Ast) []string {
	seen := make(map[string]struct{})
	celast.PreOrderVisit(parsed.NativeRep().Expr(), celast.NewExprVisitor(func(e celast.Expr) {
		if e.Kind() == celast.IdentKind {
			seen[e.AsIdent()] = struct{}{}
		}
	}))

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}
