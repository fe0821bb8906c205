// Package formula implements the restricted expression language used by metric definitions.
//
// Formulas are parsed with go/parser and compiled into a closed set of nodes:
// table column selection, numeric literals, arithmetic, comparisons and a fixed
// set of series functions. Anything else is rejected at parse time, so
// configuration text can never reach a general-purpose evaluator.
package formula

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"slices"
	"strconv"

	"github.com/finscore/finscore/schema"
)

// Expr is a compiled formula.
type Expr struct {
	src    string
	root   node
	tables []schema.TableName
}

// Parse compiles a formula source string.
// Errors wrap schema.ErrConfiguration, since formulas come from the metric library.
func Parse(src string) (*Expr, error) {
	tree, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: formula %q: %v", schema.ErrConfiguration, src, err)
	}
	c := &compiler{}
	root, err := c.compile(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: formula %q: %v", schema.ErrConfiguration, src, err)
	}
	slices.Sort(c.tables)
	return &Expr{src: src, root: root, tables: slices.Compact(c.tables)}, nil
}

// String returns the formula source.
func (e *Expr) String() string {
	return e.src
}

// Tables returns the statement tables the formula reads, sorted and de-duplicated.
func (e *Expr) Tables() []schema.TableName {
	return slices.Clone(e.tables)
}

// compiler walks a Go expression tree and keeps only whitelisted node types.
type compiler struct {
	tables []schema.TableName
}

func (c *compiler) compile(e ast.Expr) (node, error) {
	switch n := e.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, fmt.Errorf("unexpected literal %s", n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %s", n.Value)
		}
		return numberNode(v), nil

	case *ast.ParenExpr:
		return c.compile(n.X)

	case *ast.UnaryExpr:
		if n.Op != token.SUB && n.Op != token.ADD {
			return nil, fmt.Errorf("unsupported unary operator %s", n.Op)
		}
		x, err := c.compile(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op == token.ADD {
			return x, nil
		}
		return &negNode{x: x}, nil

	case *ast.BinaryExpr:
		if _, ok := binaryOps[n.Op]; !ok {
			return nil, fmt.Errorf("unsupported operator %s", n.Op)
		}
		x, err := c.compile(n.X)
		if err != nil {
			return nil, err
		}
		y, err := c.compile(n.Y)
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: n.Op, x: x, y: y}, nil

	case *ast.IndexExpr:
		return c.compileColumn(n)

	case *ast.CallExpr:
		return c.compileCall(n)

	case *ast.Ident:
		return nil, fmt.Errorf("bare identifier %q (select a line item, e.g. %s[\"Total Revenue\"])", n.Name, n.Name)

	default:
		return nil, fmt.Errorf("unsupported expression %T", e)
	}
}

func (c *compiler) compileColumn(n *ast.IndexExpr) (node, error) {
	ident, ok := n.X.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("only statement tables can be indexed")
	}
	table := schema.TableName(ident.Name)
	if _, ok := schema.ValidTables[table]; !ok {
		return nil, fmt.Errorf("unknown table %q (want balance, income, cashflow or financials)", ident.Name)
	}
	lit, ok := n.Index.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return nil, fmt.Errorf("line item of %s must be a string literal", ident.Name)
	}
	item, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid line item %s", lit.Value)
	}
	c.tables = append(c.tables, table)
	return &columnNode{table: table, item: item}, nil
}

func (c *compiler) compileCall(n *ast.CallExpr) (node, error) {
	ident, ok := n.Fun.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("only built-in functions can be called")
	}
	fn, ok := functions[ident.Name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", ident.Name)
	}
	if n.Ellipsis.IsValid() {
		return nil, fmt.Errorf("variadic call to %s", ident.Name)
	}
	if len(n.Args) != fn.arity {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", ident.Name, fn.arity, len(n.Args))
	}
	args := make([]node, len(n.Args))
	for i, a := range n.Args {
		arg, err := c.compile(a)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return &callNode{name: ident.Name, fn: fn, args: args}, nil
}
