// Package syntax is the statement-level model of a parsed Python module.
// It carries only what docstring checking needs: definitions with their
// names, lines, parameters, decorators and docstrings, plus enough of the
// statement structure to find return and yield statements.
// All types are pure Go with no external dependencies.
package syntax

// Module is a parsed source file.
type Module struct {
	Path      string
	Docstring *string // nil when the module has no docstring
	Body      []Stmt
}

// Stmt is a statement in a module, class or function body.
type Stmt interface {
	stmtNode()
}

// FunctionDef is a def or async def statement.
type FunctionDef struct {
	Name       string
	Line       int
	Async      bool
	Params     []string // positional-only, regular, *vararg, keyword-only, **kwarg
	Decorators []Decorator
	Docstring  *string
	Body       []Stmt
}

// ClassDef is a class statement.
type ClassDef struct {
	Name       string
	Line       int
	Decorators []Decorator
	Docstring  *string
	Body       []Stmt
}

// Return is a return statement. HasValue is false for a bare return.
type Return struct {
	Line     int
	HasValue bool
}

// YieldKind says what an expression statement consists of.
type YieldKind int

const (
	YieldNone  YieldKind = iota // any expression that is not a yield
	YieldValue                  // yield / yield x
	YieldFrom                   // yield from x
)

// ExprStmt is a statement consisting of a single expression.
type ExprStmt struct {
	Line  int
	Yield YieldKind
}

// Compound is an if/for/while/try/with/match statement. Body holds the
// statements of every clause (else, elif, except, finally, case) in source
// order.
type Compound struct {
	Kind string
	Line int
	Body []Stmt
}

// Simple is any other statement (assignment, pass, import, ...).
type Simple struct {
	Kind string
	Line int
}

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*ExprStmt) stmtNode()    {}
func (*Compound) stmtNode()    {}
func (*Simple) stmtNode()      {}

// DecoratorKind tags a decorator expression.
type DecoratorKind int

const (
	// DecoratorName is a bare name such as @property.
	DecoratorName DecoratorKind = iota
	// DecoratorOther is anything else: @functools.cached_property,
	// @lru_cache(), @x[0].
	DecoratorOther
)

// Decorator is one entry of a decorator list.
type Decorator struct {
	Kind DecoratorKind
	Name string // set for DecoratorName
	Text string // source text of the expression, without the @
}

// NameDecorator returns a bare-name decorator.
func NameDecorator(name string) Decorator {
	return Decorator{Kind: DecoratorName, Name: name, Text: name}
}

// OtherDecorator returns a decorator that is not a bare name.
func OtherDecorator(text string) Decorator {
	return Decorator{Kind: DecoratorOther, Text: text}
}

// Str returns a pointer to s. Handy for building docstrings in tests and
// adapters.
func Str(s string) *string {
	return &s
}
