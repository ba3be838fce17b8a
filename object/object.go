package object

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rkowalski/tern/ast"
)

/*
ObjectType represents every value we encounter when evaluating source code as an Object, an interface of our design.
Every value will be wrapped inside a struct, which fulfills this Object interface.
*/
type ObjectType string

const (
	NULL_OBJ         = "NULL"
	ERROR_OBJ        = "ERROR"
	INTEGER_OBJ      = "INTEGER"
	BOOLEAN_OBJ      = "BOOLEAN"
	RETURN_VALUE_OBJ = "RETURN_VALUE"
	FUNCTION_OBJ     = "FUNCTION"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

/*
Integer

Whenever we encounter an integer literal in the source code we first turn it into an ast.IntegerLiteral and then,
when evaluating that AST node, we turn it into an object.Integer, saving the value inside our struct and passing around a reference to this struct.

In order for object.Integer to fulfill the object.Object interface, it still needs a Type() method that returns its ObjectType (INTEGER_OBJ)

Arithmetic on Value wraps the way Go's native int64 wraps on overflow —
spec.md §9 leaves overflow behaviour unspecified, so no checked-arithmetic
dependency is introduced for it.
*/
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

/*
I know i know....nulls...

Null is both the value of expressions with no meaningful result (an if
with no matching branch) and, historically, a sentinel for "not found"
in naive environment lookups. This Environment (see environment.go)
returns an explicit second bool instead, so a bound Null is never
confused with an absent name.
*/
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// ReturnValue wraps the operand of a return statement so it can unwind
// nested blocks without being mistaken for an ordinary value.
// evalProgram unwraps it; evalBlockStatement propagates it still wrapped
// so a nested if's return reaches the enclosing function or program
// boundary and no further (spec.md §4.3).
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// ErrorKind names one case from the evaluator's error taxonomy
// (spec.md §7). The evaluator does not set it: every *Error it returns
// has an empty Kind and describes the failure in Message only.
type ErrorKind string

const (
	ErrUnknownPrefix        ErrorKind = "UNKNOWN_PREFIX"
	ErrInfixBooleanOperator ErrorKind = "INFIX_BOOLEAN_OPERATOR"
	ErrMismatchedTypes      ErrorKind = "MISMATCHED_TYPES"
	ErrUnknownInfix         ErrorKind = "UNKNOWN_INFIX"
	ErrIdentifierNotFound   ErrorKind = "IDENTIFIER_NOT_FOUND"
	ErrMismatchedObject     ErrorKind = "MISMATCHED_OBJECT"
	ErrInvalidNumberArgs    ErrorKind = "INVALID_NUMBER_ARGUMENTS"
)

// Error is the evaluator's sole failure value. Evaluation halts the
// moment one is produced — in a Program, a Block, or a call — and it is
// never retried.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// Function is a closure: a parameter list, a body, and the environment
// that was active when the function literal was evaluated. Env is
// captured by reference, not copied, which is what lets two functions
// defined in the same scope observe each other's later mutations to it.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

// Inspect renders "fn(p1, p2, ...) {\n body\n}" — note the single
// leading space before the body line, matching the reference formatter.
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("fn")
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") {\n ")
	out.WriteString(f.Body.String())
	out.WriteString("\n}")

	return out.String()
}
