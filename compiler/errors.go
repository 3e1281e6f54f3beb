package compiler

import (
	"fmt"

	"github.com/rubiojr/mcscript/ast"
)

// ErrorKind tags the variant of a compile-time Error. Internal invariant
// violations (an unreachable Location combination in mov, for instance)
// are programmer errors and panic instead of flowing through this type —
// they are not expected to be reachable on well-typed input.
type ErrorKind int

const (
	MultipleDefinition ErrorKind = iota
	UndefinedIdentifier
	TypeMismatch
	ExpectedVoid
	ExpectedValue
	IndexIntoNonArray
	NoLoopToBreak
	NoLoopToContinue
	FuncArgumentsCountMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case MultipleDefinition:
		return "MultipleDefinition"
	case UndefinedIdentifier:
		return "UndefinedIdentifier"
	case TypeMismatch:
		return "TypeMismatch"
	case ExpectedVoid:
		return "ExpectedVoid"
	case ExpectedValue:
		return "ExpectedValue"
	case IndexIntoNonArray:
		return "IndexIntoNonArray"
	case NoLoopToBreak:
		return "NoLoopToBreak"
	case NoLoopToContinue:
		return "NoLoopToContinue"
	case FuncArgumentsCountMismatch:
		return "FuncArgumentsCountMismatch"
	default:
		return "Unknown"
	}
}

// Error is the generator's tagged error type. Every case carries the
// originating namespace and the source span of the offending node.
type Error struct {
	Kind      ErrorKind
	Namespace string
	Span      ast.Span
	Ident     string // offending identifier, when applicable
	Expected  string // expected type/count, when applicable
	Found     string // found type/count, when applicable
}

func (e *Error) Error() string {
	switch e.Kind {
	case MultipleDefinition:
		return fmt.Sprintf("%s:%d: %q is already defined", e.Namespace, e.Span.Begin, e.Ident)
	case UndefinedIdentifier:
		return fmt.Sprintf("%s:%d: undefined identifier %q", e.Namespace, e.Span.Begin, e.Ident)
	case TypeMismatch:
		return fmt.Sprintf("%s:%d: type mismatch: expected %s, found %s", e.Namespace, e.Span.Begin, e.Expected, e.Found)
	case ExpectedVoid:
		return fmt.Sprintf("%s:%d: expected void, found %s", e.Namespace, e.Span.Begin, e.Found)
	case ExpectedValue:
		return fmt.Sprintf("%s:%d: expected a value of type %s", e.Namespace, e.Span.Begin, e.Expected)
	case IndexIntoNonArray:
		return fmt.Sprintf("%s:%d: cannot index into non-array type %s", e.Namespace, e.Span.Begin, e.Found)
	case NoLoopToBreak:
		return fmt.Sprintf("%s:%d: break outside of a loop", e.Namespace, e.Span.Begin)
	case NoLoopToContinue:
		return fmt.Sprintf("%s:%d: continue outside of a loop", e.Namespace, e.Span.Begin)
	case FuncArgumentsCountMismatch:
		return fmt.Sprintf("%s:%d: %q expects %s arguments, found %s", e.Namespace, e.Span.Begin, e.Ident, e.Expected, e.Found)
	default:
		return fmt.Sprintf("%s:%d: compile error", e.Namespace, e.Span.Begin)
	}
}

func errMultipleDefinition(ns string, id ast.Identifier) error {
	return &Error{Kind: MultipleDefinition, Namespace: ns, Span: id.Span, Ident: id.Text}
}

func errUndefinedIdentifier(ns string, id ast.Identifier) error {
	return &Error{Kind: UndefinedIdentifier, Namespace: ns, Span: id.Span, Ident: id.Text}
}

func errTypeMismatch(ns string, span ast.Span, expected, found ast.Type) error {
	return &Error{Kind: TypeMismatch, Namespace: ns, Span: span, Expected: expected.String(), Found: found.String()}
}

func errExpectedVoid(ns string, span ast.Span, found ast.Type) error {
	return &Error{Kind: ExpectedVoid, Namespace: ns, Span: span, Found: found.String()}
}

func errExpectedValue(ns string, span ast.Span, expected ast.Type) error {
	return &Error{Kind: ExpectedValue, Namespace: ns, Span: span, Expected: expected.String()}
}

func errIndexIntoNonArray(ns string, span ast.Span, found ast.Type) error {
	return &Error{Kind: IndexIntoNonArray, Namespace: ns, Span: span, Found: found.String()}
}

func errNoLoopToBreak(ns string, span ast.Span) error {
	return &Error{Kind: NoLoopToBreak, Namespace: ns, Span: span}
}

func errNoLoopToContinue(ns string, span ast.Span) error {
	return &Error{Kind: NoLoopToContinue, Namespace: ns, Span: span}
}

func errArgCountMismatch(ns string, span ast.Span, name string, expected, found int) error {
	return &Error{
		Kind: FuncArgumentsCountMismatch, Namespace: ns, Span: span, Ident: name,
		Expected: fmt.Sprintf("%d", expected), Found: fmt.Sprintf("%d", found),
	}
}
