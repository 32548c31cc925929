package jsontree

import (
	"errors"
	"fmt"
)

// === Lexing / malformed input ===
var (
	// ErrMalformed is returned when the lexer encounters a byte sequence
	// that cannot be the start of, or continuation of, a JSON token.
	ErrMalformed = errors.New("malformed json")

	// ErrUnexpectedEOF names the end-of-input case. The lexer does not
	// return it: a buffer that ends in the middle of a token or a
	// structural construct is reported as a MalformedError (wrapping
	// ErrMalformed) whose Got is 0.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)

// === Path navigation (eager, raised by Tree) ===
var (
	// ErrNoMember is returned when an object has no member with the
	// requested name.
	ErrNoMember = errors.New("no such member")

	// ErrOutOfRange is returned when an array index is beyond the last element.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNegativeIndex is returned when an array index is negative.
	ErrNegativeIndex = errors.New("negative index")

	// ErrNoParent is returned when Parent is requested of a path or node
	// that has none (the root).
	ErrNoParent = errors.New("root has no parent")

	// ErrNotAPrefix is returned by Path.ShortenBy when the supplied prefix
	// does not actually prefix the path.
	ErrNotAPrefix = errors.New("not a prefix")
)

// === Type mismatches ===
var (
	// ErrWrongKind is returned when an operation is attempted against a
	// node of a kind it does not support (e.g. Size on a Number).
	ErrWrongKind = errors.New("operation not supported for node kind")

	// ErrUndefined is returned when a primitive accessor is demanded on a
	// VirtualNode that does not exist.
	ErrUndefined = errors.New("value is undefined")

	// ErrNullValue is returned when a primitive accessor is demanded and
	// the present value is JSON null.
	ErrNullValue = errors.New("value is null")
)

// === Patch engine ===
var (
	// ErrPatchConflict is returned by PatchEngine when two operations in a
	// batch target the same node, or one targets an ancestor of the
	// other's target.
	ErrPatchConflict = errors.New("patch operation conflict")
)

// === Schema / validation ===
var (
	// ErrSchemaValidation is the umbrella sentinel wrapped by the
	// PathError that As returns when validation fails; individual rule
	// failures are reported in the Validator's EvaluationResult, not as
	// distinct sentinels.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrNotATypedView is returned when extracting a SchemaModel from a
	// value that is not a struct or pointer-to-struct.
	ErrNotATypedView = errors.New("not a typed view")
)

// MalformedError reports a lexing failure at a specific byte offset, with
// enough context to render a caret-line excerpt on demand.
type MalformedError struct {
	Offset   int    // byte offset of the offending byte
	Expected string // human description of what was expected
	Got      byte   // offending byte (0 if at EOF)
	Buffer   []byte // the buffer being lexed, for Excerpt
}

func (e *MalformedError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("malformed json at byte %d: expected %s, got end of input", e.Offset, e.Expected)
	}
	return fmt.Sprintf("malformed json at byte %d: expected %s, got %q", e.Offset, e.Expected, e.Got)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// Excerpt renders a caret-line view of the buffer around the error offset.
func (e *MalformedError) Excerpt() string {
	buf := e.Buffer
	if len(buf) == 0 {
		return ""
	}
	start := e.Offset - 20
	if start < 0 {
		start = 0
	}
	end := e.Offset + 20
	if end > len(buf) {
		end = len(buf)
	}
	line := string(buf[start:end])
	caret := make([]byte, e.Offset-start)
	for i := range caret {
		caret[i] = ' '
	}
	return line + "\n" + string(caret) + "^"
}

// PathError reports a navigation failure: a missing member, an
// out-of-range or negative index, a wrong-kind parent, or a root that was
// asked for its parent.
type PathError struct {
	Path       string // canonical rendering of the failing path
	Segment    string // the failing segment, rendered
	ParentKind NodeKind
	Size       int // for OutOfRange, the parent's size
	Err        error
}

func (e *PathError) Error() string {
	switch {
	case errors.Is(e.Err, ErrNoMember):
		return fmt.Sprintf("path %s: no member %s on %s", e.Path, e.Segment, e.ParentKind)
	case errors.Is(e.Err, ErrOutOfRange):
		return fmt.Sprintf("path %s: index %s out of range (size %d)", e.Path, e.Segment, e.Size)
	case errors.Is(e.Err, ErrNegativeIndex):
		return fmt.Sprintf("path %s: negative index %s", e.Path, e.Segment)
	case errors.Is(e.Err, ErrWrongKind):
		return fmt.Sprintf("path %s: segment %s requires parent of a different kind, got %s", e.Path, e.Segment, e.ParentKind)
	case errors.Is(e.Err, ErrNoParent):
		return fmt.Sprintf("path %s: root has no parent", e.Path)
	default:
		return fmt.Sprintf("path %s: %v", e.Path, e.Err)
	}
}

func (e *PathError) Unwrap() error { return e.Err }

// TypeError reports that an operation does not apply to a node's actual
// kind, naming the kind.
type TypeError struct {
	Op      string
	Actual  NodeKind
	Wanted  NodeKind
	Message string
}

func (e *TypeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("type error in %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("type error in %s: expected %s, got %s", e.Op, e.Wanted, e.Actual)
}

func (e *TypeError) Unwrap() error { return ErrWrongKind }

// PatchError reports a conflict detected before a patch batch is applied.
type PatchError struct {
	FirstIndex  int
	SecondIndex int
	Reason      string // "same target as" or "child of"
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("operation %d has %s operation %d", e.FirstIndex, e.Reason, e.SecondIndex)
}

func (e *PatchError) Unwrap() error { return ErrPatchConflict }
