// Package jsonpatch is an RFC 6902-flavored front end over jsontree's
// patch engine: it accepts JSON Pointer-addressed add/remove/replace/
// copy/move/test operations and translates the mutating ones into
// jsontree.Op batches that jsontree.PatchEngine applies. test is
// evaluated directly against the source tree and never reaches the
// patch engine, since it asserts rather than mutates.
package jsonpatch

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/kaptinlin/jsontree"
)

// OpCode is one of the six RFC 6902 operation names.
type OpCode string

const (
	OpAdd     OpCode = "add"
	OpRemove  OpCode = "remove"
	OpReplace OpCode = "replace"
	OpMove    OpCode = "move"
	OpCopy    OpCode = "copy"
	OpTest    OpCode = "test"
)

// Operation is one entry of a JSON Patch document.
type Operation struct {
	Op    OpCode          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ErrUnsupportedOp is returned for an op outside the six RFC 6902 names.
var ErrUnsupportedOp = fmt.Errorf("jsonpatch: unsupported operation")

// ErrTestFailed is returned when a "test" operation's value does not
// match the document at its path.
var ErrTestFailed = errors.New("jsonpatch: test operation failed")

// Translate converts a JSON Patch document into jsontree Ops relative to
// tree, ready for jsontree.NewPatchEngine(tree).Apply. copy/move are
// resolved against tree's current (pre-patch) content, since jsontree's
// own Op model has no notion of sourcing a value from elsewhere in the
// document. test operations are evaluated here and produce no Op: a
// failed test returns ErrTestFailed immediately instead of reaching the
// patch engine.
func Translate(tree *jsontree.Tree, ops []Operation) ([]jsontree.Op, error) {
	vt := jsontree.NewVirtualTree(tree)
	out := make([]jsontree.Op, 0, len(ops))
	for i, op := range ops {
		path, err := jsontree.ParseJSONPointer(op.Path)
		if err != nil {
			return nil, fmt.Errorf("jsonpatch: operation %d: %w", i, err)
		}
		switch op.Op {
		case OpAdd:
			out = append(out, jsontree.Op{Kind: jsontree.OpInsert, Path: path, Value: []byte(op.Value)})
		case OpReplace:
			out = append(out, jsontree.Op{Kind: jsontree.OpInsert, Path: path, Value: []byte(op.Value)})
		case OpRemove:
			out = append(out, jsontree.Op{Kind: jsontree.OpRemove, Path: path})
		case OpMove, OpCopy:
			fromPath, err := jsontree.ParseJSONPointer(op.From)
			if err != nil {
				return nil, fmt.Errorf("jsonpatch: operation %d: from: %w", i, err)
			}
			value, err := vt.Root().At(fromPath).ToMinimizedJSON()
			if err != nil {
				return nil, fmt.Errorf("jsonpatch: operation %d: %w", i, err)
			}
			if op.Op == OpMove {
				out = append(out, jsontree.Op{Kind: jsontree.OpRemove, Path: fromPath})
			}
			out = append(out, jsontree.Op{Kind: jsontree.OpInsert, Path: path, Value: value})
		case OpTest:
			want, err := jsontree.Parse(op.Value)
			if err != nil {
				return nil, fmt.Errorf("jsonpatch: operation %d: value: %w", i, err)
			}
			ok, err := vt.Root().At(path).EquivalentTo(jsontree.NewVirtualTree(want).Root())
			if err != nil {
				return nil, fmt.Errorf("jsonpatch: operation %d: %w", i, err)
			}
			if !ok {
				return nil, fmt.Errorf("%w: operation %d (%s)", ErrTestFailed, i, op.Path)
			}
		default:
			return nil, fmt.Errorf("%w: %q at operation %d", ErrUnsupportedOp, op.Op, i)
		}
	}
	return out, nil
}

// Apply parses doc as a JSON Patch document and applies it to tree,
// returning the resulting Tree.
func Apply(tree *jsontree.Tree, patchDoc []byte) (*jsontree.Tree, error) {
	var ops []Operation
	if err := json.Unmarshal(patchDoc, &ops); err != nil {
		return nil, fmt.Errorf("jsonpatch: %w", err)
	}
	translated, err := Translate(tree, ops)
	if err != nil {
		return nil, err
	}
	return jsontree.NewPatchEngine(tree).Apply(translated)
}
