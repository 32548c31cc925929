package jsontree

import (
	"bytes"
	"sort"
)

// Editor performs pure, allocation-based edits against a Tree: every
// operation returns a brand new Tree over a freshly spliced buffer,
// leaving the receiver (and any other Node/VirtualNode built over it)
// untouched. This mirrors the document's broader immutability rule:
// edits never mutate shared state, only produce new state.
type Editor struct {
	tree *Tree
}

// NewEditor wraps t for editing.
func NewEditor(t *Tree) *Editor { return &Editor{tree: t} }

func splice(buf []byte, start, end int, replacement []byte) []byte {
	out := make([]byte, 0, len(buf)-(end-start)+len(replacement))
	out = append(out, buf[:start]...)
	out = append(out, replacement...)
	out = append(out, buf[end:]...)
	return out
}

func reparse(buf []byte) (*Tree, error) { return Parse(buf) }

// AddMember inserts name into the object at path, or, if a member with
// that name is already present, replaces its value in place (preserving
// the existing member order) per spec §4.6.
func (e *Editor) AddMember(path Path, name string, valueJSON []byte) (*Tree, error) {
	return e.AddMembers(path, map[string][]byte{name: valueJSON})
}

// AddMembers applies several member writes to the object at path in one
// edit. A name already present in the object has its value replaced in
// place, preserving the object's existing member order; a name not yet
// present is appended, ordered alphabetically by key among the newly
// added names (the document's own member order is otherwise
// insertion-order and jsontree does not depend on it).
func (e *Editor) AddMembers(path Path, members map[string][]byte) (*Tree, error) {
	target, err := Resolve(e.tree, path)
	if err != nil {
		return nil, err
	}
	if target.Kind() != KindObject {
		return nil, &TypeError{Op: "AddMembers", Actual: target.Kind(), Wanted: KindObject}
	}
	existing, err := target.MemberNames()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		seen[n] = true
	}
	var toReplace, toAdd []string
	for name := range members {
		if seen[name] {
			toReplace = append(toReplace, name)
		} else {
			toAdd = append(toAdd, name)
		}
	}
	sort.Strings(toReplace)
	sort.Strings(toAdd)

	tree := e.tree
	for _, name := range toReplace {
		t, err := Resolve(tree, path)
		if err != nil {
			return nil, err
		}
		child, err := t.Member(name)
		if err != nil {
			return nil, err
		}
		end, err := child.End()
		if err != nil {
			return nil, err
		}
		tree, err = reparse(splice(tree.buf, child.Start(), end, members[name]))
		if err != nil {
			return nil, err
		}
	}

	if len(toAdd) == 0 {
		return tree, nil
	}

	target, err = Resolve(tree, path)
	if err != nil {
		return nil, err
	}
	remaining, err := target.MemberNames()
	if err != nil {
		return nil, err
	}

	var frag bytes.Buffer
	for i, name := range toAdd {
		if i > 0 || len(remaining) > 0 {
			frag.WriteByte(',')
		}
		b, err := marshalMemberPair(name, members[name])
		if err != nil {
			return nil, err
		}
		frag.Write(b)
	}

	end, err := target.End()
	if err != nil {
		return nil, err
	}
	insertAt := end - 1 // just before the closing '}'
	newBuf := splice(tree.buf, insertAt, insertAt, frag.Bytes())
	return reparse(newBuf)
}

func marshalMemberPair(name string, value []byte) ([]byte, error) {
	keyJSON, err := marshalString(name)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	b.Write(keyJSON)
	b.WriteByte(':')
	b.Write(value)
	return b.Bytes(), nil
}

func marshalString(s string) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.Bytes(), nil
}

// RemoveMembers removes the named members from the object at path. It is
// not an error to name a member that is absent; it is simply skipped.
func (e *Editor) RemoveMembers(path Path, names ...string) (*Tree, error) {
	target, err := Resolve(e.tree, path)
	if err != nil {
		return nil, err
	}
	if target.Kind() != KindObject {
		return nil, &TypeError{Op: "RemoveMembers", Actual: target.Kind(), Wanted: KindObject}
	}
	toRemove := make(map[string]bool, len(names))
	for _, n := range names {
		toRemove[n] = true
	}

	var children []Node
	all, err := target.MemberNames()
	if err != nil {
		return nil, err
	}
	for _, name := range all {
		if !toRemove[name] {
			continue
		}
		child, err := target.Member(name)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Start() > children[j].Start() })

	// Each span is measured against the buffer left by the removals after
	// it, so two adjacent members never both claim the comma between them.
	buf := e.tree.buf
	for _, child := range children {
		s, e2, err := memberSpan(&Tree{buf: buf}, target, child)
		if err != nil {
			return nil, err
		}
		buf = splice(buf, s, e2, nil)
	}
	return reparse(buf)
}

// memberSpan computes the byte span of one "key":value member pair
// including one adjoining comma, so removing it leaves valid JSON.
func memberSpan(t *Tree, parent, child Node) (start, end int, err error) {
	buf := t.buf
	lx := newLexer(buf)
	// find the key span: scan backwards from child's start for the
	// opening quote of its preceding key, which sits after a ':' that
	// sits after the key's closing quote.
	i := child.Start() - 1
	i = skipWhitespaceBack(buf, i)
	if i < 0 || buf[i] != ':' {
		return 0, 0, ErrMalformed
	}
	i = skipWhitespaceBack(buf, i-1)
	keyEnd := i + 1
	depth := 0
	keyStart := -1
	for j := i; j >= 0; j-- {
		if buf[j] == '"' && (j == 0 || buf[j-1] != '\\') {
			depth++
			if depth == 2 {
				keyStart = j
				break
			}
		}
	}
	if keyStart < 0 {
		return 0, 0, ErrMalformed
	}
	valEnd, err := child.End()
	if err != nil {
		return 0, 0, err
	}
	_ = lx
	_ = keyEnd

	start = keyStart
	end = valEnd
	// consume a following comma, or if none, a preceding comma, so the
	// remaining list stays syntactically valid.
	after := lx.skipWhitespace(end)
	if after < len(buf) && buf[after] == ',' {
		end = after + 1
	} else {
		before := skipWhitespaceBack(buf, start-1)
		if before >= 0 && buf[before] == ',' {
			start = before
		}
	}
	return start, end, nil
}

func skipWhitespaceBack(buf []byte, i int) int {
	for i >= 0 {
		switch buf[i] {
		case ' ', '\t', '\n', '\r':
			i--
		default:
			return i
		}
	}
	return i
}

// ReplaceWith replaces the value at path with newValueJSON.
func (e *Editor) ReplaceWith(path Path, newValueJSON []byte) (*Tree, error) {
	target, err := Resolve(e.tree, path)
	if err != nil {
		return nil, err
	}
	end, err := target.End()
	if err != nil {
		return nil, err
	}
	newBuf := splice(e.tree.buf, target.Start(), end, newValueJSON)
	return reparse(newBuf)
}

// AddElements inserts values at the end of the array at path, in order.
func (e *Editor) AddElements(path Path, valuesJSON [][]byte) (*Tree, error) {
	return e.PutElements(path, -1, valuesJSON)
}

// PutElements inserts values into the array at path starting at index
// (0 <= index <= current size); index == -1 means append. Existing
// elements at and after index are shifted right.
func (e *Editor) PutElements(path Path, index int, valuesJSON [][]byte) (*Tree, error) {
	target, err := Resolve(e.tree, path)
	if err != nil {
		return nil, err
	}
	if target.Kind() != KindArray {
		return nil, &TypeError{Op: "PutElements", Actual: target.Kind(), Wanted: KindArray}
	}
	size, err := target.Len()
	if err != nil {
		return nil, err
	}
	if index < 0 {
		index = size
	}
	if index > size {
		return nil, &PathError{Segment: "index", ParentKind: target.Kind(), Size: size, Err: ErrOutOfRange}
	}

	var insertAt int
	needsLeadingComma := false
	if size == 0 {
		end, err := target.End()
		if err != nil {
			return nil, err
		}
		insertAt = end - 1
	} else if index == size {
		end, err := target.End()
		if err != nil {
			return nil, err
		}
		insertAt = end - 1
		needsLeadingComma = true
	} else {
		elem, err := target.Element(index)
		if err != nil {
			return nil, err
		}
		insertAt = elem.Start()
	}

	var frag bytes.Buffer
	if needsLeadingComma {
		frag.WriteByte(',')
	}
	for i, v := range valuesJSON {
		if i > 0 {
			frag.WriteByte(',')
		}
		frag.Write(v)
	}
	if !needsLeadingComma && index < size && len(valuesJSON) > 0 {
		frag.WriteByte(',')
	}

	newBuf := splice(e.tree.buf, insertAt, insertAt, frag.Bytes())
	return reparse(newBuf)
}

// RemoveElements removes the elements at the given indices (any order,
// duplicates tolerated) from the array at path.
func (e *Editor) RemoveElements(path Path, indices ...int) (*Tree, error) {
	target, err := Resolve(e.tree, path)
	if err != nil {
		return nil, err
	}
	if target.Kind() != KindArray {
		return nil, &TypeError{Op: "RemoveElements", Actual: target.Kind(), Wanted: KindArray}
	}
	size, err := target.Len()
	if err != nil {
		return nil, err
	}
	unique := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= size {
			return nil, &PathError{Segment: "index", ParentKind: target.Kind(), Size: size, Err: ErrOutOfRange}
		}
		unique[i] = true
	}
	sorted := make([]int, 0, len(unique))
	for i := range unique {
		sorted = append(sorted, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	buf := e.tree.buf
	for _, idx := range sorted {
		elem, err := target.Element(idx)
		if err != nil {
			return nil, err
		}
		s, end, err := elementSpan(buf, target, elem, idx, size)
		if err != nil {
			return nil, err
		}
		buf = splice(buf, s, end, nil)
	}
	return reparse(buf)
}

func elementSpan(buf []byte, parent, elem Node, index, size int) (start, end int, err error) {
	end, err = elem.End()
	if err != nil {
		return 0, 0, err
	}
	start = elem.Start()
	lx := newLexer(buf)
	after := lx.skipWhitespace(end)
	if after < len(buf) && buf[after] == ',' {
		end = after + 1
	} else {
		before := skipWhitespaceBack(buf, start-1)
		if before >= 0 && buf[before] == ',' {
			start = before
		}
	}
	return start, end, nil
}

// Extract returns the raw JSON bytes of the subtree at path, suitable
// for reuse as a value argument to another edit (e.g. moving a value by
// extracting then removing then inserting).
func (e *Editor) Extract(path Path) ([]byte, error) {
	target, err := Resolve(e.tree, path)
	if err != nil {
		return nil, err
	}
	return target.Raw()
}
