package jsontree

import "sort"

// VirtualTree layers a typed, undefined-tolerant façade over a Tree:
// navigating through a member or index that does not exist never
// panics or errors until a primitive value is actually demanded from
// the resulting VirtualNode.
type VirtualTree struct {
	tree *Tree
}

// NewVirtualTree wraps t in a VirtualTree.
func NewVirtualTree(t *Tree) *VirtualTree { return &VirtualTree{tree: t} }

// Root returns the tree's root as a VirtualNode.
func (vt *VirtualTree) Root() VirtualNode {
	return VirtualNode{vt: vt, node: vt.tree.Root(), exists: true}
}

// VirtualNode is a handle that may or may not correspond to an actual
// value. Navigation (Member/Element/At) always succeeds syntactically;
// Exists reports whether the navigated-to value is actually present.
type VirtualNode struct {
	vt     *VirtualTree
	node   Node
	exists bool
	path   Path
}

// Exists reports whether this node corresponds to an actual value in the
// underlying document.
func (v VirtualNode) Exists() bool { return v.exists }

// Undefined is the negation of Exists, named for readability at call
// sites that read more naturally as a guard clause.
func (v VirtualNode) Undefined() bool { return !v.exists }

// Path returns the path this node was navigated to, relative to the
// tree's root.
func (v VirtualNode) Path() Path { return v.path }

// Member navigates to an object member. If v does not exist, or exists
// but is not an object, or has no such member, the result is a
// non-existent VirtualNode rather than an error.
func (v VirtualNode) Member(name string) VirtualNode {
	child := v.path.Member(name)
	if !v.exists || v.node.Kind() != KindObject {
		return VirtualNode{vt: v.vt, path: child}
	}
	n, err := v.node.Member(name)
	if err != nil {
		return VirtualNode{vt: v.vt, path: child}
	}
	return VirtualNode{vt: v.vt, node: n, exists: true, path: child}
}

// Element navigates to an array element. Out-of-range or wrong-kind
// navigation yields a non-existent VirtualNode.
func (v VirtualNode) Element(index int) VirtualNode {
	child := v.path.Index(index)
	if !v.exists || v.node.Kind() != KindArray {
		return VirtualNode{vt: v.vt, path: child}
	}
	n, err := v.node.Element(index)
	if err != nil {
		return VirtualNode{vt: v.vt, path: child}
	}
	return VirtualNode{vt: v.vt, node: n, exists: true, path: child}
}

// At navigates along a full path in one call.
func (v VirtualNode) At(path Path) VirtualNode {
	cur := v
	for _, seg := range path.Segments() {
		if seg.Kind == SegmentMember {
			cur = cur.Member(seg.Name)
		} else {
			cur = cur.Element(seg.Index)
		}
	}
	return cur
}

// Kind reports the node's kind, or a zero value with ok=false if the
// node does not exist.
func (v VirtualNode) Kind() (kind NodeKind, ok bool) {
	if !v.exists {
		return 0, false
	}
	return v.node.Kind(), true
}

// IsNull reports whether the node exists and its value is JSON null.
func (v VirtualNode) IsNull() bool {
	return v.exists && v.node.Kind() == KindNull
}

// IsInteger reports whether the node exists, is a Number, and its exact
// value has zero fractional part (so "1", "1.0", and "1.0000" all
// report true).
func (v VirtualNode) IsInteger() bool {
	if !v.exists || v.node.Kind() != KindNumber {
		return false
	}
	raw, err := v.node.Raw()
	if err != nil {
		return false
	}
	return ParseNumber(string(raw)).IsInteger()
}

// requirePresent is the common guard for primitive accessors: raises
// ErrUndefined if the node doesn't exist, ErrNullValue if it is JSON
// null (callers that want null to be a valid absence-signal check
// IsNull first instead of calling a typed accessor).
func (v VirtualNode) requirePresent() error {
	if !v.exists {
		return ErrUndefined
	}
	if v.node.Kind() == KindNull {
		return ErrNullValue
	}
	return nil
}

// AsString returns the node's string value.
func (v VirtualNode) AsString() (string, error) {
	if err := v.requirePresent(); err != nil {
		return "", err
	}
	if v.node.Kind() != KindString {
		return "", &TypeError{Op: "AsString", Actual: v.node.Kind(), Wanted: KindString}
	}
	raw, err := v.node.Raw()
	if err != nil {
		return "", err
	}
	return decodeString(raw)
}

// AsNumber returns the node's numeric value.
func (v VirtualNode) AsNumber() (Number, error) {
	if err := v.requirePresent(); err != nil {
		return Number{}, err
	}
	if v.node.Kind() != KindNumber {
		return Number{}, &TypeError{Op: "AsNumber", Actual: v.node.Kind(), Wanted: KindNumber}
	}
	raw, err := v.node.Raw()
	if err != nil {
		return Number{}, err
	}
	return ParseNumber(string(raw)), nil
}

// AsBool returns the node's boolean value.
func (v VirtualNode) AsBool() (bool, error) {
	if err := v.requirePresent(); err != nil {
		return false, err
	}
	if v.node.Kind() != KindBool {
		return false, &TypeError{Op: "AsBool", Actual: v.node.Kind(), Wanted: KindBool}
	}
	raw, err := v.node.Raw()
	if err != nil {
		return false, err
	}
	return raw[0] == 't', nil
}

// Size returns an object's member count or an array's element count.
func (v VirtualNode) Size() (int, error) {
	if err := v.requirePresent(); err != nil {
		return 0, err
	}
	switch v.node.Kind() {
	case KindObject, KindArray:
		return v.node.Len()
	default:
		return 0, &TypeError{Op: "Size", Actual: v.node.Kind()}
	}
}

// MemberNames returns an object's member names in document order.
func (v VirtualNode) MemberNames() ([]string, error) {
	if err := v.requirePresent(); err != nil {
		return nil, err
	}
	if v.node.Kind() != KindObject {
		return nil, &TypeError{Op: "MemberNames", Actual: v.node.Kind(), Wanted: KindObject}
	}
	return v.node.MemberNames()
}

// ViewAsList returns one VirtualNode per array element, in order. It
// returns an empty slice (not an error) if v does not exist.
func (v VirtualNode) ViewAsList() ([]VirtualNode, error) {
	if !v.exists {
		return nil, nil
	}
	if v.node.Kind() != KindArray {
		return nil, &TypeError{Op: "ViewAsList", Actual: v.node.Kind(), Wanted: KindArray}
	}
	n, err := v.node.Len()
	if err != nil {
		return nil, err
	}
	out := make([]VirtualNode, n)
	for i := 0; i < n; i++ {
		out[i] = v.Element(i)
	}
	return out, nil
}

// ViewAsMap returns name -> VirtualNode for every member of an object.
// The map carries no order; MemberNames gives document order.
func (v VirtualNode) ViewAsMap() (map[string]VirtualNode, error) {
	if !v.exists {
		return nil, nil
	}
	names, err := v.MemberNames()
	if err != nil {
		return nil, err
	}
	out := make(map[string]VirtualNode, len(names))
	for _, name := range names {
		out[name] = v.Member(name)
	}
	return out, nil
}

// ToMinimizedJSON re-serializes v's value as compact JSON with no
// insignificant whitespace. A non-existent node serializes as the
// literal "null" in the same way a missing struct field would marshal
// as its zero value's JSON.
func (v VirtualNode) ToMinimizedJSON() ([]byte, error) {
	if !v.exists {
		return []byte("null"), nil
	}
	raw, err := v.node.Raw()
	if err != nil {
		return nil, err
	}
	return minimizeJSON(raw)
}

// minimizeJSON strips insignificant whitespace outside of string
// literals from a syntactically valid JSON value.
func minimizeJSON(raw []byte) ([]byte, error) {
	out := make([]byte, 0, len(raw))
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch c {
		case ' ', '\t', '\n', '\r':
			i++
		case '"':
			lx := newLexer(raw)
			end, err := lx.skipString(i)
			if err != nil {
				return nil, err
			}
			out = append(out, raw[i:end]...)
			i = end
		default:
			out = append(out, c)
			i++
		}
	}
	return out, nil
}

// EquivalentTo reports structural equality between two VirtualNodes:
// same kind, numbers compared by value rather than bucket or formatting,
// object member order irrelevant, array element order significant.
func (v VirtualNode) EquivalentTo(other VirtualNode) (bool, error) {
	return compareNodes(v, other, false)
}

// IdenticalTo is EquivalentTo plus exact numeric formatting: "1" and
// "1.0" are identical under EquivalentTo but not under IdenticalTo.
func (v VirtualNode) IdenticalTo(other VirtualNode) (bool, error) {
	return compareNodes(v, other, true)
}

func compareNodes(a, b VirtualNode, strict bool) (bool, error) {
	if a.exists != b.exists {
		return false, nil
	}
	if !a.exists {
		return true, nil
	}
	ak, bk := a.node.Kind(), b.node.Kind()
	if ak != bk {
		return false, nil
	}
	switch ak {
	case KindNull:
		return true, nil
	case KindBool:
		av, err := a.AsBool()
		if err != nil {
			return false, err
		}
		bv, err := b.AsBool()
		if err != nil {
			return false, err
		}
		return av == bv, nil
	case KindString:
		av, err := a.AsString()
		if err != nil {
			return false, err
		}
		bv, err := b.AsString()
		if err != nil {
			return false, err
		}
		return av == bv, nil
	case KindNumber:
		av, err := a.AsNumber()
		if err != nil {
			return false, err
		}
		bv, err := b.AsNumber()
		if err != nil {
			return false, err
		}
		if strict {
			return av.String() == bv.String(), nil
		}
		return av.Equal(bv), nil
	case KindArray:
		al, err := a.ViewAsList()
		if err != nil {
			return false, err
		}
		bl, err := b.ViewAsList()
		if err != nil {
			return false, err
		}
		if len(al) != len(bl) {
			return false, nil
		}
		for i := range al {
			eq, err := compareNodes(al[i], bl[i], strict)
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case KindObject:
		an, err := a.MemberNames()
		if err != nil {
			return false, err
		}
		bn, err := b.MemberNames()
		if err != nil {
			return false, err
		}
		if len(an) != len(bn) {
			return false, nil
		}
		sortedA := append([]string(nil), an...)
		sortedB := append([]string(nil), bn...)
		sort.Strings(sortedA)
		sort.Strings(sortedB)
		for i := range sortedA {
			if sortedA[i] != sortedB[i] {
				return false, nil
			}
		}
		for _, name := range an {
			eq, err := compareNodes(a.Member(name), b.Member(name), strict)
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	default:
		return false, &TypeError{Op: "compare", Actual: ak}
	}
}

// Find walks the subtree rooted at v, depth-first in document order,
// and returns the first node for which predicate returns true, or a
// non-existent VirtualNode if none matches. Predicate is never called
// on non-existent nodes.
func (v VirtualNode) Find(predicate func(VirtualNode) bool) (VirtualNode, error) {
	var found VirtualNode
	var ok bool
	var walk func(n VirtualNode) error
	walk = func(n VirtualNode) error {
		if ok || !n.exists {
			return nil
		}
		if predicate(n) {
			found = n
			ok = true
			return nil
		}
		switch n.node.Kind() {
		case KindObject:
			names, err := n.MemberNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				if err := walk(n.Member(name)); err != nil {
					return err
				}
				if ok {
					return nil
				}
			}
		case KindArray:
			size, err := n.Size()
			if err != nil {
				return err
			}
			for i := 0; i < size; i++ {
				if err := walk(n.Element(i)); err != nil {
					return err
				}
				if ok {
					return nil
				}
			}
		}
		return nil
	}
	if err := walk(v); err != nil {
		return VirtualNode{}, err
	}
	if !ok {
		return VirtualNode{vt: v.vt, path: v.path}, nil
	}
	return found, nil
}
