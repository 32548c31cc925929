package jsontree

import "sort"

// OpKind distinguishes the two patch primitives. Insert alone covers
// both add and replace: applying it at a path that already holds a
// value overwrites that value in place; applying it at a path that
// does not yet exist creates it.
type OpKind int

const (
	OpInsert OpKind = iota
	OpRemove
)

// Op is one operation in a patch batch. Path addresses the member or
// element being inserted/removed: for OpInsert under an object, Path's
// last segment is the member being added; for OpInsert under an array,
// Path's last segment is the index the new element lands at after the
// insert; for OpRemove, Path addresses the existing value being
// removed.
type Op struct {
	Kind  OpKind
	Path  Path
	Value []byte // JSON for OpInsert; unused for OpRemove

	// Merge, when true on an OpInsert whose target already holds an
	// object and whose Value is an object, unions the two objects'
	// members (incoming wins per key) instead of replacing the target
	// wholesale. Two Merge-flagged Inserts at the same path are not a
	// conflict as long as both Values are objects with disjoint member
	// names; a shared name makes them a same-target conflict.
	Merge bool
}

// PatchEngine validates and applies an ordered batch of Ops to a Tree.
type PatchEngine struct {
	tree *Tree
}

// NewPatchEngine wraps t for patching.
func NewPatchEngine(t *Tree) *PatchEngine { return &PatchEngine{tree: t} }

// Apply validates ops for conflicts, reorders them into a safe execution
// order, and applies them, returning a new Tree. The input batch and its
// paths are relative to the same original tree throughout validation;
// only execution order (not caller-supplied op order) differs from the
// slice.
func (pe *PatchEngine) Apply(ops []Op) (*Tree, error) {
	if err := detectConflicts(ops); err != nil {
		return nil, err
	}
	ordered := orderOps(ops)

	ordered = mergeArrayInserts(pe.tree, ordered)

	tree := pe.tree
	for _, op := range ordered {
		ed := NewEditor(tree)
		var next *Tree
		var err error
		switch op.Kind {
		case OpRemove:
			next, err = applyRemove(ed, op.Path)
		case OpInsert:
			next, err = applyInsertWithValue(ed, op.Path, op.Value, op.Merge)
		}
		if err != nil {
			return nil, err
		}
		tree = next
	}
	return tree, nil
}

func applyRemove(ed *Editor, path Path) (*Tree, error) {
	parent, err := path.Parent()
	if err != nil {
		return nil, err
	}
	last, _ := path.Last()
	if last.Kind == SegmentMember {
		return ed.RemoveMembers(parent, last.Name)
	}
	return ed.RemoveElements(parent, last.Index)
}

// applyInsertWithValue implements Insert(path, value, merge) per spec
// §4.7: a single Insert always adds-or-replaces at path. When merge is
// true and both the existing value at path and the incoming value are
// Objects, their members are unioned (incoming wins per key) instead of
// the existing object being replaced wholesale.
func applyInsertWithValue(ed *Editor, path Path, value []byte, merge bool) (*Tree, error) {
	if merge {
		if existing, err := Resolve(ed.tree, path); err == nil && existing.Kind() == KindObject {
			if members, ok, err := objectMembers(value); err != nil {
				return nil, err
			} else if ok {
				return ed.AddMembers(path, members)
			}
		}
	}

	parent, err := path.Parent()
	if err != nil {
		return nil, err
	}
	last, _ := path.Last()
	if last.Kind == SegmentMember {
		return ed.AddMember(parent, last.Name, value)
	}

	parentNode, err := Resolve(ed.tree, parent)
	if err != nil {
		return nil, err
	}
	size, err := parentNode.Len()
	if err != nil {
		return nil, err
	}
	if last.Index < size {
		return ed.ReplaceWith(path, value)
	}
	return ed.PutElements(parent, last.Index, [][]byte{value})
}

// objectMembers parses value as JSON and, if it is an object, returns
// its top-level members keyed by name with their raw JSON text. ok is
// false (with no error) when value does not parse as an object.
func objectMembers(value []byte) (members map[string][]byte, ok bool, err error) {
	t, err := Parse(value)
	if err != nil {
		return nil, false, nil
	}
	root := t.Root()
	if root.Kind() != KindObject {
		return nil, false, nil
	}
	names, err := root.MemberNames()
	if err != nil {
		return nil, false, err
	}
	members = make(map[string][]byte, len(names))
	for _, name := range names {
		child, err := root.Member(name)
		if err != nil {
			return nil, false, err
		}
		raw, err := child.Raw()
		if err != nil {
			return nil, false, err
		}
		members[name] = raw
	}
	return members, true, nil
}

// detectConflicts reports a PatchError if two ops in the batch target
// the same node, or one targets an ancestor of the other's target,
// except for the disjoint-key object-merge exception on Merge-flagged
// Inserts.
func detectConflicts(ops []Op) error {
	for i := 0; i < len(ops); i++ {
		for j := i + 1; j < len(ops); j++ {
			a, b := ops[i], ops[j]
			if a.Path.String() == b.Path.String() {
				if a.Kind == OpInsert && b.Kind == OpInsert && a.Merge && b.Merge {
					am, aok, _ := objectMembers(a.Value)
					bm, bok, _ := objectMembers(b.Value)
					disjoint := aok && bok
					for name := range am {
						if _, shared := bm[name]; shared {
							disjoint = false
						}
					}
					if disjoint {
						continue
					}
				}
				return &PatchError{FirstIndex: i, SecondIndex: j, Reason: "same target as"}
			}
			if isAncestor(a.Path, b.Path) || isAncestor(b.Path, a.Path) {
				if mergeExempt(a, b) {
					continue
				}
				return &PatchError{FirstIndex: i, SecondIndex: j, Reason: "child of"}
			}
		}
	}
	return nil
}

// mergeExempt allows two Merge-flagged Inserts whose paths share a
// parent object but target disjoint member names.
func mergeExempt(a, b Op) bool {
	if a.Kind != OpInsert || b.Kind != OpInsert || !a.Merge || !b.Merge {
		return false
	}
	pa, erra := a.Path.Parent()
	pb, errb := b.Path.Parent()
	if erra != nil || errb != nil || pa.String() != pb.String() {
		return false
	}
	la, oka := a.Path.Last()
	lb, okb := b.Path.Last()
	if !oka || !okb || la.Kind != SegmentMember || lb.Kind != SegmentMember {
		return false
	}
	return la.Name != lb.Name
}

func isAncestor(maybeAncestor, path Path) bool {
	if maybeAncestor.Len() >= path.Len() {
		return false
	}
	return path.HasPrefix(maybeAncestor)
}

// orderOps reorders a conflict-free batch for safe sequential
// application: all Removes execute first, sorted so array-index removes
// run from the highest index down to the lowest (so earlier removes
// never shift the index of a later one); then all Inserts, sorted so
// array-index inserts run from the lowest index up (so earlier inserts
// don't shift the target index of a later one).
func orderOps(ops []Op) []Op {
	var removes, inserts []Op
	for _, op := range ops {
		if op.Kind == OpRemove {
			removes = append(removes, op)
		} else {
			inserts = append(inserts, op)
		}
	}
	sort.SliceStable(removes, func(i, j int) bool {
		return pathOrderKey(removes[i].Path) > pathOrderKey(removes[j].Path)
	})
	sort.SliceStable(inserts, func(i, j int) bool {
		return pathOrderKey(inserts[i].Path) < pathOrderKey(inserts[j].Path)
	})
	out := make([]Op, 0, len(ops))
	out = append(out, removes...)
	out = append(out, inserts...)
	return out
}

// pathOrderKey returns a path's final index segment for ordering
// purposes, or -1 if the path's last segment is a member (member
// inserts/removes never need relative ordering against each other).
func pathOrderKey(p Path) int {
	last, ok := p.Last()
	if !ok || last.Kind != SegmentIndex {
		return -1
	}
	return last.Index
}

// mergeArrayInserts collapses a run of OpInsert ops targeting
// consecutive indices of the same array into the single PutElements
// call editor.go's PutElements already performs efficiently for a
// contiguous run, returning the collapsed batch. Non-contiguous or
// cross-array inserts are left unmerged, and so is a run that starts
// inside tree's current array, where each Insert replaces the element
// it lands on.
func mergeArrayInserts(tree *Tree, ops []Op) []Op {
	if len(ops) < 2 {
		return ops
	}
	out := make([]Op, 0, len(ops))
	i := 0
	for i < len(ops) {
		cur := ops[i]
		if cur.Kind != OpInsert {
			out = append(out, cur)
			i++
			continue
		}
		last, ok := cur.Path.Last()
		if !ok || last.Kind != SegmentIndex {
			out = append(out, cur)
			i++
			continue
		}
		parent, err := cur.Path.Parent()
		if err != nil {
			out = append(out, cur)
			i++
			continue
		}
		size := -1
		if parentNode, err := Resolve(tree, parent); err == nil {
			if n, err := parentNode.Len(); err == nil {
				size = n
			}
		}
		if size < 0 || last.Index < size {
			out = append(out, cur)
			i++
			continue
		}
		j := i + 1
		values := [][]byte{cur.Value}
		for j < len(ops) {
			nxt := ops[j]
			if nxt.Kind != OpInsert {
				break
			}
			nl, ok := nxt.Path.Last()
			if !ok || nl.Kind != SegmentIndex {
				break
			}
			np, err := nxt.Path.Parent()
			if err != nil || np.String() != parent.String() || nl.Index != last.Index+len(values) {
				break
			}
			values = append(values, nxt.Value)
			j++
		}
		if len(values) == 1 {
			out = append(out, cur)
			i++
			continue
		}
		var combined []byte
		for k, v := range values {
			if k > 0 {
				combined = append(combined, ',')
			}
			combined = append(combined, v...)
		}
		out = append(out, Op{Kind: OpInsert, Path: cur.Path, Value: combined})
		i = j
	}
	return out
}
