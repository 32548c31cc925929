package jsontree

// Resolve navigates a Tree along path, raising eagerly on the first
// segment that cannot be followed (no such member, index out of range,
// or a segment that requires a container where the current node is a
// scalar). This is the ActualTree side of navigation; VirtualTree wraps
// it to defer the same failures until a primitive is demanded.
func Resolve(t *Tree, path Path) (Node, error) {
	n := t.Root()
	for _, seg := range path.Segments() {
		var err error
		n, err = resolveSegment(n, seg)
		if err != nil {
			return Node{}, err
		}
	}
	return n, nil
}

func resolveSegment(n Node, seg Segment) (Node, error) {
	switch seg.Kind {
	case SegmentMember:
		if n.Kind() != KindObject {
			return Node{}, &TypeError{Op: "resolve member " + seg.Name, Actual: n.Kind(), Wanted: KindObject}
		}
		return n.Member(seg.Name)
	case SegmentIndex:
		if n.Kind() != KindArray {
			return Node{}, &TypeError{Op: "resolve index", Actual: n.Kind(), Wanted: KindArray}
		}
		return n.Element(seg.Index)
	default:
		return Node{}, ErrMalformed
	}
}
