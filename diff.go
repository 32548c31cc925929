package jsontree

import "sort"

// DiffMode controls how strictly DiffEngine treats numeric formatting
// and array ordering when comparing two documents.
type DiffMode int

const (
	// ModeDefault treats numerically-equal numbers of differing source
	// formatting ("1" vs "1.0") as equal, and array order as
	// significant.
	ModeDefault DiffMode = iota
	// ModeStrict additionally requires identical numeric formatting
	// (IdenticalTo semantics) before two numbers are considered equal.
	ModeStrict
	// ModeLenient keeps array order significant but tolerates the right
	// document having extra trailing array elements and extra object
	// members that the left document lacks: neither is reported as a
	// difference. Use AnyOrder to additionally compare a given array
	// path as a multiset, independent of Mode.
	ModeLenient
)

// DiffOptions configures a DiffEngine run.
type DiffOptions struct {
	Mode DiffMode
	// AnyOrder names paths (relative to the documents' common root)
	// whose array elements should be compared as a multiset regardless
	// of Mode. Each occurrence is independent: an AnyOrder path does not
	// propagate the modifier into nested arrays reached through it.
	AnyOrder map[string]bool
}

// Difference records one point where two documents disagree.
type Difference struct {
	Path   Path
	Kind   string // "added", "removed", "changed", "type-changed"
	Left   VirtualNode
	Right  VirtualNode
}

// DiffEngine compares two VirtualTrees and reports their Differences.
type DiffEngine struct {
	opts DiffOptions
}

// NewDiffEngine constructs a DiffEngine with the given options.
func NewDiffEngine(opts DiffOptions) *DiffEngine { return &DiffEngine{opts: opts} }

// Diff compares the roots of left and right and returns every
// Difference found, in a stable path order.
func (de *DiffEngine) Diff(left, right *VirtualTree) ([]Difference, error) {
	var out []Difference
	err := de.diffNodes(left.Root(), right.Root(), &out)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path.String() < out[j].Path.String() })
	return out, nil
}

func (de *DiffEngine) diffNodes(l, r VirtualNode, out *[]Difference) error {
	if !l.Exists() && !r.Exists() {
		return nil
	}
	if !l.Exists() {
		*out = append(*out, Difference{Path: r.Path(), Kind: "added", Right: r})
		return nil
	}
	if !r.Exists() {
		*out = append(*out, Difference{Path: l.Path(), Kind: "removed", Left: l})
		return nil
	}
	lk, _ := l.Kind()
	rk, _ := r.Kind()
	if lk != rk {
		*out = append(*out, Difference{Path: l.Path(), Kind: "type-changed", Left: l, Right: r})
		return nil
	}
	switch lk {
	case KindObject:
		return de.diffObjects(l, r, out)
	case KindArray:
		return de.diffArrays(l, r, out)
	default:
		eq, err := de.scalarsEqual(l, r)
		if err != nil {
			return err
		}
		if !eq {
			*out = append(*out, Difference{Path: l.Path(), Kind: "changed", Left: l, Right: r})
		}
		return nil
	}
}

func (de *DiffEngine) scalarsEqual(l, r VirtualNode) (bool, error) {
	if de.opts.Mode == ModeStrict {
		return l.IdenticalTo(r)
	}
	return l.EquivalentTo(r)
}

func (de *DiffEngine) diffObjects(l, r VirtualNode, out *[]Difference) error {
	ln, err := l.MemberNames()
	if err != nil {
		return err
	}
	rn, err := r.MemberNames()
	if err != nil {
		return err
	}
	lenient := de.opts.Mode == ModeLenient
	onLeft := make(map[string]bool, len(ln))
	for _, name := range ln {
		onLeft[name] = true
	}
	names := unionStrings(ln, rn)
	for _, name := range names {
		if lenient && !onLeft[name] {
			// right-side-only member: Lenient tolerates it.
			continue
		}
		if err := de.diffNodes(l.Member(name), r.Member(name), out); err != nil {
			return err
		}
	}
	return nil
}

func (de *DiffEngine) diffArrays(l, r VirtualNode, out *[]Difference) error {
	if de.opts.AnyOrder[l.Path().String()] {
		return de.diffArraysAnyOrder(l, r, out)
	}
	ll, err := l.ViewAsList()
	if err != nil {
		return err
	}
	rl, err := r.ViewAsList()
	if err != nil {
		return err
	}
	n := len(ll)
	if len(rl) > n && de.opts.Mode != ModeLenient {
		n = len(rl)
	}
	// Under ModeLenient, right-side elements beyond len(ll) are trailing
	// extras and tolerated: the comparison simply never reaches them.
	for i := 0; i < n; i++ {
		var lv, rv VirtualNode
		if i < len(ll) {
			lv = ll[i]
		} else {
			lv = l.Element(i)
		}
		if i < len(rl) {
			rv = rl[i]
		} else {
			rv = r.Element(i)
		}
		if err := de.diffNodes(lv, rv, out); err != nil {
			return err
		}
	}
	return nil
}

// diffArraysAnyOrder matches elements as a multiset: each right element
// is paired with the first unmatched left element it is EquivalentTo
// (or IdenticalTo under ModeStrict); unmatched leftovers on either side
// are reported as removed/added.
func (de *DiffEngine) diffArraysAnyOrder(l, r VirtualNode, out *[]Difference) error {
	ll, err := l.ViewAsList()
	if err != nil {
		return err
	}
	rl, err := r.ViewAsList()
	if err != nil {
		return err
	}
	matched := make([]bool, len(ll))
	for _, rv := range rl {
		found := -1
		for i, lv := range ll {
			if matched[i] {
				continue
			}
			eq, err := de.scalarsOrStructuralEqual(lv, rv)
			if err != nil {
				return err
			}
			if eq {
				found = i
				break
			}
		}
		if found >= 0 {
			matched[found] = true
			continue
		}
		*out = append(*out, Difference{Path: rv.Path(), Kind: "added", Right: rv})
	}
	for i, lv := range ll {
		if !matched[i] {
			*out = append(*out, Difference{Path: lv.Path(), Kind: "removed", Left: lv})
		}
	}
	return nil
}

func (de *DiffEngine) scalarsOrStructuralEqual(l, r VirtualNode) (bool, error) {
	if de.opts.Mode == ModeStrict {
		return l.IdenticalTo(r)
	}
	return l.EquivalentTo(r)
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
