package jsontree

import (
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// SegmentKind distinguishes a path segment's addressing mode.
type SegmentKind int

const (
	// SegmentMember addresses an object member by name, rendered as
	// either a dot-prefixed identifier (.name) or, when name contains a
	// character outside [A-Za-z0-9_], a curly-escaped form ({na.me}).
	SegmentMember SegmentKind = iota
	// SegmentIndex addresses an array element by position ([n]).
	SegmentIndex
)

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Name  string // valid when Kind == SegmentMember
	Index int    // valid when Kind == SegmentIndex
}

func (s Segment) render(b *strings.Builder) {
	switch s.Kind {
	case SegmentIndex:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(s.Index))
		b.WriteByte(']')
	default:
		switch {
		case s.Name == "":
			b.WriteByte('.')
		case isBareIdentifier(s.Name):
			b.WriteByte('.')
			b.WriteString(s.Name)
		default:
			b.WriteByte('{')
			b.WriteString(escapeCurly(s.Name))
			b.WriteByte('}')
		}
	}
}

func isBareIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		ok := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return true
}

func escapeCurly(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '{' || r == '}' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Path is an ordered list of Segments addressing a value relative to a
// tree's root. Paths are immutable: every transformation (Extend,
// Parent, ShortenBy) returns a new Path.
type Path struct {
	segments []Segment
}

// RootPath is the empty path, addressing the root value itself.
var RootPath = Path{}

// ParsePath parses the dot/bracket/curly path language described in the
// path grammar: `.name`, `[n]`, `{escaped name}`, concatenated with no
// separator required between segment forms.
func ParsePath(s string) (Path, error) {
	var segs []Segment
	i := 0
	for i < len(s) {
		switch s[i] {
		case '.':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != '{' {
				j++
			}
			// A dot with nothing before the next delimiter is the empty
			// name, written as a bare ".".
			segs = append(segs, Segment{Kind: SegmentMember, Name: s[i+1 : j]})
			i = j
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return Path{}, &PathError{Path: s, Segment: s[i:], Err: ErrMalformed}
			}
			j += i
			idxStr := s[i+1 : j]
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return Path{}, &PathError{Path: s, Segment: idxStr, Err: ErrMalformed}
			}
			if idx < 0 {
				return Path{}, &PathError{Path: s, Segment: idxStr, Err: ErrNegativeIndex}
			}
			segs = append(segs, Segment{Kind: SegmentIndex, Index: idx})
			i = j + 1
		case '{':
			name, consumed, err := parseCurly(s[i:])
			if err != nil {
				return Path{}, &PathError{Path: s, Segment: s[i:], Err: ErrMalformed}
			}
			segs = append(segs, Segment{Kind: SegmentMember, Name: name})
			i += consumed
		default:
			return Path{}, &PathError{Path: s, Segment: s[i:], Err: ErrMalformed}
		}
	}
	return Path{segments: segs}, nil
}

func parseCurly(s string) (name string, consumed int, err error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		if c == '}' {
			return b.String(), i + 1, nil
		}
		b.WriteByte(c)
		i++
	}
	return "", 0, ErrMalformed
}

// MustParsePath parses s and panics on error; for use with literal paths
// known at compile time.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Member returns the path extended with a member segment.
func (p Path) Member(name string) Path {
	return p.extend(Segment{Kind: SegmentMember, Name: name})
}

// Index returns the path extended with an index segment.
func (p Path) Index(i int) Path {
	return p.extend(Segment{Kind: SegmentIndex, Index: i})
}

func (p Path) extend(s Segment) Path {
	segs := make([]Segment, len(p.segments)+1)
	copy(segs, p.segments)
	segs[len(p.segments)] = s
	return Path{segments: segs}
}

// Extend appends another path's segments to p.
func (p Path) Extend(other Path) Path {
	segs := make([]Segment, 0, len(p.segments)+len(other.segments))
	segs = append(segs, p.segments...)
	segs = append(segs, other.segments...)
	return Path{segments: segs}
}

// Segments returns the path's segments in order. The returned slice must
// not be mutated.
func (p Path) Segments() []Segment { return p.segments }

// Len reports the number of segments.
func (p Path) Len() int { return len(p.segments) }

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// Head returns the path's first segment and ok=false if the path is
// root.
func (p Path) Head() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}
	return p.segments[0], true
}

// Tail returns the path with its first segment removed.
func (p Path) Tail() Path {
	if len(p.segments) == 0 {
		return p
	}
	return Path{segments: p.segments[1:]}
}

// Last returns the path's final segment and ok=false if the path is
// root.
func (p Path) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

// Parent returns the path with its final segment removed, or
// ErrNoParent if the path is already root.
func (p Path) Parent() (Path, error) {
	if len(p.segments) == 0 {
		return Path{}, ErrNoParent
	}
	return Path{segments: p.segments[:len(p.segments)-1]}, nil
}

// ShortenBy returns p with the prefix removed, or ErrNotAPrefix if
// prefix does not actually prefix p.
func (p Path) ShortenBy(prefix Path) (Path, error) {
	if len(prefix.segments) > len(p.segments) {
		return Path{}, ErrNotAPrefix
	}
	for i, s := range prefix.segments {
		if s != p.segments[i] {
			return Path{}, ErrNotAPrefix
		}
	}
	return Path{segments: p.segments[len(prefix.segments):]}, nil
}

// HasPrefix reports whether prefix is a prefix of p (or equal to it).
func (p Path) HasPrefix(prefix Path) bool {
	_, err := p.ShortenBy(prefix)
	return err == nil
}

// String renders the path in canonical dot/bracket/curly form.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p.segments {
		s.render(&b)
	}
	return b.String()
}

// ToJSONPointer renders the path as an RFC 6901 JSON Pointer, reusing
// kaptinlin/jsonpointer's token escaping (~0/~1) so the pointer form
// round-trips through the same encoder used by the jsonpatch front end.
func (p Path) ToJSONPointer() string {
	tokens := make([]string, len(p.segments))
	for i, s := range p.segments {
		if s.Kind == SegmentIndex {
			tokens[i] = strconv.Itoa(s.Index)
		} else {
			tokens[i] = s.Name
		}
	}
	return jsonpointer.Format(tokens...)
}

// ParseJSONPointer parses an RFC 6901 JSON Pointer into a Path. Numeric
// tokens on their own are treated as index segments, matching jsontree's
// Path semantics; a numeric-looking object key must be reached through
// ParsePath's curly-escape form instead if it needs to stay a member
// segment.
func ParseJSONPointer(pointer string) (Path, error) {
	tokens := jsonpointer.Parse(pointer)
	segs := make([]Segment, len(tokens))
	for i, tok := range tokens {
		if idx, err := strconv.Atoi(tok); err == nil && idx >= 0 && strconv.Itoa(idx) == tok {
			segs[i] = Segment{Kind: SegmentIndex, Index: idx}
		} else {
			segs[i] = Segment{Kind: SegmentMember, Name: tok}
		}
	}
	return Path{segments: segs}, nil
}
