package jsontree

import (
	"strconv"
	"strings"
)

// WriteOptions controls canonical JSON re-serialization of a
// VirtualNode. The zero value produces minimized output with no
// insignificant whitespace; unlike ToMinimizedJSON, string escapes are
// re-encoded rather than copied from the source.
type WriteOptions struct {
	// IndentSpaces, when > 0, pretty-prints with that many spaces per
	// nesting level. Mutually exclusive with IndentTabs; IndentTabs
	// wins if both are set.
	IndentSpaces int
	// IndentTabs pretty-prints with one tab per nesting level.
	IndentTabs bool
	// SpaceAfterColon writes "key": value instead of "key":value.
	// Only affects object members; meaningless without indentation but
	// honored either way.
	SpaceAfterColon bool
	// ExcludeNullMembers drops object members whose value is JSON null
	// from the output entirely (arrays keep null elements: RFC 6902
	// array semantics require index-stable positions).
	ExcludeNullMembers bool
}

func (o WriteOptions) indented() bool { return o.IndentSpaces > 0 || o.IndentTabs }

func (o WriteOptions) indentUnit() string {
	if o.IndentTabs {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentSpaces)
}

// Write re-serializes v as canonical JSON under opts. Unlike
// ToMinimizedJSON (which copies the node's original bytes, dropping
// only insignificant whitespace), Write rebuilds the document from
// typed accessors, so
// ExcludeNullMembers and re-indentation can change its shape.
func Write(v VirtualNode, opts WriteOptions) ([]byte, error) {
	var b strings.Builder
	if err := writeNode(&b, v, opts, 0); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeNode(b *strings.Builder, v VirtualNode, opts WriteOptions, depth int) error {
	if !v.Exists() || v.IsNull() {
		b.WriteString("null")
		return nil
	}
	kind, _ := v.Kind()
	switch kind {
	case KindObject:
		return writeObject(b, v, opts, depth)
	case KindArray:
		return writeArray(b, v, opts, depth)
	case KindString:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		writeQuotedString(b, s)
		return nil
	case KindNumber:
		n, err := v.AsNumber()
		if err != nil {
			return err
		}
		b.WriteString(n.String())
		return nil
	case KindBool:
		bv, err := v.AsBool()
		if err != nil {
			return err
		}
		b.WriteString(strconv.FormatBool(bv))
		return nil
	default:
		b.WriteString("null")
		return nil
	}
}

func writeObject(b *strings.Builder, v VirtualNode, opts WriteOptions, depth int) error {
	names, err := v.MemberNames()
	if err != nil {
		return err
	}
	kept := names[:0:0]
	for _, name := range names {
		if opts.ExcludeNullMembers && v.Member(name).IsNull() {
			continue
		}
		kept = append(kept, name)
	}
	b.WriteByte('{')
	for i, name := range kept {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNewlineIndent(b, opts, depth+1)
		writeQuotedString(b, name)
		b.WriteByte(':')
		if opts.SpaceAfterColon {
			b.WriteByte(' ')
		}
		if err := writeNode(b, v.Member(name), opts, depth+1); err != nil {
			return err
		}
	}
	if len(kept) > 0 {
		writeNewlineIndent(b, opts, depth)
	}
	b.WriteByte('}')
	return nil
}

func writeArray(b *strings.Builder, v VirtualNode, opts WriteOptions, depth int) error {
	elems, err := v.ViewAsList()
	if err != nil {
		return err
	}
	b.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNewlineIndent(b, opts, depth+1)
		if err := writeNode(b, e, opts, depth+1); err != nil {
			return err
		}
	}
	if len(elems) > 0 {
		writeNewlineIndent(b, opts, depth)
	}
	b.WriteByte(']')
	return nil
}

func writeNewlineIndent(b *strings.Builder, opts WriteOptions, depth int) {
	if !opts.indented() {
		return
	}
	b.WriteByte('\n')
	unit := opts.indentUnit()
	for i := 0; i < depth; i++ {
		b.WriteString(unit)
	}
}

func writeQuotedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				const hex = "0123456789abcdef"
				b.WriteByte(hex[(r>>12)&0xf])
				b.WriteByte(hex[(r>>8)&0xf])
				b.WriteByte(hex[(r>>4)&0xf])
				b.WriteByte(hex[r&0xf])
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// isURLSafeBareName reports whether name may be written unquoted in the
// URL-safe variant: only A-Z a-z 0-9 - . _ @, with the first character
// a letter or @.
func isURLSafeBareName(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !((first >= 'A' && first <= 'Z') || (first >= 'a' && first <= 'z') || first == '@') {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		ok := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '@'
		if !ok {
			return false
		}
	}
	return true
}

// WriteURLSafe renders v in the URL-safe variant described by the
// external collaborator's wire format: object/array delimiters are
// "(...)"; strings are single-quoted; unquoted member names are
// restricted to [A-Za-z0-9-._@] and must start with a letter or "@";
// null encodes as "n", true as "t", false as "f"; the empty object has
// no representation of its own and is approximated as null.
func WriteURLSafe(v VirtualNode) (string, error) {
	var b strings.Builder
	if err := writeURLSafeNode(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeURLSafeNode(b *strings.Builder, v VirtualNode) error {
	if !v.Exists() || v.IsNull() {
		b.WriteByte('n')
		return nil
	}
	kind, _ := v.Kind()
	switch kind {
	case KindObject:
		return writeURLSafeObject(b, v)
	case KindArray:
		return writeURLSafeArray(b, v)
	case KindString:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		writeURLSafeString(b, s)
		return nil
	case KindNumber:
		n, err := v.AsNumber()
		if err != nil {
			return err
		}
		b.WriteString(n.String())
		return nil
	case KindBool:
		bv, err := v.AsBool()
		if err != nil {
			return err
		}
		if bv {
			b.WriteByte('t')
		} else {
			b.WriteByte('f')
		}
		return nil
	default:
		b.WriteByte('n')
		return nil
	}
}

func writeURLSafeObject(b *strings.Builder, v VirtualNode) error {
	names, err := v.MemberNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		// The empty object cannot be encoded in this variant; approximate
		// it with the null encoding, per the format's own rule.
		b.WriteByte('n')
		return nil
	}
	b.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		if isURLSafeBareName(name) {
			b.WriteString(name)
		} else {
			writeURLSafeString(b, name)
		}
		b.WriteByte(':')
		if err := writeURLSafeNode(b, v.Member(name)); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

func writeURLSafeArray(b *strings.Builder, v VirtualNode) error {
	elems, err := v.ViewAsList()
	if err != nil {
		return err
	}
	b.WriteByte('(')
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeURLSafeNode(b, e); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

func writeURLSafeString(b *strings.Builder, s string) {
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
}
