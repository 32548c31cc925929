// Package jsontree implements a lazy JSON access and manipulation library.
//
// Given a JSON document as an immutable input buffer, jsontree lets callers
// navigate, extract, and test values by path without eagerly parsing the
// whole document: only the bytes on the path to a requested node are
// scanned, and uninteresting siblings are skipped by a lightweight lexer
// that counts structural delimiters without materializing values.
//
// A Tree is the offset-indexed representation of a document (the "actual"
// tree in the package's own vocabulary); a VirtualTree layers a typed,
// undefined-tolerant façade on top of it (the "virtual" tree) so that
// navigating through a missing member never panics until a primitive value
// is actually demanded. Edits are pure: Insert/Remove/Replace/patch all
// produce a new Tree, leaving the source buffer and any Tree built over it
// untouched.
package jsontree
