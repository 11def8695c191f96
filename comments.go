package json5

import (
	"fmt"
	"strconv"
	"strings"
)

// A structural path addresses a syntax position in a document. The root
// value lives at [open]; element i of a collection at P is P+[index i],
// member k is P+[key k], the spot before a closing delimiter is P+[close],
// and the spot after the root value is [eof]. Paths are encoded to strings
// so they can key the comment table.
type segmentKind int

const (
	segOpen segmentKind = iota
	segClose
	segEOF
	segIndex
	segKey
)

type segment struct {
	kind  segmentKind
	index int
	key   string
}

func indexSegment(i int) segment  { return segment{kind: segIndex, index: i} }
func keySegment(k string) segment { return segment{kind: segKey, key: k} }

func encodePath(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		switch s.kind {
		case segOpen:
			b.WriteByte('^')
		case segClose:
			b.WriteByte('$')
		case segEOF:
			b.WriteByte('!')
		case segIndex:
			fmt.Fprintf(&b, "[%d]", s.index)
		case segKey:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(s.key))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Comments maps structural positions to the comment lines that appeared
// immediately before them. ParseWithComments produces the table and
// SerializeWithComments replays it; positions that no longer exist in the
// serialized value are silently dropped. The table is never persisted by
// this package and the zero value is empty.
type Comments struct {
	byPath map[string][]string
}

func newComments() *Comments {
	return &Comments{byPath: make(map[string][]string)}
}

func (c *Comments) add(path string, lines []string) {
	if len(lines) == 0 {
		return
	}
	c.byPath[path] = append(c.byPath[path], lines...)
}

func (c *Comments) at(path string) []string {
	if c == nil {
		return nil
	}
	return c.byPath[path]
}

// Len reports how many positions carry comments.
func (c *Comments) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byPath)
}
