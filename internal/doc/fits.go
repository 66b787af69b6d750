package doc

import "unicode/utf8"

// mode is the rendering mode a document subtree is visited in.
type mode int

const (
	modeFlat mode = iota
	modeBreak
)

// triple is one entry of the explicit work stack both fits and the layout
// pass operate on: the indent in effect, the mode to render in, and the
// document to visit.
type triple struct {
	indent int
	mode   mode
	doc    Doc
}

// stack is a LIFO work list. Pushing items in right-to-left order and
// popping from the top yields left-to-right visitation, the same effect
// the original algorithm gets from pushing onto the front of a deque.
type stack []triple

func (s stack) push(t triple) stack {
	return append(s, t)
}

func (s stack) pop() (triple, stack, bool) {
	if len(s) == 0 {
		return triple{}, s, false
	}
	n := len(s) - 1
	return s[n], s[:n], true
}

// fits reports whether the head of work, rendered entirely flat, fits
// within remaining columns before a mandatory newline. It works on its own
// slice header, but push appends into the backing array of work, so
// entries of the caller's array past its length may be overwritten.
func fits(remaining int, work stack) bool {
	for {
		if remaining < 0 {
			return false
		}
		t, rest, ok := work.pop()
		if !ok {
			return true
		}
		work = rest

		switch d := t.doc.(type) {
		case nilDoc:
			continue
		case *fitsUntilLBracketDoc:
			work = work.push(triple{t.indent, t.mode, d.inner})
			return fitsUntilLBracket(remaining, work)
		case *consDoc:
			work = work.push(triple{t.indent, t.mode, d.right})
			work = work.push(triple{t.indent, t.mode, d.left})
			continue
		case *nestDoc:
			work = work.push(triple{t.indent + d.step, t.mode, d.inner})
			continue
		case *nestIfBreakDoc:
			// Indentation never affects flat-mode width, so fits descends
			// unconditionally rather than consulting broken_docs.
			work = work.push(triple{t.indent + d.step, t.mode, d.inner})
			continue
		case *nestHangingDoc:
			work = work.push(triple{t.indent, t.mode, d.inner})
			continue
		case *textDoc:
			remaining -= d.width
			continue
		case *commentedTextDoc:
			remaining -= d.width
			continue
		case breakDoc:
			if t.mode == modeBreak {
				panic("doc: fits encountered a Break in break mode, which is unreachable by construction")
			}
			remaining -= utf8.RuneCountInString(d.altText)
			continue
		case *groupDoc:
			if d.props.position == CommentMiddle {
				return false
			}
			if d.shouldBreak == ShouldBreakPropagate {
				return false
			}
			work = work.push(triple{t.indent, modeFlat, d.inner})
			continue
		case hardBreakDoc:
			return false
		default:
			panic("doc: fits encountered an unknown Doc node")
		}
	}
}

// fitsUntilLBracket is identical to fits except that encountering
// Text("{") stops measurement: the fit succeeds iff at least one column
// remains before the brace, unless the very next queued item is also
// Text("{") (the "embracing operator"), in which case the two-character
// token is treated as opaque and measurement continues through it.
func fitsUntilLBracket(remaining int, work stack) bool {
	for {
		if remaining < 0 {
			return false
		}
		t, rest, ok := work.pop()
		if !ok {
			return true
		}
		work = rest

		switch d := t.doc.(type) {
		case nilDoc:
			continue
		case *fitsUntilLBracketDoc:
			work = work.push(triple{t.indent, t.mode, d.inner})
			return fitsUntilLBracket(remaining, work)
		case *consDoc:
			work = work.push(triple{t.indent, t.mode, d.right})
			work = work.push(triple{t.indent, t.mode, d.left})
			continue
		case *nestDoc:
			work = work.push(triple{t.indent + d.step, t.mode, d.inner})
			continue
		case *nestIfBreakDoc:
			work = work.push(triple{t.indent + d.step, t.mode, d.inner})
			continue
		case *nestHangingDoc:
			work = work.push(triple{t.indent, t.mode, d.inner})
			continue
		case *textDoc:
			if d.content == "{" {
				if next, rest2, ok2 := work.pop(); ok2 {
					if nt, ok3 := next.doc.(*textDoc); ok3 && nt.content == "{" {
						work = rest2
						remaining -= d.width + nt.width
						continue
					}
				}
				return remaining > 0
			}
			remaining -= d.width
			continue
		case *commentedTextDoc:
			remaining -= d.width
			continue
		case breakDoc:
			if t.mode == modeBreak {
				panic("doc: fitsUntilLBracket encountered a Break in break mode, which is unreachable by construction")
			}
			remaining -= utf8.RuneCountInString(d.altText)
			continue
		case *groupDoc:
			if d.props.position == CommentMiddle {
				return false
			}
			if d.shouldBreak == ShouldBreakPropagate {
				return false
			}
			work = work.push(triple{t.indent, modeFlat, d.inner})
			continue
		case hardBreakDoc:
			return false
		default:
			panic("doc: fitsUntilLBracket encountered an unknown Doc node")
		}
	}
}
