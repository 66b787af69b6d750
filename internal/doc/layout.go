package doc

import "strings"

// SimpleDoc is one element of the linearised output of the layout decision
// pass: either literal text or a newline followed by an indent.
type SimpleDoc interface {
	simpleDoc()
}

// SimpleText is a literal text fragment in the serialized output.
type SimpleText struct {
	Content string
}

func (SimpleText) simpleDoc() {}

// SimpleLine is a newline followed by indent spaces.
type SimpleLine struct {
	Indent int
}

func (SimpleLine) simpleDoc() {}

// brokenGroups records, by group id, which groups the layout pass chose to
// render broken. [NestIfBreak] consults it.
type brokenGroups map[int]bool

// FormatToSDoc walks d with an explicit work queue, deciding per group
// whether to render it flat or broken, and returns the linearised
// [SimpleDoc] sequence. consumed is the starting column (normally 0).
//
// The layout pass visits exactly one node per push, so total work is
// linear in document node count: each push replaces one node with its
// direct children.
func FormatToSDoc(consumed int, d Doc, cfg FormattingConfig) []SimpleDoc {
	lineLength := cfg.LineLength()
	broken := brokenGroups{}
	work := stack{{indent: 0, mode: modeBreak, doc: d}}

	var out []SimpleDoc
	for {
		t, rest, ok := work.pop()
		if !ok {
			break
		}
		work = rest
		indent, m := t.indent, t.mode

		switch dd := t.doc.(type) {
		case nilDoc:
			// skip
		case *consDoc:
			work = work.push(triple{indent, m, dd.right})
			work = work.push(triple{indent, m, dd.left})
		case *nestDoc:
			work = work.push(triple{indent + dd.step, m, dd.inner})
		case *nestIfBreakDoc:
			if broken[dd.observedID] {
				work = work.push(triple{indent + dd.step, m, dd.inner})
			} else {
				work = work.push(triple{indent, m, dd.inner})
			}
		case *nestHangingDoc:
			// Re-indent the hanging document so further line breaks align
			// with the current output column, then continue laying it out
			// as an ordinary Nest carrying the same properties.
			work = work.push(triple{indent, m, &nestDoc{
				step:  consumed - indent,
				inner: dd.inner,
				props: dd.props,
			}})
		case *textDoc:
			out = append(out, SimpleText{Content: dd.content})
			consumed += dd.width
		case *commentedTextDoc:
			out = append(out, SimpleText{Content: dd.content})
			consumed += dd.width
		case *fitsUntilLBracketDoc:
			work = work.push(triple{indent, m, dd.inner})
		case breakDoc:
			if m == modeFlat {
				out = append(out, SimpleText{Content: dd.altText})
				consumed += runeLen(dd.altText)
			} else {
				out = append(out, SimpleLine{Indent: indent})
				consumed = indent
			}
		case *groupDoc:
			probe := stack{{indent, modeFlat, dd.inner}}
			shouldBreak := dd.shouldBreak == ShouldBreakYes ||
				dd.shouldBreak == ShouldBreakPropagate ||
				dd.props.position == CommentMiddle ||
				dd.props.position == CommentInGroup ||
				!fits(lineLength-consumed, probe)
			if shouldBreak {
				work = work.push(triple{indent, modeBreak, dd.inner})
				broken[dd.props.id] = true
			} else {
				work = work.push(triple{indent, modeFlat, dd.inner})
			}
		case hardBreakDoc:
			// no emission: fits always fails on a HardBreak, so any enclosing group is already
			// forced into break mode, and the newline comes from that group's own Break nodes.
		default:
			panic("doc: FormatToSDoc encountered an unknown Doc node")
		}
	}
	return out
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// SimpleDocToString folds a linearised [SimpleDoc] sequence into the final
// string: text fragments are appended verbatim, lines become a newline
// followed by indent space characters. There is no tab handling;
// indentation is always spaces.
func SimpleDocToString(docs []SimpleDoc) string {
	var out strings.Builder
	for _, d := range docs {
		switch v := d.(type) {
		case SimpleText:
			out.WriteString(v.Content)
		case SimpleLine:
			out.WriteByte('\n')
			for range v.Indent {
				out.WriteByte(' ')
			}
		}
	}
	return out.String()
}

// Format runs the layout decision pass over d and serializes the result
// against cfg. It is the engine's single entry point: document in, string
// out.
func Format(d Doc, cfg FormattingConfig) string {
	return SimpleDocToString(FormatToSDoc(0, d, cfg))
}
