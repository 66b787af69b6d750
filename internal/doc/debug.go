package doc

import (
	"fmt"
	"strings"
)

// DebugString renders d as indented, HTML-like markup showing every node in
// the tree, including groups' ids and ShouldBreak settings. It does not run the
// layout pass: widths and break choices are not computed, only the document
// structure as built. Useful for understanding why a group ends up breaking
// without re-deriving it by hand.
func DebugString(d Doc) string {
	var sb strings.Builder
	debugWrite(&sb, d, 0)
	return sb.String()
}

func debugIndent(w *strings.Builder, depth int) {
	for range depth {
		w.WriteByte('\t')
	}
}

func debugWrite(w *strings.Builder, d Doc, depth int) {
	switch dd := d.(type) {
	case nilDoc:
		debugIndent(w, depth)
		w.WriteString("<nil/>\n")
	case *consDoc:
		debugWrite(w, dd.left, depth)
		debugWrite(w, dd.right, depth)
	case *textDoc:
		debugIndent(w, depth)
		fmt.Fprintf(w, "<text width=%d content=%q/>\n", dd.width, dd.content)
	case *commentedTextDoc:
		debugIndent(w, depth)
		fmt.Fprintf(w, "<text width=%d content=%q comment=%s/>\n", dd.width, dd.content, dd.pos)
	case *nestDoc:
		debugIndent(w, depth)
		fmt.Fprintf(w, "<nest step=%d>\n", dd.step)
		debugWrite(w, dd.inner, depth+1)
		debugIndent(w, depth)
		w.WriteString("</nest>\n")
	case *nestIfBreakDoc:
		debugIndent(w, depth)
		fmt.Fprintf(w, "<nestIfBreak step=%d observes=%d>\n", dd.step, dd.observedID)
		debugWrite(w, dd.inner, depth+1)
		debugIndent(w, depth)
		w.WriteString("</nestIfBreak>\n")
	case *nestHangingDoc:
		debugIndent(w, depth)
		w.WriteString("<hanging>\n")
		debugWrite(w, dd.inner, depth+1)
		debugIndent(w, depth)
		w.WriteString("</hanging>\n")
	case *fitsUntilLBracketDoc:
		debugIndent(w, depth)
		w.WriteString("<fitsUntilLBracket>\n")
		debugWrite(w, dd.inner, depth+1)
		debugIndent(w, depth)
		w.WriteString("</fitsUntilLBracket>\n")
	case breakDoc:
		debugIndent(w, depth)
		fmt.Fprintf(w, "<break altText=%q/>\n", dd.altText)
	case hardBreakDoc:
		debugIndent(w, depth)
		w.WriteString("<hardBreak/>\n")
	case *groupDoc:
		debugIndent(w, depth)
		fmt.Fprintf(w, "<group id=%d break=%s>\n", dd.props.id, dd.shouldBreak)
		debugWrite(w, dd.inner, depth+1)
		debugIndent(w, depth)
		w.WriteString("</group>\n")
	default:
		debugIndent(w, depth)
		fmt.Fprintf(w, "<unknown type=%T/>\n", d)
	}
}

func (b ShouldBreak) String() string {
	switch b {
	case ShouldBreakAuto:
		return "auto"
	case ShouldBreakYes:
		return "yes"
	case ShouldBreakPropagate:
		return "propagate"
	default:
		return "ShouldBreak(?)"
	}
}

// GoDebugString renders d as a Go program that reconstructs it with this
// package's constructors and prints it with [Format], mirroring the
// teacher's regenerate-as-source debugging aid.
func GoDebugString(d Doc, maxColumn int) string {
	var sb strings.Builder
	sb.WriteString("package main\n\n")
	sb.WriteString("import (\n\t\"fmt\"\n\n\t\"github.com/teleivo/wadler/internal/doc\"\n)\n\n")
	sb.WriteString("func main() {\n\tids := doc.NewIDs()\n\t_ = ids\n\td := ")
	goWrite(&sb, d, 1)
	fmt.Fprintf(&sb, "\n\tfmt.Print(doc.Format(d, doc.StaticConfig(%d)))\n}\n", maxColumn)
	return sb.String()
}

func goWrite(w *strings.Builder, d Doc, depth int) {
	switch dd := d.(type) {
	case nilDoc:
		w.WriteString("doc.Nil()")
	case *consDoc:
		w.WriteString("doc.Cons(")
		goWrite(w, dd.left, depth)
		w.WriteString(", ")
		goWrite(w, dd.right, depth)
		w.WriteString(")")
	case *textDoc:
		fmt.Fprintf(w, "doc.Text(%q)", dd.content)
	case *commentedTextDoc:
		fmt.Fprintf(w, "doc.CommentedText(%q, doc.Comment%s)", dd.content, dd.pos)
	case *nestDoc:
		fmt.Fprintf(w, "doc.Nest(%d, ", dd.step)
		goWrite(w, dd.inner, depth)
		w.WriteString(")")
	case *nestIfBreakDoc:
		fmt.Fprintf(w, "doc.NestIfBreak(%d, ", dd.step)
		goWrite(w, dd.inner, depth)
		fmt.Fprintf(w, ", %d)", dd.observedID)
	case *nestHangingDoc:
		w.WriteString("doc.NestHanging(")
		goWrite(w, dd.inner, depth)
		w.WriteString(")")
	case *fitsUntilLBracketDoc:
		w.WriteString("doc.FitsUntilLBracket(")
		goWrite(w, dd.inner, depth)
		w.WriteString(")")
	case breakDoc:
		fmt.Fprintf(w, "doc.Break(%q)", dd.altText)
	case hardBreakDoc:
		w.WriteString("doc.HardBreak()")
	case *groupDoc:
		w.WriteString("doc.Group(ids, ")
		goWrite(w, dd.inner, depth)
		fmt.Fprintf(w, ", doc.ShouldBreak%s)", titleCase(dd.shouldBreak.String()))
	default:
		fmt.Fprintf(w, "/* unknown %T */", d)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
