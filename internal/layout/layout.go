// Package layout provides a declarative toolkit for building pretty printers and code formatters.
//
// It implements a DOM-like structure that specifies how text should be laid out with respect to
// line breaking, indentation, and reflowing. The core abstraction is [Doc], a tree built by
// chaining method calls that add content and layout constraints:
//   - [Doc.Text]: adds literal text content
//   - [Doc.Space]: adds a single space
//   - [Doc.Break]: adds a candidate line break, rendered as altText when its group stays flat
//   - [Doc.HardBreak]: adds a line break that forces every enclosing group that measures it to break
//   - [Doc.Group], [Doc.GroupBreak], [Doc.GroupPropagate]: mark a sequence of content as a single
//     flat-or-broken choice point
//   - [Doc.Indent]: increases indentation for a sequence of tags
//   - [Doc.IndentIfBreak]: increases indentation only if a named sibling or ancestor group broke
//   - [Doc.Hanging]: indents a sequence to the column rendering had reached rather than a fixed offset
//   - [Doc.FitsUntilLBracket]: truncates the fits measurement of a sequence at its first unescaped "{"
//
// Each call returns the same *Doc so construction reads as one fluent chain. Render the result
// with [Doc.Render].
//
// Conditional rendering keyed only on the immediately enclosing group (the teacher package this
// one descends from offered TextIf/SpaceIf/BreakIf for that) is not provided here: [Doc.Break] and
// [Doc.HardBreak] already express flat-vs-broken content directly, and [Doc.IndentIfBreak] covers
// the one case *If couldn't, an indent keyed on a group other than its own immediate parent.
package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/teleivo/wadler/internal/doc"
)

// Format specifies the output representation for rendering a [Doc].
type Format int

const (
	// Default renders the formatted output as text.
	Default Format = iota
	// Debug renders the document structure as HTML-like markup, showing every node including
	// ones that may not appear in the rendered output. Useful for understanding why a group
	// broke without re-deriving the layout pass by hand.
	Debug
	// Go renders the document as a runnable Go program that reproduces the layout as rendered
	// by [Default]. Useful for isolating a layout bug into a minimal, shareable reproduction.
	Go
)

var formats = map[string]Format{
	"default": Default,
	"debug":   Debug,
	"go":      Go,
}

var validFormats = [3]string{"default", "debug", "go"}

// NewFormat converts a string to a [Format] constant. Valid values are "default", "debug", and
// "go". Returns an error if the format string is invalid.
func NewFormat(format string) (Format, error) {
	if f, ok := formats[format]; ok {
		return f, nil
	}
	return Default, fmt.Errorf("invalid format string: %q, valid ones are: %q", format, validFormats)
}

// Doc builds a document for layout formatting by chaining method calls like [Doc.Text],
// [Doc.Space], [Doc.Break], and [Doc.Group]. Render it with [Doc.Render].
type Doc struct {
	maxColumn int
	ids       *doc.IDs
	frames    []*frame
}

// frame accumulates the Doc built so far for one nesting level: the root, or the body of a
// Group/Indent/Hanging/IndentIfBreak/FitsUntilLBracket call currently being built.
type frame struct {
	node         doc.Doc
	lastWasSpace bool
}

// NewDoc creates a new document with the specified maximum column width. Content will be broken
// onto multiple lines to fit within this width where possible.
func NewDoc(maxColumn int) *Doc {
	return &Doc{
		maxColumn: maxColumn,
		ids:       doc.NewIDs(),
		frames:    []*frame{{node: doc.Nil()}},
	}
}

func (d *Doc) top() *frame {
	return d.frames[len(d.frames)-1]
}

func (d *Doc) append(n doc.Doc) *Doc {
	f := d.top()
	f.node = doc.Cons(f.node, n)
	f.lastWasSpace = false
	return d
}

// Text adds literal text content to the document.
func (d *Doc) Text(content string) *Doc {
	return d.append(doc.Text(content))
}

// CommentedText adds literal text carrying an inline comment position. Use this instead of
// [Doc.Text] for content that trails an end-of-line comment: a Middle position forces every
// enclosing group to break, since a trailing comment can't share a line with content after it.
func (d *Doc) CommentedText(content string, position doc.InlineCommentPosition) *Doc {
	return d.append(doc.CommentedText(content, position))
}

// Space adds a single space to the document. Consecutive calls collapse into one.
func (d *Doc) Space() *Doc {
	f := d.top()
	if f.lastWasSpace {
		return d
	}
	f.node = doc.Cons(f.node, doc.Text(" "))
	f.lastWasSpace = true
	return d
}

// Break adds a candidate line break: altText renders when the enclosing group stays flat, a
// newline followed by the current indent when it breaks.
func (d *Doc) Break(altText string) *Doc {
	return d.append(doc.Break(altText))
}

// HardBreak adds a line break that forces every group whose measurement reaches it to break.
// HardBreak itself never emits (it only ever fails fits); the newline comes from pairing it with
// a Break(""), which renders as a newline because the enclosing group is in break mode. A group
// whose [Doc.FitsUntilLBracket] measurement stops at a "{" before the HardBreak can stay flat, and
// the paired Break then renders as "".
func (d *Doc) HardBreak() *Doc {
	return d.append(doc.Cons(doc.HardBreak(), doc.Break("")))
}

func (d *Doc) build(body func(*Doc)) doc.Doc {
	d.frames = append(d.frames, &frame{node: doc.Nil()})
	body(d)
	f := d.frames[len(d.frames)-1]
	d.frames = d.frames[:len(d.frames)-1]
	return f.node
}

// Group marks a sequence of content that should be kept on one line if it fits within the
// maximum column width, or broken across multiple lines if it doesn't.
func (d *Doc) Group(body func(*Doc)) *Doc {
	inner := d.build(body)
	g, _ := doc.GroupWithID(d.ids, inner, doc.ShouldBreakAuto)
	return d.append(g)
}

// GroupID behaves like [Doc.Group] but also returns the id assigned to the group, for later use
// with [Doc.IndentIfBreak].
func (d *Doc) GroupID(body func(*Doc)) (*Doc, int) {
	inner := d.build(body)
	g, id := doc.GroupWithID(d.ids, inner, doc.ShouldBreakAuto)
	return d.append(g), id
}

// GroupBreak behaves like [Doc.Group] except the group always renders broken. The decision does
// not propagate to enclosing groups.
func (d *Doc) GroupBreak(body func(*Doc)) *Doc {
	inner := d.build(body)
	g, _ := doc.GroupWithID(d.ids, inner, doc.ShouldBreakYes)
	return d.append(g)
}

// GroupPropagate behaves like [Doc.GroupBreak] except the always-break decision also forces
// every enclosing group that measures this one to break.
func (d *Doc) GroupPropagate(body func(*Doc)) *Doc {
	inner := d.build(body)
	g, _ := doc.GroupWithID(d.ids, inner, doc.ShouldBreakPropagate)
	return d.append(g)
}

// PeekGroupID returns the id the next [Doc.Group] (or its variants) call will assign, without
// assigning it. Use this to let an [Doc.IndentIfBreak] inside a group's own body observe that
// same group's break decision.
func (d *Doc) PeekGroupID() int {
	return d.ids.Peek()
}

// Indent increases the indentation level by the specified number of columns for the content
// added in body, applied after each newline inside it.
func (d *Doc) Indent(columns int, body func(*Doc)) *Doc {
	inner := d.build(body)
	return d.append(doc.Nest(columns, inner))
}

// IndentIfBreak behaves like [Doc.Indent] except the extra indent only applies if the group
// identified by groupID was chosen to break. groupID must name a sibling or ancestor group whose
// break decision is made before this node is visited; obtain it from [Doc.PeekGroupID] or
// [Doc.GroupID].
func (d *Doc) IndentIfBreak(columns, groupID int, body func(*Doc)) *Doc {
	inner := d.build(body)
	return d.append(doc.NestIfBreak(columns, inner, groupID))
}

// Hanging indents body to the column rendering had already reached, so further line breaks
// inside it align with that column instead of a fixed offset from the parent indent.
func (d *Doc) Hanging(body func(*Doc)) *Doc {
	inner := d.build(body)
	return d.append(doc.NestHanging(inner))
}

// FitsUntilLBracket marks body so that, when an enclosing group measures whether it fits on one
// line, measurement of body stops at its first unescaped "{" instead of continuing through the
// rest of body. Two immediately adjacent "{" tokens are treated as one opaque token rather than
// a truncation point.
func (d *Doc) FitsUntilLBracket(body func(*Doc)) *Doc {
	inner := d.build(body)
	return d.append(doc.FitsUntilLBracket(inner))
}

// root returns the accumulated document. It panics if called while a Group/Indent/... body is
// still open, which would indicate a bug in this package rather than in a caller, since build
// always pops its frame before returning.
func (d *Doc) root() doc.Doc {
	if len(d.frames) != 1 {
		panic("layout: Doc rendered with an unclosed Group/Indent/Hanging/IndentIfBreak/FitsUntilLBracket body")
	}
	return d.frames[0].node
}

// Render writes the formatted document to the writer in the specified format.
func (d *Doc) Render(w io.Writer, format Format) error {
	root := d.root()
	var err error
	switch format {
	case Default:
		_, err = io.WriteString(w, doc.Format(root, doc.StaticConfig(d.maxColumn)))
	case Debug:
		_, err = io.WriteString(w, doc.DebugString(root))
	case Go:
		_, err = io.WriteString(w, doc.GoDebugString(root, d.maxColumn))
	default:
		err = fmt.Errorf("invalid format: %v", format)
	}
	return err
}

// String renders the document with [Default] formatting, discarding any render error. It
// implements [fmt.Stringer] for convenient use in tests and log statements; callers that need to
// observe a write error should call [Doc.Render] directly.
func (d *Doc) String() string {
	var sb strings.Builder
	_ = d.Render(&sb, Default)
	return sb.String()
}
