// Package doc implements the document algebra and pretty-printing engine this
// module is built around: a variant of the Wadler/Lindig "strictly pretty"
// algorithm extended with five constructors ([NestIfBreak], [NestHanging],
// [FitsUntilLBracket], [HardBreak] and inline-comment-driven break
// propagation) that a style-guide-faithful formatter needs and the plain
// algorithm does not provide.
//
// A [Doc] is an immutable tree built once per formatting invocation and
// shared by reference throughout; nothing in this package mutates a Doc
// after construction. Clients build one with the package-level constructors
// ([Text], [Cons], [Group], ...) and render it with [Format].
//
// This package intentionally knows nothing about any concrete source
// language: it consumes a document and a [FormattingConfig] and produces a
// string. Turning a syntax tree into a Doc is the caller's job.
package doc

import "unicode/utf8"

// InlineCommentPosition records where, if anywhere, an inline (end-of-line)
// comment sits inside a document. A comment anywhere other than the
// tail-most position of a document puts that document in the Middle
// position, which forces every enclosing group to break: a trailing
// end-of-line comment can't be on a line with content that comes after it.
type InlineCommentPosition int

const (
	// CommentNone indicates the document has no inline comment.
	CommentNone InlineCommentPosition = iota
	// CommentMiddle indicates the document has an inline comment that is
	// not in tail position. Any group containing it must break.
	CommentMiddle
	// CommentEnd indicates the document's inline comment is in tail
	// position, e.g. content trailing at the very end of a line.
	CommentEnd
	// CommentInGroup indicates a Middle comment that a [Group] has
	// already absorbed; it no longer forces its own enclosing groups to
	// break, since the group itself will break instead.
	CommentInGroup
)

func (p InlineCommentPosition) String() string {
	switch p {
	case CommentNone:
		return "None"
	case CommentMiddle:
		return "Middle"
	case CommentEnd:
		return "End"
	case CommentInGroup:
		return "InGroup"
	default:
		return "InlineCommentPosition(?)"
	}
}

// combine folds the inline comment positions of two sibling documents into
// the position of their concatenation. It is left-biased and, unlike its
// name might suggest, not commutative: combine(InGroup, End) is End but
// combine(End, InGroup) is Middle. This mirrors the source style guide
// implementation this engine is a port of; see DESIGN.md's "Open Questions"
// entry for why the asymmetry is preserved rather than "fixed".
func combine(left, right InlineCommentPosition) InlineCommentPosition {
	switch left {
	case CommentNone:
		switch right {
		case CommentNone:
			return CommentNone
		case CommentEnd:
			return CommentEnd
		case CommentMiddle:
			return CommentMiddle
		case CommentInGroup:
			return CommentNone
		}
	case CommentEnd, CommentMiddle:
		return CommentMiddle
	case CommentInGroup:
		return right
	}
	return CommentMiddle
}

// commonProperties is carried by the composite Doc nodes (Cons, Nest,
// NestIfBreak, NestHanging, FitsUntilLBracket and Group): the node's inline
// comment position, and, for a Group, its unique id (0 otherwise).
type commonProperties struct {
	position InlineCommentPosition
	id       int
}

// Doc is an immutable node in a layout document. Build one with the
// package-level constructors; the zero value of no concrete type here is
// meaningful on its own, use [Nil] for an empty document.
type Doc interface {
	position() InlineCommentPosition
}

type nilDoc struct{}

func (nilDoc) position() InlineCommentPosition { return CommentNone }

// Nil is the empty document. It is skipped entirely by the layout pass.
func Nil() Doc { return nilDoc{} }

type consDoc struct {
	left, right Doc
	props       commonProperties
}

func (d *consDoc) position() InlineCommentPosition { return d.props.position }

// Cons concatenates two documents, left to right.
func Cons(left, right Doc) Doc {
	return &consDoc{
		left:  left,
		right: right,
		props: commonProperties{position: combine(left.position(), right.position())},
	}
}

// ConsAll concatenates a sequence of documents left to right, equivalent to
// folding [Cons] over them. An empty sequence is [Nil].
func ConsAll(docs ...Doc) Doc {
	if len(docs) == 0 {
		return Nil()
	}
	out := docs[0]
	for _, d := range docs[1:] {
		out = Cons(out, d)
	}
	return out
}

type textDoc struct {
	content string
	width   int
}

func (*textDoc) position() InlineCommentPosition { return CommentNone }

// Text is literal text. Its width is the display width (rune count, not
// byte length) of content, since content may contain multi-byte runes.
func Text(content string) Doc {
	return &textDoc{content: content, width: utf8.RuneCountInString(content)}
}

// CommentedText wraps content as literal text carrying an inline comment position.
// Use CommentEnd for a comment trailing at the very end of a line's content
// and CommentMiddle for one that has content following it on the same
// logical line; any enclosing [Group] must then break.
func CommentedText(content string, position InlineCommentPosition) Doc {
	return &commentedTextDoc{textDoc: textDoc{content: content, width: utf8.RuneCountInString(content)}, pos: position}
}

type commentedTextDoc struct {
	textDoc
	pos InlineCommentPosition
}

func (d *commentedTextDoc) position() InlineCommentPosition { return d.pos }

type nestDoc struct {
	step  int
	inner Doc
	props commonProperties
}

func (d *nestDoc) position() InlineCommentPosition { return d.props.position }

// Nest adds step to the current indent for inner.
func Nest(step int, inner Doc) Doc {
	return &nestDoc{step: step, inner: inner, props: commonProperties{position: inner.position()}}
}

type nestIfBreakDoc struct {
	step       int
	inner      Doc
	observedID int
	props      commonProperties
}

func (d *nestIfBreakDoc) position() InlineCommentPosition { return d.props.position }

// NestIfBreak behaves like [Nest] except the extra indent only applies when
// the group identified by observedID was chosen to break. observedID must
// name a group that is a sibling or ancestor of this node (its break
// decision is made before this node is visited); referring to a descendant
// is undefined. Referring to an id that never ends up in the broken set
// behaves as "not broken": a no-op indent.
func NestIfBreak(step int, inner Doc, observedID int) Doc {
	return &nestIfBreakDoc{
		step:       step,
		inner:      inner,
		observedID: observedID,
		props:      commonProperties{position: inner.position()},
	}
}

type nestHangingDoc struct {
	inner Doc
	props commonProperties
}

func (d *nestHangingDoc) position() InlineCommentPosition { return d.props.position }

// NestHanging sets the indent for inner to the current output column
// instead of a fixed offset from the parent indent, so further line breaks
// inside inner align with wherever rendering had reached.
func NestHanging(inner Doc) Doc {
	return &nestHangingDoc{inner: inner, props: commonProperties{position: inner.position()}}
}

type fitsUntilLBracketDoc struct {
	inner Doc
	props commonProperties
}

func (d *fitsUntilLBracketDoc) position() InlineCommentPosition { return d.props.position }

// FitsUntilLBracket is a measurement hint: when the layout pass evaluates
// whether a containing group fits on one line, measurement of inner stops
// at the first unescaped "{" rather than measuring the whole subtree. See
// [fitsUntilLBracket] for the exact rule, including the embracing-brace
// exception.
func FitsUntilLBracket(inner Doc) Doc {
	return &fitsUntilLBracketDoc{inner: inner, props: commonProperties{position: inner.position()}}
}

type breakDoc struct {
	altText string
}

func (breakDoc) position() InlineCommentPosition { return CommentNone }

// Break is a candidate line break: flat mode renders altText, break mode
// renders a newline followed by the current indent.
func Break(altText string) Doc {
	return breakDoc{altText: altText}
}

type hardBreakDoc struct{}

func (hardBreakDoc) position() InlineCommentPosition { return CommentNone }

// HardBreak never fits, forcing every enclosing group to break.
func HardBreak() Doc {
	return hardBreakDoc{}
}

// ShouldBreak controls whether a [Group] breaks regardless of the fits
// calculation.
type ShouldBreak int

const (
	// ShouldBreakAuto decides by the fits calculation.
	ShouldBreakAuto ShouldBreak = iota
	// ShouldBreakYes always breaks this group. The decision does not
	// propagate to ancestor groups.
	ShouldBreakYes
	// ShouldBreakPropagate always breaks this group and, because fits
	// treats a Propagate group as never fitting, forces every ancestor
	// group that measures it to break too.
	ShouldBreakPropagate
)

type groupDoc struct {
	inner       Doc
	shouldBreak ShouldBreak
	props       commonProperties
}

func (d *groupDoc) position() InlineCommentPosition { return d.props.position }

// IDs is a group id counter. A single formatting invocation must use
// exactly one IDs value for the lifetime of its document construction;
// sharing one across concurrent constructions is not safe, but sharing a
// document built from it across goroutines for rendering is, since Doc
// values are never mutated after construction.
type IDs struct {
	n int
}

// NewIDs creates a fresh, zeroed group id counter.
func NewIDs() *IDs {
	return &IDs{}
}

// Peek returns the id the next call to [GroupWithID] (or [Group]) using
// this counter will allocate, without allocating it. This lets a
// [NestIfBreak] reference a group's id before — or while — that group is
// being built, which is how a group can be made to observe its own break
// decision (see TestNestIfBreakTriggersWithSibling and spec.md section 8 scenario 4).
func (c *IDs) Peek() int {
	return c.n + 1
}

func (c *IDs) alloc() int {
	c.n++
	return c.n
}

// GroupWithID allocates a fresh group id from ids, wraps inner as a group
// choice point, and returns both the group and the id it was assigned.
func GroupWithID(ids *IDs, inner Doc, shouldBreak ShouldBreak) (Doc, int) {
	id := ids.alloc()
	position := inner.position()
	switch position {
	case CommentMiddle:
		position = CommentInGroup
	case CommentInGroup:
		position = CommentNone
	}
	return &groupDoc{inner: inner, shouldBreak: shouldBreak, props: commonProperties{position: position, id: id}}, id
}

// Group allocates a fresh group id from ids and wraps inner as a choice
// point between flat and broken rendering, per shouldBreak.
func Group(ids *IDs, inner Doc, shouldBreak ShouldBreak) Doc {
	g, _ := GroupWithID(ids, inner, shouldBreak)
	return g
}
