// Package printer prints DOT ASTs formatted in the spirit of [gofumpt].
//
// [gofumpt]: https://github.com/mvdan/gofumpt
package printer

import (
	"io"
	"sort"
	"strings"

	"github.com/teleivo/wadler"
	"github.com/teleivo/wadler/ast"
	"github.com/teleivo/wadler/internal/config"
	"github.com/teleivo/wadler/internal/doc"
	"github.com/teleivo/wadler/internal/layout"
	"github.com/teleivo/wadler/token"
)

// Printer formats DOT code.
type Printer struct {
	r      io.Reader     // r reader to parse dot code from
	w      io.Writer     // w writer to output formatted DOT code to
	format layout.Format // format in which to print the DOT code
	cfg    config.Config // cfg supplies line length and indent width, see internal/config
}

// NewPrinter creates a new printer that reads DOT code from r, formats it, and writes the
// formatted output to w. The format parameter controls the output representation. cfg supplies
// the line length and indent width to lay out against.
func NewPrinter(r io.Reader, w io.Writer, format layout.Format, cfg config.Config) *Printer {
	return &Printer{
		r:      r,
		w:      w,
		format: format,
		cfg:    cfg,
	}
}

// Print parses the DOT code from the reader and writes the formatted output to the writer.
// Returns an error if parsing or formatting fails.
func (p *Printer) Print() error {
	ps, err := dot.NewParser(p.r)
	if err != nil {
		return err
	}

	tree, err := ps.Parse()
	if err != nil {
		return err
	}

	if errs := ps.Errors(); len(errs) > 0 {
		return errs[0]
	}

	graphs := ast.NewGraph(tree)
	ast.AttachComments(graphs, ps.Comments())

	for i, g := range graphs {
		if i > 0 {
			_, err = p.w.Write([]byte("\n"))
			if err != nil {
				return err
			}
		}
		d := layout.NewDoc(p.cfg.LineLength)
		cp := newCommenter(g.Comments)
		p.layoutGraph(d, g, cp)
		err = d.Render(p.w, p.format)
		if err != nil {
			return err
		}
	}

	return nil
}

// commenter hands out the trailing same-line comment for a statement's end position, in source
// order. Comments that never match a statement (e.g. ones inside an empty graph) are simply never
// consumed.
type commenter struct {
	comments []ast.Comment
	next     int
}

func newCommenter(comments []ast.Comment) *commenter {
	sorted := make([]ast.Comment, len(comments))
	copy(sorted, comments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartPos.Line < sorted[j].StartPos.Line
	})
	return &commenter{comments: sorted}
}

// trailing returns the comment sharing line with end, if any, and advances past it.
func (c *commenter) trailing(end token.Position) (ast.Comment, bool) {
	for c.next < len(c.comments) {
		cm := c.comments[c.next]
		if cm.StartPos.Line < end.Line {
			c.next++
			continue
		}
		if cm.StartPos.Line == end.Line {
			c.next++
			return cm, true
		}
		return ast.Comment{}, false
	}
	return ast.Comment{}, false
}

func (p *Printer) layoutGraph(d *layout.Doc, graph *ast.Graph, cp *commenter) {
	for _, cm := range graph.Comments {
		if cm.StartPos.Before(graph.Start()) {
			d.Text(cm.Text).Break("")
		}
	}

	if graph.IsStrict() {
		d.Text(token.Strict.String()).
			Space()
	}

	if graph.Directed {
		d.Text(token.Digraph.String())
	} else {
		d.Text(token.Graph.String())
	}
	d.Space()

	if graph.ID != nil {
		p.layoutID(d, *graph.ID)
		d.Space()
	}

	d.Text(token.LeftBrace.String())
	d.GroupBreak(func(d *layout.Doc) {
		d.Indent(p.cfg.IndentWidth, func(d *layout.Doc) {
			p.layoutStmts(d, graph.Stmts, cp)
		})

		d.Break(" ").
			Text(token.RightBrace.String())
	})
}

func (p *Printer) layoutStmts(d *layout.Doc, stmts []ast.Stmt, cp *commenter) {
	for _, stmt := range stmts {
		p.layoutStmt(d, stmt, cp)
	}
}

// layoutID prints a DOT [identifier], collapsing any line continuation in a quoted literal back
// into its logical string value first.
//
// [identifier]: https://graphviz.org/doc/info/lang.html#ids
func (p *Printer) layoutID(d *layout.Doc, id ast.ID) {
	d.Text(normalizeLineContinuations(id.Literal))
}

// printID writes id's literal to the printer's writer directly, bypassing the layout engine.
// Quoted literals have any DOT line continuation ('\' immediately followed by a newline) collapsed
// first, recovering the logical string value before it is written back out.
func (p *Printer) printID(id ast.ID) error {
	_, err := io.WriteString(p.w, normalizeLineContinuations(id.Literal))
	return err
}

// normalizeLineContinuations collapses DOT string line continuations, a backslash immediately
// followed by a newline, joining the surrounding text without introducing or removing any other
// character. It leaves unquoted literals and bare newlines (without a preceding backslash)
// untouched.
func normalizeLineContinuations(literal string) string {
	if len(literal) < 2 || literal[0] != '"' || literal[len(literal)-1] != '"' {
		return literal
	}

	var b strings.Builder
	b.Grow(len(literal))
	for i := 0; i < len(literal); i++ {
		if literal[i] == '\\' && i+1 < len(literal) && literal[i+1] == '\n' {
			i++
			continue
		}
		b.WriteByte(literal[i])
	}
	return b.String()
}

func (p *Printer) layoutStmt(d *layout.Doc, stmt ast.Stmt, cp *commenter) {
	d.Break(" ")
	switch st := stmt.(type) {
	case *ast.NodeStmt:
		p.layoutNodeStmt(d, st)
	case *ast.EdgeStmt:
		p.layoutEdgeStmt(d, st)
	case *ast.AttrStmt:
		p.layoutAttrStmt(d, st)
	case ast.Attribute:
		p.layoutAttribute(d, st)
	case ast.Subgraph:
		p.layoutSubgraph(d, st, cp)
	}

	if cm, ok := cp.trailing(stmt.End()); ok {
		d.Space().CommentedText(cm.Text, doc.CommentEnd)
	}
}

func (p *Printer) layoutNodeStmt(d *layout.Doc, nodeStmt *ast.NodeStmt) {
	d.Group(func(d *layout.Doc) {
		p.layoutNodeID(d, nodeStmt.NodeID)
		p.layoutAttrList(d, nodeStmt.AttrList)
	})
}

func (p *Printer) layoutNodeID(d *layout.Doc, nodeID ast.NodeID) {
	p.layoutID(d, nodeID.ID)

	if nodeID.Port == nil {
		return
	}

	if nodeID.Port.Name != nil {
		d.Text(token.Colon.String())
		p.layoutID(d, *nodeID.Port.Name)
	}
	if cp := nodeID.Port.CompassPoint; cp != nil && cp.Type != ast.CompassPointUnderscore {
		d.Text(token.Colon.String())
		d.Text(cp.String())
	}
}

// layoutAttrList lays out the chain of bracketed attribute lists following a node, edge, or
// attr_stmt target. Each bracket pair is its own group (wrapped in
// [layout.Doc.FitsUntilLBracket]) so that a following attr_list's own contents never influence
// whether this one fits on the current line.
func (p *Printer) layoutAttrList(d *layout.Doc, attrList *ast.AttrList) {
	if attrList == nil {
		return
	}

	d.Space()
	for cur := attrList; cur != nil; cur = cur.Next {
		d.Group(func(d *layout.Doc) {
			d.FitsUntilLBracket(func(d *layout.Doc) {
				d.Text(token.LeftBracket.String()).
					Indent(p.cfg.IndentWidth, func(d *layout.Doc) {
						d.Break("")
						for al := cur.AList; al != nil; al = al.Next {
							p.layoutAttribute(d, al.Attribute)
							if al.Next != nil {
								d.Break(",")
							}
						}
					})
				d.Break("").
					Text(token.RightBracket.String())
			})
		})
		if cur.Next != nil {
			d.Space()
		}
	}
}

func (p *Printer) layoutEdgeStmt(d *layout.Doc, edgeStmt *ast.EdgeStmt) {
	d.Group(func(d *layout.Doc) {
		d.Group(func(d *layout.Doc) {
			p.layoutEdgeOperand(d, edgeStmt.Left)
			for rhs := &edgeStmt.Right; rhs != nil; rhs = rhs.Next {
				d.Space()
				if rhs.Directed {
					d.Text(token.DirectedEdge.String())
				} else {
					d.Text(token.UndirectedEdge.String())
				}
				d.Space()
				p.layoutEdgeOperand(d, rhs.Right)
			}
		})
		p.layoutAttrList(d, edgeStmt.AttrList)
	})
}

func (p *Printer) layoutEdgeOperand(d *layout.Doc, edgeOperand ast.EdgeOperand) {
	switch op := edgeOperand.(type) {
	case ast.NodeID:
		p.layoutNodeID(d, op)
	case ast.Subgraph:
		p.layoutSubgraph(d, op, nil)
	}
}

func (p *Printer) layoutAttrStmt(d *layout.Doc, attrStmt *ast.AttrStmt) {
	d.Group(func(d *layout.Doc) {
		p.layoutID(d, attrStmt.ID)
		p.layoutAttrList(d, &attrStmt.AttrList)
	})
}

func (p *Printer) layoutAttribute(d *layout.Doc, attribute ast.Attribute) {
	p.layoutID(d, attribute.Name)
	d.Text(token.Equal.String())
	p.layoutID(d, attribute.Value)
}

func (p *Printer) layoutSubgraph(d *layout.Doc, subgraph ast.Subgraph, cp *commenter) {
	if cp == nil {
		cp = newCommenter(nil)
	}
	d.Group(func(d *layout.Doc) {
		if subgraph.SubgraphStart != nil {
			d.Text(token.Subgraph.String()).
				Space()
		}
		if subgraph.ID != nil {
			p.layoutID(d, *subgraph.ID)
			d.Space()
		}

		d.Text(token.LeftBrace.String())
		d.GroupBreak(func(d *layout.Doc) {
			d.Indent(p.cfg.IndentWidth, func(d *layout.Doc) {
				p.layoutStmts(d, subgraph.Stmts, cp)
			})

			d.Break(" ").
				Text(token.RightBrace.String())
		})
	})
}
