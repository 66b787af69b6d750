package ast

import (
	cst "github.com/teleivo/wadler"
	"github.com/teleivo/wadler/token"
)

// NewGraph lowers a parsed concrete syntax tree into one [Graph] per top-level graph definition.
//
// NewGraph assumes tree came from a [cst.Parser] that reported no errors: it is a structural
// lowering, not a second validation pass, and its behavior on an erroneous tree is undefined.
// Comments are not part of the tree; attach them separately with [AttachComments].
func NewGraph(tree *cst.Tree) []*Graph {
	if tree == nil {
		return nil
	}

	var graphs []*Graph
	for _, child := range tree.Children {
		tc, ok := child.(cst.TreeChild)
		if !ok || tc.Type != cst.KindGraph {
			continue
		}
		graphs = append(graphs, lowerGraph(tc.Tree))
	}
	return graphs
}

// AttachComments assigns each comment to a graph in graphs, in source order: a comment goes to
// the earliest graph whose closing brace it precedes, so comments leading a file and comments
// trailing its last statement both land on the graph they visually belong to. For the common case
// of one graph per file this assigns every comment in the file to it.
func AttachComments(graphs []*Graph, comments []token.Token) {
	if len(graphs) == 0 {
		return
	}

	gi := 0
	for _, c := range comments {
		for gi < len(graphs)-1 && c.Start.After(graphs[gi].End()) {
			gi++
		}
		g := graphs[gi]
		g.Comments = append(g.Comments, Comment{Text: c.Literal, StartPos: c.Start, EndPos: c.End})
	}
}

func lowerGraph(tree *cst.Tree) *Graph {
	g := &Graph{}
	var idSeen bool
	for _, child := range tree.Children {
		switch c := child.(type) {
		case cst.TokenChild:
			switch c.Type {
			case token.Strict:
				pos := c.Start
				g.StrictStart = &pos
			case token.Graph:
				g.GraphStart = c.Start
				g.Directed = false
			case token.Digraph:
				g.GraphStart = c.Start
				g.Directed = true
			case token.LeftBrace:
				g.LeftBrace = c.Start
			case token.RightBrace:
				g.RightBrace = c.Start
			}
		case cst.TreeChild:
			switch c.Type {
			case cst.KindID:
				if !idSeen {
					id := lowerID(c.Tree)
					g.ID = &id
					idSeen = true
				}
			case cst.KindStmtList:
				g.Stmts = lowerStmtList(c.Tree)
			}
		}
	}
	return g
}

func lowerID(tree *cst.Tree) ID {
	tok, _ := cst.TokenFirst(tree, token.ID)
	return ID{Literal: tok.Literal, StartPos: tok.Start, EndPos: tok.End}
}

func lowerStmtList(tree *cst.Tree) []Stmt {
	var stmts []Stmt
	for _, child := range tree.Children {
		tc, ok := child.(cst.TreeChild)
		if !ok {
			continue // semicolons between statements carry no meaning
		}
		switch tc.Type {
		case cst.KindAttribute:
			stmts = append(stmts, lowerAttribute(tc.Tree))
		case cst.KindAttrStmt:
			stmts = append(stmts, lowerAttrStmt(tc.Tree))
		case cst.KindNodeStmt:
			stmts = append(stmts, lowerNodeStmt(tc.Tree))
		case cst.KindEdgeStmt:
			stmts = append(stmts, lowerEdgeStmt(tc.Tree))
		case cst.KindSubgraph:
			stmts = append(stmts, lowerSubgraph(tc.Tree))
		}
	}
	return stmts
}

func lowerAttribute(tree *cst.Tree) Attribute {
	var ids []ID
	for _, child := range tree.Children {
		if tc, ok := child.(cst.TreeChild); ok && tc.Type == cst.KindID {
			ids = append(ids, lowerID(tc.Tree))
		}
	}
	var a Attribute
	if len(ids) > 0 {
		a.Name = ids[0]
	}
	if len(ids) > 1 {
		a.Value = ids[1]
	}
	return a
}

func lowerAttrStmt(tree *cst.Tree) *AttrStmt {
	as := &AttrStmt{}
	for _, child := range tree.Children {
		switch c := child.(type) {
		case cst.TokenChild:
			as.ID = ID{Literal: c.Literal, StartPos: c.Start, EndPos: c.End}
		case cst.TreeChild:
			if c.Type == cst.KindAttrList {
				if al := lowerAttrList(c.Tree); al != nil {
					as.AttrList = *al
				}
			}
		}
	}
	return as
}

// lowerAttrList lowers a single cst.KindAttrList tree, which may hold several bracket pairs back
// to back ('[a=b] [c=d]'), into the corresponding chain of [AttrList] nodes.
func lowerAttrList(tree *cst.Tree) *AttrList {
	var head, cur *AttrList
	for _, child := range tree.Children {
		switch c := child.(type) {
		case cst.TokenChild:
			switch c.Type {
			case token.LeftBracket:
				next := &AttrList{LeftBracket: c.Start}
				if head == nil {
					head = next
				} else {
					cur.Next = next
				}
				cur = next
			case token.RightBracket:
				if cur != nil {
					cur.RightBracket = c.Start
				}
			}
		case cst.TreeChild:
			if c.Type == cst.KindAList && cur != nil {
				cur.AList = lowerAList(c.Tree)
			}
		}
	}
	return head
}

func lowerAList(tree *cst.Tree) *AList {
	var head, tail *AList
	for _, child := range tree.Children {
		tc, ok := child.(cst.TreeChild)
		if !ok || tc.Type != cst.KindAttribute {
			continue
		}
		node := &AList{Attribute: lowerAttribute(tc.Tree)}
		if head == nil {
			head = node
		} else {
			tail.Next = node
		}
		tail = node
	}
	return head
}

func lowerNodeStmt(tree *cst.Tree) *NodeStmt {
	ns := &NodeStmt{}
	for _, child := range tree.Children {
		tc, ok := child.(cst.TreeChild)
		if !ok {
			continue
		}
		switch tc.Type {
		case cst.KindNodeID:
			ns.NodeID = lowerNodeID(tc.Tree)
		case cst.KindAttrList:
			ns.AttrList = lowerAttrList(tc.Tree)
		}
	}
	return ns
}

func lowerNodeID(tree *cst.Tree) NodeID {
	ni := NodeID{}
	for _, child := range tree.Children {
		tc, ok := child.(cst.TreeChild)
		if !ok {
			continue
		}
		switch tc.Type {
		case cst.KindID:
			ni.ID = lowerID(tc.Tree)
		case cst.KindPort:
			p := lowerPort(tc.Tree)
			ni.Port = &p
		}
	}
	return ni
}

// lowerPort lowers a cst.KindPort tree. parsePort reclassifies a port's sole or second identifier
// subtree's Type to cst.KindCompassPoint in place when it names a compass point, so that
// distinction drives this switch rather than a second string check.
func lowerPort(tree *cst.Tree) Port {
	p := Port{}
	for _, child := range tree.Children {
		tc, ok := child.(cst.TreeChild)
		if !ok {
			continue
		}
		switch tc.Type {
		case cst.KindID:
			id := lowerID(tc.Tree)
			p.Name = &id
		case cst.KindCompassPoint:
			p.CompassPoint = lowerCompassPoint(tc.Tree)
		}
	}
	return p
}

func lowerCompassPoint(tree *cst.Tree) *CompassPoint {
	tok, _ := cst.TokenFirst(tree, token.ID)
	cpType, _ := IsCompassPoint(tok.Literal)
	return &CompassPoint{Type: cpType, StartPos: tok.Start, EndPos: tok.End}
}

func lowerEdgeStmt(tree *cst.Tree) *EdgeStmt {
	es := &EdgeStmt{}
	var rhsHead, rhsTail *EdgeRHS
	var op token.Token
	first := true
	for _, child := range tree.Children {
		switch c := child.(type) {
		case cst.TokenChild:
			if c.Type == token.DirectedEdge || c.Type == token.UndirectedEdge {
				op = c.Token
			}
		case cst.TreeChild:
			operand, ok := lowerEdgeOperand(c)
			if !ok {
				if c.Type == cst.KindAttrList {
					es.AttrList = lowerAttrList(c.Tree)
				}
				continue
			}
			if first {
				es.Left = operand
				first = false
				continue
			}
			rhs := &EdgeRHS{StartPos: op.Start, Directed: op.Type == token.DirectedEdge, Right: operand}
			if rhsHead == nil {
				rhsHead = rhs
			} else {
				rhsTail.Next = rhs
			}
			rhsTail = rhs
		}
	}
	if rhsHead != nil {
		es.Right = *rhsHead
	}
	return es
}

func lowerEdgeOperand(c cst.TreeChild) (EdgeOperand, bool) {
	switch c.Type {
	case cst.KindNodeID:
		return lowerNodeID(c.Tree), true
	case cst.KindSubgraph:
		return lowerSubgraph(c.Tree), true
	default:
		return nil, false
	}
}

func lowerSubgraph(tree *cst.Tree) Subgraph {
	s := Subgraph{}
	for _, child := range tree.Children {
		switch c := child.(type) {
		case cst.TokenChild:
			switch c.Type {
			case token.Subgraph:
				pos := c.Start
				s.SubgraphStart = &pos
			case token.LeftBrace:
				s.LeftBrace = c.Start
			case token.RightBrace:
				s.RightBrace = c.Start
			}
		case cst.TreeChild:
			switch c.Type {
			case cst.KindID:
				id := lowerID(c.Tree)
				s.ID = &id
			case cst.KindStmtList:
				s.Stmts = lowerStmtList(c.Tree)
			}
		}
	}
	return s
}
