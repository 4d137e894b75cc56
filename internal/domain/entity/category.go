package entity

import (
	"sort"

	"github.com/samber/lo"
)

// Category is a node of the hierarchical category list.
// ParentID is nil for top-level categories.
type Category struct {
	ID       int64
	ParentID *int64
	Name     string
	Slug     string
	Position int
}

// CategoryNode is a category together with its sub-categories.
type CategoryNode struct {
	Category *Category
	Children []*CategoryNode
	Depth    int
}

// BuildCategoryTree arranges a flat category list into a forest.
// Siblings are ordered by Position, then ID. A category whose parent is
// missing from the list is treated as a root, as is any category caught in
// a parent cycle.
func BuildCategoryTree(categories []*Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(categories))
	for _, c := range categories {
		if c == nil {
			continue
		}
		nodes[c.ID] = &CategoryNode{Category: c}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		if c == nil {
			continue
		}
		node := nodes[c.ID]
		parent, ok := parentNode(nodes, c)
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots, 0)
	return roots
}

// parentNode returns the parent of c if it exists and c is not its own ancestor.
func parentNode(nodes map[int64]*CategoryNode, c *Category) (*CategoryNode, bool) {
	if c.ParentID == nil || *c.ParentID == c.ID {
		return nil, false
	}
	parent, ok := nodes[*c.ParentID]
	if !ok {
		return nil, false
	}

	seen := map[int64]bool{}
	for cur := parent.Category; cur.ParentID != nil && !seen[cur.ID]; {
		seen[cur.ID] = true
		next, ok := nodes[*cur.ParentID]
		if !ok {
			break
		}
		if next.Category.ID == c.ID {
			return nil, false
		}
		cur = next.Category
	}
	return parent, true
}

func sortNodes(nodes []*CategoryNode, depth int) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Category, nodes[j].Category
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
	for _, n := range nodes {
		n.Depth = depth
		sortNodes(n.Children, depth+1)
	}
}

// FindCategoryNode searches the forest depth-first for the category with the given ID.
func FindCategoryNode(roots []*CategoryNode, id int64) *CategoryNode {
	for _, n := range roots {
		if n.Category.ID == id {
			return n
		}
		if found := FindCategoryNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// IDs returns the node's category ID followed by the IDs of all its descendants
// in depth-first order.
func (n *CategoryNode) IDs() []int64 {
	if n == nil {
		return nil
	}
	return append([]int64{n.Category.ID}, lo.FlatMap(n.Children, func(child *CategoryNode, _ int) []int64 {
		return child.IDs()
	})...)
}
