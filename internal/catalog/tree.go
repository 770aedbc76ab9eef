package catalog

import (
	"sort"
	"strings"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

// Tree is an immutable adjacency view over a set of categories.
type Tree struct {
	nodes    map[uint]models.Category
	children map[uint][]uint
}

// NewTree builds the adjacency map of the given categories.
// Parents outside the set are ignored for traversal.
func NewTree(all []models.Category) *Tree {
	t := &Tree{
		nodes:    make(map[uint]models.Category, len(all)),
		children: make(map[uint][]uint),
	}

	for i := range all {
		c := all[i]
		c.Children = nil
		c.Parent = nil
		t.nodes[c.ID] = c
	}

	for id, c := range t.nodes {
		if c.ParentID != nil {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], id)
		}
	}

	for parent := range t.children {
		ids := t.children[parent]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	return t
}

// Len returns the number of categories in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Has reports whether the id is part of the tree.
func (t *Tree) Has(id uint) bool {
	_, ok := t.nodes[id]
	return ok
}

// Get returns the category with the given id.
func (t *Tree) Get(id uint) (models.Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

// Children returns the ids of the direct children of id in ascending order.
func (t *Tree) Children(id uint) []uint {
	out := make([]uint, len(t.children[id]))
	copy(out, t.children[id])

	return out
}

// DescendantIDs returns every id reachable from id by following child links.
// The result never contains id itself, also when the stored data contains a cycle.
func (t *Tree) DescendantIDs(id uint) map[uint]struct{} {
	var (
		seen  = make(map[uint]struct{})
		stack = append([]uint(nil), t.children[id]...)
	)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == id {
			continue
		}

		if _, ok := seen[current]; ok {
			continue
		}

		seen[current] = struct{}{}
		stack = append(stack, t.children[current]...)
	}

	return seen
}

// AssertValidParent checks whether parentID may become the parent of categoryID.
// A nil parentID (top level) is always valid. A categoryID of 0 denotes a category that
// does not exist yet and therefore has no descendants.
func (t *Tree) AssertValidParent(categoryID uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}

	if categoryID != 0 && *parentID == categoryID {
		return &ParentError{CategoryID: categoryID, ParentID: *parentID, Err: ErrSelfParent}
	}

	if !t.Has(*parentID) {
		return &ParentError{CategoryID: categoryID, ParentID: *parentID, Err: ErrParentNotFound}
	}

	if categoryID == 0 {
		return nil
	}

	if _, ok := t.DescendantIDs(categoryID)[*parentID]; ok {
		return &ParentError{CategoryID: categoryID, ParentID: *parentID, Err: ErrCyclicParent}
	}

	return nil
}

// SelectableParents returns all categories except categoryID and its descendants, ordered by name.
func (t *Tree) SelectableParents(categoryID uint) []models.Category {
	excluded := t.DescendantIDs(categoryID)
	excluded[categoryID] = struct{}{}

	out := make([]models.Category, 0, len(t.nodes))
	for id, c := range t.nodes {
		if _, skip := excluded[id]; !skip {
			out = append(out, c)
		}
	}

	sortByName(out)

	return out
}

// CanDelete reports whether the category has no direct children.
func (t *Tree) CanDelete(id uint) bool {
	return len(t.children[id]) == 0
}

// SelectableParents returns the parent choices for category among all categories.
func SelectableParents(all []models.Category, category models.Category) []models.Category {
	return NewTree(all).SelectableParents(category.ID)
}

// DescendantIDs returns the descendant ids of category among all categories.
func DescendantIDs(all []models.Category, category models.Category) map[uint]struct{} {
	return NewTree(all).DescendantIDs(category.ID)
}

func sortByName(categories []models.Category) {
	sort.Slice(categories, func(i, j int) bool {
		a, b := strings.ToLower(categories[i].Name), strings.ToLower(categories[j].Name)
		if a == b {
			return categories[i].ID < categories[j].ID
		}

		return a < b
	})
}
