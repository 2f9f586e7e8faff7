// Package category implements the hierarchical namespace addons are filed under.
//
// Categories are created lazily the first time a path mentions them and are
// never destroyed. The tree is stored as an arena: a Category is an index
// into the owning Tree, and each node records its parent's index, so there
// are no pointer cycles to manage.
//
// Key operations:
//   - Resolve: parse a path such as "gamedata/maps" into a Category
//   - IsAncestorOf: reflexive ancestry test used by category exclusions
//   - SubCategories: direct children of a node
package category

import "strings"

// Category identifies a node in a Tree.
type Category int

// Root is the unnamed top of every Tree.
const Root Category = 0

// rootLongID is the long identifier of the root category.
const rootLongID = "category"

type node struct {
	id     string
	parent Category
}

type nodeKey struct {
	id     string
	parent Category
}

// Tree owns every Category created during a session.
type Tree struct {
	nodes []node
	index map[nodeKey]Category
}

// NewTree creates a Tree containing only the root.
func NewTree() *Tree {
	return &Tree{
		nodes: []node{{id: "", parent: -1}},
		index: make(map[nodeKey]Category),
	}
}

// Resolve returns the Category for a raw path, creating missing nodes.
// Paths are case-insensitive; leading, trailing and repeated separators are
// ignored. An empty or blank path resolves to Root.
func (t *Tree) Resolve(raw string) Category {
	current := Root
	for _, segment := range splitPath(raw) {
		current = t.child(current, segment)
	}
	return current
}

// Lookup returns the Category for a path without creating it.
func (t *Tree) Lookup(raw string) (Category, bool) {
	current := Root
	for _, segment := range splitPath(raw) {
		next, ok := t.index[nodeKey{id: segment, parent: current}]
		if !ok {
			return Root, false
		}
		current = next
	}
	return current, true
}

func (t *Tree) child(parent Category, id string) Category {
	key := nodeKey{id: id, parent: parent}
	if c, ok := t.index[key]; ok {
		return c
	}
	c := Category(len(t.nodes))
	t.nodes = append(t.nodes, node{id: id, parent: parent})
	t.index[key] = c
	return c
}

func splitPath(raw string) []string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	parts := strings.Split(cleaned, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Len returns the number of categories in the tree, including Root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// ID returns the segment name of c. The root's ID is empty.
func (t *Tree) ID(c Category) string {
	if !t.valid(c) {
		return ""
	}
	return t.nodes[c].id
}

// Parent returns the parent of c. The second result is false for Root.
func (t *Tree) Parent(c Category) (Category, bool) {
	if !t.valid(c) || c == Root {
		return Root, false
	}
	return t.nodes[c].parent, true
}

// Ancestry returns the segment ids from the root's first child down to c.
func (t *Tree) Ancestry(c Category) []string {
	var ids []string
	for t.valid(c) && c != Root {
		ids = append(ids, t.nodes[c].id)
		c = t.nodes[c].parent
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// LongID returns "category" followed by every ancestor id, joined with "-".
func (t *Tree) LongID(c Category) string {
	return strings.Join(append([]string{rootLongID}, t.Ancestry(c)...), "-")
}

// Path returns the "/"-separated path of c, e.g. "/gamedata/maps".
func (t *Tree) Path(c Category) string {
	return "/" + strings.Join(t.Ancestry(c), "/")
}

// IsAncestorOf reports whether a equals b or appears in b's parent chain.
func (t *Tree) IsAncestorOf(a, b Category) bool {
	if !t.valid(a) || !t.valid(b) {
		return false
	}
	for c := b; ; {
		if c == a {
			return true
		}
		if c == Root {
			return false
		}
		c = t.nodes[c].parent
	}
}

// SubCategories returns the direct children of parent in creation order.
func (t *Tree) SubCategories(parent Category) []Category {
	var children []Category
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i].parent == parent {
			children = append(children, Category(i))
		}
	}
	return children
}

// Walk visits c and its descendants depth-first. depth is 0 for c itself.
func (t *Tree) Walk(c Category, fn func(c Category, depth int)) {
	t.walk(c, 0, fn)
}

func (t *Tree) walk(c Category, depth int, fn func(Category, int)) {
	fn(c, depth)
	for _, child := range t.SubCategories(c) {
		t.walk(child, depth+1, fn)
	}
}

func (t *Tree) valid(c Category) bool {
	return c >= 0 && int(c) < len(t.nodes)
}
