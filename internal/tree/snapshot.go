package tree

import (
	"sort"

	"blocktree/internal/model"
)

const none = -1

// Snapshot is an indexed, read-only view over one flat block collection.
//
// Blocks live in an arena addressed by integer handle; parent and child edges
// are stored as handles. Queries never fail: unknown ids give empty results.
// Returned blocks share payload maps with the snapshot and must not be mutated.
type Snapshot struct {
	blocks   []model.Block
	index    map[string]int
	parent   []int
	children [][]int
	roots    []int
}

// NewSnapshot indexes blocks. The slice is copied; payloads are not.
func NewSnapshot(blocks []model.Block) *Snapshot {
	s := &Snapshot{
		blocks:   append([]model.Block(nil), blocks...),
		index:    make(map[string]int, len(blocks)),
		children: make([][]int, len(blocks)),
	}
	for i, b := range s.blocks {
		if _, dup := s.index[b.ID]; !dup {
			s.index[b.ID] = i
		}
	}
	s.parent = resolveParents(s.blocks, s.index)
	for i, p := range s.parent {
		if p == none {
			s.roots = append(s.roots, i)
			continue
		}
		s.children[p] = append(s.children[p], i)
	}
	for i := range s.children {
		s.sortHandles(s.children[i])
	}
	s.sortHandles(s.roots)
	return s
}

func (s *Snapshot) sortHandles(hs []int) {
	sort.SliceStable(hs, func(i, j int) bool {
		return compareBlocks(s.blocks[hs[i]], s.blocks[hs[j]]) < 0
	})
}

func (s *Snapshot) handle(id string) (int, bool) {
	if s == nil {
		return none, false
	}
	h, ok := s.index[id]
	return h, ok
}

func (s *Snapshot) collect(hs []int) []model.Block {
	out := make([]model.Block, 0, len(hs))
	for _, h := range hs {
		out = append(out, s.blocks[h])
	}
	return out
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.blocks)
}

// Blocks returns the flat collection in fetch order.
func (s *Snapshot) Blocks() []model.Block {
	if s == nil {
		return []model.Block{}
	}
	return append([]model.Block{}, s.blocks...)
}

func (s *Snapshot) Get(id string) (model.Block, bool) {
	h, ok := s.handle(id)
	if !ok {
		return model.Block{}, false
	}
	return s.blocks[h], true
}

func (s *Snapshot) Has(id string) bool {
	_, ok := s.handle(id)
	return ok
}

// Roots returns blocks without a resolvable parent, sorted by order.
func (s *Snapshot) Roots() []model.Block {
	if s == nil {
		return []model.Block{}
	}
	return s.collect(s.roots)
}

// ChildrenOf returns the direct children of id sorted by order.
func (s *Snapshot) ChildrenOf(id string) []model.Block {
	h, ok := s.handle(id)
	if !ok {
		return []model.Block{}
	}
	return s.collect(s.children[h])
}

// ChildCount is len(ChildrenOf(id)) without the copy. For "" it counts roots.
func (s *Snapshot) ChildCount(id string) int {
	if s == nil {
		return 0
	}
	if id == "" {
		return len(s.roots)
	}
	h, ok := s.handle(id)
	if !ok {
		return 0
	}
	return len(s.children[h])
}

// ParentOf returns the parent of id, or nil for roots, orphans and unknown ids.
func (s *Snapshot) ParentOf(id string) *model.Block {
	h, ok := s.handle(id)
	if !ok || s.parent[h] == none {
		return nil
	}
	p := s.blocks[s.parent[h]]
	return &p
}

// AncestorsOf walks the parent chain nearest-first. The walk ends at a root,
// at an unresolvable parent, or when a block repeats.
func (s *Snapshot) AncestorsOf(id string) []model.Block {
	h, ok := s.handle(id)
	if !ok {
		return []model.Block{}
	}
	seen := map[int]bool{h: true}
	out := []model.Block{}
	for cur := s.parent[h]; cur != none && !seen[cur]; cur = s.parent[cur] {
		seen[cur] = true
		out = append(out, s.blocks[cur])
	}
	return out
}

// DescendantsOf returns every transitive child of id, breadth-first, so a
// parent always precedes its own descendants. id itself is excluded.
func (s *Snapshot) DescendantsOf(id string) []model.Block {
	h, ok := s.handle(id)
	if !ok {
		return []model.Block{}
	}
	return s.collect(s.descendantHandles(h))
}

func (s *Snapshot) descendantHandles(h int) []int {
	seen := map[int]bool{h: true}
	var out []int
	queue := append([]int(nil), s.children[h]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, s.children[cur]...)
	}
	return out
}

// SubtreeOf returns id followed by DescendantsOf(id).
func (s *Snapshot) SubtreeOf(id string) []model.Block {
	h, ok := s.handle(id)
	if !ok {
		return []model.Block{}
	}
	return s.collect(append([]int{h}, s.descendantHandles(h)...))
}

// IsDescendant reports whether id sits strictly below ancestorID.
func (s *Snapshot) IsDescendant(ancestorID, id string) bool {
	a, ok := s.handle(ancestorID)
	if !ok {
		return false
	}
	target, ok := s.handle(id)
	if !ok || target == a {
		return false
	}
	for _, h := range s.descendantHandles(a) {
		if h == target {
			return true
		}
	}
	return false
}

// Tree builds the forest for this snapshot.
func (s *Snapshot) Tree() []*model.BlockNode {
	if s == nil {
		return []*model.BlockNode{}
	}
	return BuildTree(s.blocks)
}
