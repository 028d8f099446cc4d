package inspection

import "strings"

// Sequenced is a child entity that keeps a dense zero-based position among
// its siblings.
type Sequenced interface {
	ChildID() string
	Position() int
	SetPosition(int)
}

// Append places item last: its index is the current sibling count.
func Append[T Sequenced](items []T, item T) []T {
	item.SetPosition(len(items))
	return append(items, item)
}

// Remove drops the child with id and renumbers the rest to 0..n-1.
func Remove[T Sequenced](items []T, id string) ([]T, T, error) {
	var removed T
	idx := indexOf(items, id)
	if idx < 0 {
		return items, removed, unknownChildf("%s", id)
	}

	removed = items[idx]
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	Renumber(out)
	return out, removed, nil
}

// Reorder returns the children in the order of ids. ids must name every
// sibling exactly once; nothing is renumbered unless the whole list is valid.
func Reorder[T Sequenced](items []T, ids []string) ([]T, error) {
	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[item.ChildID()] = item
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]T, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		item, ok := byID[id]
		if !ok {
			return items, unknownChildf("%s", id)
		}
		if _, dup := seen[id]; dup {
			return items, invalidf("duplicate id %s in order list", id)
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	if len(out) != len(items) {
		return items, invalidf("order list names %d of %d children", len(out), len(items))
	}

	Renumber(out)
	return out, nil
}

func Renumber[T Sequenced](items []T) {
	for i, item := range items {
		item.SetPosition(i)
	}
}

// Find returns the child with id or ErrUnknownChild.
func Find[T Sequenced](items []T, id string) (T, error) {
	var zero T
	idx := indexOf(items, id)
	if idx < 0 {
		return zero, unknownChildf("%s", id)
	}
	return items[idx], nil
}

// Dense reports whether the positions are exactly 0..n-1 in slice order.
func Dense[T Sequenced](items []T) bool {
	for i, item := range items {
		if item.Position() != i {
			return false
		}
	}
	return true
}

func indexOf[T Sequenced](items []T, id string) int {
	id = strings.TrimSpace(id)
	for i, item := range items {
		if item.ChildID() == id {
			return i
		}
	}
	return -1
}
