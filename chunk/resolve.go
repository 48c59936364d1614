package chunk

import "fmt"

// Resolve computes the address range of id and every unresolved container
// below it, children first. Resolved chunks are left alone.
func (t *Tree) Resolve(id ID) error {
	c := &t.Chunks[id]
	if c.Resolved {
		return nil
	}
	if len(c.Children) == 0 {
		return &ContainerError{ID: id, Type: c.Type, Name: c.Name}
	}

	var span Span
	for i, child := range c.Children {
		if err := t.Resolve(child); err != nil {
			return err
		}
		cs := t.Chunks[child].Addr
		if i == 0 || cs.Start < span.Start {
			span.Start = cs.Start
		}
		if i == 0 || cs.End > span.End {
			span.End = cs.End
		}
	}

	c.Addr = span
	c.Resolved = true
	return nil
}

// Verify checks the structural invariants of a built tree: a single root,
// consistent parent/child links, resolved ranges that contain their
// children, and fragments owned by exactly one parent.
func (t *Tree) Verify() error {
	if len(t.Chunks) == 0 {
		return fmt.Errorf("tree has no chunks")
	}

	for i := range t.Chunks {
		id := ID(i)
		c := &t.Chunks[i]
		if !c.Resolved {
			return fmt.Errorf("chunk %d (%s) is unresolved", id, c.Name)
		}
		if (id == t.Root()) != (c.Parent == NoParent) {
			return fmt.Errorf("chunk %d has parent %d", id, c.Parent)
		}
		for _, child := range c.Children {
			cc := &t.Chunks[child]
			if cc.Parent != id {
				return fmt.Errorf("chunk %d lists child %d whose parent is %d", id, child, cc.Parent)
			}
			if !c.Addr.Contains(cc.Addr) {
				return fmt.Errorf("chunk %d %s doesn't contain child %d %s", id, c.Addr, child, cc.Addr)
			}
		}
	}

	owners := make([]int, len(t.Fragments))
	for i := range t.Chunks {
		owners[t.Chunks[i].Text]++
	}
	for i, f := range t.Fragments {
		l, ok := f.(List)
		if !ok {
			continue
		}
		for _, item := range l.Items {
			if int(item) >= i {
				return fmt.Errorf("list fragment %d refers to later fragment %d", i, item)
			}
			owners[item]++
		}
	}
	for i, n := range owners {
		if n != 1 {
			return fmt.Errorf("fragment %d has %d owners", i, n)
		}
	}
	return nil
}
