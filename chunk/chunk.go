// Package chunk builds the chunk hierarchy of a disassembly forest: one chunk
// per block, bundle and instruction under a single file chunk, each with the
// text fragments it renders as.
//
// Chunks and fragments live in arenas owned by a Tree and refer to each
// other by index, so the parent/child links never form pointer cycles.
package chunk

import (
	"fmt"
	"strings"
)

// ID indexes a chunk in its tree. The root is always 0.
type ID int

// NoParent is the parent of the root chunk.
const NoParent ID = -1

// Type tags what a chunk represents.
type Type int

const (
	File Type = iota
	Block
	BasicBlock
	Bundle
	Instruction
)

func (t Type) String() string {
	switch t {
	case File:
		return "FILE"
	case Block:
		return "BLOCK"
	case BasicBlock:
		return "BASIC_BLOCK"
	case Bundle:
		return "BUNDLE"
	case Instruction:
		return "INSTRUCTION"
	}
	return "UNKNOWN"
}

// ParseBlockType maps a configuration value to a block chunk type.
func ParseBlockType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return Block, nil
	case "basic-block", "basic_block", "basicblock":
		return BasicBlock, nil
	}
	return Block, fmt.Errorf("unknown block type %q", s)
}

// Span is an address range [Start, End).
type Span struct {
	Start uint64
	End   uint64
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%#x,%#x)", s.Start, s.End)
}

// Chunk is one node of the hierarchy. Containers start unresolved and get
// their range from their children.
type Chunk struct {
	Parent   ID
	Children []ID

	// Logical positions aren't known to the generator and stay empty.
	PosBegin string
	PosEnd   string

	Addr     Span
	Resolved bool

	Type    Type
	Name    string
	Text    FragmentID
	Comment string
}

// Tree holds the chunk and fragment arenas of one generation run.
type Tree struct {
	Chunks    []Chunk
	Fragments []Fragment

	// Approximated counts parse results whose instruction addresses were
	// derived by dividing the span evenly.
	Approximated int
}

// Root is the file chunk.
func (t *Tree) Root() ID { return 0 }

// Chunk returns the chunk with the given id.
func (t *Tree) Chunk(id ID) *Chunk { return &t.Chunks[id] }

// Fragment returns the fragment with the given id.
func (t *Tree) Fragment(id FragmentID) Fragment { return t.Fragments[id] }

func (t *Tree) addFragment(f Fragment) FragmentID {
	t.Fragments = append(t.Fragments, f)
	return FragmentID(len(t.Fragments) - 1)
}

func (t *Tree) addChunk(c Chunk) ID {
	id := ID(len(t.Chunks))
	t.Chunks = append(t.Chunks, c)
	if c.Parent != NoParent {
		p := &t.Chunks[c.Parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// Step is the kind of a traversal event.
type Step int

const (
	// Enter opens a chunk with children.
	Enter Step = iota
	// Exit closes a chunk opened by Enter.
	Exit
	// Leaf is a chunk without children.
	Leaf
)

func (s Step) String() string {
	switch s {
	case Enter:
		return "ENTER"
	case Exit:
		return "EXIT"
	case Leaf:
		return "LEAF"
	}
	return "UNKNOWN"
}

// Event is one step of a flattened traversal.
type Event struct {
	Step Step
	ID   ID
}

// Walk flattens the hierarchy in document order.
func (t *Tree) Walk(fn func(Event)) {
	if len(t.Chunks) == 0 {
		return
	}
	t.walk(t.Root(), fn)
}

func (t *Tree) walk(id ID, fn func(Event)) {
	c := &t.Chunks[id]
	if len(c.Children) == 0 {
		fn(Event{Step: Leaf, ID: id})
		return
	}
	fn(Event{Step: Enter, ID: id})
	for _, child := range c.Children {
		t.walk(child, fn)
	}
	fn(Event{Step: Exit, ID: id})
}

// PostOrder visits every chunk after all of its children.
func (t *Tree) PostOrder(fn func(ID)) {
	if len(t.Chunks) == 0 {
		return
	}
	t.postOrder(t.Root(), fn)
}

func (t *Tree) postOrder(id ID, fn func(ID)) {
	for _, child := range t.Chunks[id].Children {
		t.postOrder(child, fn)
	}
	fn(id)
}
