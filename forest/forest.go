// Package forest describes the analysis result handed to the generator: a
// set of decoded function trees made of blocks, parse results and typed
// instructions.
package forest

// BlockKind tells ordinary blocks apart from forwarding ones.
type BlockKind int

const (
	// Basic is an ordinary block with its own content.
	Basic BlockKind = iota
	// Forward is a pass-through block that only forwards to its children.
	Forward
)

// Forest is every decoded tree of one binary.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Tree is rooted at a function's entry block.
type Tree struct {
	Root *Block `json:"root"`
}

// Block is a node in a tree's block graph.
type Block struct {
	Kind         BlockKind     `json:"kind"`
	Name         string        `json:"name,omitempty"`
	Comment      string        `json:"comment,omitempty"`
	ParseResults []ParseResult `json:"parse_results,omitempty"`
	Children     []*Block      `json:"children,omitempty"`
}

// ParseResult is one decoded span [Start, End) of instructions.
type ParseResult struct {
	Start uint64        `json:"start"`
	End   uint64        `json:"end"`
	Insns []Instruction `json:"insns"`
}

// Instruction is a single decoded instruction. Length is zero when the
// analyzer doesn't know the encoded size.
type Instruction struct {
	Name   string    `json:"name"`
	Length uint64    `json:"length,omitempty"`
	Args   []Operand `json:"args,omitempty"`
}

// Count returns the number of instructions across all trees.
func (f *Forest) Count() int {
	n := 0
	for _, t := range f.Trees {
		n += t.Root.count()
	}
	return n
}

func (b *Block) count() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, pr := range b.ParseResults {
		n += len(pr.Insns)
	}
	for _, c := range b.Children {
		n += c.count()
	}
	return n
}
