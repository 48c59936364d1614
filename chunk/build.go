package chunk

import (
	"fmt"

	"github.com/Urethramancer/chunkgen/forest"
)

// MemoryPlaceholder is the text rendered for memory operands unless
// Options.ExpandMemory is set.
const MemoryPlaceholder = "[MEM]"

// Options controls the shape of the built hierarchy.
type Options struct {
	// Bundles wraps every parse result in a bundle chunk. When off,
	// instructions attach directly to their block.
	Bundles bool
	// BlockType is Block or BasicBlock.
	BlockType Type
	// ExpandMemory renders memory operands with their expression instead
	// of the placeholder.
	ExpandMemory bool
}

// DefaultOptions returns bundled blocks of type Block.
func DefaultOptions() Options {
	return Options{Bundles: true, BlockType: Block}
}

type builder struct {
	t    *Tree
	opts Options
}

// Build creates the chunk hierarchy for f and resolves every container's
// address range. The returned tree is complete; it isn't modified again.
func Build(f *forest.Forest, opts Options) (*Tree, error) {
	if opts.BlockType != Block && opts.BlockType != BasicBlock {
		return nil, fmt.Errorf("block chunks can't have type %s", opts.BlockType)
	}

	b := &builder{t: &Tree{}, opts: opts}
	text := b.t.addFragment(Text{Value: "File Chunk"})
	root := b.t.addChunk(Chunk{Parent: NoParent, Type: File, Name: "File", Text: text})

	for i, tree := range f.Trees {
		if tree.Root == nil {
			return nil, &ForestError{Message: fmt.Sprintf("tree %d has no root", i)}
		}
		if err := b.block(tree.Root, root); err != nil {
			return nil, err
		}
	}

	if err := b.t.Resolve(root); err != nil {
		return nil, err
	}
	return b.t, nil
}

// block materializes blk under parent. Child blocks are siblings of blk:
// every block chunk hangs off the nearest ancestor that isn't a block.
// Forwarding blocks add no chunk; their parse results and children attach
// to parent.
func (b *builder) block(blk *forest.Block, parent ID) error {
	if blk.Kind == forest.Forward {
		name := blk.Name
		if name == "" {
			name = "forward"
		}
		for _, pr := range blk.ParseResults {
			if err := b.parseResult(pr, parent, name); err != nil {
				return err
			}
		}
		for _, child := range blk.Children {
			if err := b.block(child, parent); err != nil {
				return err
			}
		}
		return nil
	}

	name := blk.Name
	if name == "" {
		name = "Block"
	}
	text := b.t.addFragment(Text{Value: name})
	id := b.t.addChunk(Chunk{
		Parent:  parent,
		Type:    b.opts.BlockType,
		Name:    name,
		Text:    text,
		Comment: blk.Comment,
	})

	for _, pr := range blk.ParseResults {
		if err := b.parseResult(pr, id, name); err != nil {
			return err
		}
	}

	for _, child := range blk.Children {
		if err := b.block(child, parent); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) parseResult(pr forest.ParseResult, block ID, blockName string) error {
	spans, exact, err := Slices(pr)
	if err != nil {
		return &ForestError{Block: blockName, Message: err.Error()}
	}
	if !exact {
		b.t.Approximated++
	}

	parent := block
	if b.opts.Bundles {
		text := b.t.addFragment(Text{Value: "Bundle"})
		parent = b.t.addChunk(Chunk{
			Parent:   block,
			Type:     Bundle,
			Name:     "Bundle",
			Text:     text,
			Addr:     Span{Start: pr.Start, End: pr.End},
			Resolved: true,
		})
	}

	for i, in := range pr.Insns {
		text, err := b.instruction(in, spans[i].Start)
		if err != nil {
			return err
		}
		b.t.addChunk(Chunk{
			Parent:   parent,
			Type:     Instruction,
			Name:     "Instruction",
			Text:     text,
			Addr:     spans[i],
			Resolved: true,
		})
	}
	return nil
}

// instruction builds the text of one instruction: the opcode, a blank, then
// the operands with a comma and blank before every operand after the first.
func (b *builder) instruction(in forest.Instruction, addr uint64) (FragmentID, error) {
	items := []FragmentID{
		b.t.addFragment(Keyword{Text: in.Name, Type: Opcode}),
		b.t.addFragment(Blank{}),
	}

	for i, arg := range in.Args {
		if len(items) > 2 {
			items = append(items, b.t.addFragment(Text{Value: ","}), b.t.addFragment(Blank{}))
		}

		var f Fragment
		switch a := arg.(type) {
		case forest.Register:
			f = Keyword{Text: a.Name, Type: RegisterName}
		case forest.Immediate:
			base := a.Base
			if base == 0 {
				base = DefaultBase
			}
			f = Number{Value: a.Value, Width: a.Width, Base: base}
		case forest.Memory:
			// TODO: emit a structured memory fragment once the UI has one.
			f = Text{Value: MemoryPlaceholder, Highlight: true}
			if b.opts.ExpandMemory && a.Expr != "" {
				f = Text{Value: a.Expr, Highlight: true}
			}
		default:
			kind := fmt.Sprintf("%T", arg)
			if arg != nil {
				kind = arg.Kind()
			}
			return 0, &OperandError{Insn: in.Name, Index: i, Kind: kind, Address: addr}
		}
		items = append(items, b.t.addFragment(f))
	}

	return b.t.addFragment(List{Items: items}), nil
}

// Slices assigns an address range to every instruction of pr. When each
// instruction knows its length and the lengths cover the span exactly,
// those lengths are used. Otherwise the span is divided evenly, which is
// only an approximation for variable-length encodings; exact reports which
// case applied.
func Slices(pr forest.ParseResult) (spans []Span, exact bool, err error) {
	n := len(pr.Insns)
	if n == 0 {
		return nil, false, fmt.Errorf("parse result %s has no instructions", Span{pr.Start, pr.End})
	}
	if pr.End < pr.Start {
		return nil, false, fmt.Errorf("parse result ends at %#x before it starts at %#x", pr.End, pr.Start)
	}

	if spans, ok := exactSlices(pr); ok {
		return spans, true, nil
	}

	spans, err = EvenSlices(pr.Start, pr.End, n)
	return spans, n == 1, err
}

func exactSlices(pr forest.ParseResult) ([]Span, bool) {
	spans := make([]Span, 0, len(pr.Insns))
	at := pr.Start
	for _, in := range pr.Insns {
		if in.Length == 0 {
			return nil, false
		}
		spans = append(spans, Span{Start: at, End: at + in.Length})
		at += in.Length
	}
	return spans, at == pr.End
}

// EvenSlices divides [start, end) into n equal consecutive slices of
// (end-start)/n units.
func EvenSlices(start, end uint64, n int) ([]Span, error) {
	size := (end - start) / uint64(n)
	if size == 0 {
		return nil, fmt.Errorf("span %s is shorter than its %d instructions", Span{start, end}, n)
	}

	spans := make([]Span, n)
	for i := range spans {
		s := start + uint64(i)*size
		spans[i] = Span{Start: s, End: s + size}
	}
	return spans, nil
}
