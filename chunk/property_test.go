package chunk_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Urethramancer/chunkgen/chunk"
	"github.com/Urethramancer/chunkgen/forest"
)

// randomBlock grows a block tree with at least one instruction per real
// block, mixing in forwarding blocks.
func randomBlock(r *rand.Rand, at *uint64, depth int) *forest.Block {
	b := &forest.Block{Name: fmt.Sprintf("loc_%04X", *at)}
	if depth > 0 && r.Intn(4) == 0 {
		b.Kind = forest.Forward
	}

	if b.Kind == forest.Basic || depth == 0 {
		b.Kind = forest.Basic
		for n := 1 + r.Intn(3); n > 0; n-- {
			count := 1 + r.Intn(4)
			size := uint64(count * (1 + r.Intn(4)))
			var insns []forest.Instruction
			for i := 0; i < count; i++ {
				insns = append(insns, insn("op", forest.Register{Name: "r0"}, forest.Immediate{Value: int64(i)}))
			}
			b.ParseResults = append(b.ParseResults, single(*at, *at+size, insns...))
			*at += size + uint64(r.Intn(8))
		}
	}

	if depth > 0 {
		for n := r.Intn(3); n > 0; n-- {
			b.Children = append(b.Children, randomBlock(r, at, depth-1))
		}
	}
	if b.Kind == forest.Forward && len(b.Children) == 0 {
		b.Children = append(b.Children, randomBlock(r, at, 0))
	}
	return b
}

func TestFixupProperties(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for round := 0; round < 50; round++ {
		var at uint64 = uint64(r.Intn(0x1000))
		f := &forest.Forest{}
		for n := 1 + r.Intn(3); n > 0; n-- {
			f.Trees = append(f.Trees, forest.Tree{Root: randomBlock(r, &at, 3)})
		}

		opts := chunk.DefaultOptions()
		opts.Bundles = round%2 == 0
		tr, err := chunk.Build(f, opts)
		if err != nil {
			t.Fatalf("round %d: Build: %v", round, err)
		}
		if err := tr.Verify(); err != nil {
			t.Fatalf("round %d: Verify: %v", round, err)
		}

		for i, c := range tr.Chunks {
			if len(c.Children) == 0 {
				continue
			}
			if c.Type == chunk.Bundle {
				continue
			}
			lo, hi := tr.Chunk(c.Children[0]).Addr.Start, tr.Chunk(c.Children[0]).Addr.End
			for _, child := range c.Children[1:] {
				cs := tr.Chunk(child).Addr
				lo = min(lo, cs.Start)
				hi = max(hi, cs.End)
			}
			if c.Addr.Start != lo || c.Addr.End != hi {
				t.Errorf("round %d: chunk %d = %s, children span [%#x,%#x)", round, i, c.Addr, lo, hi)
			}
		}
	}
}
