package disassembler_test

import (
	"testing"

	"github.com/Urethramancer/chunkgen/disassembler"
	"github.com/Urethramancer/chunkgen/forest"
)

// program is a main routine with a conditional branch and a call into a
// second subroutine.
//
//	0000 moveq #1,d0
//	0002 beq   $0008
//	0004 bsr   $000c
//	0006 rts
//	0008 nop
//	000a rts
//	000c clr.w d1
//	000e rts
var program = []byte{
	0x70, 0x01,
	0x67, 0x04,
	0x61, 0x06,
	0x4E, 0x75,
	0x4E, 0x71,
	0x4E, 0x75,
	0x42, 0x41,
	0x4E, 0x75,
}

func blockNames(root *forest.Block) []string {
	var names []string
	for _, b := range root.Children {
		names = append(names, b.Name)
	}
	return names
}

func TestAnalyze(t *testing.T) {
	f := disassembler.Analyze(program, 0)
	if len(f.Trees) != 2 {
		t.Fatalf("got %d trees, want 2", len(f.Trees))
	}

	top := f.Trees[0].Root
	if top.Name != "sub_0000" || top.Comment != "function" {
		t.Errorf("first tree = %s (%s)", top.Name, top.Comment)
	}
	want := []string{"loc_0000", "loc_0004", "loc_0008"}
	got := blockNames(top)
	if len(got) != len(want) {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("blocks = %v, want %v", got, want)
			break
		}
	}

	entry := top.Children[0]
	if len(entry.ParseResults) != 2 {
		t.Fatalf("loc_0000 has %d parse results, want 2", len(entry.ParseResults))
	}
	beq := entry.ParseResults[1]
	if beq.Start != 2 || beq.End != 4 || beq.Insns[0].Name != "beq" {
		t.Errorf("second parse result = %+v", beq)
	}
	if imm := beq.Insns[0].Args[0].(forest.Immediate); imm.Value != 8 {
		t.Errorf("beq target = %#x, want 0x8", imm.Value)
	}

	sub := f.Trees[1].Root
	if sub.Name != "sub_000C" || len(sub.Children) != 1 {
		t.Fatalf("second tree = %s with %d blocks", sub.Name, len(sub.Children))
	}
	if n := len(sub.Children[0].ParseResults); n != 2 {
		t.Errorf("sub_000C body has %d instructions, want 2", n)
	}
}

func TestAnalyzeBase(t *testing.T) {
	f := disassembler.Analyze(program, 0x1000)
	if f.Trees[0].Root.Name != "sub_1000" || f.Trees[1].Root.Name != "sub_100C" {
		t.Errorf("trees = %s, %s", f.Trees[0].Root.Name, f.Trees[1].Root.Name)
	}
	pr := f.Trees[1].Root.Children[0].ParseResults[0]
	if pr.Start != 0x100C || pr.End != 0x100E {
		t.Errorf("sub_100C starts with [%#x,%#x)", pr.Start, pr.End)
	}
}

func TestAnalyzeTruncatedTail(t *testing.T) {
	// jmp $xxxx.l with the address cut off
	f := disassembler.Analyze([]byte{0x4E, 0xF9, 0x00}, 0)
	if len(f.Trees) != 1 {
		t.Fatalf("got %d trees, want 1", len(f.Trees))
	}
	in := f.Trees[0].Root.Children[0].ParseResults[0].Insns[0]
	if in.Name != "dc.w" || in.Length != 2 {
		t.Errorf("got %s (%d bytes), want dc.w (2 bytes)", in.Name, in.Length)
	}
}

func TestSweepLengths(t *testing.T) {
	// move.w #$1234,d0 ; rts
	sites := disassembler.Sweep([]byte{0x30, 0x3C, 0x12, 0x34, 0x4E, 0x75}, 0)
	if len(sites) != 3 {
		t.Fatalf("got %d sites, want 3", len(sites))
	}
	if sites[0].Insn.Length != 4 {
		t.Errorf("move.w length = %d, want 4", sites[0].Insn.Length)
	}
	if sites[2].Insn.Name != "rts" {
		t.Errorf("third site = %s, want rts", sites[2].Insn.Name)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	if f := disassembler.Analyze(nil, 0); len(f.Trees) != 0 {
		t.Errorf("got %d trees for empty input", len(f.Trees))
	}
}
