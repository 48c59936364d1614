// Package disassembler decodes MC68000 machine code into typed instructions
// and recovers the function and basic block structure of a flat image.
package disassembler

import (
	"encoding/binary"

	"github.com/Urethramancer/chunkgen/flow"
	"github.com/Urethramancer/chunkgen/forest"
)

// Sweep decodes an instruction at every word of code, which is loaded at
// base. Instructions whose extension words are cut off by the end of the
// image become dc.w.
func Sweep(code []byte, base uint64) []flow.Site {
	base &^= 1
	sites := make([]flow.Site, 0, len(code)/2)
	for pc := 0; pc+1 < len(code); pc += 2 {
		addr := base + uint64(pc)
		op := binary.BigEndian.Uint16(code[pc:])
		var ext []byte
		if pc+2 < len(code) {
			ext = code[pc+2:]
		}

		mn, ops, used := Decode(op, addr, ext)
		if hasTruncated(ops) {
			mn, ops, used = dcw(op)
		}

		s := flow.Site{
			Addr: addr,
			Insn: forest.Instruction{Name: mn, Length: uint64(2 + used), Args: ops},
		}
		s.Kind, s.Target, s.HasTarget = classify(mn, ops)
		sites = append(sites, s)
	}
	return sites
}

// Analyze decodes code loaded at base and builds the forest of everything
// reachable from base: one tree per subroutine, one block per basic block.
func Analyze(code []byte, base uint64) *forest.Forest {
	return flow.Build(Sweep(code, base), []uint64{base &^ 1})
}

func hasTruncated(ops []forest.Operand) bool {
	for _, op := range ops {
		if o, ok := op.(forest.Other); ok && o.Tag == truncated.Tag {
			return true
		}
	}
	return false
}

// classify maps a decoded instruction to its control flow effect. Targets
// are aligned down to a word, as the CPU would fault on odd ones anyway.
func classify(mn string, ops []forest.Operand) (flow.Kind, uint64, bool) {
	switch mn {
	case "rts", "rte", "rtr", "illegal", "dc.w":
		return flow.Stop, 0, false
	}

	var last forest.Operand
	if len(ops) > 0 {
		last = ops[len(ops)-1]
	}
	addr, ok := destination(last)
	addr &^= 1

	switch {
	case mn == "bra" || mn == "jmp":
		return flow.Jump, addr, ok
	case mn == "bsr" || mn == "jsr":
		return flow.Call, addr, ok
	case isBranchMnemonic(mn):
		return flow.Branch, addr, ok
	}
	return flow.Next, 0, false
}

// destination extracts a static control transfer target. Indirect jumps
// through registers have none.
func destination(op forest.Operand) (uint64, bool) {
	switch o := op.(type) {
	case forest.Immediate:
		return uint64(uint32(o.Value)), true
	case forest.Memory:
		if o.Absolute {
			return o.Addr, true
		}
	}
	return 0, false
}
