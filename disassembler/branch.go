package disassembler

import (
	"strings"

	"github.com/Urethramancer/chunkgen/forest"
)

// isBranchMnemonic checks if an instruction is a form of branch.
func isBranchMnemonic(val string) bool {
	switch val {
	case "bra", "bsr", "bhi", "bls", "bcc", "bcs", "bne", "beq", "bvc", "bvs", "bpl", "bmi", "bge", "blt", "bgt", "ble":
		return true
	default:
		return strings.HasPrefix(val, "db")
	}
}

func condName(cond uint16) string {
	names := []string{"t", "f", "hi", "ls", "cc", "cs", "ne", "eq",
		"vc", "vs", "pl", "mi", "ge", "lt", "gt", "le"}
	if int(cond) < len(names) {
		return names[cond]
	}
	return "??"
}

// branchTarget adds a displacement to the PC, which points just past the
// opcode word.
func (d *decoder) branchTarget(disp int64) forest.Operand {
	return target(uint64(int64(d.at(0)) + disp))
}

// branch decodes Bcc, BRA and BSR. The operand is the absolute target.
func (d *decoder) branch(op uint16) (string, []forest.Operand, int) {
	cond := (op >> 8) & 0xF
	var name string
	switch cond {
	case 0x0:
		name = "bra"
	case 0x1:
		name = "bsr"
	default:
		name = "b" + condName(cond)
	}

	disp8 := uint8(op & 0xFF)
	switch disp8 {
	case 0x00:
		w, ok := d.word(0)
		if !ok {
			return name, args(truncated), 0
		}
		return name, args(d.branchTarget(int64(int16(w)))), 2
	case 0xFF:
		l, ok := d.long(0)
		if !ok {
			return name, args(truncated), 0
		}
		return name, args(d.branchTarget(int64(int32(l)))), 4
	}
	return name, args(d.branchTarget(int64(int8(disp8)))), 0
}

// jmpJsr decodes JMP and JSR.
func (d *decoder) jmpJsr(op uint16) (string, []forest.Operand, int) {
	mn := "jmp"
	if (op & 0x0040) == 0 {
		mn = "jsr"
	}

	ea := op & 0x3F
	var size uint16 = 1
	if ea == 0x39 {
		size = 2
	}
	dst, used := d.ea(ea, 0, size)
	return mn, args(dst), used
}

// scc decodes Scc (set on condition).
func (d *decoder) scc(op uint16) (string, []forest.Operand, int) {
	dst, used := d.ea(op&0x3F, 0, 0)
	return "s" + condName((op>>8)&0xF), args(dst), used
}

// dbcc decodes DBcc (decrement and branch on condition).
func (d *decoder) dbcc(op uint16) (string, []forest.Operand, int) {
	mn := "db" + condName((op>>8)&0xF)
	counter := dreg(op & 7)

	w, ok := d.word(0)
	if !ok {
		return mn, args(counter, truncated), 0
	}
	return mn, args(counter, d.branchTarget(int64(int16(w)))), 2
}
