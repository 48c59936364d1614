package disassembler

import (
	"fmt"

	"github.com/Urethramancer/chunkgen/forest"
)

// moveGeneral decodes MOVE and MOVEA. The destination field has mode and
// register swapped relative to a normal effective address.
func (d *decoder) moveGeneral(op uint16) (string, []forest.Operand, int) {
	var mn string
	var size uint16
	switch (op >> 12) & 3 {
	case 1:
		mn, size = "move.b", 0
	case 2:
		mn, size = "move.l", 2
	case 3:
		mn, size = "move.w", 1
	default:
		return dcw(op)
	}

	srcEA := op & 0x3F
	dstEA := ((op>>6)&7)<<3 | (op>>9)&7
	src, n1 := d.ea(srcEA, 0, size)
	dst, n2 := d.ea(dstEA, n1, size)

	if (op>>6)&7 == 1 {
		if size == 2 {
			mn = "movea.l"
		} else {
			mn = "movea.w"
		}
	}
	return mn, args(src, dst), n1 + n2
}

// movem decodes MOVEM. The register mask extension word precedes the
// effective address extension.
func (d *decoder) movem(op uint16) (string, []forest.Operand, int) {
	mn := "movem.w"
	if (op & 0x0040) != 0 {
		mn = "movem.l"
	}

	mask, ok := d.word(0)
	if !ok {
		return mn, args(truncated), 0
	}
	other, used := d.ea(op&0x3F, 2, 0)
	list := reg(movemMaskToList(mask))

	if (op & 0x0400) != 0 {
		return mn, args(other, list), used + 2
	}
	return mn, args(list, other), used + 2
}

// movep decodes MOVEP, which moves alternate bytes to or from memory.
func (d *decoder) movep(op uint16) (string, []forest.Operand, int) {
	data, addr := (op>>9)&7, op&7

	var mn string
	var toReg bool
	switch (op >> 6) & 7 {
	case 4:
		mn, toReg = "movep.w", true
	case 5:
		mn, toReg = "movep.l", true
	case 6:
		mn, toReg = "movep.w", false
	case 7:
		mn, toReg = "movep.l", false
	default:
		return dcw(op)
	}

	w, ok := d.word(0)
	if !ok {
		return mn, args(truncated), 0
	}
	m := forest.Memory{Expr: fmt.Sprintf("(%d,a%d)", int16(w), addr)}
	if toReg {
		return mn, args(m, dreg(data)), 2
	}
	return mn, args(dreg(data), m), 2
}

// moveSystemRegister decodes MOVE to and from SR, CCR and USP.
func (d *decoder) moveSystemRegister(op uint16) (string, []forest.Operand, int) {
	if (op & 0xFFF0) == OPMOVEToUSP {
		a := areg(op & 7)
		if (op & 0x0008) != 0 {
			return "move.l", args(reg("usp"), a), 0
		}
		return "move.l", args(a, reg("usp")), 0
	}

	other, used := d.ea(op&0x3F, 0, 1)
	switch op & 0xFFC0 {
	case OPMOVEFromSR:
		return "move", args(reg("sr"), other), used
	case OPMOVEToCCR:
		return "move", args(other, reg("ccr")), used
	case OPMOVEToSR:
		return "move", args(other, reg("sr")), used
	}
	return dcw(op)
}
