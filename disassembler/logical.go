package disassembler

import "github.com/Urethramancer/chunkgen/forest"

// immediateLogical decodes ORI, ANDI, SUBI, ADDI, EORI and CMPI.
func (d *decoder) immediateLogical(op uint16) (string, []forest.Operand, int) {
	var mn string
	switch op & 0xFF00 {
	case OPORI:
		mn = "ori"
	case OPANDI:
		mn = "andi"
	case OPSUBI:
		mn = "subi"
	case OPADDI:
		mn = "addi"
	case OPEORI:
		mn = "eori"
	case OPCMPI:
		mn = "cmpi"
	default:
		return dcw(op)
	}

	size := (op >> 6) & 3
	src, immUsed := d.immediate(0, size)
	dst, eaUsed := d.ea(op&0x3F, immUsed, size)
	return mn + SizeSuffix(size), args(src, dst), immUsed + eaUsed
}

// logical decodes the register forms of AND and OR. Bit 8 set means
// Dn -> <ea>.
func (d *decoder) logical(op uint16) (string, []forest.Operand, int) {
	var mn string
	switch op & 0xF000 {
	case OPAND:
		mn = "and"
	case OPOR:
		mn = "or"
	default:
		return dcw(op)
	}

	size := (op >> 6) & 3
	r := dreg((op >> 9) & 7)
	other, used := d.ea(op&0x3F, 0, size)
	if (op & 0x0100) != 0 {
		return mn + SizeSuffix(size), args(r, other), used
	}
	return mn + SizeSuffix(size), args(other, r), used
}

// exg decodes EXG.
func (d *decoder) exg(op uint16) (string, []forest.Operand, int) {
	x := (op >> 9) & 7
	y := op & 7

	switch (op >> 3) & 0x1F {
	case 0b01000:
		return "exg", args(dreg(x), dreg(y)), 0
	case 0b01001:
		return "exg", args(areg(x), areg(y)), 0
	case 0b10001:
		return "exg", args(dreg(x), areg(y)), 0
	}
	return dcw(op)
}

// immediateToSystemRegister decodes ANDI, ORI and EORI to CCR or SR.
func (d *decoder) immediateToSystemRegister(op uint16) (string, []forest.Operand, int) {
	var mn string
	switch op & 0xFF00 {
	case OPANDI:
		mn = "andi"
	case OPORI:
		mn = "ori"
	case OPEORI:
		mn = "eori"
	default:
		return dcw(op)
	}

	// CCR forms take a byte, SR forms a word.
	dst, size := reg("ccr"), uint16(0)
	if (op & 0x0040) != 0 {
		dst, size = reg("sr"), 1
	}
	src, used := d.immediate(0, size)
	return mn, args(src, dst), used
}
