package disassembler

import "github.com/Urethramancer/chunkgen/forest"

// cmp decodes CMP, CMPA and EOR, which share the 0xB000 line.
func (d *decoder) cmp(op uint16) (string, []forest.Operand, int) {
	opmode := (op >> 6) & 7
	r := (op >> 9) & 7
	ea := op & 0x3F

	// Bit 8 selects EOR Dn,<ea>.
	if (op & 0x0100) != 0 {
		var size uint16
		switch opmode {
		case 4:
			size = 0
		case 5:
			size = 1
		case 6:
			size = 2
		default:
			return dcw(op)
		}
		dst, used := d.ea(ea, 0, size)
		return "eor" + SizeSuffix(size), args(dreg(r), dst), used
	}

	switch opmode {
	case 3:
		src, used := d.ea(ea, 0, 1)
		return "cmpa.w", args(src, areg(r)), used
	case 7:
		src, used := d.ea(ea, 0, 2)
		return "cmpa.l", args(src, areg(r)), used
	}

	size := (op >> 6) & 3
	src, used := d.ea(ea, 0, size)
	return "cmp" + SizeSuffix(size), args(src, dreg(r)), used
}

// chk decodes CHK, which is always word sized on the 68000.
func (d *decoder) chk(op uint16) (string, []forest.Operand, int) {
	src, used := d.ea(op&0x3F, 0, 1)
	return "chk.w", args(src, dreg((op>>9)&7)), used
}

// cmpm decodes CMPM (Ay)+,(Ax)+.
func (d *decoder) cmpm(op uint16) (string, []forest.Operand, int) {
	return "cmpm" + SizeSuffix((op>>6)&3), args(mem("(a%d)+", op&7), mem("(a%d)+", (op>>9)&7)), 0
}

// tas decodes TAS, which is implicitly byte sized.
func (d *decoder) tas(op uint16) (string, []forest.Operand, int) {
	dst, used := d.ea(op&0x3F, 0, 0)
	return "tas", args(dst), used
}
