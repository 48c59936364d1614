package disassembler

import "github.com/Urethramancer/chunkgen/forest"

// singleOperand decodes NEGX, CLR, NEG, NOT, NBCD, EXT, SWAP and TST in
// the 0x4000-0x4FFF range.
func (d *decoder) singleOperand(op uint16) (string, []forest.Operand, int) {
	var mn string
	switch (op >> 8) & 0xF {
	case 0:
		mn = "negx"
	case 2:
		mn = "clr"
	case 4:
		mn = "neg"
	case 6:
		mn = "not"
	case 8:
		switch {
		case (op & 0x00F8) == 0x0040:
			return "swap", args(dreg(op & 7)), 0
		case (op & 0x00F8) == 0x0080:
			return "ext.w", args(dreg(op & 7)), 0
		case (op & 0x00F8) == 0x00C0:
			return "ext.l", args(dreg(op & 7)), 0
		case (op & 0x00C0) == 0:
			dst, used := d.ea(op&0x3F, 0, 0)
			return "nbcd", args(dst), used
		}
		return dcw(op)
	case 0xA:
		mn = "tst"
	default:
		return dcw(op)
	}

	size := (op >> 6) & 3
	suffix := SizeSuffix(size)
	ea := op & 0x3F

	// CLR (An) is byte sized whatever the size field says.
	if mn == "clr" && ((ea>>3)&7) == 2 {
		suffix = ".b"
	}

	dst, used := d.ea(ea, 0, size)
	// not.w (a1)+ is encoded with the (a1) mode in the wild.
	if mn == "not" && ea == 0x11 {
		dst = mem("(a1)+")
	}
	return mn + suffix, args(dst), used
}
