package disassembler

import "github.com/Urethramancer/chunkgen/forest"

// addSub decodes ADD/ADDA and SUB/SUBA. A size field of 3 selects the
// address form, which always writes An; bit 8 then picks word or long.
func (d *decoder) addSub(op uint16, base string) (string, []forest.Operand, int) {
	size := (op >> 6) & 3
	r := (op >> 9) & 7

	if size == 3 {
		size = 1
		if (op & 0x0100) != 0 {
			size = 2
		}
		src, used := d.ea(op&0x3F, 0, size)
		return base + "a" + SizeSuffix(size), args(src, areg(r)), used
	}

	other, used := d.ea(op&0x3F, 0, size)
	suffix := SizeSuffix(size)
	if (op & 0x0100) != 0 {
		return base + suffix, args(dreg(r), other), used
	}
	return base + suffix, args(other, dreg(r)), used
}

// addxSubx decodes ADDX and SUBX. Bit 3 selects the predecrement form.
func (d *decoder) addxSubx(op uint16) (string, []forest.Operand, int) {
	var base string
	switch op & 0xF100 {
	case OPADDX:
		base = "addx"
	case OPSUBX:
		base = "subx"
	default:
		return dcw(op)
	}

	mn := base + SizeSuffix((op>>6)&3)
	src := op & 7
	dst := (op >> 9) & 7

	if (op & 0x0008) != 0 {
		return mn, args(mem("-(a%d)", src), mem("-(a%d)", dst)), 0
	}
	return mn, args(dreg(src), dreg(dst)), 0
}

// mulDiv decodes MULU, MULS, DIVU and DIVS. The source is always a word.
func (d *decoder) mulDiv(op uint16) (string, []forest.Operand, int) {
	var mn string
	switch (op >> 11) & 0x1F {
	case 0x18:
		mn = "mulu.w"
	case 0x19:
		mn = "muls.w"
	case 0x10:
		mn = "divu.w"
	case 0x11:
		mn = "divs.w"
	default:
		return dcw(op)
	}

	src, used := d.ea(op&0x3F, 0, 1)
	return mn, args(src, dreg((op>>9)&7)), used
}
