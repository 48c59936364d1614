package disassembler

import "github.com/Urethramancer/chunkgen/forest"

// bitManipulation decodes BTST, BCHG, BCLR and BSET. The static form takes
// the bit number from an extension word, the dynamic form from a data
// register. Data register destinations are long, memory is byte.
func (d *decoder) bitManipulation(op uint16) (string, []forest.Operand, int) {
	mn := []string{"btst", "bchg", "bclr", "bset"}[(op>>6)&3]
	ea := op & 0x3F

	var size uint16
	if (ea >> 3) == 0 {
		size = 2
	}

	if (op & 0xFF00) == 0x0800 {
		bit, used := d.immediate(0, 0)
		dst, eaUsed := d.ea(ea, used, size)
		return mn, args(bit, dst), used + eaUsed
	}

	dst, used := d.ea(ea, 0, size)
	if size == 2 {
		mn += ".l"
	} else {
		mn += ".b"
	}
	return mn, args(dreg((op>>9)&7), dst), used
}
