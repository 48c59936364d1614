package disassembler

import "github.com/Urethramancer/chunkgen/forest"

// shiftRotate decodes the register forms of ASL/ASR, LSL/LSR, ROXL/ROXR
// and ROL/ROR.
//
//	15-12: 1110
//	11-9 : count or count register
//	8    : direction, 1 = left
//	7-6  : size
//	5    : 1 = count in register
//	4-3  : type (AS, LS, ROX, RO)
//	2-0  : destination data register
func shiftRotate(op uint16) (string, []forest.Operand, int) {
	kind := (op >> 3) & 3
	if (op & 0x0100) != 0 {
		kind += 4
	}
	mn := []string{"asr", "lsr", "roxr", "ror", "asl", "lsl", "roxl", "rol"}[kind]
	mn += SizeSuffix((op >> 6) & 3)

	dst := dreg(op & 7)
	count := (op >> 9) & 7
	if (op & 0x0020) != 0 {
		return mn, args(dreg(count), dst), 0
	}
	if count == 0 {
		count = 8
	}
	return mn, args(decimal(int64(count), 8), dst), 0
}
