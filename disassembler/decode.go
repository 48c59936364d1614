package disassembler

import (
	"github.com/Urethramancer/chunkgen/forest"
)

// Decode decodes the instruction whose opcode word op sits at addr. ext
// holds the bytes that follow the opcode word. It returns the mnemonic,
// the operands and the number of extension bytes consumed. Words that
// aren't instructions decode as dc.w.
func Decode(op uint16, addr uint64, ext []byte) (string, []forest.Operand, int) {
	d := &decoder{addr: addr, code: ext}
	return d.decode(op)
}

func (d *decoder) decode(op uint16) (string, []forest.Operand, int) {
	// The dense 0x4E00 space goes first, with specific checks in order.
	if (op & 0xFF00) == 0x4E00 {
		if (op&0xFFF0) == OPMOVEToUSP || (op&0xFFF0) == OPMOVEFromUSP {
			return d.moveSystemRegister(op)
		}
		switch op {
		case OPNOP:
			return "nop", nil, 0
		case OPRTS:
			return "rts", nil, 0
		case OPRTR:
			return "rtr", nil, 0
		case OPRTE:
			return "rte", nil, 0
		case OPRESET:
			return "reset", nil, 0
		case OPTRAPV:
			return "trapv", nil, 0
		case OPSTOP:
			imm, used := d.immediate(0, 1)
			return "stop", args(imm), used
		}
		if (op & 0xFFF8) == OPLINK {
			disp, used := d.immediate(0, 1)
			return "link", args(areg(op&7), disp), used
		}
		if (op & 0xFFF8) == OPUNLK {
			return "unlk", args(areg(op & 7)), 0
		}
		if (op & 0xFFF0) == OPTRAP {
			return "trap", args(decimal(int64(op&0xF), 4)), 0
		}
		if (op&0xFFC0) == OPJSR || (op&0xFFC0) == OPJMP {
			return d.jmpJsr(op)
		}
	}

	switch op {
	case OPILLEGAL:
		return "illegal", nil, 0
	case OPANDItoCCR, OPORItoCCR, OPEORItoCCR,
		OPANDItoSR, OPORItoSR, OPEORItoSR:
		return d.immediateToSystemRegister(op)
	}

	if (op & 0xF138) == 0x0108 {
		return d.movep(op)
	}

	switch op & 0xFF00 {
	case OPORI, OPANDI, OPSUBI, OPADDI, OPEORI, OPCMPI:
		return d.immediateLogical(op)
	}

	if (op & 0xFF00) == 0x0800 {
		return d.bitManipulation(op)
	}
	if (op&0xF000) == 0 && (op&0x0100) != 0 {
		return d.bitManipulation(op)
	}

	hi := op & 0xF000
	switch {
	case (op & 0xF0C8) == OPDBcc:
		return d.dbcc(op)
	case (op & 0xF0C0) == OPScc:
		return d.scc(op)
	case hi == OPMOVEQ:
		return "moveq", args(decimal(int64(int8(op&0xFF)), 8), dreg((op>>9)&7)), 0
	case (op & 0xC000) == OPMOVE:
		return d.moveGeneral(op)
	case hi == OPBRA:
		return d.branch(op)
	case hi == OPADDQ:
		imm := int64((op >> 9) & 7)
		if imm == 0 {
			imm = 8
		}
		size := (op >> 6) & 3
		dst, used := d.ea(op&0x3F, 0, size)
		mn := "addq"
		if (op & 0x0100) != 0 {
			mn = "subq"
		}
		return mn + SizeSuffix(size), args(decimal(imm, 8), dst), used
	case hi == OPAND:
		if (op & 0xF100) == 0xC100 {
			opmode := (op >> 3) & 0x1F
			if opmode == 0b01001 || opmode == 0b10001 {
				return d.exg(op)
			}
			if opmode == 0b01000 && (op>>9)&7 == op&7 {
				return d.exg(op)
			}
		}
		if (op&0xF0C0) == OPMULU || (op&0xF0C0) == OPMULS {
			return d.mulDiv(op)
		}
		return d.logical(op)
	case hi == OPOR:
		if (op&0xF0C0) == OPDIVU || (op&0xF0C0) == OPDIVS {
			return d.mulDiv(op)
		}
		return d.logical(op)
	case hi == 0xD000 || hi == 0x9000:
		if (op&0x0130) == 0x0100 && (op&0x00C0) != 0x00C0 {
			return d.addxSubx(op)
		}
		if hi == 0xD000 {
			return d.addSub(op, "add")
		}
		return d.addSub(op, "sub")
	case hi == 0xB000:
		if (op & 0xF138) == 0xB108 {
			return d.cmpm(op)
		}
		if (op&0x0100) == 0 && (op&0x00C0) != 0 && (op&0x01F8) == 0x0180 {
			return d.chk(op)
		}
		return d.cmp(op)
	case (op & 0xFFC0) == OPMOVEFromSR,
		(op & 0xFFC0) == OPMOVEToCCR,
		(op & 0xFFC0) == OPMOVEToSR:
		return d.moveSystemRegister(op)
	case (op & 0xFF00) == OPNEGX,
		(op & 0xFF00) == OPCLR,
		(op & 0xFF00) == OPNEG,
		(op & 0xFF00) == OPNOT:
		return d.singleOperand(op)
	case (op & 0xFFC0) == OPTAS:
		return d.tas(op)
	case (op&0xFF00) == OPTST && (op&0xFFC0) != 0x4AC0:
		return d.singleOperand(op)
	case (op & 0xFFC0) == OPNBCD:
		return d.singleOperand(op)
	case (op&0xFFF8) == 0x4880 || (op&0xFFF8) == 0x48C0:
		return d.singleOperand(op)
	case (op & 0xFFF8) == OPSWAP:
		return "swap", args(dreg(op & 7)), 0
	case (op & 0xFB80) == 0x4880:
		return d.movem(op)
	case hi == OPShiftRotateBase:
		return shiftRotate(op)
	case (op & 0xFFC0) == OPPEA:
		src, used := d.ea(op&0x3F, 0, 1)
		return "pea", args(src), used
	case (op & 0xF1C0) == OPLEA:
		src, used := d.ea(op&0x3F, 0, 0)
		return "lea", args(src, areg((op>>9)&7)), used
	}

	return dcw(op)
}
