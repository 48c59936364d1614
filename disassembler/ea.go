package disassembler

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Urethramancer/chunkgen/forest"
)

// decoder holds the instruction being decoded. Offsets passed to its
// methods index code, the bytes following the opcode word.
type decoder struct {
	addr uint64
	code []byte
}

// truncated stands in for an operand whose extension words run past the
// end of the input.
var truncated = forest.Other{Tag: "trunc", Text: "?"}

func (d *decoder) word(pc int) (uint16, bool) {
	if pc < 0 || pc+2 > len(d.code) {
		return 0, false
	}
	return binary.BigEndian.Uint16(d.code[pc:]), true
}

func (d *decoder) long(pc int) (uint32, bool) {
	if pc < 0 || pc+4 > len(d.code) {
		return 0, false
	}
	return binary.BigEndian.Uint32(d.code[pc:]), true
}

// at is the address of extension offset pc, which is also the PC value
// for PC-relative modes using that extension word.
func (d *decoder) at(pc int) uint64 {
	return d.addr + 2 + uint64(pc)
}

func dreg(n uint16) forest.Operand { return forest.Register{Name: fmt.Sprintf("d%d", n)} }
func areg(n uint16) forest.Operand { return forest.Register{Name: fmt.Sprintf("a%d", n)} }
func reg(name string) forest.Operand { return forest.Register{Name: name} }
func mem(format string, a ...any) forest.Operand {
	return forest.Memory{Expr: fmt.Sprintf(format, a...)}
}

// decimal is a small literal printed in base 10, like quick and trap
// numbers.
func decimal(v int64, width int) forest.Operand {
	return forest.Immediate{Value: v, Width: width, Base: 10}
}

// target is an absolute code address.
func target(addr uint64) forest.Operand {
	return forest.Immediate{Value: int64(uint32(addr)), Width: 32, Base: 16}
}

func args(a ...forest.Operand) []forest.Operand { return a }

// dcw is the result for words that don't decode to an instruction.
func dcw(op uint16) (string, []forest.Operand, int) {
	return "dc.w", args(forest.Immediate{Value: int64(op), Width: 16, Base: 16}), 0
}

// SizeSuffix returns the canonical size suffix (.b, .w, .l).
func SizeSuffix(bits uint16) string {
	switch bits {
	case 0:
		return ".b"
	case 1:
		return ".w"
	case 2:
		return ".l"
	default:
		return ""
	}
}

func sizeWidth(size uint16) int {
	switch size {
	case 0:
		return 8
	case 2:
		return 32
	default:
		return 16
	}
}

// movemMaskToList converts a register mask into a canonical register list
// (e.g. "d0-d3/a0/a6").
func movemMaskToList(mask uint16) string {
	dRegs := make([]int, 0, 8)
	aRegs := make([]int, 0, 8)

	// Bits 0-7 are D0-D7, bits 8-15 are A0-A7.
	for i := 0; i < 8; i++ {
		if (mask & (1 << i)) != 0 {
			dRegs = append(dRegs, i)
		}
		if (mask & (1 << (i + 8))) != 0 {
			aRegs = append(aRegs, i)
		}
	}

	var parts []string
	parts = append(parts, formatRegRange("d", dRegs)...)
	parts = append(parts, formatRegRange("a", aRegs)...)
	return strings.Join(parts, "/")
}

// formatRegRange turns a sorted list of register numbers into ranges.
func formatRegRange(prefix string, regs []int) []string {
	if len(regs) == 0 {
		return nil
	}

	var parts []string
	flush := func(start, end int) {
		if start == end {
			parts = append(parts, fmt.Sprintf("%s%d", prefix, start))
		} else {
			parts = append(parts, fmt.Sprintf("%s%d-%s%d", prefix, start, prefix, end))
		}
	}

	start, end := regs[0], regs[0]
	for _, r := range regs[1:] {
		if r == end+1 {
			end = r
			continue
		}
		flush(start, end)
		start, end = r, r
	}
	flush(start, end)
	return parts
}

// indexReg decodes the index register and size of a brief extension word.
func indexReg(ext uint16) string {
	kind := "d"
	if (ext & 0x8000) != 0 {
		kind = "a"
	}
	size := "w"
	if (ext & 0x0800) != 0 {
		size = "l"
	}
	return fmt.Sprintf("%s%d.%s", kind, (ext>>12)&7, size)
}

// ea decodes the 6-bit effective address field, reading any extension
// words at offset pc. size selects the immediate width for mode 7/4.
func (d *decoder) ea(ea uint16, pc int, size uint16) (forest.Operand, int) {
	mode := (ea >> 3) & 7
	r := ea & 7

	switch mode {
	case 0:
		return dreg(r), 0
	case 1:
		return areg(r), 0
	case 2:
		return mem("(a%d)", r), 0
	case 3:
		return mem("(a%d)+", r), 0
	case 4:
		return mem("-(a%d)", r), 0
	case 5:
		w, ok := d.word(pc)
		if !ok {
			return truncated, 0
		}
		return mem("(%s,a%d)", formatDisp16(int16(w)), r), 2
	case 6:
		ext, ok := d.word(pc)
		if !ok {
			return truncated, 0
		}
		return mem("(%s,a%d,%s)", formatDisp8(int8(ext&0xFF)), r, indexReg(ext)), 2
	case 7:
		switch r {
		case 0:
			w, ok := d.word(pc)
			if !ok {
				return truncated, 0
			}
			// Absolute short addresses are sign-extended to 32 bits.
			addr := uint64(uint32(int32(int16(w))))
			return forest.Memory{Expr: fmt.Sprintf("$%x.w", w), Addr: addr, Absolute: true}, 2
		case 1:
			l, ok := d.long(pc)
			if !ok {
				return truncated, 0
			}
			return forest.Memory{Expr: fmt.Sprintf("$%x.l", l), Addr: uint64(l), Absolute: true}, 4
		case 2:
			w, ok := d.word(pc)
			if !ok {
				return truncated, 0
			}
			disp := int16(w)
			addr := uint64(uint32(int64(d.at(pc)) + int64(disp)))
			return forest.Memory{Expr: fmt.Sprintf("(%s,pc)", formatDisp16(disp)), Addr: addr, Absolute: true}, 2
		case 3:
			ext, ok := d.word(pc)
			if !ok {
				return truncated, 0
			}
			return mem("(%s,pc,%s)", formatDisp8(int8(ext&0xFF)), indexReg(ext)), 2
		case 4:
			return d.immediate(pc, size)
		}
	}
	return forest.Other{Tag: "ea", Text: fmt.Sprintf("(ea mode=%d reg=%d)", mode, r)}, 0
}

// immediate reads immediate data of the given size. Bytes and small words
// print in decimal, everything else in hex.
func (d *decoder) immediate(pc int, size uint16) (forest.Operand, int) {
	switch size {
	case 0:
		w, ok := d.word(pc)
		if !ok {
			return truncated, 0
		}
		return decimal(int64(int8(w)), 8), 2
	case 1:
		w, ok := d.word(pc)
		if !ok {
			return truncated, 0
		}
		if v := int16(w); v >= 0 && v <= 255 {
			return decimal(int64(v), 16), 2
		}
		return forest.Immediate{Value: int64(w), Width: 16, Base: 16}, 2
	case 2:
		l, ok := d.long(pc)
		if !ok {
			return truncated, 0
		}
		return forest.Immediate{Value: int64(l), Width: 32, Base: 16}, 4
	}
	return truncated, 0
}

func formatDisp8(v int8) string {
	if v >= -9 && v <= 9 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("$%x", uint8(v))
}

func formatDisp16(v int16) string {
	if v >= -9 && v <= 9 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("$%x", uint16(v))
}

// FormatOperands renders operands in assembler syntax, comma separated.
func FormatOperands(ops []forest.Operand) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		switch o := op.(type) {
		case forest.Register:
			parts[i] = o.Name
		case forest.Immediate:
			if o.Base == 10 {
				parts[i] = fmt.Sprintf("#%d", o.Value)
			} else {
				parts[i] = fmt.Sprintf("#$%x", uint64(o.Value))
			}
		case forest.Memory:
			parts[i] = o.Expr
		case forest.Other:
			parts[i] = o.Text
		}
	}
	return strings.Join(parts, ",")
}
