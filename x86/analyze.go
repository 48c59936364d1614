// Package x86 decodes 16, 32 and 64-bit x86 code with x86asm and recovers
// its functions and basic blocks.
package x86

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"github.com/Urethramancer/chunkgen/flow"
	"github.com/Urethramancer/chunkgen/forest"
)

// ErrMode is returned for processor modes other than 16, 32 and 64.
var ErrMode = errors.New("unsupported x86 mode")

// BadName is the mnemonic recorded for bytes that don't decode.
const BadName = "(bad)"

// Analyze traces code loaded at base and builds the forest of everything
// reachable from base.
func Analyze(code []byte, mode int, base uint64) (*forest.Forest, error) {
	sites, err := Trace(code, mode, base)
	if err != nil {
		return nil, err
	}
	return flow.Build(sites, []uint64{base}), nil
}

// Trace decodes instructions by following control flow from base. x86
// instructions vary in length, so a linear sweep would fall out of step
// after the first embedded data; only reachable addresses are decoded.
func Trace(code []byte, mode int, base uint64) ([]flow.Site, error) {
	switch mode {
	case 16, 32, 64:
	default:
		return nil, fmt.Errorf("%w: %d", ErrMode, mode)
	}

	var sites []flow.Site
	seen := make(map[uint64]bool)
	work := []uint64{base}
	for len(work) > 0 {
		addr := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[addr] || addr < base || addr-base >= uint64(len(code)) {
			continue
		}
		seen[addr] = true

		s := decodeAt(code[addr-base:], mode, addr)
		sites = append(sites, s)
		switch s.Kind {
		case flow.Next, flow.Branch, flow.Call:
			work = append(work, addr+s.Insn.Length)
		}
		if s.HasTarget {
			work = append(work, s.Target)
		}
	}

	sort.Slice(sites, func(i, k int) bool { return sites[i].Addr < sites[k].Addr })
	return sites, nil
}

func decodeAt(src []byte, mode int, addr uint64) flow.Site {
	inst, err := x86asm.Decode(src, mode)
	if err != nil {
		return flow.Site{
			Addr: addr,
			Insn: forest.Instruction{Name: BadName, Length: 1},
			Kind: flow.Stop,
		}
	}

	next := addr + uint64(inst.Len)
	s := flow.Site{
		Addr: addr,
		Insn: forest.Instruction{
			Name:   strings.ToLower(inst.Op.String()),
			Length: uint64(inst.Len),
		},
		Kind: classify(inst.Op),
	}
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		op := operand(arg, inst, next)
		s.Insn.Args = append(s.Insn.Args, op)
		if rel, ok := arg.(x86asm.Rel); ok && s.Kind != flow.Next {
			s.Target = wrap(uint64(int64(next)+int64(rel)), mode)
			s.HasTarget = true
		}
	}
	return s
}

// operand converts one x86asm argument. Relative targets become absolute
// addresses; RIP-relative and displacement-only memory references record
// the address they touch.
func operand(arg x86asm.Arg, inst x86asm.Inst, next uint64) forest.Operand {
	switch a := arg.(type) {
	case x86asm.Reg:
		return forest.Register{Name: strings.ToLower(a.String())}
	case x86asm.Imm:
		return forest.Immediate{Value: int64(a), Width: inst.DataSize, Base: 16}
	case x86asm.Rel:
		target := wrap(uint64(int64(next)+int64(a)), inst.Mode)
		return forest.Immediate{Value: int64(target), Width: inst.Mode, Base: 16}
	case x86asm.Mem:
		m := forest.Memory{Expr: strings.ToLower(a.String())}
		switch {
		case a.Base == x86asm.RIP || a.Base == x86asm.EIP:
			m.Addr = wrap(uint64(int64(next)+a.Disp), inst.Mode)
			m.Absolute = true
		case a.Base == 0 && a.Scale == 0:
			m.Addr = wrap(uint64(a.Disp), inst.AddrSize)
			m.Absolute = true
		}
		return m
	}
	return forest.Other{Tag: "x86", Text: arg.String()}
}

// wrap truncates an address to the processor's address width.
func wrap(addr uint64, bits int) uint64 {
	if bits <= 0 || bits >= 64 {
		return addr
	}
	return addr & (1<<uint(bits) - 1)
}

func classify(op x86asm.Op) flow.Kind {
	switch op {
	case x86asm.JMP, x86asm.LJMP:
		return flow.Jump
	case x86asm.JA, x86asm.JAE, x86asm.JB, x86asm.JBE, x86asm.JE, x86asm.JNE,
		x86asm.JG, x86asm.JGE, x86asm.JL, x86asm.JLE,
		x86asm.JO, x86asm.JNO, x86asm.JP, x86asm.JNP, x86asm.JS, x86asm.JNS,
		x86asm.JCXZ, x86asm.JECXZ, x86asm.JRCXZ,
		x86asm.LOOP, x86asm.LOOPE, x86asm.LOOPNE:
		return flow.Branch
	case x86asm.CALL, x86asm.LCALL:
		return flow.Call
	case x86asm.RET, x86asm.LRET, x86asm.IRET, x86asm.IRETD, x86asm.IRETQ,
		x86asm.HLT, x86asm.UD0, x86asm.UD1, x86asm.UD2:
		return flow.Stop
	}
	return flow.Next
}
