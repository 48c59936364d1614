// Package flow turns a linear stream of decoded instructions into a forest:
// one tree per function entry, one block per basic block.
package flow

import (
	"fmt"
	"sort"

	"github.com/Urethramancer/chunkgen/forest"
)

// Kind classifies how control leaves an instruction.
type Kind int

const (
	// Next falls through to the following instruction.
	Next Kind = iota
	// Jump transfers control unconditionally.
	Jump
	// Branch transfers control conditionally and may fall through.
	Branch
	// Call enters a subroutine and returns to the following instruction.
	Call
	// Stop ends the path (return, halt, indirect jump).
	Stop
)

// Site is one decoded instruction at an address. Insn.Length must be the
// encoded size.
type Site struct {
	Addr      uint64
	Insn      forest.Instruction
	Kind      Kind
	Target    uint64
	HasTarget bool
}

type function struct {
	entry uint64
	addrs []uint64
}

// Build walks the sites reachable from each entry and partitions them into
// basic blocks. Call targets become functions of their own, each rooted at
// a forwarding block named after its entry. A site is owned by the first
// function that reaches it. Sites nothing reaches are
// left out.
func Build(sites []Site, entries []uint64) *forest.Forest {
	index := make(map[uint64]int, len(sites))
	for i, s := range sites {
		index[s.Addr] = i
	}

	owned := make(map[uint64]bool)
	leaders := make(map[uint64]bool)
	var funcs []*function

	q := newQueue()
	for _, e := range entries {
		q.push(e)
	}

	for {
		entry, ok := q.pop()
		if !ok {
			break
		}
		if _, exists := index[entry]; !exists || owned[entry] {
			leaders[entry] = true
			continue
		}

		fn := &function{entry: entry}
		leaders[entry] = true
		work := newQueue()
		work.push(entry)
		for {
			addr, ok := work.pop()
			if !ok {
				break
			}
			i, exists := index[addr]
			if !exists || owned[addr] {
				continue
			}
			owned[addr] = true
			fn.addrs = append(fn.addrs, addr)

			s := sites[i]
			if s.Insn.Length == 0 {
				continue
			}
			next := addr + s.Insn.Length
			switch s.Kind {
			case Next:
				work.push(next)
			case Call:
				work.push(next)
				if s.HasTarget {
					q.push(s.Target)
				}
			case Branch:
				work.push(next)
				leaders[next] = true
				if s.HasTarget {
					work.push(s.Target)
					leaders[s.Target] = true
				}
			case Jump:
				leaders[next] = true
				if s.HasTarget {
					work.push(s.Target)
					leaders[s.Target] = true
				}
			case Stop:
				leaders[next] = true
			}
		}
		funcs = append(funcs, fn)
	}

	sort.Slice(funcs, func(i, k int) bool { return funcs[i].entry < funcs[k].entry })

	f := &forest.Forest{}
	for _, fn := range funcs {
		root := &forest.Block{
			Kind:    forest.Forward,
			Name:    fmt.Sprintf("sub_%04X", fn.entry),
			Comment: "function",
		}
		root.Children = blocks(fn.addrs, sites, index, leaders)
		f.Trees = append(f.Trees, forest.Tree{Root: root})
	}
	return f
}

// blocks splits a function's sites at leaders and at gaps in the address
// stream.
func blocks(addrs []uint64, sites []Site, index map[uint64]int, leaders map[uint64]bool) []*forest.Block {
	sort.Slice(addrs, func(i, k int) bool { return addrs[i] < addrs[k] })

	var out []*forest.Block
	var cur *forest.Block
	var expect uint64
	for _, addr := range addrs {
		s := sites[index[addr]]
		if cur == nil || leaders[addr] || addr != expect {
			cur = &forest.Block{Kind: forest.Basic, Name: fmt.Sprintf("loc_%04X", addr)}
			out = append(out, cur)
		}
		cur.ParseResults = append(cur.ParseResults, forest.ParseResult{
			Start: addr,
			End:   addr + s.Insn.Length,
			Insns: []forest.Instruction{s.Insn},
		})
		expect = addr + s.Insn.Length
	}
	return out
}
