package forest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNoRoot is returned when a dumped tree has no root block.
var ErrNoRoot = errors.New("tree has no root block")

type jsonOperand struct {
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Value    int64  `json:"value,omitempty"`
	Width    int    `json:"width,omitempty"`
	Base     int    `json:"base,omitempty"`
	Expr     string `json:"expr,omitempty"`
	Addr     uint64 `json:"addr,omitempty"`
	Absolute bool   `json:"absolute,omitempty"`
	Text     string `json:"text,omitempty"`
}

type jsonInstruction struct {
	Name   string        `json:"name"`
	Length uint64        `json:"length,omitempty"`
	Args   []jsonOperand `json:"args,omitempty"`
}

// MarshalText implements encoding.TextMarshaler.
func (k BlockKind) MarshalText() ([]byte, error) {
	switch k {
	case Basic:
		return []byte("block"), nil
	case Forward:
		return []byte("forward"), nil
	}
	return nil, fmt.Errorf("unknown block kind %d", int(k))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BlockKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "block", "":
		*k = Basic
	case "forward", "end":
		*k = Forward
	default:
		return fmt.Errorf("unknown block kind %q", b)
	}
	return nil
}

// MarshalJSON writes the instruction with tagged operands.
func (in Instruction) MarshalJSON() ([]byte, error) {
	ji := jsonInstruction{Name: in.Name, Length: in.Length}
	for _, a := range in.Args {
		var jo jsonOperand
		switch v := a.(type) {
		case Register:
			jo = jsonOperand{Kind: KindRegister, Name: v.Name}
		case Immediate:
			jo = jsonOperand{Kind: KindImmediate, Value: v.Value, Width: v.Width, Base: v.Base}
		case Memory:
			jo = jsonOperand{Kind: KindMemory, Expr: v.Expr, Addr: v.Addr, Absolute: v.Absolute}
		case Other:
			jo = jsonOperand{Kind: v.Tag, Text: v.Text}
		default:
			return nil, fmt.Errorf("instruction %s: cannot encode operand %T", in.Name, a)
		}
		ji.Args = append(ji.Args, jo)
	}
	return json.Marshal(ji)
}

// UnmarshalJSON reads tagged operands. Unknown tags become Other so that the
// generator, not the loader, decides what it can render.
func (in *Instruction) UnmarshalJSON(b []byte) error {
	var ji jsonInstruction
	if err := json.Unmarshal(b, &ji); err != nil {
		return err
	}

	in.Name = ji.Name
	in.Length = ji.Length
	in.Args = nil
	for _, jo := range ji.Args {
		switch jo.Kind {
		case KindRegister:
			in.Args = append(in.Args, Register{Name: jo.Name})
		case KindImmediate:
			in.Args = append(in.Args, Immediate{Value: jo.Value, Width: jo.Width, Base: jo.Base})
		case KindMemory:
			in.Args = append(in.Args, Memory{Expr: jo.Expr, Addr: jo.Addr, Absolute: jo.Absolute})
		default:
			in.Args = append(in.Args, Other{Tag: jo.Kind, Text: jo.Text})
		}
	}
	return nil
}

// Decode reads a JSON forest dump.
func Decode(r io.Reader) (*Forest, error) {
	var f Forest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}

	for i, t := range f.Trees {
		if t.Root == nil {
			return nil, fmt.Errorf("tree %d: %w", i, ErrNoRoot)
		}
	}
	return &f, nil
}

// Encode writes f as an indented JSON dump.
func Encode(w io.Writer, f *Forest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}
