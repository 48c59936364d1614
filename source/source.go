// Package source loads an input file into a forest. Inputs are JSON forest
// dumps or raw machine code for one of the built-in analyzers, optionally
// xz-compressed.
package source

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/Urethramancer/chunkgen/disassembler"
	"github.com/Urethramancer/chunkgen/forest"
	"github.com/Urethramancer/chunkgen/x86"
)

// ErrUnknownFormat is returned when the format can't be detected.
var ErrUnknownFormat = errors.New("unknown input format")

// ISA selects how the input bytes are interpreted.
type ISA string

const (
	Auto   ISA = "auto"
	Forest ISA = "forest"
	M68K   ISA = "m68k"
	X86_16 ISA = "x86-16"
	X86_32 ISA = "x86-32"
	X86_64 ISA = "x86-64"
)

// ISAs lists every accepted value.
var ISAs = []ISA{Auto, Forest, M68K, X86_16, X86_32, X86_64}

// ParseISA validates s. The empty string means Auto.
func ParseISA(s string) (ISA, error) {
	if s == "" {
		return Auto, nil
	}
	for _, isa := range ISAs {
		if string(isa) == strings.ToLower(s) {
			return isa, nil
		}
	}
	return "", fmt.Errorf("unknown ISA %q", s)
}

// xzMagic starts every xz stream.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// Input is a loaded input file.
type Input struct {
	Path   string
	Forest *forest.Forest
	// Digest is the hex BLAKE3 hash of the file as stored.
	Digest string
	// Size is the payload size after decompression.
	Size       int
	Compressed bool
}

// Load reads path and analyzes it. base is the load address for raw code.
func Load(path string, isa ISA, base uint64) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(path, data, isa, base)
}

// Parse analyzes data as if read from path. The path only matters for the
// .xz suffix.
func Parse(path string, data []byte, isa ISA, base uint64) (*Input, error) {
	sum := blake3.Sum256(data)
	in := &Input{Path: path, Digest: hex.EncodeToString(sum[:])}

	payload := data
	if strings.HasSuffix(path, ".xz") || bytes.HasPrefix(data, xzMagic) {
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		payload, err = io.ReadAll(xr)
		if err != nil {
			return nil, fmt.Errorf("decompress input: %w", err)
		}
		in.Compressed = true
	}
	in.Size = len(payload)

	if isa == Auto {
		if !bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
			return nil, fmt.Errorf("%w: %s is not a forest dump, pick an ISA for raw code", ErrUnknownFormat, path)
		}
		isa = Forest
	}

	var err error
	switch isa {
	case Forest:
		in.Forest, err = forest.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("decode forest: %w", err)
		}
	case M68K:
		in.Forest = disassembler.Analyze(payload, base)
	case X86_16, X86_32, X86_64:
		in.Forest, err = x86.Analyze(payload, isa.bits(), base)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: ISA %q", ErrUnknownFormat, isa)
	}
	return in, nil
}

func (isa ISA) bits() int {
	switch isa {
	case X86_16:
		return 16
	case X86_32:
		return 32
	}
	return 64
}
