package source_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/Urethramancer/chunkgen/source"
)

const dump = `{"trees": [{"root": {"kind": "block", "name": "loc_0000", "parse_results": [
  {"start": 0, "end": 2, "insns": [{"name": "nop", "length": 2}]}
]}}]}`

// m68k: nop ; rts
var code = []byte{0x4E, 0x71, 0x4E, 0x75}

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadForest(t *testing.T) {
	path := write(t, "dump.json", []byte(dump))
	in, err := source.Load(path, source.Auto, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(in.Forest.Trees) != 1 || in.Forest.Trees[0].Root.Name != "loc_0000" {
		t.Errorf("unexpected forest: %+v", in.Forest)
	}

	sum := blake3.Sum256([]byte(dump))
	if in.Digest != hex.EncodeToString(sum[:]) {
		t.Errorf("digest = %s", in.Digest)
	}
	if in.Size != len(dump) || in.Compressed {
		t.Errorf("size = %d compressed = %v", in.Size, in.Compressed)
	}
}

func TestLoadCompressed(t *testing.T) {
	packed := compress(t, []byte(dump))
	for _, name := range []string{"dump.json.xz", "dump.bin"} {
		t.Run(name, func(t *testing.T) {
			in, err := source.Load(write(t, name, packed), source.Auto, 0)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !in.Compressed || in.Size != len(dump) {
				t.Errorf("compressed = %v size = %d", in.Compressed, in.Size)
			}
			sum := blake3.Sum256(packed)
			if in.Digest != hex.EncodeToString(sum[:]) {
				t.Errorf("digest should cover the stored bytes")
			}
		})
	}
}

func TestLoadM68K(t *testing.T) {
	in, err := source.Load(write(t, "prog.bin", code), source.M68K, 0x400)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(in.Forest.Trees) != 1 || in.Forest.Trees[0].Root.Name != "sub_0400" {
		t.Fatalf("unexpected forest: %+v", in.Forest.Trees)
	}
}

func TestLoadX86(t *testing.T) {
	// nop ; ret
	in, err := source.Load(write(t, "prog.com", []byte{0x90, 0xC3}), source.X86_16, 0x100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	blk := in.Forest.Trees[0].Root.Children[0]
	if blk.Name != "loc_0100" || len(blk.ParseResults) != 2 {
		t.Errorf("block = %s with %d parse results", blk.Name, len(blk.ParseResults))
	}
}

func TestAutoRejectsRawCode(t *testing.T) {
	_, err := source.Load(write(t, "prog.bin", code), source.Auto, 0)
	if !errors.Is(err, source.ErrUnknownFormat) {
		t.Errorf("got %v, want ErrUnknownFormat", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := source.Load(filepath.Join(t.TempDir(), "nope"), source.Auto, 0); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseISA(t *testing.T) {
	tests := []struct {
		in   string
		want source.ISA
		ok   bool
	}{
		{"", source.Auto, true},
		{"forest", source.Forest, true},
		{"M68K", source.M68K, true},
		{"x86-32", source.X86_32, true},
		{"z80", "", false},
	}
	for _, tt := range tests {
		got, err := source.ParseISA(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseISA(%q) = %q, %v", tt.in, got, err)
		}
	}
}
