// Package render serializes a chunk tree as C++ source for the disassembly
// view's mock backends.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Urethramancer/chunkgen/chunk"
)

// Shape selects the generated class layout.
type Shape int

const (
	// Blob declares shared-pointer chunks in a MockBlob constructor.
	Blob Shape = iota
	// Node builds a ChunkNode tree for a MockBackend.
	Node
)

func (s Shape) String() string {
	if s == Node {
		return "node"
	}
	return "blob"
}

// ParseShape maps a configuration value to a Shape. The empty string
// means Blob.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "", "blob":
		return Blob, nil
	case "node":
		return Node, nil
	}
	return Blob, fmt.Errorf("unknown shape %q", s)
}

//go:embed templates/*.tmpl
var templates embed.FS

// Options controls rendering.
type Options struct {
	Shape Shape
	// Source is the input path. Its base name seeds the type name.
	Source string
	// Digest is the input fingerprint quoted in the header, if set.
	Digest string
	// Template is a custom template file replacing the built-in one.
	Template string
}

// indent is the statement indentation inside the generated constructor.
const indent = "    "

// Data is what templates receive.
type Data struct {
	Header string
	Class  string
	Window string
	Root   string

	Fragments string
	Chunks    string
	// Node shape only.
	Attachments string
	Entries     string
}

// Render produces the complete source text for t.
func Render(t *chunk.Tree, opts Options) ([]byte, error) {
	if len(t.Chunks) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}

	tmpl, err := load(opts)
	if err != nil {
		return nil, err
	}

	name := TypeName(opts.Source)
	d := Data{
		Header: header(opts),
		Class:  "Mock_" + name,
		Window: "Mock_" + name + "_Window",
		Root:   ChunkVar(t.Root()),
	}

	var frags []string
	for i := range t.Fragments {
		frags = append(frags, FragmentDecl(t, chunk.FragmentID(i), opts.Shape)...)
	}
	d.Fragments = block(frags)

	chunks := make([]string, len(t.Chunks))
	for i := range t.Chunks {
		chunks[i] = ChunkDecl(t, chunk.ID(i), opts.Shape)
	}
	d.Chunks = block(chunks)

	if opts.Shape == Node {
		d.Attachments = block(Attachments(t))
		d.Entries = block(Entries(t))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func load(opts Options) (*template.Template, error) {
	if opts.Template != "" {
		text, err := os.ReadFile(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		tmpl, err := template.New(filepath.Base(opts.Template)).Parse(string(text))
		if err != nil {
			return nil, fmt.Errorf("parse template: %w", err)
		}
		return tmpl, nil
	}

	name := opts.Shape.String() + ".tmpl"
	return template.New(name).ParseFS(templates, "templates/"+name)
}

func header(opts Options) string {
	h := "// Generated by chunkgen"
	if opts.Source != "" {
		h += " from " + filepath.Base(opts.Source)
	}
	if opts.Digest != "" {
		h += " (blake3 " + opts.Digest + ")"
	}
	return h + ". Do not edit."
}

func block(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(indent)
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// TypeName derives a C++ identifier from the base name of path: every
// character other than an ASCII letter or digit becomes '_'.
func TypeName(path string) string {
	base := filepath.Base(path)
	if path == "" || base == "." || base == string(filepath.Separator) {
		return "input"
	}

	b := []byte(base)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}
