package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Urethramancer/chunkgen/chunk"
	"github.com/Urethramancer/chunkgen/forest"
	"github.com/Urethramancer/chunkgen/render"
)

// movTree is one block holding "mov r0, 5" at [256, 260).
func movTree(t *testing.T) *chunk.Tree {
	t.Helper()
	f := &forest.Forest{Trees: []forest.Tree{{Root: &forest.Block{
		Name: "loc_0100",
		ParseResults: []forest.ParseResult{{
			Start: 256,
			End:   260,
			Insns: []forest.Instruction{{
				Name:   "mov",
				Length: 4,
				Args: []forest.Operand{
					forest.Register{Name: "r0"},
					forest.Immediate{Value: 5, Width: 8, Base: 10},
				},
			}},
		}},
	}}}}
	tr, err := chunk.Build(f, chunk.DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tr
}

func TestFragmentDecl(t *testing.T) {
	tr := movTree(t)
	tests := []struct {
		id   chunk.FragmentID
		want string
	}{
		{0, `auto var_trepr_1 = std::make_unique<Text>("File Chunk", false);`},
		{3, `auto var_trepr_4 = std::make_unique<Keyword>("mov", KeywordType::OPCODE, "");`},
		{4, `auto var_trepr_5 = std::make_unique<Blank>();`},
		{5, `auto var_trepr_6 = std::make_unique<Keyword>("r0", KeywordType::REGISTER, "");`},
		{6, `auto var_trepr_7 = std::make_unique<Text>(",", false);`},
		{8, `auto var_trepr_9 = std::make_unique<Number>(5, 8, 10);`},
		{9, `auto var_trepr_10 = std::make_unique<Sublist>(std::initializer_list<std::unique_ptr<TextRepr>>{` +
			`std::move(var_trepr_4), std::move(var_trepr_5), std::move(var_trepr_6), ` +
			`std::move(var_trepr_7), std::move(var_trepr_8), std::move(var_trepr_9)});`},
	}
	for _, tt := range tests {
		got := render.FragmentDecl(tr, tt.id, render.Blob)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("fragment %d:\ngot  %v\nwant %s", tt.id, got, tt.want)
		}
	}
}

func TestQuoteEscapes(t *testing.T) {
	f := &forest.Forest{Trees: []forest.Tree{{Root: &forest.Block{
		Name:         "\x01ab\"q\\\né",
		ParseResults: []forest.ParseResult{{Start: 0, End: 2, Insns: []forest.Instruction{{Name: "nop", Length: 2}}}},
	}}}}
	tr, err := chunk.Build(f, chunk.DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Octal escapes end after three digits, so the "ab" that follows stays
	// two characters.
	want := `auto var_trepr_2 = std::make_unique<Text>("\001ab\"q\\\n\303\251", false);`
	if got := render.FragmentDecl(tr, 1, render.Blob); len(got) != 1 || got[0] != want {
		t.Errorf("got  %v\nwant %s", got, want)
	}
}

func TestFragmentDeclUnknown(t *testing.T) {
	tr := movTree(t)
	tr.Fragments = append(tr.Fragments, nil)
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a fragment of unknown type")
		}
	}()
	render.FragmentDecl(tr, chunk.FragmentID(len(tr.Fragments)-1), render.Blob)
}

func TestListDeclNode(t *testing.T) {
	tr := movTree(t)
	got := render.FragmentDecl(tr, 9, render.Node)
	want := []string{
		"std::vector<std::unique_ptr<TextRepr>> var_trepr_10_items;",
		"var_trepr_10_items.push_back(std::move(var_trepr_4));",
		"var_trepr_10_items.push_back(std::move(var_trepr_5));",
		"var_trepr_10_items.push_back(std::move(var_trepr_6));",
		"var_trepr_10_items.push_back(std::move(var_trepr_7));",
		"var_trepr_10_items.push_back(std::move(var_trepr_8));",
		"var_trepr_10_items.push_back(std::move(var_trepr_9));",
		"auto var_trepr_10 = std::make_unique<Sublist>(std::move(var_trepr_10_items));",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestChunkDecl(t *testing.T) {
	tr := movTree(t)
	tests := []struct {
		id    chunk.ID
		shape render.Shape
		want  string
	}{
		{0, render.Blob, `auto var_chunk_1 = make_chunk("chk_id_1", "", "", "", 256, 260, "FILE", "File", std::move(var_trepr_1), "");`},
		{3, render.Blob, `auto var_chunk_4 = make_chunk("chk_id_4", "chk_id_3", "", "", 256, 260, "INSTRUCTION", "Instruction", std::move(var_trepr_10), "");`},
		{3, render.Node, `auto var_chunk_4 = std::make_unique<ChunkNode>(make_chunk("chk_id_4", "chk_id_3", "", "", 256, 260, "INSTRUCTION", ChunkType::INSTRUCTION, "Instruction", std::move(var_trepr_10), ""));`},
	}
	for _, tt := range tests {
		if got := render.ChunkDecl(tr, tt.id, tt.shape); got != tt.want {
			t.Errorf("chunk %d (%s):\ngot  %s\nwant %s", tt.id, tt.shape, got, tt.want)
		}
	}
}

func TestAttachmentsAndEntries(t *testing.T) {
	tr := movTree(t)

	attach := render.Attachments(tr)
	wantAttach := []string{
		"var_chunk_3->addChild(std::move(var_chunk_4));",
		"var_chunk_2->addChild(std::move(var_chunk_3));",
		"var_chunk_1->addChild(std::move(var_chunk_2));",
	}
	if strings.Join(attach, "\n") != strings.Join(wantAttach, "\n") {
		t.Errorf("attachments:\n%s", strings.Join(attach, "\n"))
	}

	entries := render.Entries(tr)
	if len(entries) != 7 {
		t.Fatalf("got %d entries, want 7", len(entries))
	}
	if entries[3] != `entries_.emplace_back(EntryStep::LEAF, "chk_id_4");` {
		t.Errorf("entry 3 = %s", entries[3])
	}
	if entries[6] != `entries_.emplace_back(EntryStep::EXIT, "chk_id_1");` {
		t.Errorf("entry 6 = %s", entries[6])
	}
}

func TestRenderBlob(t *testing.T) {
	out, err := render.Render(movTree(t), render.Options{Source: "dumps/prog.bin", Digest: "abc123"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"// Generated by chunkgen from prog.bin (blake3 abc123). Do not edit.",
		"class Mock_prog_bin : public MockBlob {",
		"class Mock_prog_bin_Window : public Window {",
		"    auto var_trepr_9 = std::make_unique<Number>(5, 8, 10);\n",
		"    root_ = var_chunk_1;",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if strings.Index(text, "var_trepr_10 =") > strings.Index(text, "var_chunk_1 =") {
		t.Error("fragments must be declared before chunks")
	}
}

func TestRenderNode(t *testing.T) {
	out, err := render.Render(movTree(t), render.Options{Shape: render.Node, Source: "prog"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"class Mock_prog : public MockBackend {",
		"std::unique_ptr<ChunkNode> gibRoot()",
		"ChunkType::FILE",
		"var_chunk_1->addChild(std::move(var_chunk_2));",
		"root_ = std::move(var_chunk_1);",
		`entries_.emplace_back(EntryStep::ENTER, "chk_id_1");`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if strings.Index(text, "addChild") < strings.LastIndex(text, "make_unique<ChunkNode>(make_chunk(") {
		t.Error("attachments must follow every chunk declaration")
	}
}

func TestRenderIdempotent(t *testing.T) {
	for _, shape := range []render.Shape{render.Blob, render.Node} {
		opts := render.Options{Shape: shape, Source: "prog.bin"}
		a, err := render.Render(movTree(t), opts)
		if err != nil {
			t.Fatal(err)
		}
		b, err := render.Render(movTree(t), opts)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s: two builds rendered differently", shape)
		}
	}
}

func TestCustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.tmpl")
	if err := os.WriteFile(path, []byte("{{.Class}}|{{.Window}}|{{.Root}}"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := render.Render(movTree(t), render.Options{Source: "x.o", Template: path})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := string(out); got != "Mock_x_o|Mock_x_o_Window|var_chunk_1" {
		t.Errorf("got %q", got)
	}

	bad := filepath.Join(t.TempDir(), "bad.tmpl")
	if err := os.WriteFile(bad, []byte("{{.Class"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := render.Render(movTree(t), render.Options{Template: bad}); err == nil {
		t.Error("expected a parse error")
	}
}

func TestRenderEmptyTree(t *testing.T) {
	if _, err := render.Render(&chunk.Tree{}, render.Options{}); err == nil {
		t.Error("expected an error for an empty tree")
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"prog.bin", "prog_bin"},
		{"/a/b/my-file.v2.o", "my_file_v2_o"},
		{"héllo", "h__llo"},
		{"", "input"},
	}
	for _, tt := range tests {
		if got := render.TypeName(tt.in); got != tt.want {
			t.Errorf("TypeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseShape(t *testing.T) {
	if s, err := render.ParseShape("NODE"); err != nil || s != render.Node {
		t.Errorf("ParseShape(NODE) = %v, %v", s, err)
	}
	if s, err := render.ParseShape(""); err != nil || s != render.Blob {
		t.Errorf("ParseShape(\"\") = %v, %v", s, err)
	}
	if _, err := render.ParseShape("tree"); err == nil {
		t.Error("expected an error for an unknown shape")
	}
}
