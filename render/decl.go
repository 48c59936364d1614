package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Urethramancer/chunkgen/chunk"
)

// FragmentVar is the variable holding fragment id.
func FragmentVar(id chunk.FragmentID) string {
	return fmt.Sprintf("var_trepr_%d", id+1)
}

// ChunkVar is the variable holding chunk id.
func ChunkVar(id chunk.ID) string {
	return fmt.Sprintf("var_chunk_%d", id+1)
}

// ChunkID is the generated identifier of chunk id.
func ChunkID(id chunk.ID) string {
	return fmt.Sprintf("chk_id_%d", id+1)
}

// quote produces a C string literal of the bytes of s. Bytes outside
// printable ASCII become three-digit octal escapes, which unlike \x stop
// after a fixed number of digits.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, "\\%03o", c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func boolean(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func move(v string) string {
	return "std::move(" + v + ")"
}

// FragmentDecl declares fragment id. Lists come out as one statement in the
// blob shape and as a vector filled element by element in the node shape.
func FragmentDecl(t *chunk.Tree, id chunk.FragmentID, shape Shape) []string {
	v := FragmentVar(id)
	var class, args string
	switch f := t.Fragment(id).(type) {
	case chunk.Text:
		class = "Text"
		args = quote(f.Value) + ", " + boolean(f.Highlight)
	case chunk.Keyword:
		class = "Keyword"
		args = fmt.Sprintf("%s, KeywordType::%s, %s", quote(f.Text), f.Type, quote(f.Link))
	case chunk.Blank:
		class = "Blank"
	case chunk.Number:
		base := f.Base
		if base == 0 {
			base = chunk.DefaultBase
		}
		class = "Number"
		args = fmt.Sprintf("%d, %d, %d", f.Value, f.Width, base)
	case chunk.List:
		if shape == Node {
			return listDecl(v, f)
		}
		items := make([]string, len(f.Items))
		for i, item := range f.Items {
			items[i] = move(FragmentVar(item))
		}
		class = "Sublist"
		args = "std::initializer_list<std::unique_ptr<TextRepr>>{" + strings.Join(items, ", ") + "}"
	default:
		panic(fmt.Sprintf("render: unexpected fragment %T", f))
	}
	return []string{fmt.Sprintf("auto %s = std::make_unique<%s>(%s);", v, class, args)}
}

func listDecl(v string, l chunk.List) []string {
	items := v + "_items"
	lines := []string{fmt.Sprintf("std::vector<std::unique_ptr<TextRepr>> %s;", items)}
	for _, item := range l.Items {
		lines = append(lines, fmt.Sprintf("%s.push_back(%s);", items, move(FragmentVar(item))))
	}
	return append(lines, fmt.Sprintf("auto %s = std::make_unique<Sublist>(%s);", v, move(items)))
}

// ChunkDecl declares chunk id. Addresses print in decimal.
func ChunkDecl(t *chunk.Tree, id chunk.ID, shape Shape) string {
	c := t.Chunk(id)
	parent := ""
	if c.Parent != chunk.NoParent {
		parent = ChunkID(c.Parent)
	}

	args := []string{
		quote(ChunkID(id)),
		quote(parent),
		quote(c.PosBegin),
		quote(c.PosEnd),
		strconv.FormatUint(c.Addr.Start, 10),
		strconv.FormatUint(c.Addr.End, 10),
		quote(c.Type.String()),
	}
	if shape == Node {
		args = append(args, "ChunkType::"+c.Type.String())
	}
	args = append(args,
		quote(c.Name),
		move(FragmentVar(c.Text)),
		quote(c.Comment),
	)

	call := "make_chunk(" + strings.Join(args, ", ") + ")"
	if shape == Node {
		call = "std::make_unique<ChunkNode>(" + call + ")"
	}
	return fmt.Sprintf("auto %s = %s;", ChunkVar(id), call)
}

// Attachments hands every non-root chunk to its parent, children before
// parents, so no chunk is moved while it still has children to receive.
func Attachments(t *chunk.Tree) []string {
	var lines []string
	t.PostOrder(func(id chunk.ID) {
		c := t.Chunk(id)
		if c.Parent == chunk.NoParent {
			return
		}
		lines = append(lines, fmt.Sprintf("%s->addChild(%s);", ChunkVar(c.Parent), move(ChunkVar(id))))
	})
	return lines
}

// Entries lists the flattened enter/exit/leaf traversal.
func Entries(t *chunk.Tree) []string {
	var lines []string
	t.Walk(func(e chunk.Event) {
		lines = append(lines, fmt.Sprintf("entries_.emplace_back(EntryStep::%s, %s);", e.Step, quote(ChunkID(e.ID))))
	})
	return lines
}
