package chunk

// FragmentID indexes a fragment in its tree. IDs follow creation order.
type FragmentID int

// Fragment is one renderable piece of text. The concrete types are Text,
// Keyword, Blank, Number and List.
type Fragment interface {
	fragment()
}

// KeywordType is the styling class of a keyword.
type KeywordType int

const (
	Opcode KeywordType = iota
	Modifier
	Label
	RegisterName
)

func (k KeywordType) String() string {
	switch k {
	case Opcode:
		return "OPCODE"
	case Modifier:
		return "MODIFIER"
	case Label:
		return "LABEL"
	case RegisterName:
		return "REGISTER"
	}
	return "UNKNOWN"
}

// Text is plain text, optionally highlighted.
type Text struct {
	Value     string
	Highlight bool
}

// Keyword is styled text with an optional cross-reference link.
type Keyword struct {
	Text string
	Type KeywordType
	Link string
}

// Blank is a separator.
type Blank struct{}

// Number is a numeric literal.
type Number struct {
	Value int64
	Width int
	Base  int
}

// List renders its items concatenated. Items always refer to fragments
// created before the list.
type List struct {
	Items []FragmentID
}

func (Text) fragment()    {}
func (Keyword) fragment() {}
func (Blank) fragment()   {}
func (Number) fragment()  {}
func (List) fragment()    {}

// DefaultBase is used for numbers without an explicit base.
const DefaultBase = 16
