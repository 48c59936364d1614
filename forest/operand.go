package forest

// Operand is one typed instruction argument. The concrete types are
// Register, Immediate, Memory and Other.
type Operand interface {
	// Kind is the operand's tag as used in forest dumps.
	Kind() string
}

// Register names a machine register (or a register list).
type Register struct {
	Name string
}

// Immediate is a literal number with its bit width and display base.
// A zero Base means the renderer's default.
type Immediate struct {
	Value int64
	Width int
	Base  int
}

// Memory is a memory reference. Addr is only meaningful when Absolute is
// set.
type Memory struct {
	Expr     string
	Addr     uint64
	Absolute bool
}

// Other carries an operand the analyzer could not classify.
type Other struct {
	Tag  string
	Text string
}

// Operand tags.
const (
	KindRegister  = "reg"
	KindImmediate = "imm"
	KindMemory    = "mem"
)

func (Register) Kind() string  { return KindRegister }
func (Immediate) Kind() string { return KindImmediate }
func (Memory) Kind() string    { return KindMemory }
func (o Other) Kind() string   { return o.Tag }
