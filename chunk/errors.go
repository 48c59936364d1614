package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperand means an operand has no text fragment mapping.
	ErrUnsupportedOperand = errors.New("unsupported operand kind")
	// ErrEmptyContainer means a container has nothing to take a range from.
	ErrEmptyContainer = errors.New("empty container")
	// ErrMalformedForest means the input forest breaks a structural rule.
	ErrMalformedForest = errors.New("malformed forest")
)

// OperandError reports an operand the builder can't render.
type OperandError struct {
	Insn    string // Instruction mnemonic
	Index   int    // Position of the operand
	Kind    string // Operand tag
	Address uint64 // Address the instruction was assigned
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("instruction %s at %#x: operand %d: %s %q", e.Insn, e.Address, e.Index, ErrUnsupportedOperand, e.Kind)
}

func (e *OperandError) Unwrap() error { return ErrUnsupportedOperand }

// ContainerError reports a container chunk with no resolvable descendants.
type ContainerError struct {
	ID   ID
	Type Type
	Name string
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("%s chunk %d (%s): %s", e.Type, e.ID, e.Name, ErrEmptyContainer)
}

func (e *ContainerError) Unwrap() error { return ErrEmptyContainer }

// ForestError reports a structural problem in the input forest.
type ForestError struct {
	Block   string // Name of the enclosing block
	Message string
}

func (e *ForestError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("%s: block %s: %s", ErrMalformedForest, e.Block, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedForest, e.Message)
}

func (e *ForestError) Unwrap() error { return ErrMalformedForest }
