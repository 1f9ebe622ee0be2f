package bytecode

import "fmt"

// Image is the complete output of the emitter: a flat instruction stream,
// one shared value pool, and a bijective function/label registry. There
// is no per-function chunking; every function's body lives inline in the
// shared Instructions slice at its registered entry_pc.
type Image struct {
	Instructions []Instruction
	Pool         *Pool
	Functions    *Registry
	labelCounter int
}

// NewImage creates an empty image ready for emission.
func NewImage() *Image {
	return &Image{
		Pool:      NewPool(),
		Functions: NewRegistry(),
	}
}

// Emit appends an instruction and returns its pc.
func (img *Image) Emit(op OpCode, operands ...int) int {
	pc := len(img.Instructions)
	img.Instructions = append(img.Instructions, Instruction{Op: op, Operands: operands})
	return pc
}

// Len returns the number of instructions emitted so far; equivalently,
// the pc the next Emit call will use.
func (img *Image) Len() int {
	return len(img.Instructions)
}

// NextLabel allocates a fresh, never-reused label name.
func (img *Image) NextLabel() string {
	img.labelCounter++
	return fmt.Sprintf("@L%d", img.labelCounter)
}

// RegisterLabel registers name as a zero-parameter function pointing at
// the instruction about to be emitted (the current pc).
func (img *Image) RegisterLabel(name string) error {
	return img.Functions.Register(FunctionMetadata{Name: name, EntryPC: img.Len()})
}
