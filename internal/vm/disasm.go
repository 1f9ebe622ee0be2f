package vm

import (
	"io"

	"github.com/emberlang/ember/internal/bytecode"
)

// Disassemble writes a readable dump of the VM's bound image to w. Debug
// aid only, not part of any contract.
func (vm *VM) Disassemble(w io.Writer) error {
	return bytecode.Disassemble(w, vm.img)
}
