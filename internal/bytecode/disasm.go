package bytecode

import (
	"fmt"
	"io"
	"sort"
)

// Disassemble writes a readable assembly-style dump of img to w. This is a
// debugging aid only; its output format is not a contract.
func Disassemble(w io.Writer, img *Image) error {
	entries := make(map[int]string)
	for _, name := range img.Functions.Names() {
		meta, _ := img.Functions.Lookup(name)
		entries[meta.EntryPC] = name
	}

	pcs := make([]int, 0, len(entries))
	for pc := range entries {
		pcs = append(pcs, pc)
	}
	sort.Ints(pcs)
	nextEntry := make(map[int]int)
	for i, pc := range pcs {
		if i+1 < len(pcs) {
			nextEntry[pc] = pcs[i+1]
		} else {
			nextEntry[pc] = len(img.Instructions)
		}
	}

	for _, pc := range pcs {
		fmt.Fprintf(w, "func %s:\n", entries[pc])
		for ip := pc; ip < nextEntry[pc]; ip++ {
			if err := disassembleOne(w, img, ip); err != nil {
				return err
			}
		}
	}
	return nil
}

func disassembleOne(w io.Writer, img *Image, pc int) error {
	if pc < 0 || pc >= len(img.Instructions) {
		return fmt.Errorf("pc out of range: %d", pc)
	}
	inst := img.Instructions[pc]
	fmt.Fprintf(w, "%04d %-14s", pc, inst.Op.String())
	for _, operand := range inst.Operands {
		fmt.Fprintf(w, " %d", operand)
	}
	if comment := operandComment(img, inst); comment != "" {
		fmt.Fprintf(w, " ; %s", comment)
	}
	fmt.Fprintln(w)
	return nil
}

func operandComment(img *Image, inst Instruction) string {
	switch inst.Op {
	case PUSH:
		if len(inst.Operands) == 1 && inst.Operands[0] < img.Pool.Len() {
			return img.Pool.Get(inst.Operands[0]).String()
		}
	case STORE_LOCAL, LOAD_LOCAL:
		if len(inst.Operands) == 1 && inst.Operands[0] < img.Pool.Len() {
			return img.Pool.Get(inst.Operands[0]).Str
		}
	case CALL:
		if len(inst.Operands) == 1 && inst.Operands[0] < img.Pool.Len() {
			return img.Pool.Get(inst.Operands[0]).Str
		}
	case BRANCH:
		if len(inst.Operands) == 2 && inst.Operands[0] < img.Pool.Len() && inst.Operands[1] < img.Pool.Len() {
			return fmt.Sprintf("true->%s false->%s", img.Pool.Get(inst.Operands[0]).Str, img.Pool.Get(inst.Operands[1]).Str)
		}
	}
	return ""
}
