package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/emberlang/ember/internal/bytecode"
	"github.com/emberlang/ember/internal/emitter"
	"github.com/emberlang/ember/internal/lexer"
	"github.com/emberlang/ember/internal/parser"
	"github.com/emberlang/ember/internal/vm"
)

// defaultInstructionLimit bounds a CLI run without needing real preemption:
// a runaway program (an accidental infinite recursion, for instance) fails
// with a named diagnostic instead of hanging the process.
const defaultInstructionLimit = 10_000_000

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin))
}

func run(args []string, stdout, stderr io.Writer, stdin io.Reader) int {
	fs := flag.NewFlagSet("ember", flag.ContinueOnError)
	fs.SetOutput(stderr)
	disasm := fs.Bool("disasm", false, "print the disassembled program image to stderr before running")
	instLimit := fs.Int("inst-limit", defaultInstructionLimit, "maximum instructions a run may dispatch before it is terminated (0 for unlimited)")
	if err := fs.Parse(args); err != nil {
		return 0
	}

	rest := fs.Args()
	if len(rest) > 1 {
		fmt.Fprintln(stderr, "usage: ember [-disasm] [script]")
		return 0
	}

	var src []byte
	var err error
	if len(rest) == 1 {
		src, err = os.ReadFile(rest[0])
	} else {
		src, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ember: %v\n", err)
		return 1
	}

	p := parser.New(lexer.New(string(src)))
	prog := p.ParseProgram()
	if p.Err() != nil {
		fmt.Fprintf(stderr, "ember: %v\n", p.Err())
		return 1
	}

	img, err := emitter.Emit(prog)
	if err != nil {
		fmt.Fprintf(stderr, "ember: %v\n", err)
		return 1
	}

	if *disasm {
		if err := bytecode.Disassemble(stderr, img); err != nil {
			fmt.Fprintf(stderr, "ember: disasm: %v\n", err)
		}
	}

	machine := vm.New(img, func(line string) { fmt.Fprintln(stdout, line) })
	machine.SetInstructionLimit(*instLimit)
	if err := machine.Run(); err != nil {
		fmt.Fprintf(stderr, "ember: %v\n", err)
		return 2
	}
	return 0
}
