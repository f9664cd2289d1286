// Package repl implements the interactive line-accumulating session of
// spec.md §6/§10: lines are appended to a growing program body, each
// accepted line re-runs the full text->assembly pipeline, and a small
// command set (stack/res/program/undo/help) inspects the result. The
// command loop itself is a bufio.Scanner reading lines and switching on
// the first whitespace-separated token.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/papyruslang/papyrus/internal/analyzer"
	"github.com/papyruslang/papyrus/internal/ast"
	"github.com/papyruslang/papyrus/internal/backend"
	"github.com/papyruslang/papyrus/internal/lexer"
	"github.com/papyruslang/papyrus/internal/optimizer"
	"github.com/papyruslang/papyrus/internal/oracle"
	"github.com/papyruslang/papyrus/internal/parser"
	"github.com/papyruslang/papyrus/internal/prettyprinter"
	"github.com/papyruslang/papyrus/internal/replstore"
	"github.com/papyruslang/papyrus/internal/replterm"
	"gopkg.in/yaml.v3"
)

// FuncSig is one entry of a --functions-file YAML document: a procedure
// signature the session may call without also supplying its body.
type FuncSig struct {
	Name    string `yaml:"name"`
	Params  int    `yaml:"params"`
	Returns int    `yaml:"returns"`
}

// LoadFunctionsFile parses a --functions-file into a backend.ProcTable
// suitable for CompileWithExtern.
func LoadFunctionsFile(path string) (backend.ProcTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("repl: reading functions file %s: %w", path, err)
	}
	var sigs []FuncSig
	if err := yaml.Unmarshal(data, &sigs); err != nil {
		return nil, fmt.Errorf("repl: parsing functions file %s: %w", path, err)
	}
	table := make(backend.ProcTable, len(sigs))
	for _, s := range sigs {
		table[s.Name] = backend.ProcShape{ParamCells: s.Params, ReturnCells: s.Returns}
	}
	return table, nil
}

// Session holds one REPL run's accumulated state.
type Session struct {
	Extern       backend.ProcTable // from --functions-file, may be nil
	Executor     oracle.Executor   // from E2, may be nil ("res" reports unavailable)
	Store        *replstore.Store  // history persistence, may be nil (in-memory only)
	HistoryPath  string            // text export path on exit (spec.md §6 history.txt)
	InitialStack []uint64          // from --stack, seeds every "res" run

	in     io.Reader
	out    io.Writer
	color  replterm.Colorizer
	lines  []string // accepted source lines, in order
	lastOut string   // most recent compiled assembly, for "program"
}

// New creates a Session reading from stdin and writing to stdout.
func New() *Session {
	return &Session{in: os.Stdin, out: os.Stdout, color: replterm.NewColorizer(os.Stdout)}
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// Run drives the command loop until EOF, then exports history to
// HistoryPath if set.
func (s *Session) Run() {
	scanner := bufio.NewScanner(s.in)
	isTTY := false
	if f, ok := s.in.(*os.File); ok {
		isTTY = replterm.IsTTY(f)
	}

	for {
		if isTTY {
			s.printf("%s", s.color.Prompt("papyrus> "))
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.handleLine(line)
	}
	s.exportHistory()
}

func (s *Session) handleLine(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "help", "h":
		s.printHelp()
	case "program", "p":
		s.printf("%s\n", s.lastOut)
	case "stack":
		s.printStack()
	case "res":
		s.runWithOracle()
	case "undo":
		s.undo()
	default:
		s.accept(line)
	}
}

func (s *Session) printHelp() {
	s.printf("commands:\n")
	s.printf("  <yul statement>   accumulate a statement and recompile\n")
	s.printf("  program, p        print the current compiled assembly\n")
	s.printf("  stack             print a debug dump of the accumulated AST\n")
	s.printf("  res               execute the current assembly via the configured executor\n")
	s.printf("  undo              drop the last accepted statement\n")
	s.printf("  help, h           print this message\n")
}

// accept tries compiling lines+line as a full program; on success the
// line is kept and both the assembly and history are updated, on failure
// the session is left unchanged and the error is reported.
func (s *Session) accept(line string) {
	candidate := append(append([]string{}, s.lines...), line)
	asm, err := s.compile(candidate)
	if err != nil {
		s.printf("%s\n", s.color.Error(err.Error()))
		return
	}
	s.lines = candidate
	s.lastOut = asm
	if s.Store != nil {
		if _, err := s.Store.Append(line, asm, time.Now()); err != nil {
			s.printf("%s\n", s.color.Error(err.Error()))
		}
	}
	s.printf("ok\n")
}

func (s *Session) undo() {
	if s.Store != nil {
		if _, ok, err := s.Store.PopLast(); err != nil {
			s.printf("%s\n", s.color.Error(err.Error()))
			return
		} else if !ok {
			s.printf("nothing to undo\n")
			return
		}
	}
	if len(s.lines) == 0 {
		s.printf("nothing to undo\n")
		return
	}
	s.lines = s.lines[:len(s.lines)-1]
	asm, err := s.compile(s.lines)
	if err != nil {
		// The prior state compiled before, so this should not happen; report
		// it rather than leaving lastOut stale.
		s.printf("%s\n", s.color.Error(err.Error()))
		return
	}
	s.lastOut = asm
	s.printf("ok\n")
}

func (s *Session) printStack() {
	prog, err := s.parse(s.lines)
	if err != nil {
		s.printf("%s\n", s.color.Error(err.Error()))
		return
	}
	s.printf("%s", prettyprinter.Dump(prog))
}

func (s *Session) runWithOracle() {
	if s.Executor == nil {
		s.printf("no executor configured\n")
		return
	}
	result, err := s.Executor.Run(s.lastOut, s.InitialStack)
	if err != nil {
		s.printf("%s\n", s.color.Error(err.Error()))
		return
	}
	s.printf("%v\n", result)
}

func (s *Session) parse(lines []string) (*ast.Program, error) {
	src := "{\n" + strings.Join(lines, "\n") + "\n}"
	p := parser.New(lexer.New(src), "<repl>")
	return p.ParseProgram()
}

func (s *Session) compile(lines []string) (string, error) {
	if len(lines) == 0 {
		return "", nil
	}
	prog, err := s.parse(lines)
	if err != nil {
		return "", err
	}
	if err := analyzer.Infer("<repl>", prog); err != nil {
		return "", err
	}
	optimizer.Optimize(prog, optimizer.Options{ConstProp: true, RepeatPromote: true})
	return backend.CompileWithExtern("<repl>", prog, s.Extern)
}

func (s *Session) exportHistory() {
	if s.HistoryPath == "" || s.Store == nil {
		return
	}
	entries, err := s.Store.Last(1 << 30)
	if err != nil {
		s.printf("%s\n", s.color.Error(err.Error()))
		return
	}
	f, err := os.Create(s.HistoryPath)
	if err != nil {
		s.printf("%s\n", s.color.Error(err.Error()))
		return
	}
	defer f.Close()
	for _, e := range entries {
		fmt.Fprintf(f, "%s\n", e.Line)
	}
}
