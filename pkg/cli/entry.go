// Package cli implements papyrus's command dispatch: transpile (the
// default action) and repl, switching on os.Args by hand rather than a
// flag-parsing framework.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/papyruslang/papyrus/internal/analyzer"
	"github.com/papyruslang/papyrus/internal/backend"
	"github.com/papyruslang/papyrus/internal/config"
	"github.com/papyruslang/papyrus/internal/lexer"
	"github.com/papyruslang/papyrus/internal/optimizer"
	"github.com/papyruslang/papyrus/internal/parser"
	"github.com/papyruslang/papyrus/internal/repl"
	"github.com/papyruslang/papyrus/internal/replstore"
	"github.com/papyruslang/papyrus/internal/utils"
)

// Run is the CLI's entry point, called from cmd/scribe/main.go.
func Run() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	args := os.Args[1:]
	if len(args) == 1 {
		switch args[0] {
		case "-v", "-version", "--version":
			fmt.Println("papyrus " + config.Version)
			return
		case "-h", "-help", "--help":
			printUsage()
			return
		}
	}

	if len(args) > 0 && args[0] == "repl" {
		runRepl(args[1:])
		return
	}

	if err := runTranspile(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: scribe [transpile] [contracts-dir]")
	fmt.Println("       scribe repl [--functions-file path] [--history path] [--stack v1,v2,...]")
}

// runTranspile implements spec.md §6's default action: read every *.yul
// file in contractsDir (lexically ordered), compile each independently,
// and write the result next to the project's configured output directory.
func runTranspile(args []string) error {
	contractsDir := config.DefaultContractsDir
	outputDir := config.DefaultOutputDir
	optimize := true

	if projectPath, err := config.FindProject("."); err == nil && projectPath != "" {
		proj, err := config.LoadProject(projectPath)
		if err != nil {
			return err
		}
		contractsDir = proj.ContractsDir
		outputDir = proj.OutputDir
		optimize = proj.OptimizeEnabled()
	}

	for _, a := range args {
		if a == "transpile" {
			continue
		}
		if !strings.HasPrefix(a, "-") {
			contractsDir = a
			break
		}
	}

	entries, err := os.ReadDir(contractsDir)
	if err != nil {
		return fmt.Errorf("reading contracts dir %s: %w", contractsDir, err)
	}

	var sources []string
	for _, e := range entries {
		if e.IsDir() || !config.HasSourceExt(e.Name()) {
			continue
		}
		sources = append(sources, filepath.Join(contractsDir, e.Name()))
	}
	sort.Strings(sources)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", outputDir, err)
	}

	for _, src := range sources {
		runID := uuid.NewString()
		if err := transpileOne(src, outputDir, optimize); err != nil {
			return fmt.Errorf("[%s] %s: %w", runID, src, err)
		}
		fmt.Printf("%s -> %s\n", src, utils.OutputPath(outputDir, utils.ExtractStem(src)))
	}
	return nil
}

func transpileOne(sourcePath, outputDir string, optimize bool) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	p := parser.New(lexer.New(string(data)), sourcePath)
	prog, err := p.ParseProgram()
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	prog.File = sourcePath

	if err := analyzer.Infer(sourcePath, prog); err != nil {
		return fmt.Errorf("type inference: %w", err)
	}

	if optimize {
		optimizer.Optimize(prog, optimizer.Options{ConstProp: true, RepeatPromote: true})
	}

	asm, err := backend.Compile(sourcePath, prog)
	if err != nil {
		return fmt.Errorf("code generation: %w", err)
	}

	outPath := utils.OutputPath(outputDir, utils.ExtractStem(sourcePath))
	if err := os.WriteFile(outPath, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// runRepl implements spec.md §6/§10's interactive loop: --functions-file
// pre-declares callable procedure signatures, --stack seeds the initial
// operand stack for "res", history persists to a local SQLite database,
// and a text export is written to --history on exit.
func runRepl(args []string) {
	sess := repl.New()
	historyPath := config.HistoryFileName
	dbPath := ":memory:"

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--functions-file":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--functions-file requires a path")
				os.Exit(1)
			}
			i++
			table, err := repl.LoadFunctionsFile(args[i])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			sess.Extern = table
		case "--history":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--history requires a path")
				os.Exit(1)
			}
			i++
			historyPath = args[i]
		case "--history-db":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--history-db requires a path")
				os.Exit(1)
			}
			i++
			dbPath = args[i]
		case "--stack":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--stack requires a comma-separated list of values")
				os.Exit(1)
			}
			i++
			values, err := parseStackArg(args[i])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			sess.InitialStack = values
		}
	}

	store, err := replstore.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer store.Close()

	sess.Store = store
	sess.HistoryPath = historyPath
	sess.Run()
}

// parseStackArg parses --stack's comma-separated uint64 list, the initial
// operand stack seeded into every "res" execution (bottom-to-top, matching
// the order oracle.Executor.Run expects).
func parseStackArg(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--stack: invalid value %q: %w", p, err)
		}
		values[i] = v
	}
	return values, nil
}
