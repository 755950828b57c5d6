// Package main implements erasec, a driver for the type-erasure stage.
//
// erasec reads declaration files, resolves them, and prints the erased
// signatures the later compiler phases see.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/you-not-fish/erasure/internal/decl"
	"github.com/you-not-fish/erasure/internal/erasure"
	"github.com/you-not-fish/erasure/internal/passes"
	"github.com/you-not-fish/erasure/internal/syntax"
	"github.com/you-not-fish/erasure/internal/types"
	"github.com/you-not-fish/erasure/internal/types2"
)

// Version information
const Version = "0.1.0-dev"

// errDiagnostics reports that diagnostics were already printed.
var errDiagnostics = errors.New("diagnostics reported")

// CLI is the command grammar.
type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"warn" enum:"debug,info,warn,error" name:"log-level"`

	Check   CheckCmd   `cmd:"" help:"Resolve a declaration file and report diagnostics."`
	Erase   EraseCmd   `cmd:"" help:"Erase every signature of a declaration file."`
	Type    TypeCmd    `cmd:"" help:"Erase one type expression in the scope of a declaration file."`
	Parse   ParseCmd   `cmd:"" help:"Parse one type expression and print its syntax tree."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// env carries the output streams and logger into the commands.
type env struct {
	stdout, stderr io.Writer
	logger         *slog.Logger
}

// diag prints a diagnostic to stderr.
func (e *env) diag(pos syntax.Pos, msg string) {
	fmt.Fprintf(e.stderr, "%s: %s\n", pos, msg)
}

// load reads and checks a declaration file, printing every diagnostic.
func (e *env) load(path string) (*types.Package, error) {
	file, err := decl.Load(path)
	if err != nil {
		fmt.Fprintf(e.stderr, "error: %v\n", err)
		return nil, errDiagnostics
	}
	pkg, err := types2.Check(file, &types2.Config{Error: e.diag, Logger: e.logger}, nil)
	if err != nil {
		return nil, errDiagnostics
	}
	return pkg, nil
}

type CheckCmd struct {
	File string `arg:"" help:"Declaration file."`
}

func (c *CheckCmd) Run(e *env) error {
	pkg, err := e.load(c.File)
	if err != nil {
		return err
	}
	e.logger.Info("checked", "package", pkg.Name(), "classes", len(pkg.Classes()))
	return nil
}

type EraseCmd struct {
	File          string `arg:"" help:"Declaration file."`
	Phase         string `help:"Stop after this phase." default:"posterasure" enum:"erasure,posterasure"`
	VerifyForeign bool   `help:"Compare foreign and source erasure of foreign methods." name:"verify-foreign"`
	Verify        bool   `help:"Verify the unit before and after each pass."`
	DumpBefore    string `help:"Dump infos before pass (name or \"*\")." name:"dump-before"`
	DumpAfter     string `help:"Dump infos after pass (name or \"*\")." name:"dump-after"`
	DumpSymbol    string `help:"Only dump a specific symbol." name:"dump-symbol"`
	Spew          bool   `help:"Dump infos structurally."`
	Workers       int    `help:"Erasure workers (0 for one per CPU)." default:"0"`
}

func (c *EraseCmd) Run(e *env) error {
	pkg, err := e.load(c.File)
	if err != nil {
		return err
	}
	d, err := passes.NewDriver(passes.Config{
		DumpBefore:    c.DumpBefore,
		DumpAfter:     c.DumpAfter,
		Verify:        c.Verify,
		DumpSymbol:    c.DumpSymbol,
		Spew:          c.Spew,
		Workers:       c.Workers,
		VerifyForeign: c.VerifyForeign,
		Logger:        e.logger,
		Out:           e.stderr,
	})
	if err != nil {
		return err
	}

	stopAfter := ""
	if c.Phase == "erasure" {
		stopAfter = passes.ErasurePass
	}
	u, err := d.Erase(pkg, stopAfter)
	if err != nil {
		fmt.Fprintf(e.stderr, "error: %v\n", err)
		return errDiagnostics
	}
	passes.Fprint(e.stdout, u)
	return nil
}

type TypeCmd struct {
	File   string `arg:"" help:"Declaration file."`
	Expr   string `arg:"" help:"Type expression."`
	Policy string `help:"Erasure policy." default:"source" enum:"source,foreign,special,boxing"`
	Phase  string `help:"Phase the eraser observes." default:"typer" enum:"typer,erasure,posterasure"`
}

func (c *TypeCmd) Run(e *env) error {
	pkg, err := e.load(c.File)
	if err != nil {
		return err
	}
	t, err := types2.Eval(pkg, c.Expr, &types2.Config{Error: e.diag, Logger: e.logger})
	if err != nil {
		return errDiagnostics
	}

	phase, _ := erasure.ParsePhase(c.Phase)
	eraser := erasure.New(erasure.Config{
		Phase:  func() erasure.Phase { return phase },
		Logger: e.logger,
	})
	m, _ := eraser.Policy(c.Policy)

	erased, err := apply(m, t)
	if err != nil {
		fmt.Fprintf(e.stderr, "error: %v\n", err)
		return errDiagnostics
	}
	fmt.Fprintln(e.stdout, erased)
	return nil
}

func apply(m *erasure.Map, t types.Type) (_ types.Type, err error) {
	defer erasure.Recover(&err)
	return m.Apply(t), nil
}

type ParseCmd struct {
	Expr   string `arg:"" help:"Type expression."`
	Format string `help:"Tree output format." default:"text" enum:"text,json"`
	Tokens bool   `help:"Print the token stream instead of the tree."`
}

func (c *ParseCmd) Run(e *env) error {
	if c.Tokens {
		return c.emitTokens(e)
	}

	errs := 0
	x, _ := syntax.ParseType(syntax.Pos{}, c.Expr, func(pos syntax.Pos, msg string) {
		errs++
		e.diag(pos, msg)
	})
	if x != nil {
		switch c.Format {
		case "json":
			if err := syntax.FprintJSON(e.stdout, x); err != nil {
				return err
			}
		default:
			syntax.Fprint(e.stdout, x)
		}
	}
	if errs > 0 {
		return errDiagnostics
	}
	return nil
}

// emitTokens scans the expression and prints all tokens with positions.
func (c *ParseCmd) emitTokens(e *env) error {
	var errs []string
	s := syntax.NewScanner(syntax.Pos{}, strings.NewReader(c.Expr), func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	})

	fmt.Fprintf(e.stdout, "%-10s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(e.stdout, "%-10s %-12s %s\n", strings.Repeat("-", 10), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for {
		s.Next()
		tok := s.Token()
		fmt.Fprintf(e.stdout, "%-10s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	if len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintln(e.stderr, msg)
		}
		return errDiagnostics
	}
	return nil
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return `""`
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintf(e.stdout, "erasec version %s\n", Version)
	fmt.Fprintf(e.stdout, "go version %s\n", runtime.Version())
	return nil
}

// run parses args and executes the selected command. It returns the
// process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	exit := -1
	parser, err := kong.New(&cli,
		kong.Name("erasec"),
		kong.Description("Type-erasure stage driver."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exit = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "erasec: %v\n", err)
		return 1
	}

	ctx, err := parser.Parse(args)
	if exit >= 0 {
		return exit
	}
	if err != nil {
		fmt.Fprintf(stderr, "erasec: %v\n", err)
		return 1
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		fmt.Fprintf(stderr, "erasec: %v\n", err)
		return 1
	}
	e := &env{
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	if err := ctx.Run(e); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(stderr, "erasec: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
