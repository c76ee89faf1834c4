package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newApp() *cli.App {
	app := cli.New("ilemit").
		Description("Lower bound-tree documents into stack-machine bytecode").
		Version(version)

	// Global flags
	app.GlobalFlags(
		cli.String("config", "").Help("Config file (YAML)"),
		cli.Bool("no-color", "").Env("NO_COLOR").Help("Disable colored output"),
		cli.String("log-level", "").Help("Log level (debug, info, warn, error)"),
	)

	app.Command("emit").
		Description("Emit every method of a document").
		Args("file?").
		Flags(
			cli.Bool("checked", "").Help("Overflow-checked arithmetic by default"),
			cli.Bool("unsafe", "").Help("Permit pointer arithmetic"),
			cli.Int("jobs", "j").Help("Methods emitted in parallel"),
			cli.String("output", "o").Enum("text", "json", "hex").Help("Output format"),
		).
		Run(emitHandler)

	app.Command("dis").
		Description("Print the listing of one method").
		Args("file?").
		Flags(
			cli.String("method", "m").Help("Method to disassemble (Type::Name)"),
			cli.Bool("checked", "").Help("Overflow-checked arithmetic by default"),
			cli.Bool("unsafe", "").Help("Permit pointer arithmetic"),
			cli.Bool("symbolic", "").Help("Show labels before the fix-up pass"),
		).
		Run(disHandler)

	app.Command("run").
		Description("Emit a document and execute one static method").
		Args("args...").
		Flags(
			cli.String("method", "m").Help("Method to run (Type::Name)"),
			cli.Bool("checked", "").Help("Overflow-checked arithmetic by default"),
			cli.Bool("unsafe", "").Help("Permit pointer arithmetic"),
		).
		Run(runHandler)

	app.Command("opcodes").
		Description("Print the opcode vocabulary").
		Flags(
			cli.String("category", "").Help("Only show one category"),
		).
		Run(opcodesHandler)

	app.Command("version").
		Description("Print version information").
		Flags(
			cli.String("output", "o").Enum("json", "text").Help("Output format"),
		).
		Run(versionHandler)

	return app
}

func main() {
	if err := newApp().Execute(); err != nil {
		if cli.IsHelpRequested(err) {
			return
		}
		printError(err.Error())
		os.Exit(cli.GetExitCode(err))
	}
}

func printError(msg string) {
	if color.ShouldColorize(os.Stderr) {
		msg = color.Red.Apply(msg)
	}
	os.Stderr.WriteString(msg + "\n")
}

func versionHandler(ctx *cli.Context) error {
	if strings.ToLower(ctx.String("output")) == "json" {
		out, err := formatJSON([]byte(fmt.Sprintf(`{"version":%q,"commit":%q,"date":%q}`, version, commit, date)), ctx.Bool("no-color"))
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Printf("ilemit %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
	return nil
}
