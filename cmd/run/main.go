package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/engine"
)

func main() {
	var (
		scriptFile  = flag.String("script", "", "Path to script file")
		expr        = flag.String("e", "", "Expression to evaluate")
		asJSON      = flag.Bool("json", false, "Print the completion value as JSON")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		stackSize   = flag.Int("max-stack", 0, "Maximum script call stack depth (0 = unbounded)")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(*scriptFile, *stackSize); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *scriptFile == "" && *expr == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -script <file.js> [-json]")
		fmt.Fprintln(os.Stderr, "       run -e <expression> [-json]")
		fmt.Fprintln(os.Stderr, "       run [-script <file.js>] -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*scriptFile, *expr, *asJSON, *stackSize); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scriptFile, expr string, asJSON bool, stackSize int) error {
	ctx, _, err := engine.NewWithConfig(&engine.Config{MaxCallStackSize: stackSize})
	if err != nil {
		return err
	}
	defer ctx.Close()

	var last jsbridge.Value

	if scriptFile != "" {
		src, err := os.ReadFile(scriptFile)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		last, err = ctx.Evaluate(string(src), scriptFile)
		if err != nil {
			return err
		}
	}

	if expr != "" {
		if last.Live() {
			last.Release(ctx)
		}
		last, err = ctx.Evaluate(expr, "<expr>")
		if err != nil {
			return err
		}
	}
	defer last.Release(ctx)

	out, err := render(ctx, last, asJSON)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// render formats a completion value for the terminal.
func render(ctx *jsbridge.Context, v jsbridge.Value, asJSON bool) (string, error) {
	if asJSON {
		return v.ToJSON(ctx)
	}
	switch v.Kind() {
	case jsbridge.KindUndefined:
		return "undefined", nil
	case jsbridge.KindNull:
		return "null", nil
	default:
		return v.ToString(ctx)
	}
}
