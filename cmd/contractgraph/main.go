package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hanpama/contractgraph/internal/contract"
	"github.com/hanpama/contractgraph/internal/directive"
	"github.com/hanpama/contractgraph/internal/eventbus"
	"github.com/hanpama/contractgraph/internal/gen"
	"github.com/hanpama/contractgraph/internal/otel"
	"github.com/hanpama/contractgraph/internal/schema"
)

const rootUsage = `contractgraph — behavioral-contract declaration compiler

USAGE:
  contractgraph <command> [flags]

COMMANDS:
  compile          Compile declarations into contract models and dispatch artifacts (JSON)
  compile-sdl      Compile declarations and render the GraphQL SDL projection
  gen              Compile declarations and generate Go dispatch source
  help             Show help for any command
`

const compileUsage = `compile FLAGS:
  -contract.root <dir>   Declaration root directory (default: .)
  -out <file>            Write compiled project JSON to file (default: stdout)
  -otel.endpoint <addr>  OTLP collector endpoint
  -otel.service <name>   OpenTelemetry service name (default: contractgraph)
  (Validation always runs; exits non-zero on violations)
`

const compileSDLUsage = `compile-sdl FLAGS:
  -contract.root <dir>   Declaration root directory (default: .)
  -out <file>            Write rendered SDL to file (default: stdout)
`

const genUsage = `gen FLAGS:
  -contract.root <dir>   Declaration root directory (default: .)
  -out <dir>             Output directory for generated Go files (required)
  -pkg <name>            Package name for generated files (default: dispatch)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "compile":
		return cmdCompile(cmdArgs)
	case "compile-sdl":
		return cmdCompileSDL(cmdArgs)
	case "gen":
		return cmdGen(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "compile":
		fmt.Print(compileUsage)
	case "compile-sdl":
		fmt.Print(compileSDLUsage)
	case "gen":
		fmt.Print(genUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdCompile(args []string) error {
	rootDir := "."
	outFile := ""
	otelEndpoint := ""
	otelService := "contractgraph"

	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&rootDir, "contract.root", rootDir, "Declaration root directory")
	fs.StringVar(&outFile, "out", outFile, "Write compiled project JSON to file")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	project, err := loadProject(rootDir)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(project)
}

func cmdCompileSDL(args []string) error {
	rootDir := "."
	outFile := ""
	fs := flag.NewFlagSet("compile-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&rootDir, "contract.root", rootDir, "Declaration root directory")
	fs.StringVar(&outFile, "out", outFile, "Write rendered SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return err
	}

	project, err := loadProject(rootDir)
	if err != nil {
		return err
	}
	sdl := schema.RenderProject(project)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

func cmdGen(args []string) error {
	rootDir := "."
	outDir := ""
	pkg := "dispatch"
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&rootDir, "contract.root", rootDir, "Declaration root directory")
	fs.StringVar(&outDir, "out", outDir, "Output directory for generated Go files")
	fs.StringVar(&pkg, "pkg", pkg, "Package name for generated files")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, genUsage)
		return err
	}
	if outDir == "" {
		fmt.Fprint(os.Stderr, genUsage)
		return fmt.Errorf("-out is required")
	}

	project, err := loadProject(rootDir)
	if err != nil {
		return err
	}
	if err := gen.Render(project, pkg, outDir); err != nil {
		return fmt.Errorf("render dispatch: %w", err)
	}
	return nil
}

func loadProject(rootDir string) (*contract.Project, error) {
	src, err := contract.NewFileSystemSource(rootDir)
	if err != nil {
		return nil, err
	}
	project, err := contract.Build(context.Background(), src, directive.NewParser())
	if err != nil {
		return nil, fmt.Errorf("compile declarations: %w", err)
	}
	return project, nil
}
