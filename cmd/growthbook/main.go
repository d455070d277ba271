package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jordanwest/growthbook/internal/book"
	"github.com/jordanwest/growthbook/internal/config"
	"github.com/jordanwest/growthbook/internal/db"
	"github.com/jordanwest/growthbook/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"write": true, "show": true, "list": true, "delete": true,
	"curate": true, "draft": true, "export": true, "themes": true,
	"backup": true, "restore": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___                _   _      ___           _
  / __|_ _ _____ __ _| |_| |_   | _ ) ___  ___| |__
 | (_ | '_/ _ \ V  V /  _| ' \  | _ \/ _ \/ _ \ / /
  \___|_| \___/\_/\_/ \__|_||_| |___/\___/\___/_\_\

  Journal today, bind it into a book later

  Usage: growthbook <command> [options]
         growthbook --help

  MCP server mode requires piped input.`)
}

// newExporter builds the shared PDF exporter from config.
func newExporter(cfg *config.Config, baseDir string) *book.Exporter {
	return &book.Exporter{
		Renderer: &book.Renderer{
			LogoPath: cfg.ResolveLogoPath(baseDir),
		},
		CoverSource: cfg.ResolveCoverSource(baseDir),
		ExportDir:   cfg.ResolveExportDir(baseDir),
	}
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".growthbook")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	exporter := newExporter(cfg, baseDir)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, exporter)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'growthbook --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(database, cfg, exporter, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
