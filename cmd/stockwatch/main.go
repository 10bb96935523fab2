// ABOUTME: Entry point for stockwatch, a menu-driven inventory tracker with low-stock alerts
// ABOUTME: Runs the interactive menu by default; also provides init, export, history, and version

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/2389/stockwatch/internal/auditlog"
	"github.com/2389/stockwatch/internal/config"
	"github.com/2389/stockwatch/internal/console"
	"github.com/2389/stockwatch/internal/csvfile"
	"github.com/2389/stockwatch/internal/inventory"
	"github.com/2389/stockwatch/internal/report"
	"github.com/2389/stockwatch/internal/store"
)

// version is set by goreleaser at build time.
var version = "dev"

const banner = `
     _             _                    _       _
 ___| |_ ___   ___| | ____      ____ _| |_ ___| |__
/ __| __/ _ \ / __| |/ /\ \ /\ / / _' | __/ __| '_ \
\__ \ || (_) | (__|   <  \ V  V / (_| | || (__| | | |
|___/\__\___/ \___|_|\_\  \_/\_/ \__,_|\__\___|_| |_|
`

func main() {
	cmd := "menu"
	var args []string
	if len(os.Args) > 1 {
		cmd = os.Args[1]
		args = os.Args[2:]
	}

	ctx := context.Background()

	var err error
	switch cmd {
	case "menu":
		err = runMenu(ctx)
	case "init":
		err = runInit()
	case "export":
		err = runExport(args)
	case "history":
		err = runHistory(ctx, args)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: stockwatch [command] [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  (none)                  Start the interactive menu")
	fmt.Println("  init                    Write a default config file")
	fmt.Println("  export <file>           Export the stock file as .xlsx, .md or .html")
	fmt.Println("  history [flags]         Show audited actions, newest first")
	fmt.Println("  version                 Print the version")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  STOCKWATCH_CONFIG       Config file path (default: ~/.config/stockwatch/config.yaml)")
}

// loadConfig reads the config file (or defaults) and installs the logger.
func loadConfig() (*config.Config, string, error) {
	configPath := config.DefaultPath()
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(setupLogger(cfg.Logging, os.Stderr))
	return cfg, configPath, nil
}

func runMenu(ctx context.Context) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Print(banner)
	gray.Printf("    version: %s\n\n", version)

	var opts []auditlog.Option
	if cfg.History.Enabled {
		hist, err := store.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer hist.Close()
		opts = append(opts, auditlog.WithMirror(hist))
	}

	green.Print("    ▶ ")
	fmt.Printf("Stock file: %s\n", cfg.Files.StockPath)
	green.Print("    ▶ ")
	fmt.Printf("Audit log:  %s\n", cfg.Files.LogPath)
	if cfg.History.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("History:    %s\n", cfg.History.Path)
	}

	slog.Info("starting stockwatch",
		"config", configPath,
		"stock_path", cfg.Files.StockPath,
		"log_path", cfg.Files.LogPath,
		"history", cfg.History.Enabled,
	)

	session := console.NewSession(console.Config{
		In:              os.Stdin,
		Out:             os.Stdout,
		Store:           inventory.NewStore(),
		Audit:           auditlog.New(cfg.Files.LogPath, opts...),
		StockPath:       cfg.Files.StockPath,
		MetricsTextfile: cfg.Metrics.Textfile,
	})
	return session.Run(ctx)
}

func runInit() error {
	configPath := config.DefaultPath()
	if err := config.WriteDefault(configPath); err != nil {
		return err
	}

	color.Green("Wrote %s\n", configPath)
	return nil
}

func runExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: stockwatch export <file.xlsx|file.md|file.html>")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := csvfile.Load(cfg.Files.StockPath)
	if err != nil {
		return fmt.Errorf("loading stock file: %w", err)
	}

	rep := report.Build(s, time.Now())
	if err := report.Export(args[0], rep); err != nil {
		return err
	}

	color.Green("Exported %d items (%d below minimum) to %s\n", len(rep.Rows), rep.LowCount(), args[0])
	return nil
}
