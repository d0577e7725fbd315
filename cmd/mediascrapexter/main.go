// cmd/mediascrapexter/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/media"
	"github.com/valpere/MediaScrapexter/internal/monitoring"
	"github.com/valpere/MediaScrapexter/internal/pipeline"
	"github.com/valpere/MediaScrapexter/pkg/logger"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: mediascrapexter run <config.yaml>\n")
			os.Exit(1)
		}
		runCommand(os.Args[2])

	case "scan":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: mediascrapexter scan <config.yaml>\n")
			os.Exit(1)
		}
		scanCommand(os.Args[2])

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: mediascrapexter validate <config.yaml>\n")
			os.Exit(1)
		}
		validateCommand(os.Args[2])

	case "template":
		template, err := generateTemplate(os.Args[2:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(template)

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runCommand executes a full retrieval run.
func runCommand(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if hasFlag("-v") || hasFlag("--verbose") {
		level = "debug"
	}
	log := logger.NewDefault(level)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *monitoring.MetricsManager
	if cfg.Monitoring.Enabled {
		metrics = monitoring.NewMetricsManager(monitoring.MetricsConfig{})
		server := monitoring.NewServer(cfg.Monitoring.ListenAddr, metrics, log)
		go server.Start(ctx)
	}

	renderer := &progressRenderer{}
	runner, err := pipeline.New(pipeline.Options{
		Config:   cfg,
		Logger:   log,
		Metrics:  metrics,
		Progress: renderer.update,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary, err := runner.Run(ctx)
	renderer.finish()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nRun %s finished in %s\n", summary.RunID, summary.Duration.Round(10*time.Millisecond))
	fmt.Printf("  retrieved: %d/%d", summary.Succeeded, summary.Total)
	if summary.Failed > 0 {
		fmt.Printf("  failed: %d", summary.Failed)
	}
	if summary.Skipped > 0 {
		fmt.Printf("  skipped: %d", summary.Skipped)
	}
	fmt.Println()
	for _, srcErr := range summary.SourceErrors {
		fmt.Printf("  source error: %s (%s)\n", srcErr.Ref, srcErr.Message)
	}
	if summary.Total > 0 && summary.Succeeded == 0 {
		os.Exit(1)
	}
}

// scanCommand lists the media a run would retrieve, without downloading.
func scanCommand(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := zap.NewNop()
	if hasFlag("-v") || hasFlag("--verbose") {
		log = logger.NewDefault("debug")
	}

	runner, err := pipeline.New(pipeline.Options{Config: cfg, Logger: log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, sourceErrors, err := runner.Scan(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, item := range items {
		fmt.Printf("%-5s  %s\n", item.Kind, item.CanonicalURL)
	}
	fmt.Printf("\n%d unique media items\n", len(items))
	for _, srcErr := range sourceErrors {
		fmt.Fprintf(os.Stderr, "source error: %s (%s)\n", srcErr.Ref, srcErr.Message)
	}
}

// validateCommand checks a configuration file and reports every problem.
func validateCommand(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result := cfg.ValidateDetailed()
	for _, warning := range result.Warnings {
		fmt.Printf("⚠ %s\n", warning)
	}
	fmt.Printf("✓ Configuration file '%s' is valid\n", configFile)

	if hasFlag("-v") || hasFlag("--verbose") {
		fmt.Printf("Configuration details:\n")
		fmt.Printf("  Name: %s\n", cfg.Name)
		fmt.Printf("  Source: %s\n", cfg.Source.Type)
		fmt.Printf("  Persist mode: %s\n", cfg.Persist.Mode)
		if cfg.Manifest.Path != "" {
			fmt.Printf("  Manifest: %s (%s)\n", cfg.Manifest.Path, cfg.Manifest.Format)
		}
	}
}

// generateTemplate renders a starter configuration as YAML.
func generateTemplate(args []string) (string, error) {
	templateType := config.SourceHTML
	if len(args) > 0 && args[0] == "--type" && len(args) > 1 {
		templateType = args[1]
	}

	template := config.GenerateTemplate(templateType)
	yamlData, err := yaml.Marshal(template)
	if err != nil {
		return "", fmt.Errorf("failed to marshal template to YAML: %w", err)
	}
	return string(yamlData), nil
}

// progressRenderer turns per-item progress events into a terminal byte bar,
// one bar per item.
type progressRenderer struct {
	bar     *progressbar.ProgressBar
	current string
}

func (p *progressRenderer) update(ev media.Progress) {
	if ev.Item.CanonicalURL != p.current {
		p.finish()
		p.current = ev.Item.CanonicalURL
		total := ev.BytesTotal
		if total == 0 {
			total = -1 // unknown length renders as a spinner
		}
		p.bar = progressbar.DefaultBytes(total, ev.Item.Filename)
	}
	p.bar.Set64(ev.BytesDone)
}

func (p *progressRenderer) finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// hasFlag checks if a flag is present in command line arguments
func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

// printUsage displays help information
func printUsage() {
	fmt.Println("MediaScrapexter - Media Extraction and Retrieval Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mediascrapexter run <config.yaml>        Retrieve media per configuration file")
	fmt.Println("  mediascrapexter scan <config.yaml>       List media without downloading")
	fmt.Println("  mediascrapexter validate <config.yaml>   Validate configuration file")
	fmt.Println("  mediascrapexter template [--type <type>] Generate configuration template")
	fmt.Println("  mediascrapexter version                  Show version information")
	fmt.Println("  mediascrapexter help                     Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose                            Enable verbose output")
	fmt.Println()
	fmt.Println("Template types:")
	fmt.Println("  html        Scrape images and videos from a web page (default)")
	fmt.Println("  subreddit   Download media from a subreddit listing")
	fmt.Println("  posts       Download media from specific Reddit posts")
	fmt.Println("  urls        Download media from direct URLs")
}

// printVersion displays version information
func printVersion() {
	fmt.Printf("MediaScrapexter %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
