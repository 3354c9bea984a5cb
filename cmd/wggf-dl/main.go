package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/wggf/digest-downloader/internal/archive"
	"github.com/wggf/digest-downloader/internal/config"
	"github.com/wggf/digest-downloader/internal/download"
	ioutils "github.com/wggf/digest-downloader/internal/io"
	"github.com/wggf/digest-downloader/internal/progress"
)

var summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))

func main() {
	var username, password string

	flag.StringVar(&username, "username", "", "Your member username you would usually use to authenticate")
	flag.StringVar(&username, "u", "", "Shorthand for -username")
	flag.StringVar(&password, "password", "", "Your member password you would usually use to authenticate")
	flag.StringVar(&password, "p", "", "Shorthand for -password")

	var (
		configFlag    = flag.String("config", "", "Path to config file")
		jobsFlag      = flag.Int("jobs", 0, "Maximum concurrent fetches (overrides config)")
		startYearFlag = flag.Int("start-year", 0, "First year to scrape (overrides config)")
		dryRunFlag    = flag.Bool("dry-run", false, "Enumerate candidate URLs without downloading")
		verboseFlag   = flag.Bool("verbose", false, "Print verbose output")
		vFlag         = flag.Bool("v", false, "Shorthand for -verbose")
	)

	flag.Parse()

	if flag.NArg() == 0 || username == "" || password == "" {
		fmt.Println("wggf-dl - Scrape the WGGF mailing-list archive (https://www.wggf.de)")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  wggf-dl -u <username> -p <password> [options] <output-dir>")
		fmt.Println()
		fmt.Println("For interactive mode, use: wggf-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	verbose := *verboseFlag || *vFlag
	outDir := flag.Arg(0)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *jobsFlag > 0 {
		settings.MaxConcurrentFetches = *jobsFlag
	}
	if *startYearFlag > 0 {
		settings.StartYear = *startYearFlag
	}

	candidates := len(archive.MonthURLs(settings.ArchiveURL, settings.StartYear, time.Now().Year()))
	logger.Debug("scraping monthly digests", "candidates", candidates)

	if *dryRunFlag {
		fmt.Printf("Would check %d candidate monthly digests under %s\n", candidates, settings.ArchiveURL)
		return
	}

	if err := ioutils.EnsureDir(outDir); err != nil {
		logger.Fatal("creating output directory", "dir", outDir, "err", err)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	run := config.RunConfig{
		Username:  username,
		Password:  password,
		OutputDir: outDir,
		Verbose:   verbose,
	}

	// The progress bar and debug logging share the terminal badly, so
	// verbose runs go without the bar.
	var onProgress func(completed, total int)
	if !verbose {
		var bar *progress.Bar
		onProgress = func(completed, total int) {
			if bar == nil {
				bar = progress.NewBar(os.Stdout, total)
			}
			bar.Update(completed)
		}
	}

	manager := download.NewManager(settings, run, logger, onProgress)

	summary, err := manager.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nScrape cancelled.")
			os.Exit(130)
		}
		logger.Fatal("scraping archive", "err", err)
	}

	absDir, err := filepath.Abs(summary.OutputDir)
	if err != nil {
		absDir = summary.OutputDir
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"Saved %d monthly digests (%d empty months, %d failed) out of %d candidates.",
		summary.Saved, summary.Empty, summary.Failed, summary.Total)))
	logger.Info("files saved", "dir", absDir)
	logger.Info("completed scraping monthly digests", "elapsed", summary.Elapsed.Round(time.Second))
}
