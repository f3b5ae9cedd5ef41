package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/user-none/vgmnotes/cli"
	"github.com/user-none/vgmnotes/config"
	"golang.org/x/term"
)

func main() {
	dir := flag.String("dir", "", "directory of VGM logs")
	outDir := flag.String("out", "", "directory for listings (default: next to each log)")
	configPath := flag.String("config", "", "path to config.json (default: user config directory)")
	variant := flag.String("variant", "", "clocking policy: tick or frame (overrides config)")
	workers := flag.Int("workers", 0, "parallel conversions (overrides config)")
	recursive := flag.Bool("recursive", false, "scan subdirectories")
	quiet := flag.Bool("quiet", false, "don't print warnings")
	writeConfig := flag.Bool("write-config", false, "create the default config file if missing")
	flag.Parse()

	fs := afero.NewOsFs()
	path := *configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			log.Fatalf("Failed to locate config: %v", err)
		}
		path = p
	}
	if *writeConfig {
		if err := config.CreateConfigIfMissing(fs, path); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
	}

	if *dir == "" {
		fmt.Println("Usage: vgmbatch -dir <directory> [-out <directory>] [-recursive] [-workers n] [-variant tick|frame]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(fs, path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *recursive {
		cfg.Batch.Recursive = true
	}

	runner, err := cli.NewRunner(fs, cfg)
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	runner.SetQuiet(*quiet)

	batch, err := cli.NewBatch(runner)
	if err != nil {
		log.Fatal(err)
	}
	jobs, err := batch.Plan(*dir, *outDir, cfg.Batch.Recursive)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := batch.Run(ctx, jobs)
	if err != nil {
		log.Fatalf("Batch failed: %v", err)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("%d converted (%d duplicates), %d failed, %d warnings\n",
			sum.Converted, sum.Duplicates, sum.Failed, sum.Warnings)
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
