package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/user-none/vgmnotes/cli"
	"github.com/user-none/vgmnotes/config"
	"golang.org/x/term"
)

func main() {
	inPath := flag.String("in", "", "path to VGM log (vgm, vgz or archive)")
	outPath := flag.String("out", "", "listing path (default: next to the log, with the configured extension)")
	configPath := flag.String("config", "", "path to config.json (default: user config directory)")
	variant := flag.String("variant", "", "clocking policy: tick or frame (overrides config)")
	width := flag.Int("width", 0, "listing line width (overrides config)")
	title := flag.Bool("title", false, "write the GD3 title as a REM line")
	quiet := flag.Bool("quiet", false, "don't print warnings")
	flag.Parse()

	if *inPath == "" && flag.NArg() == 1 {
		*inPath = flag.Arg(0)
	}
	if *inPath == "" {
		fmt.Println("Usage: vgmnotes -in <logfile> [-out <listing>] [-variant tick|frame] [-width n] [-title]")
		os.Exit(1)
	}

	fs := afero.NewOsFs()
	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if *width != 0 {
		cfg.Output.LineWidth = *width
	}
	if *title {
		cfg.Output.IncludeTitle = true
	}

	runner, err := cli.NewRunner(fs, cfg)
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	runner.SetQuiet(*quiet)

	res, err := runner.Convert(*inPath)
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	if *outPath == "" {
		*outPath = filepath.Join(filepath.Dir(*inPath), cli.OutputName(*inPath, cfg.Output.Extension))
	}
	if err := runner.WriteOutput(*outPath, res); err != nil {
		log.Fatal(err)
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "%s -> %s (%s policy, %d warnings)\n", res.Name, *outPath, cfg.Variant, res.Warnings)
	}
}

// loadConfig reads the config from path, or from the user config directory
// when path is empty. A missing default config is not an error.
func loadConfig(fs afero.Fs, path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(fs, path)
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(fs, path)
}
