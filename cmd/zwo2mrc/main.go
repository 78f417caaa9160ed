package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/zwo2mrc/config"
	"github.com/lucasjlepore/zwo2mrc/pipeline"
)

func main() {
	var (
		inDir      = flag.String("in", "", "Directory containing workout files to convert")
		outDir     = flag.String("out", "", "Directory to write converted courses into")
		configPath = flag.String("config", "", "Path to YAML config file")
		ftp        = flag.Float64("ftp", 0, "FTP in watts, used for ERG output and the course-points table")
		format     = flag.String("format", "", "Output format: mrc|erg|both")
		table      = flag.String("table", "", "Also write a course-points table: csv|parquet")
		dryRun     = flag.Bool("dry-run", false, "Convert without writing any files")
		verbose    = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in workouts/ --out courses/ [--ftp 250] [--format mrc|erg|both] [--table csv|parquet]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zwo2mrc failed: %v\n", err)
		os.Exit(1)
	}
	if *ftp > 0 {
		cfg.Convert.FTP = *ftp
	}
	if *format != "" {
		cfg.Convert.Format = *format
	}
	if *table != "" {
		cfg.Export.Table = *table
	}

	in := strings.TrimSpace(*inDir)
	out := strings.TrimSpace(*outDir)
	reader := bufio.NewReader(os.Stdin)
	if in == "" {
		in = promptLine(reader, "Input directory with workout files: ")
	}
	if out == "" {
		out = promptLine(reader, "Output directory for converted courses: ")
	}
	if in == "" || out == "" {
		fmt.Fprintln(os.Stderr, "zwo2mrc failed: no directory selected")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	result, err := pipeline.Run(pipeline.Options{
		InDir:      in,
		OutDir:     out,
		FTP:        cfg.Convert.FTP,
		Format:     cfg.Convert.Format,
		Table:      cfg.Export.Table,
		Extensions: cfg.Convert.Extensions,
		DryRun:     *dryRun,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "zwo2mrc failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("zwo2mrc complete: processed %d files\n", result.Stats.FilesProcessed)
	fmt.Printf("Output dir:      %s\n", result.OutputDir)
	if result.ManifestPath != "" {
		fmt.Printf("manifest.json:   %s\n", result.ManifestPath)
	}
	if result.TablePath != "" {
		fmt.Printf("course points:   %s\n", result.TablePath)
	}
	fmt.Printf("Files skipped:   %d\n", result.Stats.FilesSkipped)
	fmt.Printf("Outputs written: %d\n", result.Stats.OutputsWritten)
}

func promptLine(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
