package pipeline

import (
	"log/slog"
	"time"
)

// BatchFormatVersion identifies the on-disk schema for run manifests.
const BatchFormatVersion = "zwo_mrc_batch_v1"

// FormatBoth writes the MRC and ERG renditions of every course.
const FormatBoth = "both"

// Table export formats.
const (
	TableCSV     = "csv"
	TableParquet = "parquet"
)

// Options configures a batch conversion run.
type Options struct {
	InDir      string
	OutDir     string
	FTP        float64
	Format     string // mrc|erg|both
	Table      string // ""|csv|parquet
	Extensions []string
	DryRun     bool
	Logger     *slog.Logger
}

// Stats counts what a run visited and produced.
type Stats struct {
	DirsVisited    int `json:"dirs_visited"`
	FilesProcessed int `json:"files_processed"`
	FilesSkipped   int `json:"files_skipped"`
	OutputsWritten int `json:"outputs_written"`
}

// Result returns run outputs and counts. Output paths are relative to
// OutputDir.
type Result struct {
	OutputDir    string   `json:"output_dir"`
	ManifestPath string   `json:"manifest_path,omitempty"`
	TablePath    string   `json:"table_path,omitempty"`
	Outputs      []string `json:"outputs"`
	Stats        Stats    `json:"stats"`
}

// Manifest captures run metadata and pointers to generated files.
type Manifest struct {
	FormatVersion string    `json:"format_version"`
	RunID         string    `json:"run_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	InputDir      string    `json:"input_dir"`
	OutputDir     string    `json:"output_dir"`
	FTP           float64   `json:"ftp"`
	Formats       []string  `json:"formats"`
	Table         string    `json:"table,omitempty"`
	Stats         Stats     `json:"stats"`
	Outputs       []string  `json:"outputs"`
}

// CoursePoint is one segment row of the run-level analytics table.
type CoursePoint struct {
	SourceFile   string  `json:"source_file"`
	SegmentIndex int     `json:"segment_index"`
	Kind         string  `json:"kind"`
	StartMinutes float64 `json:"start_minutes"`
	EndMinutes   float64 `json:"end_minutes"`
	StartPercent float64 `json:"start_percent"`
	EndPercent   float64 `json:"end_percent"`
	StartWatts   float64 `json:"start_watts"`
	EndWatts     float64 `json:"end_watts"`
	DurationS    int     `json:"duration_s"`
	CadenceRPM   int     `json:"cadence_rpm"`
}
