package pipeline

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucasjlepore/zwo2mrc"
	"github.com/lucasjlepore/zwo2mrc/fitplan"
	"github.com/lucasjlepore/zwo2mrc/mrc"
	"github.com/lucasjlepore/zwo2mrc/zwo"
)

// defaultExtensions are the input extensions scanned when none are
// configured. Matching is exact and case-sensitive.
var defaultExtensions = []string{".zwo", ".xml", ".fit"}

// Run executes one batch conversion: walk the input tree, convert every
// matching workout file, and mirror the results under the output root. The
// first parse or filesystem error aborts the whole batch.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InDir) == "" {
		return nil, fmt.Errorf("input directory is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	formats, err := resolveFormats(opts.Format)
	if err != nil {
		return nil, err
	}
	switch opts.Table {
	case "", TableCSV, TableParquet:
	default:
		return nil, fmt.Errorf("unsupported table format %q (expected csv|parquet)", opts.Table)
	}
	if opts.FTP <= 0 {
		opts.FTP = mrc.DefaultFTP
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = defaultExtensions
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	result := &Result{OutputDir: opts.OutDir}
	var points []CoursePoint

	walkErr := filepath.WalkDir(opts.InDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(opts.InDir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			result.Stats.DirsVisited++
			logger.Info("processing directory", "dir", rel)
			return nil
		}
		ext := filepath.Ext(path)
		if !matchesExtension(opts.Extensions, ext) {
			result.Stats.FilesSkipped++
			return nil
		}

		course, err := loadCourse(path, ext, opts.FTP, logger)
		if err != nil {
			return fmt.Errorf("convert %s: %w", rel, err)
		}

		relDir := filepath.Dir(rel)
		for _, format := range formats {
			outRel := filepath.Join(relDir, course.BaseName+"."+format)
			if !opts.DryRun {
				outPath := filepath.Join(opts.OutDir, outRel)
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return fmt.Errorf("create output directory for %s: %w", rel, err)
				}
				if err := writeCourseFile(outPath, course, opts.FTP, format); err != nil {
					return fmt.Errorf("write %s: %w", outRel, err)
				}
			}
			result.Outputs = append(result.Outputs, outRel)
			result.Stats.OutputsWritten++
		}

		if opts.Table != "" && !opts.DryRun {
			points = append(points, coursePoints(rel, course, opts.FTP)...)
		}
		result.Stats.FilesProcessed++
		logger.Debug("converted", "file", rel, "segments", len(course.Segments))
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if opts.Table != "" && !opts.DryRun {
		tablePath := filepath.Join(opts.OutDir, "course_points."+opts.Table)
		switch opts.Table {
		case TableCSV:
			if err := writeCoursePointsCSV(tablePath, points); err != nil {
				return nil, fmt.Errorf("write course points csv: %w", err)
			}
		case TableParquet:
			if err := writeCoursePointsParquet(tablePath, points); err != nil {
				return nil, fmt.Errorf("write course points parquet: %w", err)
			}
		}
		result.TablePath = tablePath
	}

	if !opts.DryRun {
		manifest := Manifest{
			FormatVersion: BatchFormatVersion,
			RunID:         uuid.NewString(),
			GeneratedAt:   time.Now().UTC(),
			InputDir:      opts.InDir,
			OutputDir:     opts.OutDir,
			FTP:           opts.FTP,
			Formats:       formats,
			Table:         opts.Table,
			Stats:         result.Stats,
			Outputs:       result.Outputs,
		}
		manifestPath := filepath.Join(opts.OutDir, "manifest.json")
		if err := writeJSON(manifestPath, manifest); err != nil {
			return nil, fmt.Errorf("write manifest.json: %w", err)
		}
		result.ManifestPath = manifestPath
	}

	logger.Info(
		"batch complete",
		"files", result.Stats.FilesProcessed,
		"skipped", result.Stats.FilesSkipped,
		"outputs", result.Stats.OutputsWritten,
		"dry_run", opts.DryRun,
	)
	return result, nil
}

func resolveFormats(format string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", mrc.FormatMRC:
		return []string{mrc.FormatMRC}, nil
	case mrc.FormatERG:
		return []string{mrc.FormatERG}, nil
	case FormatBoth:
		return []string{mrc.FormatMRC, mrc.FormatERG}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (expected mrc|erg|both)", format)
	}
}

func matchesExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// loadCourse parses one workout file through the reader matching its
// extension. FIT plans use the workout name as the course description; ZWO
// files carry their own description element.
func loadCourse(path, ext string, ftp float64, logger *slog.Logger) (*zwo2mrc.Course, error) {
	base := strings.TrimSuffix(filepath.Base(path), ext)

	if ext == ".fit" {
		plan, err := fitplan.ParseFile(path, ftp)
		if err != nil {
			return nil, err
		}
		for _, w := range plan.Warnings {
			logger.Warn("workout step dropped or degraded", "file", filepath.Base(path), "detail", w)
		}
		return zwo2mrc.BuildCourse(plan.Name, base, plan.Segments), nil
	}

	workout, err := zwo.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return zwo2mrc.BuildCourse(workout.Description, base, workout.Segments), nil
}

func writeCourseFile(path string, c *zwo2mrc.Course, ftp float64, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if format == mrc.FormatERG {
		err = mrc.EncodeERG(f, c, ftp)
	} else {
		err = mrc.EncodeMRC(f, c, ftp)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
