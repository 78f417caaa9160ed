package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/lucasjlepore/zwo2mrc"
)

// coursePoints flattens one course into analytics rows, one per segment.
// BuildCourse emits exactly two breakpoints per segment, so rows pair them
// back up by index.
func coursePoints(sourceFile string, c *zwo2mrc.Course, ftp float64) []CoursePoint {
	points := make([]CoursePoint, 0, len(c.Segments))
	for i, seg := range c.Segments {
		start := c.Breakpoints[2*i]
		end := c.Breakpoints[2*i+1]
		points = append(points, CoursePoint{
			SourceFile:   sourceFile,
			SegmentIndex: i,
			Kind:         seg.Kind,
			StartMinutes: start.Minutes,
			EndMinutes:   end.Minutes,
			StartPercent: start.Percent,
			EndPercent:   end.Percent,
			StartWatts:   start.Percent * ftp / 100.0,
			EndWatts:     end.Percent * ftp / 100.0,
			DurationS:    seg.DurationSeconds,
			CadenceRPM:   seg.Cadence,
		})
	}
	return points
}

func writeCoursePointsCSV(path string, points []CoursePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"source_file", "segment_index", "kind",
		"start_minutes", "end_minutes", "start_percent", "end_percent",
		"start_watts", "end_watts", "duration_s", "cadence_rpm",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.SourceFile,
			strconv.Itoa(p.SegmentIndex),
			p.Kind,
			formatFloat(p.StartMinutes),
			formatFloat(p.EndMinutes),
			formatFloat(p.StartPercent),
			formatFloat(p.EndPercent),
			formatFloat(p.StartWatts),
			formatFloat(p.EndWatts),
			strconv.Itoa(p.DurationS),
			strconv.Itoa(p.CadenceRPM),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type coursePointParquetRow struct {
	SourceFile   string  `parquet:"name=source_file, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	SegmentIndex int64   `parquet:"name=segment_index, type=INT64"`
	Kind         string  `parquet:"name=kind, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	StartMinutes float64 `parquet:"name=start_minutes, type=DOUBLE"`
	EndMinutes   float64 `parquet:"name=end_minutes, type=DOUBLE"`
	StartPercent float64 `parquet:"name=start_percent, type=DOUBLE"`
	EndPercent   float64 `parquet:"name=end_percent, type=DOUBLE"`
	StartWatts   float64 `parquet:"name=start_watts, type=DOUBLE"`
	EndWatts     float64 `parquet:"name=end_watts, type=DOUBLE"`
	DurationS    int64   `parquet:"name=duration_s, type=INT64"`
	CadenceRPM   int64   `parquet:"name=cadence_rpm, type=INT64"`
}

func writeCoursePointsParquet(path string, points []CoursePoint) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(coursePointParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, p := range points {
		row := coursePointParquetRow{
			SourceFile:   p.SourceFile,
			SegmentIndex: int64(p.SegmentIndex),
			Kind:         p.Kind,
			StartMinutes: p.StartMinutes,
			EndMinutes:   p.EndMinutes,
			StartPercent: p.StartPercent,
			EndPercent:   p.EndPercent,
			StartWatts:   p.StartWatts,
			EndWatts:     p.EndWatts,
			DurationS:    int64(p.DurationS),
			CadenceRPM:   int64(p.CadenceRPM),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
