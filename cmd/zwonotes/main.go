package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	zwo2mrc "github.com/lucasjlepore/zwo2mrc"
	"github.com/lucasjlepore/zwo2mrc/fitplan"
	"github.com/lucasjlepore/zwo2mrc/mrc"
	"github.com/lucasjlepore/zwo2mrc/zwo"
)

func main() {
	var (
		ftp     = flag.Float64("ftp", mrc.DefaultFTP, "FTP in watts used for wattage and kJ estimates")
		jsonOut = flag.Bool("json", false, "Emit full course summary as JSON")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-workout-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	filePath := flag.Arg(0)
	course, err := loadCourse(filePath, *ftp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "summary failed: %v\n", err)
		os.Exit(1)
	}

	summary := zwo2mrc.SummarizeCourse(course, *ftp)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(summary.Notes)
}

func loadCourse(path string, ftp float64) (*zwo2mrc.Course, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	if ext == ".fit" {
		plan, err := fitplan.ParseFile(path, ftp)
		if err != nil {
			return nil, err
		}
		for _, w := range plan.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return zwo2mrc.BuildCourse(plan.Name, base, plan.Segments), nil
	}

	workout, err := zwo.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return zwo2mrc.BuildCourse(workout.Description, base, workout.Segments), nil
}
