// Package mrc renders flattened courses into MRC and ERG trainer course
// files. MRC carries targets as %FTP, ERG as absolute watts; the section
// layout is identical.
package mrc

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasjlepore/zwo2mrc"
)

// Output format names.
const (
	FormatMRC = "mrc"
	FormatERG = "erg"
)

// DefaultFTP is the reference power written when none is configured.
const DefaultFTP = 200

const courseFileVersion = 2

// EncodeMRC writes the %FTP rendition of c.
func EncodeMRC(w io.Writer, c *zwo2mrc.Course, ftp float64) error {
	return encodeCourse(w, c, ftp, FormatMRC)
}

// EncodeERG writes the absolute-watt rendition of c.
func EncodeERG(w io.Writer, c *zwo2mrc.Course, ftp float64) error {
	return encodeCourse(w, c, ftp, FormatERG)
}

// encodeCourse renders the three marker-delimited sections. Trainer software
// is whitespace-sensitive here: the column header carries two spaces, data
// rows are tab-separated, and every value prints with two decimals.
func encodeCourse(w io.Writer, c *zwo2mrc.Course, ftp float64, format string) error {
	column := "PERCENT"
	if format == FormatERG {
		column = "WATTS"
	}

	var b strings.Builder

	b.WriteString("[COURSE HEADER]\n")
	fmt.Fprintf(&b, "FTP = %g\n", ftp)
	fmt.Fprintf(&b, "VERSION = %d\n", courseFileVersion)
	b.WriteString("UNITS = METRIC\n")
	fmt.Fprintf(&b, "DESCRIPTION = %s\n", strings.ReplaceAll(c.Description, "\n", " "))
	fmt.Fprintf(&b, "FILE NAME = %s.%s\n", c.BaseName, format)
	fmt.Fprintf(&b, "MINUTES  %s\n", column)
	b.WriteString("[END COURSE HEADER]\n")

	b.WriteString("[COURSE DATA]\n")
	for _, bp := range c.Breakpoints {
		value := bp.Percent
		if format == FormatERG {
			value = bp.Percent * ftp / 100.0
		}
		fmt.Fprintf(&b, "%.2f\t%.2f\n", bp.Minutes, value)
	}
	b.WriteString("[END COURSE DATA]\n")

	b.WriteString("[COURSE TEXT]\n")
	for _, a := range c.Annotations {
		fmt.Fprintf(&b, "%d Pedal at %s RPM %d\n", a.Seconds, a.Cadence, a.DisplaySeconds)
	}
	b.WriteString("[END COURSE TEXT]\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write course file: %w", err)
	}
	return nil
}
