// Package zwo decodes ZWO workout XML into normalized course segments.
package zwo

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/lucasjlepore/zwo2mrc"
)

// Workout is a decoded ZWO plan with its segments normalized.
type Workout struct {
	Description string
	Segments    []zwo2mrc.Segment
}

// document mirrors the ZWO file shape. The root element name is not checked;
// only the workout element is required.
type document struct {
	Description string       `xml:"description"`
	Workout     *workoutElem `xml:"workout"`
}

type workoutElem struct {
	Steps []step `xml:",any"`
}

// step carries the attribute union of every segment variant. Attributes stay
// raw strings so malformed numbers degrade to defaults instead of failing
// the decode.
type step struct {
	XMLName xml.Name

	Duration    string `xml:"Duration,attr"`
	OnDuration  string `xml:"OnDuration,attr"`
	OffDuration string `xml:"OffDuration,attr"`
	Repeat      string `xml:"Repeat,attr"`

	Power        string `xml:"Power,attr"`
	PowerLow     string `xml:"PowerLow,attr"`
	PowerHigh    string `xml:"PowerHigh,attr"`
	OnPower      string `xml:"OnPower,attr"`
	OffPower     string `xml:"OffPower,attr"`
	PowerOnHigh  string `xml:"PowerOnHigh,attr"`
	PowerOnLow   string `xml:"PowerOnLow,attr"`
	PowerOffHigh string `xml:"PowerOffHigh,attr"`
	PowerOffLow  string `xml:"PowerOffLow,attr"`
	Zone         string `xml:"Zone,attr"`

	Cadence        string `xml:"Cadence,attr"`
	CadenceLow     string `xml:"CadenceLow,attr"`
	CadenceHigh    string `xml:"CadenceHigh,attr"`
	CadenceResting string `xml:"CadenceResting,attr"`
}

// ParseFile reads and normalizes one ZWO workout file.
func ParseFile(path string) (*Workout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workout file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a ZWO document and flattens every known segment variant in
// document order. Unknown segment tags are skipped.
func Parse(r io.Reader) (*Workout, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode workout XML: %w", err)
	}
	if doc.Workout == nil {
		return nil, fmt.Errorf("workout element missing")
	}

	w := &Workout{Description: doc.Description}
	for _, st := range doc.Workout.Steps {
		w.Segments = append(w.Segments, flattenStep(st)...)
	}
	return w, nil
}
