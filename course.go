package zwo2mrc

import (
	"math"
	"strconv"
)

// Segment kind tags used for reporting and structure inference.
const (
	KindSteady      = "steady"
	KindRamp        = "ramp"
	KindIntervalOn  = "interval-on"
	KindIntervalOff = "interval-off"
	KindFreeRide    = "freeride"
)

// messageDisplaySeconds is how long trainer software shows each cadence cue.
const messageDisplaySeconds = 3

// Segment is one normalized stretch of a workout plan. Power values are
// fractions of the rider's reference power (FTP); a cadence of 0 means the
// plan does not prescribe one.
type Segment struct {
	Kind            string  `json:"kind"`
	DurationSeconds int     `json:"duration_seconds"`
	StartPower      float64 `json:"start_power"`
	EndPower        float64 `json:"end_power"`
	Cadence         int     `json:"cadence_rpm,omitempty"`
}

// Breakpoint is one point of the course power profile.
type Breakpoint struct {
	Minutes float64 `json:"minutes"`
	Percent float64 `json:"percent"`
}

// Annotation is a timed on-screen cadence cue.
type Annotation struct {
	Seconds        int    `json:"seconds"`
	Cadence        string `json:"cadence"`
	DisplaySeconds int    `json:"display_seconds"`
}

// Course is a fully flattened workout plan ready for text emission.
type Course struct {
	Description  string       `json:"description"`
	BaseName     string       `json:"base_name"`
	Segments     []Segment    `json:"segments"`
	Breakpoints  []Breakpoint `json:"breakpoints"`
	Annotations  []Annotation `json:"annotations"`
	TotalMinutes float64      `json:"total_minutes"`
}

// BuildCourse flattens segments into the breakpoint and annotation timeline.
// Each segment contributes a breakpoint pair around a monotone time cursor
// and one cadence annotation at the segment start.
func BuildCourse(description, baseName string, segments []Segment) *Course {
	c := &Course{
		Description: description,
		BaseName:    baseName,
		Segments:    segments,
	}

	cursor := 0.0
	for _, seg := range segments {
		c.Breakpoints = append(c.Breakpoints, Breakpoint{
			Minutes: cursor,
			Percent: seg.StartPower * 100.0,
		})
		c.Annotations = append(c.Annotations, Annotation{
			Seconds:        int(math.Round(cursor * 60.0)),
			Cadence:        cadenceLabel(seg.Cadence),
			DisplaySeconds: messageDisplaySeconds,
		})
		cursor += float64(seg.DurationSeconds) / 60.0
		c.Breakpoints = append(c.Breakpoints, Breakpoint{
			Minutes: cursor,
			Percent: seg.EndPower * 100.0,
		})
	}
	c.TotalMinutes = cursor

	return c
}

func cadenceLabel(rpm int) string {
	if rpm == 0 {
		return "any"
	}
	return strconv.Itoa(rpm)
}
