package zwo2mrc

import (
	"math"
	"testing"
)

func TestBuildCourseTimeline(t *testing.T) {
	c := BuildCourse("two block ride", "two", []Segment{
		{Kind: KindSteady, DurationSeconds: 600, StartPower: 0.75, EndPower: 0.75, Cadence: 90},
		{Kind: KindRamp, DurationSeconds: 300, StartPower: 0.75, EndPower: 0.45},
	})

	wantBPs := []Breakpoint{
		{Minutes: 0, Percent: 75},
		{Minutes: 10, Percent: 75},
		{Minutes: 10, Percent: 75},
		{Minutes: 15, Percent: 45},
	}
	if len(c.Breakpoints) != len(wantBPs) {
		t.Fatalf("breakpoints = %+v, want %+v", c.Breakpoints, wantBPs)
	}
	for i, want := range wantBPs {
		if c.Breakpoints[i] != want {
			t.Errorf("breakpoint[%d] = %+v, want %+v", i, c.Breakpoints[i], want)
		}
	}

	wantAnns := []Annotation{
		{Seconds: 0, Cadence: "90", DisplaySeconds: 3},
		{Seconds: 600, Cadence: "any", DisplaySeconds: 3},
	}
	if len(c.Annotations) != len(wantAnns) {
		t.Fatalf("annotations = %+v, want %+v", c.Annotations, wantAnns)
	}
	for i, want := range wantAnns {
		if c.Annotations[i] != want {
			t.Errorf("annotation[%d] = %+v, want %+v", i, c.Annotations[i], want)
		}
	}

	if c.TotalMinutes != 15 {
		t.Errorf("TotalMinutes = %v, want 15", c.TotalMinutes)
	}
}

// Durations that are not whole minutes accumulate float error in the time
// cursor; annotation seconds must land on the true segment starts anyway.
func TestBuildCourseAnnotationSecondsRounding(t *testing.T) {
	segments := make([]Segment, 7)
	for i := range segments {
		segments[i] = Segment{Kind: KindSteady, DurationSeconds: 100, StartPower: 0.75, EndPower: 0.75}
	}
	c := BuildCourse("", "drift", segments)

	for i, ann := range c.Annotations {
		if want := i * 100; ann.Seconds != want {
			t.Errorf("annotation[%d].Seconds = %d, want %d", i, ann.Seconds, want)
		}
	}
	if got, want := c.TotalMinutes, 700.0/60.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("TotalMinutes = %v, want %v", got, want)
	}
}

func TestBuildCourseIntervalBoundaries(t *testing.T) {
	segments := []Segment{
		{Kind: KindIntervalOn, DurationSeconds: 60, StartPower: 1.0, EndPower: 1.0},
		{Kind: KindIntervalOff, DurationSeconds: 30, StartPower: 0.5, EndPower: 0.5},
		{Kind: KindIntervalOn, DurationSeconds: 60, StartPower: 1.0, EndPower: 1.0},
		{Kind: KindIntervalOff, DurationSeconds: 30, StartPower: 0.5, EndPower: 0.5},
	}
	c := BuildCourse("", "repeats", segments)

	wantBPs := []Breakpoint{
		{Minutes: 0, Percent: 100},
		{Minutes: 1, Percent: 100},
		{Minutes: 1, Percent: 50},
		{Minutes: 1.5, Percent: 50},
		{Minutes: 1.5, Percent: 100},
		{Minutes: 2.5, Percent: 100},
		{Minutes: 2.5, Percent: 50},
		{Minutes: 3, Percent: 50},
	}
	if len(c.Breakpoints) != len(wantBPs) {
		t.Fatalf("breakpoints = %+v, want %+v", c.Breakpoints, wantBPs)
	}
	for i, want := range wantBPs {
		if c.Breakpoints[i] != want {
			t.Errorf("breakpoint[%d] = %+v, want %+v", i, c.Breakpoints[i], want)
		}
	}
	if c.TotalMinutes != 3 {
		t.Errorf("TotalMinutes = %v, want 3", c.TotalMinutes)
	}
}

func TestZonePower(t *testing.T) {
	tests := []struct {
		zone int
		want float64
	}{
		{1, 0.48}, {2, 0.65}, {3, 0.81}, {4, 0.91},
		{5, 1.00}, {6, 1.13}, {7, 1.28},
		{0, 0}, {8, 0}, {-1, 0},
	}
	for _, tt := range tests {
		if got := ZonePower(tt.zone); got != tt.want {
			t.Errorf("ZonePower(%d) = %v, want %v", tt.zone, got, tt.want)
		}
	}
}

func TestBuildPlannedZones(t *testing.T) {
	zones := BuildPlannedZones([]Segment{
		{Kind: KindSteady, DurationSeconds: 300, StartPower: 0.70, EndPower: 0.70},
		{Kind: KindIntervalOn, DurationSeconds: 100, StartPower: 1.10, EndPower: 1.10},
	})

	if len(zones) != 7 {
		t.Fatalf("zones = %d entries, want 7", len(zones))
	}

	byName := make(map[string]PlannedZone, len(zones))
	for _, z := range zones {
		byName[z.Zone] = z
	}
	if z := byName["Z2 Endurance"]; z.Seconds != 300 || z.Percentage != 75 {
		t.Errorf("Z2 = %+v, want 300s at 75%%", z)
	}
	if z := byName["Z5 VO2"]; z.Seconds != 100 || z.Percentage != 25 {
		t.Errorf("Z5 = %+v, want 100s at 25%%", z)
	}
	if z := byName["Z1 Active Recovery"]; z.Seconds != 0 {
		t.Errorf("Z1 = %+v, want empty", z)
	}
}

func TestBuildPlannedZonesEmpty(t *testing.T) {
	if got := BuildPlannedZones(nil); got != nil {
		t.Errorf("BuildPlannedZones(nil) = %+v, want nil", got)
	}
}
