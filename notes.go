package zwo2mrc

import (
	"fmt"
	"math"
	"strings"
)

// PlanSummary bundles the derived views of one parsed course.
type PlanSummary struct {
	Course    *Course         `json:"course"`
	FTPWatts  float64         `json:"ftp_watts"`
	Zones     []PlannedZone   `json:"planned_zones,omitempty"`
	Structure CourseStructure `json:"structure"`
	Notes     string          `json:"notes"`
}

// SummarizeCourse derives the zone distribution, inferred structure, and
// readable notes for a flattened course.
func SummarizeCourse(c *Course, ftpWatts float64) *PlanSummary {
	s := &PlanSummary{
		Course:   c,
		FTPWatts: ftpWatts,
	}
	s.Zones = BuildPlannedZones(c.Segments)
	s.Structure = InferCourseStructure(c.Segments)
	s.Notes = BuildCourseNotes(s)
	return s
}

// BuildCourseNotes turns a plan summary into a detailed course briefing.
func BuildCourseNotes(s *PlanSummary) string {
	if s == nil || s.Course == nil {
		return ""
	}
	c := s.Course

	var b strings.Builder

	fmt.Fprintf(&b, "Course: %s\n", c.BaseName)
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", strings.ReplaceAll(c.Description, "\n", " "))
	}
	fmt.Fprintf(
		&b,
		"Duration %s | Segments %d | Cadence cues %d\n",
		formatDuration(c.TotalMinutes*60.0),
		len(c.Segments),
		len(c.Annotations),
	)
	avgPct, peakPct := plannedPowerSpread(c.Segments)
	fmt.Fprintf(
		&b,
		"Power %.0f%% avg / %.0f%% peak FTP | Est. work %.0f kJ at FTP %.0f W\n",
		avgPct,
		peakPct,
		estimatedWorkKJ(c.Segments, s.FTPWatts),
		s.FTPWatts,
	)

	if len(s.Zones) > 0 {
		b.WriteString("\nPlanned Zone Distribution\n")
		for _, z := range s.Zones {
			if z.Seconds <= 0 {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s (%.1f%%)\n", z.Zone, formatDuration(z.Seconds), z.Percentage)
		}
	}

	if s.Structure.CanonicalLabel != "" {
		b.WriteString("\nCourse Structure\n")
		fmt.Fprintf(&b, "- %s (confidence %.0f%%)\n", s.Structure.CanonicalLabel, s.Structure.Confidence*100.0)
		if s.Structure.Openers != nil {
			fmt.Fprintf(
				&b,
				"- Openers: %dx%s primers at %.0f%% FTP before the main work.\n",
				s.Structure.Openers.Reps,
				shortDuration(s.Structure.Openers.OnDurationSeconds),
				s.Structure.Openers.OnPctFTP,
			)
		}
		if s.Structure.MainSet != nil && s.Structure.MainSet.RecoveryPctFTP > 0 {
			fmt.Fprintf(
				&b,
				"- Recoveries sit at %.0f%% FTP; spin them out rather than coasting.\n",
				s.Structure.MainSet.RecoveryPctFTP,
			)
		}
	}

	b.WriteString("\nCoaching Notes\n")
	b.WriteString("- ")
	b.WriteString(planFocus(s))
	b.WriteString("\n- ")
	b.WriteString(planAdvice(s))
	b.WriteByte('\n')

	return strings.TrimSpace(b.String())
}

func planFocus(s *PlanSummary) string {
	var dominant *PlannedZone
	for i := range s.Zones {
		z := &s.Zones[i]
		if z.Seconds <= 0 {
			continue
		}
		if dominant == nil || z.Seconds > dominant.Seconds {
			dominant = z
		}
	}
	if dominant == nil {
		return "No power targets in this plan; ride by feel."
	}
	return fmt.Sprintf("Primary load is %s (%.0f%% of planned time).", dominant.Zone, dominant.Percentage)
}

func planAdvice(s *PlanSummary) string {
	main := s.Structure.MainSet
	if main != nil && main.Reps >= 3 && main.WorkPctFTP >= 105 {
		return "VO2-style repeats; take the recoveries easy and end the set early if power collapses."
	}
	if main != nil && main.Reps > 0 && main.WorkPctFTP >= 90 {
		return "Threshold work; settle into a steady cadence by the second rep and hold it."
	}
	avgPct, _ := plannedPowerSpread(s.Course.Segments)
	if avgPct >= 80 {
		return "Sustained tempo riding; start fueling in the first half."
	}
	return "Endurance pacing; keep the effort conversational throughout."
}

// plannedPowerSpread returns the duration-weighted average and the peak
// planned power, both as %FTP.
func plannedPowerSpread(segments []Segment) (avg, peak float64) {
	sum := 0.0
	weight := 0.0
	for _, seg := range segments {
		d := float64(seg.DurationSeconds)
		if d <= 0 {
			continue
		}
		mid := (seg.StartPower + seg.EndPower) / 2.0 * 100.0
		sum += mid * d
		weight += d
		if p := seg.StartPower * 100.0; p > peak {
			peak = p
		}
		if p := seg.EndPower * 100.0; p > peak {
			peak = p
		}
	}
	return safeDiv(sum, weight), peak
}

func estimatedWorkKJ(segments []Segment, ftpWatts float64) float64 {
	if ftpWatts <= 0 {
		return 0
	}
	joules := 0.0
	for _, seg := range segments {
		midFrac := (seg.StartPower + seg.EndPower) / 2.0
		joules += midFrac * ftpWatts * float64(seg.DurationSeconds)
	}
	return joules / 1000.0
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
