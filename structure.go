package zwo2mrc

import (
	"fmt"
	"math"
	"strings"
)

const courseStructureSchemaVersion = "course_structure_v1"

// Openers shorter than this count as primer efforts rather than a main set.
const openerMaxSeconds = 75.0

// CourseStructure is a semantic view of the planned session.
type CourseStructure struct {
	SchemaVersion  string        `json:"schema_version"`
	Confidence     float64       `json:"confidence"`
	CanonicalLabel string        `json:"canonical_label"`
	Blocks         []CourseBlock `json:"blocks,omitempty"`
	Openers        *OpenersPlan  `json:"openers,omitempty"`
	MainSet        *MainSetPlan  `json:"main_set,omitempty"`
}

// CourseBlock represents one contiguous stretch of the plan.
type CourseBlock struct {
	BlockType          string  `json:"block_type"`
	StartSegment       int     `json:"start_segment"`
	EndSegment         int     `json:"end_segment"`
	StartOffsetSeconds float64 `json:"start_offset_seconds"`
	EndOffsetSeconds   float64 `json:"end_offset_seconds"`
	DurationSeconds    float64 `json:"duration_seconds"`
	AvgPctFTP          float64 `json:"avg_pct_ftp"`
	Description        string  `json:"description"`
}

// OpenersPlan captures short pre-main-set primer efforts.
type OpenersPlan struct {
	Reps               int     `json:"reps"`
	OnDurationSeconds  float64 `json:"on_duration_seconds"`
	OffDurationSeconds float64 `json:"off_duration_seconds"`
	OnPctFTP           float64 `json:"on_pct_ftp"`
	OffPctFTP          float64 `json:"off_pct_ftp"`
}

// MainSetPlan captures the primary planned interval set.
type MainSetPlan struct {
	Reps                    int     `json:"reps"`
	WorkDurationSeconds     float64 `json:"work_duration_seconds"`
	RecoveryDurationSeconds float64 `json:"recovery_duration_seconds"`
	WorkPctFTP              float64 `json:"work_pct_ftp"`
	RecoveryPctFTP          float64 `json:"recovery_pct_ftp"`
	Prescription            string  `json:"prescription"`
}

type segmentRun struct {
	category string
	start    int
	end      int

	reps       int
	onDur      []float64
	offDur     []float64
	onPct      []float64
	offPct     []float64
	durSeconds float64
}

// InferCourseStructure converts the segment sequence into explicit course
// blocks and a canonical prescription label.
func InferCourseStructure(segments []Segment) CourseStructure {
	cs := CourseStructure{
		SchemaVersion: courseStructureSchemaVersion,
		Confidence:    0.25,
	}
	if len(segments) == 0 {
		cs.CanonicalLabel = "unable to infer course structure (no segments)"
		return cs
	}

	runs := splitSegmentRuns(segments)
	mainIdx := pickMainSetRun(runs)

	for i, run := range runs {
		switch run.category {
		case "ramp":
			switch {
			case i == 0:
				cs.Blocks = append(cs.Blocks, buildCourseBlock(segments, "warmup", run.start, run.end, "Aerobic warmup before intensity"))
				cs.Confidence += 0.08
			case i == len(runs)-1:
				cs.Blocks = append(cs.Blocks, buildCourseBlock(segments, "cooldown", run.start, run.end, "Easy cooldown to finish the session"))
				cs.Confidence += 0.08
			default:
				cs.Blocks = append(cs.Blocks, buildCourseBlock(segments, "ramp", run.start, run.end, "Mid-session ramp"))
			}
		case "interval":
			switch {
			case i == mainIdx:
				main := buildMainSetPlan(run)
				cs.MainSet = &main
				cs.Blocks = append(cs.Blocks, buildCourseBlock(segments, "main_set", run.start, run.end, main.Prescription))
				cs.Confidence += 0.36
				if main.Reps >= 4 {
					cs.Confidence += 0.08
				}
			case i < mainIdx && run.reps >= 2 && average(run.onDur) <= openerMaxSeconds:
				cs.Openers = &OpenersPlan{
					Reps:               run.reps,
					OnDurationSeconds:  average(run.onDur),
					OffDurationSeconds: average(run.offDur),
					OnPctFTP:           average(run.onPct),
					OffPctFTP:          average(run.offPct),
				}
				cs.Blocks = append(cs.Blocks, buildCourseBlock(
					segments,
					"openers",
					run.start,
					run.end,
					fmt.Sprintf("%dx%s on/%s easy primer efforts", run.reps, shortDuration(average(run.onDur)), shortDuration(average(run.offDur))),
				))
				cs.Confidence += 0.16
			default:
				cs.Blocks = append(cs.Blocks, buildCourseBlock(
					segments,
					"intervals",
					run.start,
					run.end,
					fmt.Sprintf("%dx%s secondary interval set", run.reps, shortDuration(average(run.onDur))),
				))
			}
		case "freeride":
			cs.Blocks = append(cs.Blocks, buildCourseBlock(segments, "freeride", run.start, run.end, "Free ride at the rider's chosen effort"))
		default:
			block := buildCourseBlock(segments, "steady", run.start, run.end, "")
			block.Description = fmt.Sprintf("Steady %s @%.0f%% FTP", shortDuration(block.DurationSeconds), block.AvgPctFTP)
			cs.Blocks = append(cs.Blocks, block)
		}
	}

	if len(cs.Blocks) >= 3 {
		cs.Confidence += 0.05
	}
	if cs.Confidence > 0.99 {
		cs.Confidence = 0.99
	}

	cs.CanonicalLabel = buildCanonicalCourseLabel(cs)
	return cs
}

func splitSegmentRuns(segments []Segment) []segmentRun {
	runs := make([]segmentRun, 0, 4)
	for i, seg := range segments {
		cat := segmentCategory(seg.Kind)
		if len(runs) == 0 || runs[len(runs)-1].category != cat {
			runs = append(runs, segmentRun{category: cat, start: i, end: i})
		}
		run := &runs[len(runs)-1]
		run.end = i
		run.durSeconds += float64(seg.DurationSeconds)

		pct := (seg.StartPower + seg.EndPower) / 2.0 * 100.0
		switch seg.Kind {
		case KindIntervalOn:
			run.reps++
			run.onDur = append(run.onDur, float64(seg.DurationSeconds))
			run.onPct = append(run.onPct, pct)
		case KindIntervalOff:
			run.offDur = append(run.offDur, float64(seg.DurationSeconds))
			run.offPct = append(run.offPct, pct)
		}
	}
	return runs
}

func segmentCategory(kind string) string {
	switch kind {
	case KindRamp:
		return "ramp"
	case KindIntervalOn, KindIntervalOff:
		return "interval"
	case KindFreeRide:
		return "freeride"
	default:
		return "steady"
	}
}

// pickMainSetRun returns the index of the interval run with the most work
// reps, ties broken by total duration, or -1 when the plan has no intervals.
func pickMainSetRun(runs []segmentRun) int {
	best := -1
	for i, run := range runs {
		if run.category != "interval" || run.reps == 0 {
			continue
		}
		if best < 0 ||
			run.reps > runs[best].reps ||
			(run.reps == runs[best].reps && run.durSeconds > runs[best].durSeconds) {
			best = i
		}
	}
	return best
}

func buildMainSetPlan(run segmentRun) MainSetPlan {
	plan := MainSetPlan{
		Reps:                    run.reps,
		WorkDurationSeconds:     average(run.onDur),
		RecoveryDurationSeconds: average(run.offDur),
		WorkPctFTP:              average(run.onPct),
		RecoveryPctFTP:          average(run.offPct),
	}
	if len(run.offDur) > 0 {
		plan.Prescription = fmt.Sprintf(
			"%dx%s @%.0f%% FTP with %s @%.0f%% FTP recoveries",
			plan.Reps,
			shortDuration(plan.WorkDurationSeconds),
			plan.WorkPctFTP,
			shortDuration(plan.RecoveryDurationSeconds),
			plan.RecoveryPctFTP,
		)
	} else {
		plan.Prescription = fmt.Sprintf(
			"%dx%s @%.0f%% FTP",
			plan.Reps,
			shortDuration(plan.WorkDurationSeconds),
			plan.WorkPctFTP,
		)
	}
	return plan
}

func buildCanonicalCourseLabel(cs CourseStructure) string {
	if len(cs.Blocks) == 0 {
		return "unclassified course structure"
	}
	parts := make([]string, 0, 4)
	for _, b := range cs.Blocks {
		switch b.BlockType {
		case "warmup":
			parts = append(parts, fmt.Sprintf("warmup %s", shortDuration(b.DurationSeconds)))
		case "openers":
			if cs.Openers != nil {
				parts = append(parts, fmt.Sprintf("openers %dx%s/%s", cs.Openers.Reps, shortDuration(cs.Openers.OnDurationSeconds), shortDuration(cs.Openers.OffDurationSeconds)))
			}
		case "main_set":
			if cs.MainSet != nil {
				parts = append(parts, cs.MainSet.Prescription)
			}
		case "cooldown":
			parts = append(parts, fmt.Sprintf("cooldown %s", shortDuration(b.DurationSeconds)))
		}
	}
	if len(parts) == 0 {
		if b := longestBlock(cs.Blocks); b != nil {
			switch b.BlockType {
			case "freeride":
				return fmt.Sprintf("free ride %s", shortDuration(b.DurationSeconds))
			default:
				return fmt.Sprintf("steady %s @%.0f%% FTP", shortDuration(b.DurationSeconds), b.AvgPctFTP)
			}
		}
		return "unclassified course structure"
	}
	return strings.Join(parts, " + ")
}

func longestBlock(blocks []CourseBlock) *CourseBlock {
	var best *CourseBlock
	for i := range blocks {
		if best == nil || blocks[i].DurationSeconds > best.DurationSeconds {
			best = &blocks[i]
		}
	}
	return best
}

func buildCourseBlock(segments []Segment, blockType string, start, end int, description string) CourseBlock {
	startOffset := 0.0
	for i := 0; i < start; i++ {
		startOffset += float64(segments[i].DurationSeconds)
	}

	dur := 0.0
	sumPct := 0.0
	weight := 0.0
	for i := start; i <= end && i < len(segments); i++ {
		seg := segments[i]
		d := float64(seg.DurationSeconds)
		dur += d
		pct := (seg.StartPower + seg.EndPower) / 2.0 * 100.0
		if pct > 0 {
			sumPct += pct * d
			weight += d
		}
	}

	return CourseBlock{
		BlockType:          blockType,
		StartSegment:       start,
		EndSegment:         end,
		StartOffsetSeconds: startOffset,
		EndOffsetSeconds:   startOffset + dur,
		DurationSeconds:    dur,
		AvgPctFTP:          safeDiv(sumPct, weight),
		Description:        description,
	}
}

func shortDuration(seconds float64) string {
	s := int(math.Round(seconds))
	if s <= 0 {
		return "0s"
	}
	if s%60 == 0 {
		return fmt.Sprintf("%dm", s/60)
	}
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func safeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
