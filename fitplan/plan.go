// Package fitplan decodes FIT workout (plan) files into normalized course
// segments, so FIT-based plans convert through the same path as ZWO.
package fitplan

import (
	"fmt"
	"os"

	"github.com/tormoder/fit"

	"github.com/lucasjlepore/zwo2mrc"
)

// Raw FIT workout-step codes used for dispatch.
const (
	durationTime   = 0
	durationRepeat = 6
	targetCadence  = 3
	targetPower    = 4

	intensityRest     = 1
	intensityWarmup   = 2
	intensityCooldown = 3

	// Power targets at or above this value are watts plus the offset;
	// below it they are %FTP.
	wattOffset = 1000
)

// freeRidePower is the flat fraction assigned to steps without a usable
// power or cadence target.
const freeRidePower = 0.40

// Plan is a decoded FIT workout plan.
type Plan struct {
	Name     string
	Segments []zwo2mrc.Segment
	Warnings []string
}

type planStep struct {
	msg      *fit.WorkoutStepMsg
	repeated bool
}

// ParseFile decodes a FIT workout file. Absolute-watt targets are converted
// to fractions of ftpWatts; %FTP targets convert directly.
func ParseFile(path string, ftpWatts float64) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT workout: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT workout: %w", err)
	}
	workout, err := decoded.Workout()
	if err != nil {
		return nil, fmt.Errorf("workout FIT expected: %w", err)
	}
	return buildPlan(workout, ftpWatts)
}

func buildPlan(wf *fit.WorkoutFile, ftpWatts float64) (*Plan, error) {
	plan := &Plan{}
	if wf.Workout != nil {
		plan.Name = wf.Workout.WktName
	}

	steps, warnings := expandSteps(wf.WorkoutSteps)
	plan.Warnings = warnings
	for _, ps := range steps {
		seg, ok, warning := stepSegment(ps, ftpWatts)
		if warning != "" {
			plan.Warnings = append(plan.Warnings, warning)
		}
		if ok {
			plan.Segments = append(plan.Segments, seg)
		}
	}
	if len(plan.Segments) == 0 {
		return nil, fmt.Errorf("workout file has no usable steps")
	}
	return plan, nil
}

// expandSteps resolves repeat blocks into a linear step list. A repeat step
// names the index it loops back to; its target value is the total number of
// times the block runs. Nested repeats are not re-expanded.
func expandSteps(steps []*fit.WorkoutStepMsg) ([]planStep, []string) {
	inRepeat := make([]bool, len(steps))
	for i, st := range steps {
		if st == nil || st.DurationType != durationRepeat {
			continue
		}
		for j := int(st.DurationValue); j >= 0 && j < i; j++ {
			inRepeat[j] = true
		}
	}

	out := make([]planStep, 0, len(steps))
	var warnings []string
	for i, st := range steps {
		if st == nil {
			continue
		}
		if st.DurationType == durationRepeat {
			from := int(st.DurationValue)
			reps := int(safeU32(st.TargetValue))
			if from < 0 || from >= i {
				warnings = append(warnings, fmt.Sprintf("repeat step %d ignored: block start %d out of range", i, from))
				continue
			}
			for r := 1; r < reps; r++ {
				for j := from; j < i; j++ {
					if steps[j] != nil && steps[j].DurationType != durationRepeat {
						out = append(out, planStep{msg: steps[j], repeated: true})
					}
				}
			}
			continue
		}
		out = append(out, planStep{msg: st, repeated: inRepeat[i]})
	}
	return out, warnings
}

// stepSegment maps one linearized step onto a course segment. Only
// time-based steps carry over; repeat-block membership and the intensity
// code decide the segment kind.
func stepSegment(ps planStep, ftpWatts float64) (zwo2mrc.Segment, bool, string) {
	st := ps.msg
	if st.DurationType != durationTime {
		return zwo2mrc.Segment{}, false, fmt.Sprintf("step %q skipped: unsupported duration type %d", st.WktStepName, st.DurationType)
	}
	durationMS := safeU32(st.DurationValue)
	if durationMS == 0 {
		return zwo2mrc.Segment{}, false, fmt.Sprintf("step %q skipped: missing duration", st.WktStepName)
	}

	seg := zwo2mrc.Segment{
		Kind:            stepKind(ps),
		DurationSeconds: int(durationMS / 1000),
	}

	switch st.TargetType {
	case targetPower:
		frac := powerFraction(safeU32(st.TargetValue), ftpWatts)
		if lo, hi := safeU32(st.CustomTargetValueLow), safeU32(st.CustomTargetValueHigh); lo > 0 && hi > 0 {
			frac = (powerFraction(lo, ftpWatts) + powerFraction(hi, ftpWatts)) / 2.0
		}
		seg.StartPower = frac
		seg.EndPower = frac
	case targetCadence:
		cad := int(safeU32(st.TargetValue))
		if lo, hi := safeU32(st.CustomTargetValueLow), safeU32(st.CustomTargetValueHigh); lo > 0 && hi > 0 {
			cad = int((lo + hi) / 2)
		}
		seg.Cadence = cad
	default:
		seg.Kind = zwo2mrc.KindFreeRide
		seg.StartPower = freeRidePower
		seg.EndPower = freeRidePower
		return seg, true, fmt.Sprintf("step %q: target type %d has no course equivalent, using free ride", st.WktStepName, st.TargetType)
	}

	return seg, true, ""
}

func stepKind(ps planStep) string {
	st := ps.msg
	switch {
	case ps.repeated && st.Intensity == intensityRest:
		return zwo2mrc.KindIntervalOff
	case ps.repeated:
		return zwo2mrc.KindIntervalOn
	case st.Intensity == intensityWarmup || st.Intensity == intensityCooldown:
		return zwo2mrc.KindRamp
	default:
		return zwo2mrc.KindSteady
	}
}

// powerFraction converts a raw workout power value to a fraction of FTP.
func powerFraction(raw uint32, ftpWatts float64) float64 {
	v := float64(raw)
	if v <= 0 {
		return 0
	}
	if v >= wattOffset {
		if ftpWatts <= 0 {
			return 0
		}
		return (v - wattOffset) / ftpWatts
	}
	return v / 100.0
}

func safeU32(v uint32) uint32 {
	if v == ^uint32(0) {
		return 0
	}
	return v
}
