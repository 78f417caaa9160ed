package fitplan

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tormoder/fit"

	"github.com/lucasjlepore/zwo2mrc"
)

func buildWorkoutFIT(t *testing.T, name string, steps []*fit.WorkoutStepMsg) string {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeWorkout, header)
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	wf, err := file.Workout()
	if err != nil {
		t.Fatalf("workout accessor: %v", err)
	}
	wf.Workout = fit.NewWorkoutMsg()
	wf.Workout.WktName = name
	wf.WorkoutSteps = steps

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}

	path := filepath.Join(t.TempDir(), "plan.fit")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fit: %v", err)
	}
	return path
}

func powerStep(name string, durationMS, target uint32, intensity fit.Intensity) *fit.WorkoutStepMsg {
	st := fit.NewWorkoutStepMsg()
	st.WktStepName = name
	st.DurationType = durationTime
	st.DurationValue = durationMS
	st.TargetType = targetPower
	st.TargetValue = target
	st.Intensity = intensity
	return st
}

func TestParseFilePowerSteps(t *testing.T) {
	path := buildWorkoutFIT(t, "Morning Builder", []*fit.WorkoutStepMsg{
		powerStep("warm", 300000, 60, intensityWarmup),
		powerStep("work", 1200000, 1250, 0),
		powerStep("cool", 300000, 50, intensityCooldown),
	})

	plan, err := ParseFile(path, 250)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	if plan.Name != "Morning Builder" {
		t.Errorf("Name = %q, want %q", plan.Name, "Morning Builder")
	}
	if len(plan.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", plan.Warnings)
	}

	want := []zwo2mrc.Segment{
		{Kind: zwo2mrc.KindRamp, DurationSeconds: 300, StartPower: 0.6, EndPower: 0.6},
		{Kind: zwo2mrc.KindSteady, DurationSeconds: 1200, StartPower: 1.0, EndPower: 1.0},
		{Kind: zwo2mrc.KindRamp, DurationSeconds: 300, StartPower: 0.5, EndPower: 0.5},
	}
	if len(plan.Segments) != len(want) {
		t.Fatalf("segments = %+v, want %+v", plan.Segments, want)
	}
	for i := range want {
		if plan.Segments[i] != want[i] {
			t.Errorf("segment[%d] = %+v, want %+v", i, plan.Segments[i], want[i])
		}
	}
}

func TestParseFileRepeatExpansion(t *testing.T) {
	repeat := fit.NewWorkoutStepMsg()
	repeat.DurationType = durationRepeat
	repeat.DurationValue = 0 // loop back to the first step
	repeat.TargetValue = 3   // run the block three times in total

	path := buildWorkoutFIT(t, "3x1min", []*fit.WorkoutStepMsg{
		powerStep("on", 60000, 110, 0),
		powerStep("off", 30000, 50, intensityRest),
		repeat,
	})

	plan, err := ParseFile(path, 200)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	if len(plan.Segments) != 6 {
		t.Fatalf("segments = %d, want 6 (3 on/off pairs)", len(plan.Segments))
	}
	for i := 0; i < 6; i += 2 {
		on, off := plan.Segments[i], plan.Segments[i+1]
		if on.Kind != zwo2mrc.KindIntervalOn || on.DurationSeconds != 60 || on.StartPower != 1.1 {
			t.Errorf("on rep %d = %+v", i/2, on)
		}
		if off.Kind != zwo2mrc.KindIntervalOff || off.DurationSeconds != 30 || off.StartPower != 0.5 {
			t.Errorf("off rep %d = %+v", i/2, off)
		}
	}
}

func TestParseFileCustomPowerRange(t *testing.T) {
	st := powerStep("sweet spot", 600000, 0, 0)
	st.CustomTargetValueLow = 1100
	st.CustomTargetValueHigh = 1200

	path := buildWorkoutFIT(t, "Sweet Spot", []*fit.WorkoutStepMsg{st})

	plan, err := ParseFile(path, 200)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	// (100 W + 200 W over FTP offset) midway at FTP 200 -> 0.75.
	if got := plan.Segments[0].StartPower; got != 0.75 {
		t.Errorf("StartPower = %v, want 0.75", got)
	}
}

func TestParseFileCadenceTarget(t *testing.T) {
	st := fit.NewWorkoutStepMsg()
	st.WktStepName = "spin ups"
	st.DurationType = durationTime
	st.DurationValue = 600000
	st.TargetType = targetCadence
	st.TargetValue = 95

	path := buildWorkoutFIT(t, "Cadence Drills", []*fit.WorkoutStepMsg{st})

	plan, err := ParseFile(path, 200)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	seg := plan.Segments[0]
	if seg.Cadence != 95 {
		t.Errorf("Cadence = %d, want 95", seg.Cadence)
	}
	if seg.StartPower != 0 || seg.Kind != zwo2mrc.KindSteady {
		t.Errorf("segment = %+v", seg)
	}
}

func TestParseFileUnsupportedTargetFreeRides(t *testing.T) {
	st := fit.NewWorkoutStepMsg()
	st.WktStepName = "open road"
	st.DurationType = durationTime
	st.DurationValue = 900000
	st.TargetType = 2 // open target

	path := buildWorkoutFIT(t, "Open Ride", []*fit.WorkoutStepMsg{st})

	plan, err := ParseFile(path, 200)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	seg := plan.Segments[0]
	if seg.Kind != zwo2mrc.KindFreeRide || seg.StartPower != 0.40 {
		t.Errorf("segment = %+v, want free ride at 0.40", seg)
	}
	if len(plan.Warnings) != 1 || !strings.Contains(plan.Warnings[0], "free ride") {
		t.Errorf("Warnings = %v, want free-ride note", plan.Warnings)
	}
}

func TestParseFileSkipsNonTimeDurations(t *testing.T) {
	distance := fit.NewWorkoutStepMsg()
	distance.WktStepName = "5k"
	distance.DurationType = 1 // distance
	distance.DurationValue = 5000
	distance.TargetType = targetPower
	distance.TargetValue = 80

	path := buildWorkoutFIT(t, "Mixed", []*fit.WorkoutStepMsg{
		distance,
		powerStep("steady", 600000, 75, 0),
	})

	plan, err := ParseFile(path, 200)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(plan.Segments) != 1 {
		t.Fatalf("segments = %+v, want only the timed step", plan.Segments)
	}
	if len(plan.Warnings) != 1 || !strings.Contains(plan.Warnings[0], "unsupported duration type") {
		t.Errorf("Warnings = %v, want unsupported duration note", plan.Warnings)
	}
}

func TestParseFileNoUsableSteps(t *testing.T) {
	distance := fit.NewWorkoutStepMsg()
	distance.DurationType = 1
	distance.DurationValue = 5000

	path := buildWorkoutFIT(t, "Unusable", []*fit.WorkoutStepMsg{distance})

	_, err := ParseFile(path, 200)
	if err == nil {
		t.Fatal("ParseFile() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "no usable steps") {
		t.Errorf("error = %q, want no usable steps", err)
	}
}

func TestParseFileRejectsNonWorkoutFIT(t *testing.T) {
	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	activity, err := file.Activity()
	if err != nil {
		t.Fatalf("activity accessor: %v", err)
	}
	record := fit.NewRecordMsg()
	record.Timestamp = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	record.Power = 200
	activity.Records = append(activity.Records, record)

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ride.fit")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fit: %v", err)
	}

	if _, err := ParseFile(path, 200); err == nil {
		t.Fatal("ParseFile() accepted an activity file, want error")
	}
}
