package zwo

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasjlepore/zwo2mrc"
)

// freeRidePower is the flat fraction assigned to free-ride segments.
const freeRidePower = 0.40

// flattenStep maps one XML segment element onto normalized segments.
func flattenStep(st step) []zwo2mrc.Segment {
	switch st.XMLName.Local {
	case "IntervalsT":
		return flattenIntervals(st)
	case "Warmup", "Cooldown":
		return []zwo2mrc.Segment{flattenRamp(st)}
	case "SteadyState":
		return []zwo2mrc.Segment{flattenSteady(st)}
	case "FreeRide":
		return []zwo2mrc.Segment{{
			Kind:            zwo2mrc.KindFreeRide,
			DurationSeconds: intAttr(st.Duration, 0),
			StartPower:      freeRidePower,
			EndPower:        freeRidePower,
			Cadence:         intAttr(st.Cadence, 0),
		}}
	default:
		return nil
	}
}

func flattenIntervals(st step) []zwo2mrc.Segment {
	repeat := intAttr(st.Repeat, 1)
	if repeat <= 0 {
		return nil
	}

	onDur := intAttr(st.OnDuration, 0)
	offDur := intAttr(st.OffDuration, 0)

	onPower := floatAttr(st.OnPower)
	if hi, lo := floatAttr(st.PowerOnHigh), floatAttr(st.PowerOnLow); hi > 0 && lo > 0 {
		onPower = (hi + lo) / 2.0
	}
	offPower := floatAttr(st.OffPower)
	if hi, lo := floatAttr(st.PowerOffHigh), floatAttr(st.PowerOffLow); hi > 0 && lo > 0 {
		offPower = (hi + lo) / 2.0
	}

	onCadence := intAttr(st.Cadence, 0)
	offCadence := intAttr(st.CadenceResting, 0)

	segs := make([]zwo2mrc.Segment, 0, repeat*2)
	for i := 0; i < repeat; i++ {
		segs = append(segs, zwo2mrc.Segment{
			Kind:            zwo2mrc.KindIntervalOn,
			DurationSeconds: onDur,
			StartPower:      onPower,
			EndPower:        onPower,
			Cadence:         onCadence,
		})
		segs = append(segs, zwo2mrc.Segment{
			Kind:            zwo2mrc.KindIntervalOff,
			DurationSeconds: offDur,
			StartPower:      offPower,
			EndPower:        offPower,
			Cadence:         offCadence,
		})
	}
	return segs
}

// flattenRamp maps Warmup and Cooldown elements. PowerLow is the ramp start
// and PowerHigh the ramp end regardless of which is larger; a cooldown is a
// warmup with the values reversed. Zone overrides both ends.
func flattenRamp(st step) zwo2mrc.Segment {
	start := floatAttr(st.PowerLow)
	end := floatAttr(st.PowerHigh)
	if z := zwo2mrc.ZonePower(intAttr(st.Zone, 0)); z > 0 {
		start, end = z, z
	}
	return zwo2mrc.Segment{
		Kind:            zwo2mrc.KindRamp,
		DurationSeconds: intAttr(st.Duration, 0),
		StartPower:      start,
		EndPower:        end,
		Cadence:         intAttr(st.Cadence, 0),
	}
}

// flattenSteady maps SteadyState elements. A PowerHigh/PowerLow pair takes
// the midpoint over Power, and Zone overrides both. Cadence bounds reduce to
// their midpoint as well.
func flattenSteady(st step) zwo2mrc.Segment {
	power := floatAttr(st.Power)
	if hi, lo := floatAttr(st.PowerHigh), floatAttr(st.PowerLow); hi > 0 && lo > 0 {
		power = (hi + lo) / 2.0
	}
	if z := zwo2mrc.ZonePower(intAttr(st.Zone, 0)); z > 0 {
		power = z
	}

	cadence := intAttr(st.Cadence, 0)
	if hi, lo := intAttr(st.CadenceHigh, 0), intAttr(st.CadenceLow, 0); hi > 0 && lo > 0 {
		cadence = (hi + lo) / 2
	}

	return zwo2mrc.Segment{
		Kind:            zwo2mrc.KindSteady,
		DurationSeconds: intAttr(st.Duration, 0),
		StartPower:      power,
		EndPower:        power,
		Cadence:         cadence,
	}
}

// intAttr parses an integer attribute leniently: decimal text truncates
// toward zero, anything non-numeric falls back to def.
func intAttr(s string, def int) int {
	f, ok := parseAttrFloat(s)
	if !ok {
		return def
	}
	return int(f)
}

// floatAttr parses a power attribute leniently, defaulting to 0.
func floatAttr(s string) float64 {
	f, ok := parseAttrFloat(s)
	if !ok {
		return 0
	}
	return f
}

func parseAttrFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
