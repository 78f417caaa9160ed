package zwo2mrc

// ZonePower maps an effort zone code 1-7 to its representative fraction of
// reference power. Out-of-range codes return 0, meaning no zone override.
func ZonePower(zone int) float64 {
	switch zone {
	case 1:
		return 0.48
	case 2:
		return 0.65
	case 3:
		return 0.81
	case 4:
		return 0.91
	case 5:
		return 1.00
	case 6:
		return 1.13
	case 7:
		return 1.28
	default:
		return 0
	}
}

// PlannedZone stores planned time in a given FTP-based power zone.
type PlannedZone struct {
	Zone       string  `json:"zone"`
	MinPctFTP  float64 `json:"min_pct_ftp"`
	MaxPctFTP  float64 `json:"max_pct_ftp"`
	Seconds    float64 `json:"seconds"`
	Percentage float64 `json:"percentage"`
}

type zoneBoundary struct {
	zone string
	min  float64
	max  float64
}

var zoneLadder = []zoneBoundary{
	{zone: "Z1 Active Recovery", min: 0, max: 55},
	{zone: "Z2 Endurance", min: 55, max: 75},
	{zone: "Z3 Tempo", min: 75, max: 90},
	{zone: "Z4 Threshold", min: 90, max: 105},
	{zone: "Z5 VO2", min: 105, max: 120},
	{zone: "Z6 Anaerobic", min: 120, max: 150},
	{zone: "Z7 Neuromuscular", min: 150, max: 1000},
}

// BuildPlannedZones buckets every planned second of the course into the FTP
// zone ladder. Ramps are sampled per second along their linear profile.
func BuildPlannedZones(segments []Segment) []PlannedZone {
	samples := plannedPowerSamples(segments)
	if len(samples) == 0 {
		return nil
	}

	counts := make([]int, len(zoneLadder))
	total := 0
	for _, percent := range samples {
		if percent < 0 {
			continue
		}
		for i, z := range zoneLadder {
			if percent >= z.min && percent < z.max {
				counts[i]++
				total++
				break
			}
		}
	}
	if total == 0 {
		return nil
	}

	out := make([]PlannedZone, 0, len(zoneLadder))
	for i, z := range zoneLadder {
		seconds := float64(counts[i])
		out = append(out, PlannedZone{
			Zone:       z.zone,
			MinPctFTP:  z.min,
			MaxPctFTP:  z.max,
			Seconds:    seconds,
			Percentage: (seconds / float64(total)) * 100.0,
		})
	}
	return out
}

// plannedPowerSamples expands segments into one %FTP sample per second.
func plannedPowerSamples(segments []Segment) []float64 {
	total := 0
	for _, seg := range segments {
		if seg.DurationSeconds > 0 {
			total += seg.DurationSeconds
		}
	}
	if total == 0 {
		return nil
	}

	samples := make([]float64, 0, total)
	for _, seg := range segments {
		n := seg.DurationSeconds
		if n <= 0 {
			continue
		}
		startPct := seg.StartPower * 100.0
		endPct := seg.EndPower * 100.0
		for s := 0; s < n; s++ {
			frac := 0.0
			if n > 1 {
				frac = float64(s) / float64(n-1)
			}
			samples = append(samples, startPct+(endPct-startPct)*frac)
		}
	}
	return samples
}
