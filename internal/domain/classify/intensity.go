package classify

// Intensity describes one level of the 1..10 symptom intensity ramp.
type Intensity struct {
	Level       int
	Label       string
	Description string
	ColorHex    string
}

const (
	MinIntensity      = 1
	MaxIntensity      = 10
	fallbackIntensity = 5
)

var intensities = [MaxIntensity + 1]Intensity{
	1:  {Level: 1, Label: "Level 1", Description: "Barely noticeable", ColorHex: "#10B981"},
	2:  {Level: 2, Label: "Level 2", Description: "Very slight", ColorHex: "#34D399"},
	3:  {Level: 3, Label: "Level 3", Description: "Slightly uncomfortable", ColorHex: "#6EE7B7"},
	4:  {Level: 4, Label: "Level 4", Description: "Uncomfortable but bearable", ColorHex: "#FCD34D"},
	5:  {Level: 5, Label: "Level 5", Description: "Moderate discomfort", ColorHex: "#FBBF24"},
	6:  {Level: 6, Label: "Level 6", Description: "Considerable discomfort", ColorHex: "#F59E0B"},
	7:  {Level: 7, Label: "Level 7", Description: "Severe discomfort", ColorHex: "#F97316"},
	8:  {Level: 8, Label: "Level 8", Description: "Very severe discomfort", ColorHex: "#EF4444"},
	9:  {Level: 9, Label: "Level 9", Description: "Extreme pain", ColorHex: "#DC2626"},
	10: {Level: 10, Label: "Level 10", Description: "Unbearable pain", ColorHex: "#B91C1C"},
}

// IntensityInfo returns the entry for level 1..10. Levels outside the range
// fall back to the level-5 entry.
func IntensityInfo(level int) Intensity {
	if level < MinIntensity || level > MaxIntensity {
		return intensities[fallbackIntensity]
	}
	return intensities[level]
}

// IntensityLevels returns the ramp ordered from level 1 to 10.
func IntensityLevels() []Intensity {
	out := make([]Intensity, 0, MaxIntensity)
	return append(out, intensities[MinIntensity:]...)
}
