package classify

// BMIBand is one BMI category with its display color and guidance.
type BMIBand struct {
	Category    string
	ColorHex    string
	Description string
	// Upper is the exclusive upper bound of the band; the last band is open.
	Upper float64
}

// bmiBands are contiguous and half-open on the lower bound, ordered by Upper.
var bmiBands = [...]BMIBand{
	{
		Category:    "underweight",
		ColorHex:    "#3B82F6",
		Description: "Weight is below the normal range. A balanced diet and exercise to gain weight are recommended.",
		Upper:       18.5,
	},
	{
		Category:    "normal",
		ColorHex:    "#10B981",
		Description: "You are at a healthy weight. Keep up your current habits.",
		Upper:       23,
	},
	{
		Category:    "overweight",
		ColorHex:    "#F59E0B",
		Description: "Weight is slightly above the normal range. Diet control and regular exercise are recommended.",
		Upper:       25,
	},
	{
		Category:    "obese",
		ColorHex:    "#F97316",
		Description: "Weight loss is needed for your health. Consulting a professional is recommended.",
		Upper:       30,
	},
	{
		Category:    "severely obese",
		ColorHex:    "#EF4444",
		Description: "Health risks are high. Please consult a medical professional.",
	},
}

// BMICategory returns the band containing bmi. It is total: any value below
// 18.5, including zero and negatives, is underweight, and anything not below
// 30 (NaN included) is severely obese. Rejecting non-physical input is the
// caller's job.
func BMICategory(bmi float64) BMIBand {
	last := len(bmiBands) - 1
	for _, b := range bmiBands[:last] {
		if bmi < b.Upper {
			return b
		}
	}
	return bmiBands[last]
}

// BMIBands returns all bands ordered from lowest to highest.
func BMIBands() []BMIBand {
	out := make([]BMIBand, len(bmiBands))
	copy(out, bmiBands[:])
	return out
}
