package greenops

// EPA greenhouse gas equivalency factors (2024 edition), kg CO2e per unit
// of activity. An equivalency is kg_CO2e / factor.
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
const (
	// EPAMilesDrivenFactor is kg CO2e per mile in an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2e absorbed by one seedling over 10 years.
	EPATreeSeedlingFactor = 60.0
)

// Conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonnesToKg = 1000.0
	PoundsToKg = 0.453592
)

// Display thresholds.
const (
	// TonneDisplayThresholdKg is where carbon values switch from kg to tonnes.
	TonneDisplayThresholdKg = 1000.0

	// MinEquivalencyThresholdKg is the smallest avoided quantity worth an
	// equivalency; below it the numbers round to nothing.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
