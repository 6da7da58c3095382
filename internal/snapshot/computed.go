package snapshot

// RiskLevel is a coarse banding used by several derived values.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// UVCategory bands the UV index per WHO guidance.
type UVCategory string

const (
	UVLow      UVCategory = "low"
	UVModerate UVCategory = "moderate"
	UVHigh     UVCategory = "high"
	UVVeryHigh UVCategory = "very_high"
	UVExtreme  UVCategory = "extreme"
)

// CongestionEstimate summarises how disrupted ground travel currently is.
type CongestionEstimate struct {
	Level        RiskLevel `json:"level"`
	ActiveAlerts int       `json:"activeAlerts"`
	RoadHazard   bool      `json:"roadHazard"`
}

// ComputedData holds values derived from RawData by the derivation engine.
// A nil field means the derivation's required domains were unavailable;
// derivations never fabricate values from missing inputs.
type ComputedData struct {
	// SafeExposureMinutes is the unprotected sun exposure budget for the
	// configured skin type. Nil when the UV domain is unavailable; zero
	// when UV is low enough that exposure is effectively unlimited.
	SafeExposureMinutes *int        `json:"safeExposureMinutes,omitempty"`
	UVCategory          *UVCategory `json:"uvCategory,omitempty"`
	BurnTimeBySkinType  map[int]int `json:"burnTimeBySkinType,omitempty"`

	CheapestElectricitySlot *PriceSlot  `json:"cheapestElectricitySlot,omitempty"`
	ThreeCheapestSlots      []PriceSlot `json:"threeCheapestSlots,omitempty"`
	MostExpensiveSlot       *PriceSlot  `json:"mostExpensiveSlot,omitempty"`

	CongestionEstimate *CongestionEstimate `json:"congestionEstimate,omitempty"`

	// DispersionFactor is a wind-driven multiplier (0.7-1.3) on pollutant
	// accumulation. Below 1.0 means pollutants disperse faster.
	DispersionFactor *float64 `json:"dispersionFactor,omitempty"`

	AllergenRisk *RiskLevel `json:"allergenRisk,omitempty"`
}
