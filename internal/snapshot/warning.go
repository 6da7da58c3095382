package snapshot

// Severity grades a warning.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityAdvisory
	SeveritySevere
	SeverityExtreme
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityExtreme:
		return "extreme"
	case SeveritySevere:
		return "severe"
	case SeverityAdvisory:
		return "advisory"
	default:
		return "info"
	}
}

// MarshalJSON renders the severity as its name rather than its rank.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// WarningCategory identifies which condition produced a warning. Categories
// also define the fixed emission priority within a severity band.
type WarningCategory string

const (
	WarnCold          WarningCategory = "cold"
	WarnWind          WarningCategory = "wind"
	WarnPrecipitation WarningCategory = "precipitation"
	WarnUV            WarningCategory = "uv"
	WarnAirQuality    WarningCategory = "air_quality"
	WarnElectricity   WarningCategory = "electricity"
	WarnRoad          WarningCategory = "road"
	WarnPollen        WarningCategory = "pollen"
	WarnLightning     WarningCategory = "lightning"
)

// categoryPriority orders categories within equal severity.
var categoryPriority = map[WarningCategory]int{
	WarnCold:          0,
	WarnWind:          1,
	WarnPrecipitation: 2,
	WarnUV:            3,
	WarnAirQuality:    4,
	WarnElectricity:   5,
	WarnRoad:          6,
	WarnPollen:        7,
	WarnLightning:     8,
}

// Warning is one triggered condition. MessageKey is a stable identifier the
// display layer maps to localized text; the engine never formats prose.
type Warning struct {
	Severity   Severity        `json:"severity"`
	Category   WarningCategory `json:"category"`
	Domain     Domain          `json:"domain"`
	MessageKey string          `json:"messageKey"`
	// Value is the observation that tripped the rule, in the rule's unit.
	Value float64 `json:"value"`
}

// Less orders warnings for presentation: higher severity first, then the
// fixed category priority.
func (w Warning) Less(other Warning) bool {
	if w.Severity != other.Severity {
		return w.Severity > other.Severity
	}
	return categoryPriority[w.Category] < categoryPriority[other.Category]
}
