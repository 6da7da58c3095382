// Package warning evaluates a fixed, data-driven rule set against raw and
// computed data. Rules are stateless and evaluated independently per
// aggregation pass; there is no hysteresis across invocations. A domain
// marked unavailable contributes no warnings.
package warning

import (
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// Thresholds holds every trigger value the rule set compares against.
// They are configuration, not business logic baked into the engine.
type Thresholds struct {
	ColdAdvisoryC float64
	ColdSevereC   float64
	ColdExtremeC  float64

	WindAdvisoryMS float64
	WindSevereMS   float64

	PrecipProbAdvisory float64
	PrecipProbSevere   float64

	UVAdvisory float64

	AQIAdvisory float64

	PriceAdvisoryCents float64
	PriceSevereCents   float64

	PollenModerate int
	PollenHigh     int
}

// DefaultThresholds returns the standard trigger values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ColdAdvisoryC:      -10,
		ColdSevereC:        -20,
		ColdExtremeC:       -30,
		WindAdvisoryMS:     15,
		WindSevereMS:       25,
		PrecipProbAdvisory: 50,
		PrecipProbSevere:   80,
		UVAdvisory:         6,
		AQIAdvisory:        4,
		PriceAdvisoryCents: 12,
		PriceSevereCents:   18,
		PollenModerate:     3,
		PollenHigh:         4,
	}
}

// rule evaluates one condition. A nil result means the rule did not fire,
// either because the condition holds or its domain is unavailable.
type rule func(t Thresholds, raw snapshot.RawData, computed snapshot.ComputedData) *snapshot.Warning

// Engine evaluates the rule set with a given threshold table.
type Engine struct {
	thresholds Thresholds
	rules      []rule
}

// NewEngine creates an engine. The rule order follows the fixed category
// priority so ties within a severity band keep a deterministic order.
func NewEngine(t Thresholds) *Engine {
	return &Engine{
		thresholds: t,
		rules: []rule{
			coldRule,
			windRule,
			precipitationRule,
			uvRule,
			airQualityRule,
			electricityRule,
			roadRule,
			pollenRule,
			lightningRule,
		},
	}
}

// Evaluate runs every rule and returns the triggered warnings in rule
// order. Final presentation ordering is the assembler's concern.
func (e *Engine) Evaluate(raw snapshot.RawData, computed snapshot.ComputedData) []snapshot.Warning {
	var out []snapshot.Warning
	for _, r := range e.rules {
		if w := r(e.thresholds, raw, computed); w != nil {
			out = append(out, *w)
		}
	}
	return out
}

func coldRule(t Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	weather, ok := raw.Weather()
	if !ok || weather.Temperature == nil {
		return nil
	}
	temp := *weather.Temperature

	var severity snapshot.Severity
	var key string
	switch {
	case temp <= t.ColdExtremeC:
		severity, key = snapshot.SeverityExtreme, "cold_extreme"
	case temp <= t.ColdSevereC:
		severity, key = snapshot.SeveritySevere, "cold_severe"
	case temp <= t.ColdAdvisoryC:
		severity, key = snapshot.SeverityAdvisory, "cold_advisory"
	default:
		return nil
	}
	return &snapshot.Warning{
		Severity:   severity,
		Category:   snapshot.WarnCold,
		Domain:     snapshot.DomainWeather,
		MessageKey: key,
		Value:      temp,
	}
}

func windRule(t Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	weather, ok := raw.Weather()
	if !ok || weather.WindSpeed == nil {
		return nil
	}
	wind := *weather.WindSpeed

	var severity snapshot.Severity
	var key string
	switch {
	case wind >= t.WindSevereMS:
		severity, key = snapshot.SeveritySevere, "wind_severe"
	case wind >= t.WindAdvisoryMS:
		severity, key = snapshot.SeverityAdvisory, "wind_advisory"
	default:
		return nil
	}
	return &snapshot.Warning{
		Severity:   severity,
		Category:   snapshot.WarnWind,
		Domain:     snapshot.DomainWeather,
		MessageKey: key,
		Value:      wind,
	}
}

func precipitationRule(t Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	weather, ok := raw.Weather()
	if !ok || weather.PrecipProb == nil {
		return nil
	}
	prob := *weather.PrecipProb

	var severity snapshot.Severity
	var key string
	switch {
	case prob >= t.PrecipProbSevere:
		severity, key = snapshot.SeveritySevere, "precipitation_likely"
	case prob >= t.PrecipProbAdvisory:
		severity, key = snapshot.SeverityAdvisory, "precipitation_possible"
	default:
		return nil
	}
	return &snapshot.Warning{
		Severity:   severity,
		Category:   snapshot.WarnPrecipitation,
		Domain:     snapshot.DomainWeather,
		MessageKey: key,
		Value:      prob,
	}
}

func uvRule(t Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	uv, ok := raw.UV()
	if !ok || uv.CurrentUV < t.UVAdvisory {
		return nil
	}
	return &snapshot.Warning{
		Severity:   snapshot.SeverityAdvisory,
		Category:   snapshot.WarnUV,
		Domain:     snapshot.DomainUV,
		MessageKey: "uv_high",
		Value:      uv.CurrentUV,
	}
}

func airQualityRule(t Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	air, ok := raw.AirQuality()
	if !ok || air.AQI == nil || *air.AQI < t.AQIAdvisory {
		return nil
	}
	return &snapshot.Warning{
		Severity:   snapshot.SeverityAdvisory,
		Category:   snapshot.WarnAirQuality,
		Domain:     snapshot.DomainAirQuality,
		MessageKey: "air_quality_poor",
		Value:      *air.AQI,
	}
}

func electricityRule(t Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	prices, ok := raw.Electricity()
	if !ok || prices.CurrentPrice == nil {
		return nil
	}
	price := *prices.CurrentPrice

	var severity snapshot.Severity
	var key string
	switch {
	case price >= t.PriceSevereCents:
		severity, key = snapshot.SeveritySevere, "electricity_price_very_high"
	case price >= t.PriceAdvisoryCents:
		severity, key = snapshot.SeverityAdvisory, "electricity_price_high"
	default:
		return nil
	}
	return &snapshot.Warning{
		Severity:   severity,
		Category:   snapshot.WarnElectricity,
		Domain:     snapshot.DomainElectricity,
		MessageKey: key,
		Value:      price,
	}
}

func roadRule(_ Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	road, ok := raw.RoadWeather()
	if !ok {
		return nil
	}
	if road.Condition != "icy" && road.Condition != "snowy" {
		return nil
	}
	return &snapshot.Warning{
		Severity:   snapshot.SeverityAdvisory,
		Category:   snapshot.WarnRoad,
		Domain:     snapshot.DomainRoadWeather,
		MessageKey: "slippery_road",
	}
}

func pollenRule(t Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	pollen, ok := raw.Pollen()
	if !ok {
		return nil
	}
	max := pollen.Max()

	var severity snapshot.Severity
	var key string
	switch {
	case max >= t.PollenHigh:
		severity, key = snapshot.SeverityAdvisory, "pollen_very_high"
	case max >= t.PollenModerate:
		severity, key = snapshot.SeverityInfo, "pollen_elevated"
	default:
		return nil
	}
	return &snapshot.Warning{
		Severity:   severity,
		Category:   snapshot.WarnPollen,
		Domain:     snapshot.DomainPollen,
		MessageKey: key,
		Value:      float64(max),
	}
}

// lightningRule passes the nowcast threat level through as the warning
// severity.
func lightningRule(_ Thresholds, raw snapshot.RawData, _ snapshot.ComputedData) *snapshot.Warning {
	nowcast, ok := raw.Nowcast()
	if !ok {
		return nil
	}

	var severity snapshot.Severity
	switch nowcast.ThreatLevel {
	case "severe":
		severity = snapshot.SeverityExtreme
	case "high":
		severity = snapshot.SeveritySevere
	case "moderate":
		severity = snapshot.SeverityAdvisory
	case "low":
		severity = snapshot.SeverityInfo
	default:
		return nil
	}

	key := "lightning_activity"
	if nowcast.NearestKM != nil && *nowcast.NearestKM < 10 {
		key = "lightning_immediate"
	} else if nowcast.NearestKM != nil && *nowcast.NearestKM < 30 {
		key = "lightning_nearby"
	}

	w := &snapshot.Warning{
		Severity:   severity,
		Category:   snapshot.WarnLightning,
		Domain:     snapshot.DomainNowcast,
		MessageKey: key,
		Value:      float64(nowcast.Strikes1h),
	}
	return w
}
