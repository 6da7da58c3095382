// Package derive turns RawData into ComputedData through pure,
// side-effect-free transforms. Each derivation declares its required
// domains by checking availability; a missing input yields an absent
// output, never a fabricated value.
package derive

import (
	"sort"
	"time"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// Config holds the static reference inputs for derivations.
type Config struct {
	// SkinType is the Fitzpatrick skin type (1-6) used for the safe
	// exposure budget. Default: 3.
	SkinType int
}

// Compute derives every value whose required domains resolved. It never
// mutates raw; derivations are independent of each other.
func Compute(raw snapshot.RawData, cfg Config, now time.Time) snapshot.ComputedData {
	skinType := cfg.SkinType
	if skinType < 1 || skinType > 6 {
		skinType = DefaultSkinType
	}

	var computed snapshot.ComputedData
	computeUV(raw, skinType, &computed)
	computeElectricity(raw, now, &computed)
	computeCongestion(raw, &computed)
	computeDispersion(raw, &computed)
	computeAllergenRisk(raw, &computed)
	return computed
}

// computeUV requires the uv domain.
func computeUV(raw snapshot.RawData, skinType int, out *snapshot.ComputedData) {
	uv, ok := raw.UV()
	if !ok {
		return
	}

	category := uvCategory(uv.CurrentUV)
	out.UVCategory = &category

	base := burnTimes[skinType]
	minutes := safeMinutes(base, uv.CurrentUV)
	out.SafeExposureMinutes = &minutes

	byType := make(map[int]int, len(burnTimes))
	for st, b := range burnTimes {
		byType[st] = safeMinutes(b, uv.CurrentUV)
	}
	out.BurnTimeBySkinType = byType
}

// safeMinutes scales the skin type's base budget by the UV index, with a
// one-minute floor. Zero means no meaningful limit at the current UV.
func safeMinutes(base int, uv float64) int {
	if uv <= 0 {
		return 0
	}
	m := int(float64(base) / uv)
	if m < 1 {
		m = 1
	}
	return m
}

// computeElectricity requires the electricity domain and at least one
// upcoming price slot.
func computeElectricity(raw snapshot.RawData, now time.Time, out *snapshot.ComputedData) {
	prices, ok := raw.Electricity()
	if !ok {
		return
	}

	upcoming := prices.UpcomingSlots(now)
	if len(upcoming) == 0 {
		return
	}

	byPrice := make([]snapshot.PriceSlot, len(upcoming))
	copy(byPrice, upcoming)
	sort.SliceStable(byPrice, func(i, j int) bool {
		return byPrice[i].Price < byPrice[j].Price
	})

	cheapest := byPrice[0]
	out.CheapestElectricitySlot = &cheapest

	n := 3
	if len(byPrice) < n {
		n = len(byPrice)
	}
	out.ThreeCheapestSlots = append([]snapshot.PriceSlot(nil), byPrice[:n]...)

	expensive := byPrice[len(byPrice)-1]
	out.MostExpensiveSlot = &expensive
}

// computeCongestion blends road weather and transit disruptions. It
// requires at least one of the two domains; whichever is unavailable
// simply contributes nothing.
func computeCongestion(raw snapshot.RawData, out *snapshot.ComputedData) {
	road, roadOK := raw.RoadWeather()
	transit, transitOK := raw.Transit()
	if !roadOK && !transitOK {
		return
	}

	est := snapshot.CongestionEstimate{Level: snapshot.RiskLow}
	if transitOK {
		est.ActiveAlerts = len(transit.Alerts)
	}
	if roadOK {
		est.RoadHazard = road.Condition == "icy" || road.Condition == "snowy" || len(road.Warnings) > 0
	}

	switch {
	case est.RoadHazard && est.ActiveAlerts > 0:
		est.Level = snapshot.RiskHigh
	case est.RoadHazard || est.ActiveAlerts >= 3:
		est.Level = snapshot.RiskModerate
	}
	out.CongestionEstimate = &est
}

// computeDispersion requires the weather domain with a wind reading.
func computeDispersion(raw snapshot.RawData, out *snapshot.ComputedData) {
	weather, ok := raw.Weather()
	if !ok || weather.WindSpeed == nil {
		return
	}
	f := dispersionFactor(*weather.WindSpeed)
	out.DispersionFactor = &f
}

// computeAllergenRisk requires the pollen domain.
func computeAllergenRisk(raw snapshot.RawData, out *snapshot.ComputedData) {
	pollen, ok := raw.Pollen()
	if !ok {
		return
	}

	risk := snapshot.RiskLow
	switch max := pollen.Max(); {
	case max >= 4:
		risk = snapshot.RiskHigh
	case max >= 3:
		risk = snapshot.RiskModerate
	}
	out.AllergenRisk = &risk
}
