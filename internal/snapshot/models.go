// Package snapshot defines the immutable situation snapshot and the data
// model shared by the aggregation, derivation and warning packages.
package snapshot

import (
	"errors"
	"time"
)

// Snapshot errors.
var (
	ErrAllDomainsUnavailable = errors.New("all configured domains unavailable")
	ErrInvalidCoordinates    = errors.New("invalid coordinates")
)

// Domain is a category of situational data with its own fallback chain
// and cache TTL.
type Domain string

const (
	DomainWeather     Domain = "weather"
	DomainAirQuality  Domain = "air_quality"
	DomainUV          Domain = "uv"
	DomainPollen      Domain = "pollen"
	DomainElectricity Domain = "electricity"
	DomainRoadWeather Domain = "road_weather"
	DomainTransit     Domain = "transit"
	DomainAurora      Domain = "aurora"
	DomainMarine      Domain = "marine"
	DomainFlood       Domain = "flood"
	DomainNowcast     Domain = "nowcast"
)

// AllDomains lists every known domain in a stable order.
var AllDomains = []Domain{
	DomainWeather,
	DomainAirQuality,
	DomainUV,
	DomainPollen,
	DomainElectricity,
	DomainRoadWeather,
	DomainTransit,
	DomainAurora,
	DomainMarine,
	DomainFlood,
	DomainNowcast,
}

// Location is a resolved geographic location. Immutable once resolved.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
}

// Validate checks that the coordinates are within range.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Payload is a domain-specific data payload carried by a RawResult.
// A payload may be semantically empty (for example no active transit
// alerts); that is still a successful fetch.
type Payload interface {
	PayloadDomain() Domain
}

// Failure records one adapter's inability to produce a payload.
type Failure struct {
	Provider string `json:"provider"`
	Reason   string `json:"reason"`
	Timeout  bool   `json:"timeout,omitempty"`
}

// RawResult is the outcome of resolving one domain: either a payload with
// provenance, or an explicit absence carrying the failure reasons.
// Never mutated after creation.
type RawResult struct {
	Domain    Domain    `json:"domain"`
	Provider  string    `json:"provider,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
	FromCache bool      `json:"fromCache,omitempty"`
	// Age is how long the result had been cached when it was served.
	// Zero for freshly fetched results.
	Age time.Duration `json:"age,omitempty"`

	Payload  Payload   `json:"payload,omitempty"`
	Failures []Failure `json:"failures,omitempty"`
}

// Available reports whether the result carries data.
func (r RawResult) Available() bool {
	return r.Payload != nil
}

// TimedOut reports whether every recorded failure was a timeout.
func (r RawResult) TimedOut() bool {
	if r.Available() || len(r.Failures) == 0 {
		return false
	}
	for _, f := range r.Failures {
		if !f.Timeout {
			return false
		}
	}
	return true
}

// Unavailable builds an explicit absence marker for a domain.
func Unavailable(domain Domain, failures ...Failure) RawResult {
	return RawResult{
		Domain:    domain,
		FetchedAt: time.Now(),
		Failures:  failures,
	}
}

// RawData maps every configured domain to its best-available result.
// After aggregation it holds exactly one entry per configured domain.
type RawData map[Domain]RawResult

// Weather returns the weather payload if the domain resolved.
func (d RawData) Weather() (*WeatherObservation, bool) {
	p, ok := payloadOf[*WeatherObservation](d, DomainWeather)
	return p, ok
}

// AirQuality returns the air quality payload if the domain resolved.
func (d RawData) AirQuality() (*AirQuality, bool) {
	p, ok := payloadOf[*AirQuality](d, DomainAirQuality)
	return p, ok
}

// UV returns the UV payload if the domain resolved.
func (d RawData) UV() (*UVForecast, bool) {
	p, ok := payloadOf[*UVForecast](d, DomainUV)
	return p, ok
}

// Pollen returns the pollen payload if the domain resolved.
func (d RawData) Pollen() (*PollenLevels, bool) {
	p, ok := payloadOf[*PollenLevels](d, DomainPollen)
	return p, ok
}

// Electricity returns the electricity payload if the domain resolved.
func (d RawData) Electricity() (*ElectricityPrices, bool) {
	p, ok := payloadOf[*ElectricityPrices](d, DomainElectricity)
	return p, ok
}

// RoadWeather returns the road weather payload if the domain resolved.
func (d RawData) RoadWeather() (*RoadWeather, bool) {
	p, ok := payloadOf[*RoadWeather](d, DomainRoadWeather)
	return p, ok
}

// Transit returns the transit payload if the domain resolved.
func (d RawData) Transit() (*TransitAlerts, bool) {
	p, ok := payloadOf[*TransitAlerts](d, DomainTransit)
	return p, ok
}

// Aurora returns the aurora payload if the domain resolved.
func (d RawData) Aurora() (*AuroraForecast, bool) {
	p, ok := payloadOf[*AuroraForecast](d, DomainAurora)
	return p, ok
}

// Marine returns the marine payload if the domain resolved.
func (d RawData) Marine() (*MarineConditions, bool) {
	p, ok := payloadOf[*MarineConditions](d, DomainMarine)
	return p, ok
}

// Flood returns the flood payload if the domain resolved.
func (d RawData) Flood() (*FloodConditions, bool) {
	p, ok := payloadOf[*FloodConditions](d, DomainFlood)
	return p, ok
}

// Nowcast returns the nowcast payload if the domain resolved.
func (d RawData) Nowcast() (*Nowcast, bool) {
	p, ok := payloadOf[*Nowcast](d, DomainNowcast)
	return p, ok
}

func payloadOf[T Payload](d RawData, domain Domain) (T, bool) {
	var zero T
	res, ok := d[domain]
	if !ok || !res.Available() {
		return zero, false
	}
	p, ok := res.Payload.(T)
	if !ok {
		return zero, false
	}
	return p, true
}

// WeatherObservation holds current weather conditions.
type WeatherObservation struct {
	Temperature   *float64  `json:"temperature,omitempty"`   // Celsius
	ApparentTemp  *float64  `json:"apparentTemp,omitempty"`  // Celsius
	Humidity      *float64  `json:"humidity,omitempty"`      // percent
	Pressure      *float64  `json:"pressure,omitempty"`      // hPa
	WindSpeed     *float64  `json:"windSpeed,omitempty"`     // m/s
	WindDirection *float64  `json:"windDirection,omitempty"` // degrees
	GustSpeed     *float64  `json:"gustSpeed,omitempty"`     // m/s
	Visibility    *float64  `json:"visibility,omitempty"`    // meters
	PrecipProb    *float64  `json:"precipProb,omitempty"`    // percent
	PrecipRate    *float64  `json:"precipRate,omitempty"`    // mm/h
	SnowDepth     *float64  `json:"snowDepth,omitempty"`     // cm
	WeatherCode   *int      `json:"weatherCode,omitempty"`   // WMO code
	ObservedAt    time.Time `json:"observedAt"`
}

func (*WeatherObservation) PayloadDomain() Domain { return DomainWeather }

// AirQuality holds air quality index data.
type AirQuality struct {
	AQI         *float64 `json:"aqi,omitempty"` // US AQI band 1-5
	EuropeanAQI *float64 `json:"europeanAqi,omitempty"`
	PM25        *float64 `json:"pm25,omitempty"` // ug/m3
	PM10        *float64 `json:"pm10,omitempty"` // ug/m3
}

func (*AirQuality) PayloadDomain() Domain { return DomainAirQuality }

// UVForecast holds current and peak UV index levels.
type UVForecast struct {
	CurrentUV  float64 `json:"currentUv"`
	MaxUVToday float64 `json:"maxUvToday"`
	PeakTime   string  `json:"peakTime,omitempty"` // HH:MM local
}

func (*UVForecast) PayloadDomain() Domain { return DomainUV }

// PollenLevels holds pollen concentrations on the 0-5 scale used by SILAM.
type PollenLevels struct {
	Birch   int `json:"birch"`
	Grass   int `json:"grass"`
	Alder   int `json:"alder"`
	Mugwort int `json:"mugwort"`
	Ragweed int `json:"ragweed"`
	Olive   int `json:"olive"`
}

// Max returns the highest level across allergenic types.
func (p *PollenLevels) Max() int {
	max := 0
	for _, v := range []int{p.Birch, p.Grass, p.Alder, p.Mugwort, p.Ragweed} {
		if v > max {
			max = v
		}
	}
	return max
}

func (*PollenLevels) PayloadDomain() Domain { return DomainPollen }

// PriceSlot is one priced interval of the electricity spot market.
type PriceSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Price float64   `json:"price"` // cents/kWh
}

// ElectricityPrices holds spot prices for today and, when published,
// tomorrow. Prices are day-ahead market prices in cents/kWh.
type ElectricityPrices struct {
	CurrentPrice  *float64    `json:"currentPrice,omitempty"` // current 15-minute interval
	HourlyPrice   *float64    `json:"hourlyPrice,omitempty"`  // average over the current hour
	TodaySlots    []PriceSlot `json:"todaySlots,omitempty"`
	TomorrowSlots []PriceSlot `json:"tomorrowSlots,omitempty"`
}

// UpcomingSlots returns today/tomorrow slots that end after now,
// preserving chronological order.
func (e *ElectricityPrices) UpcomingSlots(now time.Time) []PriceSlot {
	var out []PriceSlot
	for _, s := range e.TodaySlots {
		if s.End.After(now) {
			out = append(out, s)
		}
	}
	out = append(out, e.TomorrowSlots...)
	return out
}

func (*ElectricityPrices) PayloadDomain() Domain { return DomainElectricity }

// RoadWeather holds road condition data from the nearest road weather station.
type RoadWeather struct {
	StationName     string   `json:"stationName,omitempty"`
	RoadTemperature *float64 `json:"roadTemperature,omitempty"`
	AirTemperature  *float64 `json:"airTemperature,omitempty"`
	Condition       string   `json:"condition,omitempty"` // dry, wet, icy, snowy
	Warnings        []string `json:"warnings,omitempty"`
}

func (*RoadWeather) PayloadDomain() Domain { return DomainRoadWeather }

// TransitAlert is one active service disruption.
type TransitAlert struct {
	Route    string    `json:"route,omitempty"`
	Header   string    `json:"header"`
	Severity string    `json:"severity,omitempty"`
	StartsAt time.Time `json:"startsAt,omitempty"`
	EndsAt   time.Time `json:"endsAt,omitempty"`
}

// TransitAlerts holds active public transport disruptions for the
// location's feed. An empty Alerts slice is a valid, successful result.
type TransitAlerts struct {
	Feed   string         `json:"feed,omitempty"`
	Alerts []TransitAlert `json:"alerts"`
}

func (*TransitAlerts) PayloadDomain() Domain { return DomainTransit }

// AuroraForecast holds geomagnetic activity data.
type AuroraForecast struct {
	KpIndex    float64 `json:"kpIndex"`
	KpForecast float64 `json:"kpForecast"`
	Visible    bool    `json:"visible"`
}

func (*AuroraForecast) PayloadDomain() Domain { return DomainAurora }

// MarineConditions holds wave and sea state data.
type MarineConditions struct {
	WaveHeight     *float64 `json:"waveHeight,omitempty"` // meters
	WaveDirection  *float64 `json:"waveDirection,omitempty"`
	WavePeriod     *float64 `json:"wavePeriod,omitempty"`
	SeaTemperature *float64 `json:"seaTemperature,omitempty"`
	SeaIceCover    *float64 `json:"seaIceCover,omitempty"` // fraction
}

func (*MarineConditions) PayloadDomain() Domain { return DomainMarine }

// FloodConditions holds river discharge data.
type FloodConditions struct {
	RiverDischarge     *float64 `json:"riverDischarge,omitempty"` // m3/s
	RiverDischargeMean *float64 `json:"riverDischargeMean,omitempty"`
	RiverDischargeMax  *float64 `json:"riverDischargeMax,omitempty"`
}

func (*FloodConditions) PayloadDomain() Domain { return DomainFlood }

// Nowcast holds short-range precipitation and lightning activity.
type Nowcast struct {
	IsRainingNow      bool    `json:"isRainingNow"`
	RainStartsInMin   *int    `json:"rainStartsInMin,omitempty"`
	RainEndsInMin     *int    `json:"rainEndsInMin,omitempty"`
	MaxIntensity      float64 `json:"maxIntensity"` // mm/h
	PrecipitationType string  `json:"precipitationType,omitempty"`

	Strikes1h   int      `json:"strikes1h"`
	NearestKM   *float64 `json:"nearestKm,omitempty"`
	ThreatLevel string   `json:"threatLevel"` // none, low, moderate, high, severe
}

func (*Nowcast) PayloadDomain() Domain { return DomainNowcast }
