package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aikapulse/aikapulse/internal/snapshot"
)

// envelope is the serialized form of a RawResult used by the persistent
// backends. The payload is kept as raw JSON and decoded back into the
// domain's concrete type on read. FromCache and Age are serve-time fields
// and are never persisted.
type envelope struct {
	Domain    snapshot.Domain    `json:"domain"`
	Provider  string             `json:"provider"`
	FetchedAt time.Time          `json:"fetched_at"`
	Payload   json.RawMessage    `json:"payload,omitempty"`
	Failures  []snapshot.Failure `json:"failures,omitempty"`
}

func encodeResult(res snapshot.RawResult) ([]byte, error) {
	env := envelope{
		Domain:    res.Domain,
		Provider:  res.Provider,
		FetchedAt: res.FetchedAt,
		Failures:  res.Failures,
	}
	if res.Payload != nil {
		raw, err := json.Marshal(res.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

func decodeResult(data []byte) (snapshot.RawResult, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return snapshot.RawResult{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	res := snapshot.RawResult{
		Domain:    env.Domain,
		Provider:  env.Provider,
		FetchedAt: env.FetchedAt,
		Failures:  env.Failures,
	}
	if len(env.Payload) == 0 {
		return res, nil
	}

	payload := emptyPayload(env.Domain)
	if payload == nil {
		return snapshot.RawResult{}, fmt.Errorf("unknown cached domain %q", env.Domain)
	}
	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return snapshot.RawResult{}, fmt.Errorf("unmarshal %s payload: %w", env.Domain, err)
	}
	res.Payload = payload
	return res, nil
}

func emptyPayload(domain snapshot.Domain) snapshot.Payload {
	switch domain {
	case snapshot.DomainWeather:
		return &snapshot.WeatherObservation{}
	case snapshot.DomainAirQuality:
		return &snapshot.AirQuality{}
	case snapshot.DomainUV:
		return &snapshot.UVForecast{}
	case snapshot.DomainPollen:
		return &snapshot.PollenLevels{}
	case snapshot.DomainElectricity:
		return &snapshot.ElectricityPrices{}
	case snapshot.DomainRoadWeather:
		return &snapshot.RoadWeather{}
	case snapshot.DomainTransit:
		return &snapshot.TransitAlerts{}
	case snapshot.DomainAurora:
		return &snapshot.AuroraForecast{}
	case snapshot.DomainMarine:
		return &snapshot.MarineConditions{}
	case snapshot.DomainFlood:
		return &snapshot.FloodConditions{}
	case snapshot.DomainNowcast:
		return &snapshot.Nowcast{}
	default:
		return nil
	}
}
