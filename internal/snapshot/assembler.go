package snapshot

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DomainStatus is the provenance and staleness report for one domain.
type DomainStatus struct {
	Domain    Domain    `json:"domain"`
	Available bool      `json:"available"`
	Provider  string    `json:"provider,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
	FromCache bool      `json:"fromCache,omitempty"`
	// StaleFor is the age of the cached entry at serve time.
	StaleFor time.Duration `json:"staleFor,omitempty"`
	Failures []Failure     `json:"failures,omitempty"`
}

// Snapshot is the fully assembled result of one aggregation pass.
// It is immutable after assembly; Assemble is its sole constructor.
type Snapshot struct {
	ID        string    `json:"id"`
	Location  Location  `json:"location"`
	Timestamp time.Time `json:"timestamp"`

	Raw      RawData      `json:"raw"`
	Computed ComputedData `json:"computed"`
	Warnings []Warning    `json:"warnings"`

	// Report lists per-domain provenance in the configured domain order.
	Report []DomainStatus `json:"report"`
}

// Unavailable returns the domains that carry an absence marker, in report
// order. Display layers may surface these as data-quality notes.
func (s *Snapshot) Unavailable() []Domain {
	var out []Domain
	for _, st := range s.Report {
		if !st.Available {
			out = append(out, st.Domain)
		}
	}
	return out
}

// Assemble composes one immutable Snapshot. Warnings are sorted by severity
// descending, then by the fixed category priority; the sort is stable so
// insertion order survives within ties.
func Assemble(loc Location, raw RawData, computed ComputedData, warnings []Warning, at time.Time) *Snapshot {
	sorted := make([]Warning, len(warnings))
	copy(sorted, warnings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})

	// Report order follows the canonical domain order so the snapshot is
	// deterministic regardless of completion order.
	report := make([]DomainStatus, 0, len(raw))
	for _, d := range AllDomains {
		res, ok := raw[d]
		if !ok {
			continue
		}
		report = append(report, DomainStatus{
			Domain:    d,
			Available: res.Available(),
			Provider:  res.Provider,
			FetchedAt: res.FetchedAt,
			FromCache: res.FromCache,
			StaleFor:  res.Age,
			Failures:  res.Failures,
		})
	}

	return &Snapshot{
		ID:        "snap_" + uuid.New().String()[:22],
		Location:  loc,
		Timestamp: at,
		Raw:       raw,
		Computed:  computed,
		Warnings:  sorted,
		Report:    report,
	}
}
