package tax

import "strings"

// Jurisdiction identifies a tax authority as a (country, state, region)
// tuple. Country is required; state and region narrow the scope.
type Jurisdiction struct {
	Country string
	State   string
	Region  string
}

// NewJurisdiction creates a jurisdiction with normalized components
func NewJurisdiction(country, state, region string) Jurisdiction {
	return Jurisdiction{
		Country: strings.ToUpper(strings.TrimSpace(country)),
		State:   strings.ToUpper(strings.TrimSpace(state)),
		Region:  strings.TrimSpace(region),
	}
}

// Key returns a stable string key for the jurisdiction, used for
// per-jurisdiction write serialization and repository lookups
func (j Jurisdiction) Key() string {
	return j.Country + "/" + j.State + "/" + j.Region
}

// Specificity returns how many components the jurisdiction carries
func (j Jurisdiction) Specificity() int {
	n := 1
	if j.State != "" {
		n++
	}
	if j.Region != "" {
		n++
	}
	return n
}

// CandidateKeys generates the ordered fallback list for rate resolution,
// most specific first: (country, state, region) -> (country, state) ->
// (country). Components absent from the query are skipped, so a query
// without a region starts at (country, state). New jurisdiction levels
// extend this list without touching the resolution loop.
func (j Jurisdiction) CandidateKeys() []Jurisdiction {
	candidates := make([]Jurisdiction, 0, 3)
	if j.State != "" && j.Region != "" {
		candidates = append(candidates, Jurisdiction{Country: j.Country, State: j.State, Region: j.Region})
	}
	if j.State != "" {
		candidates = append(candidates, Jurisdiction{Country: j.Country, State: j.State})
	}
	candidates = append(candidates, Jurisdiction{Country: j.Country})
	return candidates
}
