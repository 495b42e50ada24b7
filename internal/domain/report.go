package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Section names recognized in a report.
const (
	SectionCommercial    = "commercial"
	SectionIndustry      = "industry"
	SectionAccessibility = "accessibility"
	SectionMobility      = "mobility"
)

// Section is one loosely structured part of a report.
type Section map[string]any

// Float returns the numeric value stored under key. Finite numbers and numeric
// strings are accepted; anything else, NaN and infinities included, counts as absent.
func (s Section) Float(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	switch v.(type) {
	case nil, bool, map[string]any, []any:
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Report is the raw analysis document for one store.
// Missing sections are empty, never an error.
type Report struct {
	StoreCode     string
	Commercial    Section
	Industry      Section
	Accessibility Section
	Mobility      Section
	Extra         map[string]Section
}

// Section looks a section up by name. Unknown names fall through to Extra.
func (r *Report) Section(name string) Section {
	if r == nil {
		return nil
	}
	switch name {
	case SectionCommercial:
		return r.Commercial
	case SectionIndustry:
		return r.Industry
	case SectionAccessibility:
		return r.Accessibility
	case SectionMobility:
		return r.Mobility
	default:
		return r.Extra[name]
	}
}

// IsEmpty reports whether the report carries no section data at all.
func (r *Report) IsEmpty() bool {
	if r == nil {
		return true
	}
	return len(r.Commercial) == 0 && len(r.Industry) == 0 &&
		len(r.Accessibility) == 0 && len(r.Mobility) == 0 && len(r.Extra) == 0
}

// MarshalJSON writes the report as a flat object of sections.
func (r Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 5+len(r.Extra))
	for name, sec := range r.Extra {
		out[name] = sec
	}
	if r.StoreCode != "" {
		out["store_code"] = r.StoreCode
	}
	for name, sec := range map[string]Section{
		SectionCommercial:    r.Commercial,
		SectionIndustry:      r.Industry,
		SectionAccessibility: r.Accessibility,
		SectionMobility:      r.Mobility,
	} {
		if sec != nil {
			out[name] = sec
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a report. A section that is not an object decodes as empty;
// only a document that is not an object at all is rejected.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding report: %w", err)
	}

	*r = Report{}
	for key, msg := range raw {
		if key == "store_code" {
			var code string
			if json.Unmarshal(msg, &code) == nil {
				r.StoreCode = code
			}
			continue
		}

		sec := Section{}
		if err := json.Unmarshal(msg, &sec); err != nil || sec == nil {
			sec = Section{}
		}

		switch key {
		case SectionCommercial:
			r.Commercial = sec
		case SectionIndustry:
			r.Industry = sec
		case SectionAccessibility:
			r.Accessibility = sec
		case SectionMobility:
			r.Mobility = sec
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]Section)
			}
			r.Extra[key] = sec
		}
	}
	return nil
}
