package scoring

import (
	"encoding/json"

	"github.com/guestview/guestview/internal/content"
)

// Breakdown is the itemized, additive explanation of a total score.
// Total always equals the sum of the other fields; every factor is present
// even when zero so the explanation is complete.
type Breakdown struct {
	Base    int
	Weather int
	Profile int
	Time    int
	Venue   int
	Total   int

	kind content.Kind
}

// MarshalJSON renders the breakdown in the wire shape the TV surface
// expects: dining reports the time factor as mealTime and includes the
// venue modifier; activities have neither.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	if b.kind == content.KindDining {
		return json.Marshal(struct {
			Base     int `json:"base"`
			Weather  int `json:"weather"`
			Profile  int `json:"profile"`
			MealTime int `json:"mealTime"`
			Venue    int `json:"venue"`
			Total    int `json:"total"`
		}{b.Base, b.Weather, b.Profile, b.Time, b.Venue, b.Total})
	}
	return json.Marshal(struct {
		Base    int `json:"base"`
		Weather int `json:"weather"`
		Profile int `json:"profile"`
		Time    int `json:"time"`
		Total   int `json:"total"`
	}{b.Base, b.Weather, b.Profile, b.Time, b.Total})
}

// Score computes the full breakdown for one item under one guest context.
// Pure and side-effect free; integer arithmetic only, so totals are exactly
// reproducible.
func Score(it content.Item, gc Context) Breakdown {
	b := Breakdown{
		kind:    it.Kind,
		Base:    baseScore,
		Weather: weatherFit(it, gc),
		Profile: profileFit(it, gc),
		Time:    timeFit(it, gc),
		Venue:   venueFit(it, gc),
	}
	b.Total = clamp(b.Base+b.Weather+b.Profile+b.Time+b.Venue, 0, 100)
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
