package scoring

import "github.com/guestview/guestview/internal/content"

// Category groups used by the factor scorers. Categories come from staff
// tooling as free text; anything outside these sets scores neutral.
var (
	culturalCategories = set("museum", "gallery", "theater", "cinema", "cultural")

	kidCategories       = set("playground", "zoo", "aquarium", "kids", "mini_golf")
	adventureCategories = set("hiking", "climbing", "biking", "watersports", "kayaking", "sport")
	wellnessCategories  = set("spa", "wellness", "yoga", "sauna")
	romanticCategories  = set("fine_dining", "spa", "scenic", "winery")
	businessCategories  = set("bar", "fine_dining")

	breakfastCategories = set("breakfast", "brunch", "bakery")
	dinnerCategories    = set("restaurant", "fine_dining", "steakhouse")
	barCafeCategories   = set("bar", "cafe", "lounge")
)

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// baseScore is the neutral contribution every item starts from. Together
// with the factor ranges below it keeps raw totals inside [0, 100], so the
// clamp in Score never has to break additivity.
const baseScore = 45

// weatherFit scores how well an item suits the current weather.
// Range [-15, +20]. An indoor fallback dominates on rainy/cold days, so an
// outdoor venue with covered space is not penalized.
func weatherFit(it content.Item, gc Context) int {
	outdoor := it.Features.Outdoor
	indoor := it.Features.Indoor || culturalCategories[it.Category]

	switch gc.Weather {
	case WeatherSunny:
		if outdoor {
			return 20
		}
	case WeatherCloudy:
		if outdoor {
			return 3
		}
		if indoor {
			return 2
		}
	case WeatherRainy:
		if indoor {
			return 15
		}
		if outdoor {
			return -15
		}
	case WeatherCold:
		if indoor {
			return 12
		}
		if outdoor {
			return -10
		}
	}
	return 0
}

// profileFit scores category alignment with the guest archetype.
// Range [0, +15]. The unknown profile contributes zero for every item so a
// missing profile never biases the ranking.
func profileFit(it content.Item, gc Context) int {
	switch gc.Profile {
	case ProfileFamily:
		n := 0
		if it.Features.FamilyFriendly {
			n += 10
		}
		if kidCategories[it.Category] {
			n += 5
		}
		return n
	case ProfileAdventure:
		if adventureCategories[it.Category] {
			return 15
		}
		if it.Features.Outdoor {
			return 5
		}
	case ProfileWellness:
		if wellnessCategories[it.Category] {
			return 15
		}
	case ProfileCouple:
		if romanticCategories[it.Category] {
			return 10
		}
	case ProfileBusiness:
		if businessCategories[it.Category] {
			return 5
		}
	}
	return 0
}

// timeFit scores daypart appropriateness. Range [-10, +10].
// Dining follows meal hours; activities follow daylight dependence.
func timeFit(it content.Item, gc Context) int {
	if it.Kind == content.KindDining {
		switch {
		case breakfastCategories[it.Category]:
			if gc.TimeOfDay == TimeMorning {
				return 10
			}
		case dinnerCategories[it.Category]:
			if gc.TimeOfDay == TimeEvening {
				return 10
			}
		case barCafeCategories[it.Category]:
			if gc.TimeOfDay == TimeAfternoon || gc.TimeOfDay == TimeNight {
				return 8
			}
		}
		return 0
	}

	if it.Features.Daylight {
		switch gc.TimeOfDay {
		case TimeMorning, TimeAfternoon:
			return 10
		case TimeNight:
			return -10
		}
	}
	return 0
}

// venueFit is the dining-only modifier: a proximity ladder plus small
// weather-conditional feature bonuses. Range [0, +10].
func venueFit(it content.Item, gc Context) int {
	if it.Kind != content.KindDining {
		return 0
	}

	n := 0
	if d := it.DistanceKm; d != nil {
		switch {
		case *d <= 0.5:
			n += 7
		case *d <= 1:
			n += 5
		case *d <= 2:
			n += 3
		case *d <= 5:
			n += 1
		}
	}
	if it.Features.Terrace && gc.Weather == WeatherSunny {
		n += 2
	}
	if it.Features.WalkIns && gc.Weather == WeatherRainy {
		n += 1
	}
	return n
}
