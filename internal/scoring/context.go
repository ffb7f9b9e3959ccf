package scoring

import "fmt"

// Weather is the current condition at the property.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherCold   Weather = "cold"
)

// Profile is a coarse guest-type archetype, not a stored guest record.
type Profile string

const (
	ProfileFamily    Profile = "family"
	ProfileCouple    Profile = "couple"
	ProfileAdventure Profile = "adventure"
	ProfileWellness  Profile = "wellness"
	ProfileBusiness  Profile = "business"
	ProfileUnknown   Profile = "unknown"
)

// TimeOfDay is the current daypart at the property.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// Domain selects which catalog(s) a scoring request targets.
type Domain string

const (
	DomainActivities Domain = "activities"
	DomainDining     Domain = "dining"
	DomainUnified    Domain = "unified"
)

// Context is the immutable guest-context triple for one scoring request.
type Context struct {
	Weather   Weather
	Profile   Profile
	TimeOfDay TimeOfDay
}

// InvalidContextError reports an unrecognized enum value in the guest
// context or domain. Values are rejected outright, never defaulted.
type InvalidContextError struct {
	Field string
	Value string
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
}

// ParseContext validates the raw guest-context triple against the closed
// enumerations and returns a canonical Context.
func ParseContext(weather, profile, timeOfDay string) (Context, error) {
	w := Weather(weather)
	switch w {
	case WeatherSunny, WeatherCloudy, WeatherRainy, WeatherCold:
	default:
		return Context{}, &InvalidContextError{Field: "weather", Value: weather}
	}

	p := Profile(profile)
	switch p {
	case ProfileFamily, ProfileCouple, ProfileAdventure, ProfileWellness, ProfileBusiness, ProfileUnknown:
	default:
		return Context{}, &InvalidContextError{Field: "guestProfile", Value: profile}
	}

	t := TimeOfDay(timeOfDay)
	switch t {
	case TimeMorning, TimeAfternoon, TimeEvening, TimeNight:
	default:
		return Context{}, &InvalidContextError{Field: "timeOfDay", Value: timeOfDay}
	}

	return Context{Weather: w, Profile: p, TimeOfDay: t}, nil
}

// ParseDomain validates a raw domain string.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	switch d {
	case DomainActivities, DomainDining, DomainUnified:
		return d, nil
	}
	return "", &InvalidContextError{Field: "domain", Value: s}
}
