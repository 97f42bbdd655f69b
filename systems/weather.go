package systems

import "fmt"

// Weather is a host-reported weather condition.
type Weather string

const (
	Sunny  Weather = "sunny"
	Cloudy Weather = "cloudy"
	Rainy  Weather = "rainy"
	Stormy Weather = "stormy"
	Windy  Weather = "windy"
	Snowy  Weather = "snowy"
	Hot    Weather = "hot"
	Foggy  Weather = "foggy"
)

// Region is the landscape type the scene represents.
type Region string

const (
	Forest    Region = "forest"
	Grassland Region = "grassland"
	Outback   Region = "outback"
	Coast     Region = "coast"
	Alpine    Region = "alpine"
)

var (
	weathers = []Weather{Sunny, Cloudy, Rainy, Stormy, Windy, Snowy, Hot, Foggy}
	regions  = []Region{Forest, Grassland, Outback, Coast, Alpine}
)

// ParseWeather validates a weather name.
func ParseWeather(s string) (Weather, error) {
	for _, w := range weathers {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown weather %q", s)
}

// ParseRegion validates a region name.
func ParseRegion(s string) (Region, error) {
	for _, r := range regions {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// EmitterSpec selects an emitter type and the fraction of its pool the weather uses.
type EmitterSpec struct {
	Type    EmitterType
	Density float64
}

// ambientMotes is always present so still scenes keep some motion.
var ambientMotes = EmitterSpec{Type: EmitterMotes, Density: 0.3}

// EmittersFor maps weather and region to the emitters that should run.
func EmittersFor(w Weather, r Region) []EmitterSpec {
	var specs []EmitterSpec
	switch w {
	case Rainy:
		specs = append(specs, EmitterSpec{EmitterRain, 0.6})
	case Stormy:
		specs = append(specs, EmitterSpec{EmitterRain, 1})
		if r == Outback {
			specs = append(specs, EmitterSpec{EmitterDust, 0.8})
		}
	case Windy:
		if r == Outback {
			specs = append(specs, EmitterSpec{EmitterDust, 1})
		} else {
			specs = append(specs, EmitterSpec{EmitterLeaves, 1})
		}
	case Sunny:
		if r == Forest || r == Grassland {
			specs = append(specs, EmitterSpec{EmitterPollen, 0.5})
		}
	case Snowy:
		specs = append(specs, EmitterSpec{EmitterSnow, 1})
	case Hot:
		specs = append(specs, EmitterSpec{EmitterEmbers, 0.7})
	case Foggy:
		return append(specs, EmitterSpec{EmitterMotes, 1})
	}
	return append(specs, ambientMotes)
}
