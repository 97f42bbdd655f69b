package systems

import "testing"

func types(specs []EmitterSpec) []EmitterType {
	out := make([]EmitterType, len(specs))
	for i, s := range specs {
		out[i] = s.Type
	}
	return out
}

func TestEmittersFor(t *testing.T) {
	tests := []struct {
		weather Weather
		region  Region
		want    []EmitterType
	}{
		{Rainy, Forest, []EmitterType{EmitterRain, EmitterMotes}},
		{Stormy, Coast, []EmitterType{EmitterRain, EmitterMotes}},
		{Stormy, Outback, []EmitterType{EmitterRain, EmitterDust, EmitterMotes}},
		{Windy, Outback, []EmitterType{EmitterDust, EmitterMotes}},
		{Windy, Forest, []EmitterType{EmitterLeaves, EmitterMotes}},
		{Sunny, Grassland, []EmitterType{EmitterPollen, EmitterMotes}},
		{Sunny, Outback, []EmitterType{EmitterMotes}},
		{Snowy, Alpine, []EmitterType{EmitterSnow, EmitterMotes}},
		{Hot, Outback, []EmitterType{EmitterEmbers, EmitterMotes}},
		{Foggy, Coast, []EmitterType{EmitterMotes}},
		{Cloudy, Forest, []EmitterType{EmitterMotes}},
	}
	for _, tt := range tests {
		got := types(EmittersFor(tt.weather, tt.region))
		if len(got) != len(tt.want) {
			t.Errorf("%s/%s: expected %v, got %v", tt.weather, tt.region, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s/%s: expected %v, got %v", tt.weather, tt.region, tt.want, got)
				break
			}
		}
	}
}

func TestStormIsHeavierThanRain(t *testing.T) {
	rain := EmittersFor(Rainy, Forest)[0]
	storm := EmittersFor(Stormy, Forest)[0]
	if storm.Density <= rain.Density {
		t.Errorf("expected storm density %v above rain %v", storm.Density, rain.Density)
	}
}

func TestAmbientMotesAreLight(t *testing.T) {
	specs := EmittersFor(Sunny, Forest)
	last := specs[len(specs)-1]
	if last.Type != EmitterMotes || last.Density >= 0.5 {
		t.Errorf("expected low density motes, got %+v", last)
	}
	fog := EmittersFor(Foggy, Forest)
	if len(fog) != 1 || fog[0].Density != 1 {
		t.Errorf("expected full motes in fog, got %+v", fog)
	}
}

func TestParseWeatherAndRegion(t *testing.T) {
	if w, err := ParseWeather("stormy"); err != nil || w != Stormy {
		t.Errorf("expected stormy, got %q %v", w, err)
	}
	if _, err := ParseWeather("hail"); err == nil {
		t.Error("expected error for unknown weather")
	}
	if r, err := ParseRegion("outback"); err != nil || r != Outback {
		t.Errorf("expected outback, got %q %v", r, err)
	}
	if _, err := ParseRegion("moon"); err == nil {
		t.Error("expected error for unknown region")
	}
}
