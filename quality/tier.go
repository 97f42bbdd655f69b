// Package quality owns the active quality tier: what each tier costs, which tier a device
// starts on, and the governor that steps tiers up and down from measured frame rate.
package quality

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/spirittrails/config"
)

// Tier is an ordered quality level.
type Tier uint8

const (
	Low Tier = iota
	Medium
	High
)

// Tiers lists all tiers from lowest to highest.
var Tiers = []Tier{Low, Medium, High}

var tierNames = [...]string{"low", "medium", "high"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// ErrUnknownTier is returned when parsing an unrecognised tier name.
var ErrUnknownTier = errors.New("quality: unknown tier")

// ParseTier parses a tier name.
func ParseTier(s string) (Tier, error) {
	for i, n := range tierNames {
		if n == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Step returns the tier dir steps away, clamped to the valid range.
func (t Tier) Step(dir int) Tier {
	v := int(t) + dir
	if v < int(Low) {
		v = int(Low)
	}
	if v > int(High) {
		v = int(High)
	}
	return Tier(v)
}

// ShadowTechnique is the shadow rendering approach for a tier.
type ShadowTechnique uint8

const (
	ShadowNone ShadowTechnique = iota
	ShadowBlob                 // flat dark disc under objects
	ShadowSoft                 // blurred projected shadow
)

func (s ShadowTechnique) String() string {
	switch s {
	case ShadowBlob:
		return "blob"
	case ShadowSoft:
		return "soft"
	}
	return "none"
}

func parseShadow(s string) (ShadowTechnique, error) {
	switch s {
	case "", "none":
		return ShadowNone, nil
	case "blob":
		return ShadowBlob, nil
	case "soft":
		return ShadowSoft, nil
	}
	return 0, fmt.Errorf("unknown shadow technique %q", s)
}

// Settings is the renderer configuration for one tier.
type Settings struct {
	PixelRatioCap     float64
	Shadows           ShadowTechnique
	Antialias         bool
	ParticleDensity   float64
	TrailSegments     int
	FlowParticles     int
	LODScale          float64
	TerrainResolution int
	BeaconRings       int
}

// SettingsFromConfig converts a tier config.
func SettingsFromConfig(c config.TierConfig) (Settings, error) {
	sh, err := parseShadow(c.Shadows)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		PixelRatioCap:     c.PixelRatioCap,
		Shadows:           sh,
		Antialias:         c.Antialias,
		ParticleDensity:   c.ParticleDensity,
		TrailSegments:     c.TrailSegments,
		FlowParticles:     c.FlowParticles,
		LODScale:          c.LODScale,
		TerrainResolution: c.TerrainResolution,
		BeaconRings:       c.BeaconRings,
	}, nil
}

// SettingsTable maps every tier to its settings.
type SettingsTable [3]Settings

// LoadSettings builds the table from the tier configs keyed by tier name.
func LoadSettings(tiers map[string]config.TierConfig) (SettingsTable, error) {
	var tbl SettingsTable
	for _, t := range Tiers {
		c, ok := tiers[t.String()]
		if !ok {
			return tbl, fmt.Errorf("tier %s not configured", t)
		}
		s, err := SettingsFromConfig(c)
		if err != nil {
			return tbl, fmt.Errorf("tier %s: %w", t, err)
		}
		tbl[t] = s
	}
	return tbl, nil
}

// DeviceHints describe the device before any frame has been measured.
type DeviceHints struct {
	PixelRatio float64
	Cores      int
}

// InitialTier picks a starting tier from device hints. High-density displays on few cores
// start low because fill rate scales with pixel count.
func InitialTier(h DeviceHints) Tier {
	switch {
	case h.Cores > 0 && h.Cores <= 2:
		return Low
	case h.PixelRatio >= 3 && h.Cores <= 4:
		return Low
	case h.Cores >= 8 && h.PixelRatio <= 2:
		return High
	default:
		return Medium
	}
}
