package game

import (
	"github.com/pthm-cable/spirittrails/telemetry"
	"github.com/pthm-cable/spirittrails/trails"
)

// setupTelemetry routes governor samples, tier changes and frame timings to the log and
// the CSV output, and logs scene callbacks.
func (g *Game) setupTelemetry() {
	g.scene.OnSample(func(s telemetry.Sample) {
		if g.opts.LogStats || g.cfg.Telemetry.LogSamples {
			g.logger.Info("sample", "sample", s)
		}
		if err := g.output.WriteSample(s); err != nil {
			g.logger.Error("failed to write sample", "error", err)
		}
		perf := g.scene.Perf().Stats()
		if g.opts.LogStats {
			g.logger.Info("perf", "perf", perf)
		}
		if err := g.output.WritePerf(perf.ToCSV(s.Time)); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	})

	g.scene.OnTierChange(func(c telemetry.TierChange) {
		if err := g.output.WriteTierChange(c); err != nil {
			g.logger.Error("failed to write tier change", "error", err)
		}
	})

	g.scene.OnSectionTransitionComplete(func(section string) {
		g.logger.Info("section reached", "section", section, "frame", g.frame)
	})

	g.scene.OnInteraction(func(in trails.Interaction) {
		g.interactions++
		g.logger.Info("beacon interaction",
			"kind", string(in.Kind),
			"event", in.Event.ID,
			"category", in.Event.Category.String(),
		)
	})
}
