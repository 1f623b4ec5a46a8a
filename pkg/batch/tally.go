package batch

import "github.com/rs/zerolog"

// WarnRateThreshold is the batch failure rate above which a diagnostic is
// emitted. The comparison is strict: a rate of exactly 5% stays quiet.
const WarnRateThreshold = 0.05

// Tally aggregates per-identifier failures across one batch call.
type Tally struct {
	Total  int
	Failed int
}

// Rate returns the fraction of identifiers that failed, 0 for an empty batch.
func (t Tally) Rate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Failed) / float64(t.Total)
}

// Elevated reports whether the failure rate exceeds WarnRateThreshold.
func (t Tally) Elevated() bool {
	return t.Rate() > WarnRateThreshold
}

// Log emits the elevated-failure-rate diagnostic when warranted. This is the
// only user-visible signal for expected carrier-side failures; individual
// identifiers are dropped from results silently.
func (t Tally) Log(logger zerolog.Logger) {
	if !t.Elevated() {
		return
	}
	logger.Warn().
		Int("failed", t.Failed).
		Int("total", t.Total).
		Float64("fail_rate", t.Rate()).
		Msg("Failed to get tracking data for an elevated share of shipments")
}
