package placement

// Tuning collects the adjustable placement constants. Zero values are not
// usable; start from DefaultTuning and override fields from config.
type Tuning struct {
	// Margin is the gap in logical units kept between the target and the
	// companion window.
	Margin float64

	// EdgeThresholdRatio sets the "near edge" zone as a fraction of the
	// monitor dimension.
	EdgeThresholdRatio float64

	// VisibilityLadder is the descending sequence of minimum visible
	// fractions the scorer walks when selecting a position.
	VisibilityLadder []float64

	// HorizontalFactor weights side placement over above/below placement
	// when comparing free space.
	HorizontalFactor float64
}

// DefaultTuning returns the stock placement constants.
func DefaultTuning() Tuning {
	return Tuning{
		Margin:             10,
		EdgeThresholdRatio: 0.15,
		VisibilityLadder:   []float64{1.0, 0.9, 0.8, 0.7, 0.5},
		HorizontalFactor:   1.2,
	}
}
