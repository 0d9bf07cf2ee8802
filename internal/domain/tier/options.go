package tier

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithActiveThreshold sets the minimum total for the Active tier.
func WithActiveThreshold(minPoints float64) Option {
	return func(c *Classifier) {
		if minPoints > 0 {
			c.activeMin = minPoints
		}
	}
}

// WithInvolvedThreshold sets the minimum total for the Involved tier and the
// promotion floor for Most Involved.
func WithInvolvedThreshold(minPoints float64) Option {
	return func(c *Classifier) {
		if minPoints > 0 {
			c.involvedMin = minPoints
		}
	}
}
