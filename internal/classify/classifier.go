// Package classify maps scored probabilities to ordinal risk bands and
// recommendations through configured threshold tables.
package classify

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/domain"
)

// Threshold is one step of a banding policy: probabilities up to and
// including UpperBound percent fall into Band. Boundary values always belong
// to the lower band.
type Threshold struct {
	UpperBound     float64
	Band           domain.RiskBand
	Recommendation string
}

// fiveBandThresholds is the standard five-band policy.
var fiveBandThresholds = []Threshold{
	{10, domain.VERY_LOW, "routine annual checkup"},
	{25, domain.LOW, "preventive monitoring, balanced diet"},
	{50, domain.MODERATE, "lifestyle modification, periodic review"},
	{75, domain.HIGH, "consult a cardiologist"},
	{100, domain.VERY_HIGH, "immediate medical attention"},
}

// twoBandThresholds is the binary policy with a single 50% cut.
var twoBandThresholds = []Threshold{
	{50, domain.LOW, "preventive monitoring, balanced diet"},
	{100, domain.HIGH, "consult a cardiologist"},
}

// Classifier is a pure step function from probability percent to risk band.
// The threshold table is policy data selected at construction; classification
// itself never branches on policy names.
type Classifier struct {
	policy     domain.BandingPolicy
	thresholds []Threshold
	logger     *logrus.Logger
}

// New creates a classifier for one of the named banding policies.
func New(policy domain.BandingPolicy, logger *logrus.Logger) (*Classifier, error) {
	var thresholds []Threshold
	switch policy {
	case domain.FIVE_BAND:
		thresholds = fiveBandThresholds
	case domain.TWO_BAND:
		thresholds = twoBandThresholds
	default:
		return nil, fmt.Errorf("creating classifier: %w: %q", domain.ErrInvalidBandingPolicy, policy)
	}
	return newWithThresholds(policy, thresholds, logger)
}

// newWithThresholds validates the threshold table: strictly ascending upper
// bounds, non-decreasing band ranks, full coverage of [0,100].
func newWithThresholds(policy domain.BandingPolicy, thresholds []Threshold, logger *logrus.Logger) (*Classifier, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("creating classifier: empty threshold table")
	}
	prevBound := 0.0
	prevRank := -1
	for i, th := range thresholds {
		if !th.Band.IsValid() {
			return nil, fmt.Errorf("creating classifier: %w at threshold %d", domain.ErrInvalidRiskBand, i)
		}
		if i > 0 && th.UpperBound <= prevBound {
			return nil, fmt.Errorf("creating classifier: threshold bounds must be strictly ascending")
		}
		if th.Band.Rank() < prevRank {
			return nil, fmt.Errorf("creating classifier: band ordering must be monotonic")
		}
		if th.Recommendation == "" {
			return nil, fmt.Errorf("creating classifier: threshold %d has no recommendation", i)
		}
		prevBound = th.UpperBound
		prevRank = th.Band.Rank()
	}
	if thresholds[len(thresholds)-1].UpperBound != 100 {
		return nil, fmt.Errorf("creating classifier: threshold table must cover up to 100%%")
	}
	return &Classifier{policy: policy, thresholds: thresholds, logger: logger}, nil
}

// Policy returns the banding policy in effect.
func (c *Classifier) Policy() domain.BandingPolicy {
	return c.policy
}

// Classify maps a probability on the [0,100] percent scale to its risk band
// and recommendation. Pure step function; no randomness, no hysteresis.
func (c *Classifier) Classify(percent float64) (domain.RiskBand, string, error) {
	if percent < 0 || percent > 100 {
		return "", "", fmt.Errorf("classifying risk: probability percent %f outside [0,100]", percent)
	}

	for _, th := range c.thresholds {
		if percent <= th.UpperBound {
			if c.logger != nil {
				c.logger.WithFields(logrus.Fields{
					"percent": percent,
					"band":    th.Band.String(),
					"policy":  string(c.policy),
				}).Debug("Classified risk probability")
			}
			return th.Band, th.Recommendation, nil
		}
	}

	// Unreachable: the table covers up to 100 and the range check bounds percent.
	last := c.thresholds[len(c.thresholds)-1]
	return last.Band, last.Recommendation, nil
}
