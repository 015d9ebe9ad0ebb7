package classify

import (
	"errors"
	"fmt"
	"math"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/feature"
)

// ErrDimensionMismatch is returned when a feature vector does not match the
// dimensionality the model was trained against. It signals an artifact or
// version mix-up and aborts the batch.
var ErrDimensionMismatch = errors.New("feature vector dimensionality does not match model")

// Calibration holds Platt sigmoid parameters mapping a decision score to
// P(community) = 1 / (1 + exp(A*score + B))
type Calibration struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Classifier is a linear decision function over feature vectors.
// It is immutable after training and safe for concurrent use.
type Classifier struct {
	Weights     []float64    `json:"weights"`
	Bias        float64      `json:"bias"`
	Calibration *Calibration `json:"calibration,omitempty"`
}

// Score returns the signed distance to the decision boundary.
// Positive scores fall on the community side.
func (c *Classifier) Score(v feature.Vector) (float64, error) {
	if v.Dim != len(c.Weights) {
		return 0, fmt.Errorf("%w: vector has %d dimensions, model has %d",
			ErrDimensionMismatch, v.Dim, len(c.Weights))
	}
	return c.Bias + v.Dot(c.Weights), nil
}

// Predict maps a feature vector to a class and a confidence in [0,1].
// Same vector in, same (class, confidence) out.
func (c *Classifier) Predict(v feature.Vector) (event.Class, float64, error) {
	score, err := c.Score(v)
	if err != nil {
		return "", 0, err
	}
	class := event.NonCommunity
	if score >= 0 {
		class = event.Community
	}
	return class, c.confidence(score), nil
}

// confidence converts a decision score to a certainty in [0,1]. With
// calibration it is the winning class probability; without it, the logistic
// of the absolute margin: 0.5 at the boundary, approaching 1 far from it.
// Both forms are monotonic in distance from the boundary, so a single
// review threshold applies to either.
func (c *Classifier) confidence(score float64) float64 {
	if c.Calibration != nil {
		p := 1 / (1 + math.Exp(c.Calibration.A*score+c.Calibration.B))
		return math.Max(p, 1-p)
	}
	return 1 / (1 + math.Exp(-math.Abs(score)))
}
