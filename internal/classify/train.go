package classify

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/feature"
)

// TrainOptions control the offline training run
type TrainOptions struct {
	Features     feature.Options
	Epochs       int
	Lambda       float64 // regularization strength
	Seed         int64
	HoldoutRatio float64 // fraction of rows held out for evaluation
	Calibrate    bool    // fit Platt sigmoid on training scores
}

// DefaultTrainOptions returns the settings used by the train command
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Features:     feature.DefaultOptions(),
		Epochs:       100,
		Lambda:       1e-4,
		Seed:         42,
		HoldoutRatio: 0.2,
		Calibrate:    true,
	}
}

// Train fits an extractor and classifier on the human-labeled events and
// returns the combined artifact. When the data has at least three series and
// both classes, a series-grouped holdout is carved out first so occurrences
// of one recurring event never straddle the train/test boundary, and the
// holdout metrics are recorded in the artifact metadata. Deterministic for a
// fixed seed.
func Train(events []*event.Event, opts TrainOptions) (*Artifact, error) {
	labeled := make([]*event.Event, 0, len(events))
	for _, e := range events {
		if e.Label.IsHuman() {
			labeled = append(labeled, e)
		}
	}
	if len(labeled) == 0 {
		return nil, errors.New("no labeled events to train on")
	}

	var pos, neg int
	for _, e := range labeled {
		if e.Label.Class == event.Community {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, fmt.Errorf("training requires both classes, got %d community and %d non-community", pos, neg)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	trainSet, testSet := groupSplit(labeled, opts.HoldoutRatio, rng)

	extractor := feature.Fit(trainSet, opts.Features)
	classifier := fitSVM(extractor, trainSet, opts, rng)

	if opts.Calibrate {
		classifier.Calibration = fitPlatt(classifier, extractor, trainSet)
	}

	var evaluation *Evaluation
	if len(testSet) > 0 {
		evaluation = Evaluate(classifier, extractor, testSet)
	}

	return &Artifact{
		FormatVersion: FormatVersion,
		Extractor:     extractor,
		Classifier:    classifier,
		Metadata: Metadata{
			TrainedAt:   time.Now().UTC().Format(time.RFC3339),
			LabeledRows: len(labeled),
			Positives:   pos,
			Negatives:   neg,
			Evaluation:  evaluation,
		},
	}, nil
}

// groupSplit holds out whole series so a recurring event cannot leak between
// train and test. Falls back to training on everything when the data is too
// small to split (fewer than 3 series, or a split would strip one class from
// the training side).
func groupSplit(labeled []*event.Event, ratio float64, rng *rand.Rand) (trainSet, testSet []*event.Event) {
	if ratio <= 0 {
		return labeled, nil
	}

	groups := make(map[string][]int)
	for i, e := range labeled {
		key := e.SeriesID
		if key == "" {
			// series of one, keyed by occurrence
			key = "\x00" + e.ID
		}
		groups[key] = append(groups[key], i)
	}
	if len(groups) < 3 {
		return labeled, nil
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	target := int(math.Round(ratio * float64(len(labeled))))
	held := make(map[int]bool)
	for _, k := range keys {
		if len(held) >= target {
			break
		}
		for _, i := range groups[k] {
			held[i] = true
		}
	}

	for i, e := range labeled {
		if held[i] {
			testSet = append(testSet, e)
		} else {
			trainSet = append(trainSet, e)
		}
	}

	// A usable split must leave both classes on the training side
	var pos, neg int
	for _, e := range trainSet {
		if e.Label.Class == event.Community {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 || len(testSet) == 0 {
		return labeled, nil
	}
	return trainSet, testSet
}

// fitSVM trains the linear decision function with Pegasos-style hinge-loss
// SGD and balanced class weights
func fitSVM(extractor *feature.Extractor, trainSet []*event.Event, opts TrainOptions, rng *rand.Rand) *Classifier {
	n := len(trainSet)
	vectors := make([]feature.Vector, n)
	targets := make([]float64, n)
	var pos, neg int
	for i, e := range trainSet {
		vectors[i] = extractor.Transform(e)
		if e.Label.Class == event.Community {
			targets[i] = 1
			pos++
		} else {
			targets[i] = -1
			neg++
		}
	}

	// Balanced class weights: n / (2 * class count)
	posWeight := float64(n) / (2 * float64(pos))
	negWeight := float64(n) / (2 * float64(neg))

	dim := extractor.Dim()
	w := make([]float64, dim)
	var b float64
	step := 0

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for _, i := range rng.Perm(n) {
			step++
			eta := 1 / (opts.Lambda * float64(step))
			y := targets[i]
			cw := posWeight
			if y < 0 {
				cw = negWeight
			}

			margin := y * (b + vectors[i].Dot(w))

			// Shrink weights toward zero (regularization), then push along
			// the example if it violates the margin
			shrink := 1 - eta*opts.Lambda
			if shrink < 0 {
				shrink = 0
			}
			for d := range w {
				w[d] *= shrink
			}
			if margin < 1 {
				g := eta * cw * y
				for k, idx := range vectors[i].Indices {
					w[idx] += g * vectors[i].Values[k]
				}
				b += g
			}
		}
	}

	return &Classifier{Weights: w, Bias: b}
}

// fitPlatt fits sigmoid parameters mapping decision scores to probabilities,
// using Platt's smoothed targets and plain gradient descent. Deterministic.
func fitPlatt(c *Classifier, extractor *feature.Extractor, trainSet []*event.Event) *Calibration {
	n := len(trainSet)
	scores := make([]float64, n)
	targets := make([]float64, n)
	var pos, neg float64
	for _, e := range trainSet {
		if e.Label.Class == event.Community {
			pos++
		} else {
			neg++
		}
	}
	tPos := (pos + 1) / (pos + 2)
	tNeg := 1 / (neg + 2)

	for i, e := range trainSet {
		scores[i], _ = c.Score(extractor.Transform(e))
		if e.Label.Class == event.Community {
			targets[i] = tPos
		} else {
			targets[i] = tNeg
		}
	}

	// p = 1 / (1 + exp(A*s + B)); start from the standard initial point
	a := 0.0
	b := math.Log((neg + 1) / (pos + 1))
	lr := 0.01
	for iter := 0; iter < 500; iter++ {
		var gradA, gradB float64
		for i := range scores {
			p := 1 / (1 + math.Exp(a*scores[i]+b))
			diff := p - targets[i]
			// d(crossentropy)/dA = -(p - t) * s, /dB = -(p - t)
			gradA -= diff * scores[i]
			gradB -= diff
		}
		a -= lr * gradA / float64(n)
		b -= lr * gradB / float64(n)
	}

	return &Calibration{A: a, B: b}
}
