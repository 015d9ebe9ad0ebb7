package classify

import (
	"fmt"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/feature"
)

// Evaluation summarizes classifier quality on a labeled holdout.
// Community is the positive class.
type Evaluation struct {
	HoldoutSize    int     `json:"holdout_size"`
	Accuracy       float64 `json:"accuracy"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	TrueNegatives  int     `json:"true_negatives"`
	FalseNegatives int     `json:"false_negatives"`
}

// Evaluate scores the classifier against human labels on the holdout set
func Evaluate(c *Classifier, extractor *feature.Extractor, testSet []*event.Event) *Evaluation {
	ev := &Evaluation{HoldoutSize: len(testSet)}

	for _, e := range testSet {
		predicted, _, err := c.Predict(extractor.Transform(e))
		if err != nil {
			continue
		}
		actual := e.Label.Class
		switch {
		case predicted == event.Community && actual == event.Community:
			ev.TruePositives++
		case predicted == event.Community && actual != event.Community:
			ev.FalsePositives++
		case predicted != event.Community && actual != event.Community:
			ev.TrueNegatives++
		default:
			ev.FalseNegatives++
		}
	}

	total := ev.TruePositives + ev.FalsePositives + ev.TrueNegatives + ev.FalseNegatives
	if total > 0 {
		ev.Accuracy = float64(ev.TruePositives+ev.TrueNegatives) / float64(total)
	}
	if ev.TruePositives+ev.FalsePositives > 0 {
		ev.Precision = float64(ev.TruePositives) / float64(ev.TruePositives+ev.FalsePositives)
	}
	if ev.TruePositives+ev.FalseNegatives > 0 {
		ev.Recall = float64(ev.TruePositives) / float64(ev.TruePositives+ev.FalseNegatives)
	}
	if ev.Precision+ev.Recall > 0 {
		ev.F1 = 2 * ev.Precision * ev.Recall / (ev.Precision + ev.Recall)
	}

	return ev
}

// String renders the evaluation as a short human-readable block
func (ev *Evaluation) String() string {
	return fmt.Sprintf(
		"holdout=%d accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f (tp=%d fp=%d tn=%d fn=%d)",
		ev.HoldoutSize, ev.Accuracy, ev.Precision, ev.Recall, ev.F1,
		ev.TruePositives, ev.FalsePositives, ev.TrueNegatives, ev.FalseNegatives)
}
