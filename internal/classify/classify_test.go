package classify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/feature"
)

func labeledCorpus() []*event.Event {
	saturday := time.Date(2026, 4, 4, 18, 0, 0, 0, time.UTC)
	weekday := time.Date(2026, 4, 7, 9, 0, 0, 0, time.UTC)

	community := []string{
		"live music and food trucks at the park",
		"community festival with live music",
		"trivia night with drinks and music",
		"beach cleanup community volunteers",
		"farmers market local food vendors",
		"family festival food and games",
	}
	nonCommunity := []string{
		"quarterly board meeting business review",
		"chamber board meeting agenda",
		"members only networking business lunch",
		"committee meeting quarterly budget",
		"board of directors business session",
		"annual shareholders meeting review",
	}

	var events []*event.Event
	for i, desc := range community {
		e := event.New("", "Community Event", desc, "Johnson Beach Park", "", "", saturday.AddDate(0, 0, i), time.Time{})
		e.Label = event.HumanLabel(event.Community)
		events = append(events, e)
	}
	for i, desc := range nonCommunity {
		e := event.New("", "Chamber Meeting", desc, "Chamber Office", "", "", weekday.AddDate(0, 0, i), time.Time{})
		e.Label = event.HumanLabel(event.NonCommunity)
		events = append(events, e)
	}
	return events
}

func trainFixture(t *testing.T) *Artifact {
	t.Helper()
	opts := DefaultTrainOptions()
	opts.Features.MinDocFreq = 1
	opts.HoldoutRatio = 0 // train on everything for a stable fixture
	art, err := Train(labeledCorpus(), opts)
	if err != nil {
		t.Fatalf("training fixture: %v", err)
	}
	return art
}

func TestPredictDeterminism(t *testing.T) {
	art := trainFixture(t)
	e := &event.Event{Title: "Trivia Night", Description: "trivia and drinks with live music"}

	c1, conf1, err1 := art.Predict(e)
	c2, conf2, err2 := art.Predict(e)
	if err1 != nil || err2 != nil {
		t.Fatalf("predict failed: %v %v", err1, err2)
	}
	if c1 != c2 || conf1 != conf2 {
		t.Errorf("predict is not deterministic: (%s %f) vs (%s %f)", c1, conf1, c2, conf2)
	}
}

func TestTrainSeparatesClasses(t *testing.T) {
	art := trainFixture(t)

	class, conf, err := art.Predict(&event.Event{
		Title: "Music Festival", Description: "live music food trucks and community fun",
	})
	if err != nil {
		t.Fatal(err)
	}
	if class != event.Community {
		t.Errorf("expected community, got %s (confidence %f)", class, conf)
	}

	class, _, err = art.Predict(&event.Event{
		Title: "Board Meeting", Description: "quarterly business review for the board",
	})
	if err != nil {
		t.Fatal(err)
	}
	if class != event.NonCommunity {
		t.Errorf("expected non-community, got %s", class)
	}
}

func TestTrainRequiresBothClasses(t *testing.T) {
	events := labeledCorpus()[:6] // community only
	if _, err := Train(events, DefaultTrainOptions()); err == nil {
		t.Error("expected error when training on a single class")
	}
}

func TestDimensionGuard(t *testing.T) {
	art := trainFixture(t)

	wrong := feature.Vector{Indices: []int{0}, Values: []float64{1}, Dim: art.Extractor.Dim() + 5}
	_, _, err := art.Classifier.Predict(wrong)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestUncalibratedConfidence(t *testing.T) {
	c := &Classifier{Weights: []float64{1}, Bias: 0}

	at := func(val float64) float64 {
		_, conf, err := c.Predict(feature.Vector{Indices: []int{0}, Values: []float64{val}, Dim: 1})
		if err != nil {
			t.Fatal(err)
		}
		return conf
	}

	boundary := at(0)
	if boundary != 0.5 {
		t.Errorf("expected confidence 0.5 at the boundary, got %f", boundary)
	}
	near, far := at(0.5), at(3)
	if !(far > near && near > boundary) {
		t.Errorf("confidence should grow with distance from the boundary: %f %f %f", boundary, near, far)
	}
	if far >= 1 {
		t.Errorf("confidence must stay below 1, got %f", far)
	}
	// Symmetric on the non-community side
	if at(-3) != far {
		t.Errorf("confidence should depend on |score| only")
	}
}

func TestCalibratedConfidence(t *testing.T) {
	art := trainFixture(t)
	if art.Classifier.Calibration == nil {
		t.Fatal("expected Platt calibration on trained fixture")
	}

	_, conf, err := art.Predict(&event.Event{Title: "Community Festival", Description: "live music and food"})
	if err != nil {
		t.Fatal(err)
	}
	if conf < 0.5 || conf > 1 {
		t.Errorf("calibrated confidence out of range: %f", conf)
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	art := trainFixture(t)
	path := filepath.Join(t.TempDir(), "models", "community_svm.json")

	if err := art.Save(path); err != nil {
		t.Fatalf("saving artifact: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("loading artifact: %v", err)
	}
	if loaded.Extractor.Dim() != art.Extractor.Dim() {
		t.Error("extractor dimensionality changed across save/load")
	}

	e := &event.Event{Title: "Trivia Night", Description: "trivia and drinks"}
	c1, conf1, _ := art.Predict(e)
	c2, conf2, _ := loaded.Predict(e)
	if c1 != c2 || conf1 != conf2 {
		t.Error("loaded artifact predicts differently than the original")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing artifact")
		}
	})

	t.Run("version mismatch", func(t *testing.T) {
		art := trainFixture(t)
		art.FormatVersion = FormatVersion + 1
		path := filepath.Join(t.TempDir(), "old.json")
		if err := art.Save(path); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !errors.Is(err, ErrArtifactVersion) {
			t.Errorf("expected ErrArtifactVersion, got %v", err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected error for corrupt artifact")
		}
	})
}

func TestEvaluate(t *testing.T) {
	art := trainFixture(t)
	ev := Evaluate(art.Classifier, art.Extractor, labeledCorpus())

	if ev.HoldoutSize != 12 {
		t.Errorf("expected holdout size 12, got %d", ev.HoldoutSize)
	}
	if ev.Accuracy < 0.5 {
		t.Errorf("expected better-than-chance accuracy on training data, got %f", ev.Accuracy)
	}
	total := ev.TruePositives + ev.FalsePositives + ev.TrueNegatives + ev.FalseNegatives
	if total != 12 {
		t.Errorf("confusion matrix does not cover all rows: %d", total)
	}
}
