package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/envisionperdido/perdido-events/internal/event"
	"github.com/envisionperdido/perdido-events/internal/feature"
)

// FormatVersion is the artifact format this build reads and writes.
// Bumped whenever the persisted layout changes incompatibly.
const FormatVersion = 1

// ErrArtifactVersion is returned when a persisted artifact was written by an
// incompatible build. Loading continues with a clear error, never with
// silently degraded predictions.
var ErrArtifactVersion = errors.New("unsupported model artifact version")

// Metadata records how the artifact was produced
type Metadata struct {
	TrainedAt   string      `json:"trained_at"`
	LabeledRows int         `json:"labeled_rows"`
	Positives   int         `json:"positives"`
	Negatives   int         `json:"negatives"`
	Evaluation  *Evaluation `json:"evaluation,omitempty"`
}

// Artifact is the persisted (feature extractor, classifier) pair. The two
// are trained against each other and are only ever saved and loaded as a
// unit. Read-only during inference; replaced wholesale on retraining.
type Artifact struct {
	FormatVersion int                `json:"format_version"`
	Extractor     *feature.Extractor `json:"extractor"`
	Classifier    *Classifier        `json:"classifier"`
	Metadata      Metadata           `json:"metadata"`
}

// Predict runs the full transform-then-classify path for one event
func (a *Artifact) Predict(e *event.Event) (event.Class, float64, error) {
	return a.Classifier.Predict(a.Extractor.Transform(e))
}

// Load reads an artifact from disk and validates it. A missing file, an
// unreadable file, a version mismatch, or an extractor/classifier
// dimensionality mismatch are all configuration errors.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("model artifact not found at %s (run 'train' first): %w", path, err)
		}
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing model artifact %s: %w", path, err)
	}

	if a.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: artifact %s has format %d, this build reads %d",
			ErrArtifactVersion, path, a.FormatVersion, FormatVersion)
	}
	if a.Extractor == nil || a.Classifier == nil {
		return nil, fmt.Errorf("model artifact %s is incomplete: extractor and classifier must be persisted together", path)
	}
	if a.Extractor.Dim() != len(a.Classifier.Weights) {
		return nil, fmt.Errorf("%w: extractor produces %d dimensions, classifier expects %d",
			ErrDimensionMismatch, a.Extractor.Dim(), len(a.Classifier.Weights))
	}

	return &a, nil
}

// Save writes the artifact to disk, creating parent directories as needed
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model artifact: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing model artifact: %w", err)
	}

	return nil
}
