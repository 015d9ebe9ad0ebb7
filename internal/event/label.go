package event

// Class is the editorial category assigned to an event
type Class string

const (
	Community    Class = "community"
	NonCommunity Class = "non-community"
)

// LabelSource identifies where a label came from
type LabelSource string

const (
	// SourceNone marks an event nobody has labeled yet
	SourceNone LabelSource = ""
	// SourceHuman marks a label assigned or confirmed by a reviewer
	SourceHuman LabelSource = "human"
	// SourceModel marks a label predicted by the classifier
	SourceModel LabelSource = "model"
)

// Label is the tri-state label attached to an event: unlabeled, assigned by a
// human, or predicted by the classifier with a confidence score.
type Label struct {
	Source     LabelSource `json:"source,omitempty"`
	Class      Class       `json:"class,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
}

// HumanLabel creates a reviewer-assigned label
func HumanLabel(class Class) Label {
	return Label{Source: SourceHuman, Class: class, Confidence: 1.0}
}

// PredictedLabel creates a model-assigned label with its confidence
func PredictedLabel(class Class, confidence float64) Label {
	return Label{Source: SourceModel, Class: class, Confidence: confidence}
}

// IsSet reports whether the event carries any label
func (l Label) IsSet() bool {
	return l.Source != SourceNone
}

// IsHuman reports whether the label was assigned by a reviewer
func (l Label) IsHuman() bool {
	return l.Source == SourceHuman
}

// ParseClass maps the 1/0 convention used in labeling sheets to a Class.
// Returns false for anything that is not a recognized label value.
func ParseClass(s string) (Class, bool) {
	switch s {
	case "1", "1.0", "community":
		return Community, true
	case "0", "0.0", "non-community":
		return NonCommunity, true
	}
	return "", false
}
