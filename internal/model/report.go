package model

import "time"

// Prediction is the result of classifying a single text
type Prediction struct {
	Text    string `json:"text,omitempty"`
	Label   Label  `json:"label"`   // Classifier decision
	Verdict string `json:"verdict"` // "likely FAKE" / "likely REAL" from the fuzzy score

	// Confidence is a squashed vote margin of the classifier.
	// It is a heuristic in [0,1], NOT a calibrated probability.
	Confidence float64 `json:"tm_confidence"`

	FuzzyScore  float64     `json:"fuzzy_score"`  // Fake-likelihood in [0,1]
	FuzzyPath   string      `json:"fuzzy_path"`   // "centroid" or "fallback"
	FuzzyInputs FuzzyInputs `json:"fuzzy_inputs"` // Clipped engine inputs

	ModelID string `json:"model_id,omitempty"` // Artifact triple that produced this prediction
}

// FuzzyInputs are the four crisp cues fed to the fuzzy engine
type FuzzyInputs struct {
	Sensationalism float64 `json:"sensationalism"`
	Evidence       float64 `json:"evidence"` // Lack of evidence: 1 - evidence_raw
	Hedge          float64 `json:"hedge"`
	Noise          float64 `json:"noise"`
}

// Evaluation is a classification summary over a labelled test split
type Evaluation struct {
	Classes     []ClassMetrics `json:"classes"`
	Accuracy    float64        `json:"accuracy"`
	MacroAvg    Averages       `json:"macro_avg"`
	WeightedAvg Averages       `json:"weighted_avg"`
	Support     int            `json:"support"`
	Labels      []int          `json:"labels"`
	Confusion   [][]int        `json:"confusion_matrix"` // Rows: true label, columns: predicted label
}

// ClassMetrics holds per-class precision, recall and F1
type ClassMetrics struct {
	Label     int     `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Averages holds averaged precision, recall and F1
type Averages struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// TrainReport summarizes a training run
type TrainReport struct {
	ModelID      string     `json:"model_id"`
	TrainedAt    time.Time  `json:"trained_at"`
	Documents    int        `json:"documents"`
	TrainSize    int        `json:"train_size"`
	TestSize     int        `json:"test_size"`
	Vocabulary   int        `json:"vocabulary"`
	FeatureWidth int        `json:"feature_width"`
	Epochs       int        `json:"epochs"`
	Evaluation   Evaluation `json:"evaluation"`
	Confidences  []float64  `json:"confidences,omitempty"`
	Backend      string     `json:"backend"`
}
