// internal/predictor/estimator.go
package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FeatureNames is the fixed-order feature vector contract between the
// trainer and the estimator. Order matters: a loaded artifact must declare
// exactly this layout.
var FeatureNames = []string{
	"payment_history",
	"credit_utilization",
	"credit_length",
	"new_credit",
	"credit_mix",
	"income_stability",
	"expenditure_volatility",
	"loan_utilization",
	"defaulted_loans",
	"active_loans",
}

// Estimator maps the fixed-order feature vector to a raw score. An estimator
// error never surfaces to the caller; the predictor recovers with the
// deterministic fallback formula.
type Estimator interface {
	Predict(features []float64) (float64, error)
	Version() string
}

// LinearModel is a trained linear estimator loaded from a JSON artifact
// produced offline by the model-trainer tool. Read-only after loading.
type LinearModel struct {
	ModelVersion string    `json:"model_version"`
	Features     []string  `json:"features"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	TrainedAt    time.Time `json:"trained_at"`
	RSquared     float64   `json:"r_squared"`
}

// Predict evaluates the linear model on a feature vector.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(features), len(m.Coefficients))
	}
	score := m.Intercept
	for i, c := range m.Coefficients {
		score += c * features[i]
	}
	return score, nil
}

// Version returns the artifact's model version tag.
func (m *LinearModel) Version() string {
	return m.ModelVersion
}

// Validate checks the artifact against the feature-vector contract.
func (m *LinearModel) Validate() error {
	if len(m.Features) != len(FeatureNames) {
		return fmt.Errorf("artifact declares %d features, expected %d", len(m.Features), len(FeatureNames))
	}
	for i, name := range FeatureNames {
		if m.Features[i] != name {
			return fmt.Errorf("artifact feature %d is %q, expected %q", i, m.Features[i], name)
		}
	}
	if len(m.Coefficients) != len(FeatureNames) {
		return fmt.Errorf("artifact has %d coefficients, expected %d", len(m.Coefficients), len(FeatureNames))
	}
	if m.ModelVersion == "" {
		return fmt.Errorf("artifact has no model_version")
	}
	return nil
}

// LoadArtifact reads and validates a serialized estimator. Callers treat a
// load failure as "run in fallback mode", never as a startup failure.
func LoadArtifact(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read estimator artifact: %w", err)
	}
	var model LinearModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parse estimator artifact: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid estimator artifact: %w", err)
	}
	return &model, nil
}
