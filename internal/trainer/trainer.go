// internal/trainer/trainer.go

// Package trainer is the offline side of the scoring contract: it generates
// synthetic labeled samples and fits the linear estimator artifact the
// engine consumes read-only. Training is a deployment concern; nothing in
// here runs on the request path.
package trainer

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	enginerrors "credit-engine/internal/common/errors"
	"credit-engine/internal/predictor"
)

// Sample is one labeled training row over the fixed feature layout.
type Sample struct {
	Features []float64
	Score    float64
}

// GenerateSamples produces n synthetic samples from a seeded source so a
// given seed always yields the same training set.
func GenerateSamples(n int, seed int64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]Sample, n)
	for i := range samples {
		f := []float64{
			betaSample(rng, 2, 2), // payment_history
			betaSample(rng, 2, 5), // credit_utilization
			betaSample(rng, 3, 2), // credit_length
			betaSample(rng, 4, 2), // new_credit
			betaSample(rng, 3, 3), // credit_mix
			betaSample(rng, 3, 2), // income_stability
			betaSample(rng, 2, 5), // expenditure_volatility
			betaSample(rng, 2, 5), // loan_utilization
			poissonSample(rng, 0.5), // defaulted_loans
			poissonSample(rng, 2),   // active_loans
		}
		samples[i] = Sample{Features: f, Score: labelScore(f)}
	}
	return samples
}

// labelScore is the bootstrap labeling formula: a 300 base plus the weighted
// factor contributions, minus default and volatility penalties, clamped to
// score range.
func labelScore(f []float64) float64 {
	score := 300.0
	score += f[0] * 200 // payment history
	score += (1 - f[1]) * 150
	score += f[2] * 100
	score += f[3] * 50
	score += f[4] * 50
	score -= f[8] * 50 // defaulted loans
	score -= f[6] * 30 // expenditure volatility
	if score < 300 {
		score = 300
	}
	if score > 850 {
		score = 850
	}
	return score
}

// betaSample draws from Beta(a, b) for small integer shapes using the
// order-statistic identity: the a-th smallest of a+b-1 uniforms.
func betaSample(rng *rand.Rand, a, b int) float64 {
	n := a + b - 1
	u := make([]float64, n)
	for i := range u {
		u[i] = rng.Float64()
	}
	sort.Float64s(u)
	return u[a-1]
}

// poissonSample draws from Poisson(lambda) by Knuth's method.
func poissonSample(rng *rand.Rand, lambda float64) float64 {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return float64(k)
		}
		k++
	}
}

// Fit solves the ordinary least-squares problem over the samples via the
// normal equations and returns a validated artifact.
func Fit(samples []Sample, version string, now time.Time) (*predictor.LinearModel, error) {
	nFeatures := len(predictor.FeatureNames)
	if len(samples) < nFeatures+1 {
		return nil, enginerrors.New(
			enginerrors.ErrCodeTrainingDataTooSmall,
			"Too few training samples for a stable fit",
			fmt.Sprintf("%d samples for %d features", len(samples), nFeatures),
			false,
		)
	}

	// Design matrix with a leading intercept column.
	dim := nFeatures + 1
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	row := make([]float64, dim)
	for _, s := range samples {
		row[0] = 1
		copy(row[1:], s.Features)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * s.Score
		}
	}

	coeffs, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}

	model := &predictor.LinearModel{
		ModelVersion: version,
		Features:     append([]string(nil), predictor.FeatureNames...),
		Intercept:    coeffs[0],
		Coefficients: coeffs[1:],
		TrainedAt:    now.UTC(),
		RSquared:     rSquared(samples, coeffs),
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// solveLinearSystem performs Gaussian elimination with partial pivoting.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	// Work on copies; callers may reuse their matrices.
	m := make([][]float64, n)
	for i := range m {
		m[i] = append(append([]float64(nil), a[i]...), b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular design matrix at column %d", col)
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		v := m[i][n]
		for j := i + 1; j < n; j++ {
			v -= m[i][j] * x[j]
		}
		x[i] = v / m[i][i]
	}
	return x, nil
}

func rSquared(samples []Sample, coeffs []float64) float64 {
	var meanY float64
	for _, s := range samples {
		meanY += s.Score
	}
	meanY /= float64(len(samples))

	var ssRes, ssTot float64
	for _, s := range samples {
		pred := coeffs[0]
		for i, f := range s.Features {
			pred += coeffs[i+1] * f
		}
		d := s.Score - pred
		ssRes += d * d
		t := s.Score - meanY
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
