// internal/stats/stats.go

// Package stats provides the numeric primitives shared by the normalizer and
// pattern analyzer: moments, percentiles and ordinary least-squares regression
// with a two-sided significance test.
package stats

import "math"

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation, 0 for fewer than 2 values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// SampleStdDev returns the sample (n-1) standard deviation, 0 for fewer than
// 2 values.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// Percentile returns the q-th percentile (q in [0,1]) using linear
// interpolation between closest ranks. Returns 0 for an empty slice. The
// input must be sorted ascending.
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	h := q * float64(n-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Regression holds the result of a simple linear regression of y against x.
type Regression struct {
	Slope     float64
	Intercept float64
	R         float64 // correlation coefficient
	RSquared  float64
	PValue    float64 // two-sided p-value for a zero-slope null hypothesis
}

// LinReg fits y = slope*x + intercept by ordinary least squares. With fewer
// than 3 points, or with a degenerate series, the regression reports a zero
// slope and p-value 1.
func LinReg(x, y []float64) Regression {
	n := len(x)
	if n != len(y) || n < 3 {
		return Regression{PValue: 1}
	}
	mx, my := Mean(x), Mean(y)
	var sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 {
		return Regression{Intercept: my, PValue: 1}
	}
	slope := sxy / sxx
	intercept := my - slope*mx

	if syy == 0 {
		// Flat series: the fit is exact but carries no information.
		return Regression{Slope: 0, Intercept: my, PValue: 1}
	}

	r := sxy / math.Sqrt(sxx*syy)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	r2 := r * r

	dof := float64(n - 2)
	var p float64
	switch {
	case r2 >= 1:
		p = 0
	default:
		t := r * math.Sqrt(dof/(1-r2))
		p = tTestPValue(t, dof)
	}

	return Regression{
		Slope:     slope,
		Intercept: intercept,
		R:         r,
		RSquared:  r2,
		PValue:    p,
	}
}

// tTestPValue returns the two-sided p-value for a t statistic with the given
// degrees of freedom, via the regularized incomplete beta function.
func tTestPValue(t, dof float64) float64 {
	if math.IsInf(t, 0) {
		return 0
	}
	return regIncBeta(dof/2, 0.5, dof/(dof+t*t))
}

// regIncBeta computes the regularized incomplete beta function I_x(a, b)
// using the continued-fraction expansion.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lgA, _ := math.Lgamma(a)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(a + b)
	front := math.Exp(lgAB - lgA - lgB + a*math.Log(x) + b*math.Log(1-x))
	if x < (a+1)/(a+b+2) {
		return front * betaCF(a, b, x) / a
	}
	return 1 - front*betaCF(b, a, 1-x)/b
}

// betaCF evaluates the continued fraction for the incomplete beta function
// using the modified Lentz method.
func betaCF(a, b, x float64) float64 {
	const (
		maxIter = 200
		eps     = 3e-14
		tiny    = 1e-30
	)
	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d
	for m := 1; m <= maxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm
		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c
		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < eps {
			break
		}
	}
	return h
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Median returns the median of a sorted slice, 0 when empty.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
