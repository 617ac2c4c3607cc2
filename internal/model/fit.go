package model

import (
	"math"

	dataset "energy-audit/internal/dataset/domain"
)

// Variant selects how the ordinary-least-squares fit is computed. The two
// variants are numerically equivalent on well-conditioned data; both are
// kept because consumers pick one explicitly.
type Variant string

const (
	// SimpleLinearFit solves mean-centered normal equations and recovers
	// the intercept from the centroid.
	SimpleLinearFit Variant = "simple"
	// OLSWithExplicitConstant carries an explicit constant column in the
	// design matrix and solves the full normal equations.
	OLSWithExplicitConstant Variant = "ols_const"
)

// Fit runs a single-shot in-sample OLS fit of the value field against the
// selected covariate columns. Missing covariate values are zero-filled; a
// missing target value fails the fit.
func Fit(ds *dataset.Dataset, features []string, variant Variant) (*Result, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}

	n := ds.Len()
	y := make([]float64, n)
	for i, r := range ds.Readings() {
		if math.IsNaN(r.Value) {
			return nil, ErrMissingTarget
		}
		y[i] = r.Value
	}

	// column-major design matrix, zero-filled where values are missing
	x := make([][]float64, len(features))
	for j, name := range features {
		values, ok := ds.Feature(name)
		if !ok {
			return nil, &UnknownFeatureError{Feature: name}
		}
		column := make([]float64, n)
		for i, v := range values {
			if v == nil || math.IsNaN(*v) {
				continue
			}
			column[i] = *v
		}
		x[j] = column
	}

	var (
		coefs     []float64
		intercept float64
		err       error
	)
	switch variant {
	case SimpleLinearFit:
		coefs, intercept, err = fitCentered(x, y)
	case OLSWithExplicitConstant:
		coefs, intercept, err = fitWithConstant(x, y)
	default:
		return nil, ErrUnknownVariant
	}
	if err != nil {
		return nil, err
	}

	predicted := make([]float64, n)
	for i := 0; i < n; i++ {
		p := intercept
		for j := range coefs {
			p += coefs[j] * x[j][i]
		}
		predicted[i] = p
	}

	result := &Result{
		Variant:   variant,
		Intercept: intercept,
		RSquared:  rSquared(y, predicted),
		Actual:    y,
		Predicted: predicted,
	}
	for j, name := range features {
		result.Coefficients = append(result.Coefficients, Coefficient{Feature: name, Value: coefs[j]})
	}
	return result, nil
}

// fitCentered solves the normal equations on mean-centered data.
func fitCentered(x [][]float64, y []float64) ([]float64, float64, error) {
	n := len(y)
	k := len(x)

	xMeans := make([]float64, k)
	for j := range x {
		xMeans[j] = mean(x[j])
	}
	yMean := mean(y)

	gram := make([][]float64, k)
	rhs := make([]float64, k)
	for a := 0; a < k; a++ {
		gram[a] = make([]float64, k)
		for b := 0; b < k; b++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += (x[a][i] - xMeans[a]) * (x[b][i] - xMeans[b])
			}
			gram[a][b] = sum
		}
		var sum float64
		for i := 0; i < n; i++ {
			sum += (x[a][i] - xMeans[a]) * (y[i] - yMean)
		}
		rhs[a] = sum
	}

	coefs, err := solve(gram, rhs)
	if err != nil {
		return nil, 0, err
	}
	intercept := yMean
	for j := range coefs {
		intercept -= coefs[j] * xMeans[j]
	}
	return coefs, intercept, nil
}

// fitWithConstant augments the design matrix with a constant column and
// solves the full normal equations, statsmodels-style.
func fitWithConstant(x [][]float64, y []float64) ([]float64, float64, error) {
	n := len(y)
	k := len(x) + 1

	design := make([][]float64, k)
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	design[0] = ones
	copy(design[1:], x)

	gram := make([][]float64, k)
	rhs := make([]float64, k)
	for a := 0; a < k; a++ {
		gram[a] = make([]float64, k)
		for b := 0; b < k; b++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += design[a][i] * design[b][i]
			}
			gram[a][b] = sum
		}
		var sum float64
		for i := 0; i < n; i++ {
			sum += design[a][i] * y[i]
		}
		rhs[a] = sum
	}

	theta, err := solve(gram, rhs)
	if err != nil {
		return nil, 0, err
	}
	return theta[1:], theta[0], nil
}

// solve runs Gaussian elimination with partial pivoting on a copy of the
// inputs.
func solve(matrix [][]float64, rhs []float64) ([]float64, error) {
	k := len(rhs)
	a := make([][]float64, k)
	b := make([]float64, k)
	for i := range matrix {
		a[i] = append([]float64(nil), matrix[i]...)
		b[i] = rhs[i]
	}

	for col := 0; col < k; col++ {
		pivot := col
		for row := col + 1; row < k; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, ErrSingularDesign
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < k; row++ {
			factor := a[row][col] / a[col][col]
			for c := col; c < k; c++ {
				a[row][c] -= factor * a[col][c]
			}
			b[row] -= factor * b[col]
		}
	}

	solution := make([]float64, k)
	for row := k - 1; row >= 0; row-- {
		sum := b[row]
		for c := row + 1; c < k; c++ {
			sum -= a[row][c] * solution[c]
		}
		solution[row] = sum / a[row][row]
	}
	return solution, nil
}

func rSquared(actual, predicted []float64) float64 {
	yMean := mean(actual)
	var ssRes, ssTot float64
	for i := range actual {
		residual := actual[i] - predicted[i]
		ssRes += residual * residual
		deviation := actual[i] - yMean
		ssTot += deviation * deviation
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
