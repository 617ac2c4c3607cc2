package model

import (
	"errors"
	"fmt"
)

// ErrModelFit is the root of all fit failures; every fit error unwraps to it.
var ErrModelFit = errors.New("model: fit failed")

var (
	// ErrNoFeatures is returned when the caller selects no covariates.
	ErrNoFeatures = fmt.Errorf("%w: no features selected", ErrModelFit)
	// ErrMissingTarget is returned when the target contains missing values.
	// Features are zero-filled, the target deliberately is not.
	ErrMissingTarget = fmt.Errorf("%w: target contains missing values", ErrModelFit)
	// ErrSingularDesign is returned when the normal equations cannot be solved.
	ErrSingularDesign = fmt.Errorf("%w: singular design matrix", ErrModelFit)
	// ErrEmptyDataset is returned when fitting against zero rows.
	ErrEmptyDataset = fmt.Errorf("%w: empty dataset", ErrModelFit)
	// ErrUnknownVariant is returned for an unrecognized fit variant.
	ErrUnknownVariant = fmt.Errorf("%w: unknown variant", ErrModelFit)
)

// UnknownFeatureError reports a requested covariate the dataset lacks.
type UnknownFeatureError struct {
	Feature string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("model: unknown feature %q", e.Feature)
}

func (e *UnknownFeatureError) Unwrap() error { return ErrModelFit }
