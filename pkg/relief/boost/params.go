package boost

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid boosting parameters")

// Params configures the booster
type Params struct {
	LearningRate   float64 `yaml:"learning_rate" msgpack:"eta"`
	NEstimators    int     `yaml:"n_estimators" msgpack:"n_estimators"`
	MaxDepth       int     `yaml:"max_depth" msgpack:"max_depth"`
	Lambda         float64 `yaml:"lambda" msgpack:"lambda"`         // L2 penalty on leaf weights
	Gamma          float64 `yaml:"gamma" msgpack:"gamma"`           // minimum loss reduction to split
	MinChildWeight float64 `yaml:"min_child_weight" msgpack:"mcw"` // minimum hessian sum per child
	BaseScore      float64 `yaml:"base_score" msgpack:"base_score"`
}

// DefaultParams returns the library defaults
func DefaultParams() Params {
	return Params{
		LearningRate:   0.3,
		NEstimators:    100,
		MaxDepth:       6,
		Lambda:         1,
		Gamma:          0,
		MinChildWeight: 1,
		BaseScore:      0.5,
	}
}

// Validate checks parameter ranges
func (p Params) Validate() error {
	switch {
	case p.LearningRate <= 0:
		return fmt.Errorf("%w: learning_rate must be > 0, got %v", ErrInvalidParams, p.LearningRate)
	case p.NEstimators < 1:
		return fmt.Errorf("%w: n_estimators must be >= 1, got %d", ErrInvalidParams, p.NEstimators)
	case p.MaxDepth < 1:
		return fmt.Errorf("%w: max_depth must be >= 1, got %d", ErrInvalidParams, p.MaxDepth)
	case p.Lambda < 0:
		return fmt.Errorf("%w: lambda must be >= 0, got %v", ErrInvalidParams, p.Lambda)
	case p.Gamma < 0:
		return fmt.Errorf("%w: gamma must be >= 0, got %v", ErrInvalidParams, p.Gamma)
	case p.MinChildWeight < 0:
		return fmt.Errorf("%w: min_child_weight must be >= 0, got %v", ErrInvalidParams, p.MinChildWeight)
	case p.BaseScore <= 0 || p.BaseScore >= 1:
		return fmt.Errorf("%w: base_score must be in (0,1), got %v", ErrInvalidParams, p.BaseScore)
	}
	return nil
}
