package nutrition

import "errors"

// Sentinel errors returned by the calculators. Callers wrap them with context
// and match with errors.Is; the API maps all of them to 400.
var (
	ErrInvalidMeasurement  = errors.New("measurement must be positive")
	ErrInvalidCalories     = errors.New("calorie goal must be positive")
	ErrUnsupportedCategory = errors.New("unsupported category")
	ErrBirthDateInFuture   = errors.New("birth date is in the future")
	ErrGoalDirection       = errors.New("target weight does not match goal type")
	ErrDuplicateMealType   = errors.New("duplicate meal type")
)
