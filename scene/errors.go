package scene

import "errors"

// Precondition violations. These are raised with panic since they always
// indicate a caller bug rather than a recoverable runtime condition.
var (
	ErrInvalidLeafSize = errors.New("bvh: max leaf size must be at least 1")
	ErrNotBuilt        = errors.New("bvh: hierarchy has not been built")
	ErrInvalidInterval = errors.New("ray: MinT must be less than MaxT")
)
