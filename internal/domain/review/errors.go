package review

import "errors"

var (
	ErrRateLimited  = errors.New("you can only submit one review per hour")
	ErrInvalidStars = errors.New("stars must be between 1 and 5")
	ErrInvalidText  = errors.New("review text must be between 5 and 200 characters")
)
