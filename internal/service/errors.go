package service

import "errors"

var (
	ErrInvalidPeriodType = errors.New("period type must be cost or profit")
	ErrInvalidRange      = errors.New("start date must not be after end date")
)
