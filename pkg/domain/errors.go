package domain

import "errors"

// ErrUnknownRoute is returned when a route identifier cannot be parsed.
var ErrUnknownRoute = errors.New("unknown route")

// ErrUnknownForm is returned when a form identifier cannot be parsed.
var ErrUnknownForm = errors.New("unknown form")
