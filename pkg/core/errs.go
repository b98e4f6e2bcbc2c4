package core

import "errors"

var (
	ErrFinalized    = errors.New("chart already rendered")
	ErrNoRenderer   = errors.New("no renderer configured")
	ErrNotFound     = errors.New("chart not found")
	ErrInvalidColor = errors.New("invalid color")
)
