package service

import "errors"

var (
	ErrNotFound        = errors.New("pto link not found")
	ErrNoTargetChannel = errors.New("no target channel for pto request")
	ErrEmptyCalendarID = errors.New("calendar id is empty")
)
