package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrInvalidEvaluation = errors.New("invalid evaluation")
	ErrQueueFull         = errors.New("evaluation queue full")
	ErrUnknownTest       = errors.New("unknown test")
	ErrNoBenchmark       = errors.New("no benchmark for test")
)
