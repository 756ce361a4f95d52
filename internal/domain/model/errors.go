package model

import "errors"

// Sentinel kinds for model parsing errors.
var (
	ErrUnknownPillar      = errors.New("unknown pillar")
	ErrUnknownTestType    = errors.New("unknown test type")
	ErrUnknownQuestionSet = errors.New("unknown question set")
)
