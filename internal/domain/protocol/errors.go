package protocol

import "errors"

var (
	ErrProtocolNotFound = errors.New("protocol not found")
	ErrNoTitrationPlan  = errors.New("protocol has no titration plan")
	ErrInvalidStage     = errors.New("titration stage must have positive dosage and days")
	ErrInvalidTimeOfDay = errors.New("schedule entries must be HH:MM times")
	ErrInvalidDosage    = errors.New("dosage per intake must be positive")
)
