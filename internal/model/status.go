package model

import "time"

// FetchStatus is the orchestrator's current phase.
type FetchStatus int

const (
	StatusIdle FetchStatus = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s FetchStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// View is everything the presentation layer receives.
type View struct {
	Status       FetchStatus
	Symbol       string
	Series       NormalizedSeries
	ErrorMessage string
	UpdatedAt    time.Time
}
