package mytime

import "time"

var (
	ExampleTime time.Time
)

func init() {
	ExampleTime, _ = time.Parse("2006-01-02T15:04:05Z", "2025-03-14T09:26:53Z")
}

//go:generate mockgen -source=api.go -package mytime -destination nower_mock.go Nower
type Nower interface {
	Now() time.Time
}

type RealNower struct{}

func (n RealNower) Now() time.Time {
	return time.Now()
}
