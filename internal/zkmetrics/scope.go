// Package zkmetrics wires the decoder's Sink callbacks into a tally metrics
// scope reported to Prometheus.
package zkmetrics

import (
	"fmt"
	"io"
	"time"

	"github.com/uber-go/tally"
	promreporter "github.com/uber-go/tally/prometheus"
)

type rootScopeFactory func() (tally.Scope, tally.CachedStatsReporter, io.Closer, error)

// RootScope returns the process-wide metrics scope and its reporter,
// reported to Prometheus every second.
func RootScope() (tally.Scope, io.Closer) {
	scope, _, closer := newRootScope(getRootScope)
	return scope, closer
}

func newRootScope(factory rootScopeFactory) (tally.Scope, tally.CachedStatsReporter, io.Closer) {
	scope, reporter, closer, err := factory()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize metrics reporter: %v", err))
	}
	return scope, reporter, closer
}

func getRootScope() (tally.Scope, tally.CachedStatsReporter, io.Closer, error) {
	reporter := promreporter.NewReporter(promreporter.Options{})
	scope, closer := tally.NewCachedRootScope(
		"zkproxy",
		map[string]string{},
		reporter,
		1*time.Second,
		promreporter.DefaultSeparator,
	)
	return scope, reporter, closer, nil
}
