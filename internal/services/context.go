package services

import (
	"context"
	"slices"
	"sync"

	"github.com/epeers/frontier/internal/models"
)

type (
	warningContextKey struct{}
	traceContextKey   struct{}
)

// WarningCollector gathers the warnings raised while one analysis runs.
// It is safe for concurrent use.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
}

// NewWarningContext attaches a fresh collector to ctx. Handlers keep the
// collector and copy its warnings onto the response once the service returns.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning records w on the collector in ctx. Identical warnings are kept
// once; a ctx without a collector drops w.
func AddWarning(ctx context.Context, w models.Warning) {
	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if slices.Contains(wc.warnings, w) {
		return
	}
	wc.warnings = append(wc.warnings, w)
}

// GetWarnings returns a copy of the warnings recorded so far.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return slices.Clone(wc.warnings)
}

// WithTrace marks ctx so analyses run under it log objective terms at debug level.
func WithTrace(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceContextKey{}, true)
}

// TraceEnabled reports whether ctx was marked by WithTrace.
func TraceEnabled(ctx context.Context) bool {
	on, _ := ctx.Value(traceContextKey{}).(bool)
	return on
}
