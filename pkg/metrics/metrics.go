// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-pkey.
//
// go-pkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics provides Prometheus instrumentation for go-pkey operations.
// It counts key operations by algorithm family and outcome, times them,
// tracks live key handles and counts alternative-name entries by type.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all pkey metrics
	Namespace = "pkey"

	// Label names
	LabelOperation = "operation"
	LabelFamily    = "family"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
	LabelNameType  = "name_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpGenerate   = "generate"
	OpLoad       = "load"
	OpSign       = "sign"
	OpVerify     = "verify"
	OpExport     = "export"
	OpParameters = "parameters"
)

var (
	// OperationsTotal tracks the total number of key operations by type, family, and status.
	// Use RecordOperation to increment this counter with the appropriate labels.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of key operations by type, algorithm family, and status",
		},
		[]string{LabelOperation, LabelFamily, LabelStatus},
	)

	// OperationDuration tracks the duration of key operations in seconds.
	// RSA generation dominates the upper buckets.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of key operations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{LabelOperation, LabelFamily},
	)

	// ErrorsTotal tracks the total number of errors by operation, family, and error type.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, algorithm family, and error type",
		},
		[]string{LabelOperation, LabelFamily, LabelErrorType},
	)

	// LiveHandles tracks key handles that have been acquired and not yet released.
	LiveHandles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "live_handles",
			Help:      "Number of key handles acquired and not yet released",
		},
	)

	// NameEntriesTotal tracks alternative-name entries appended, by name type.
	NameEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "name_entries_total",
			Help:      "Total number of alternative-name entries appended by name type",
		},
		[]string{LabelNameType},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records a key operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	key, err := pkey.Generate(cfg)
//	status := metrics.StatusSuccess
//	if err != nil {
//	    status = metrics.StatusError
//	}
//	metrics.RecordOperation(metrics.OpGenerate, "rsa", status, time.Since(start).Seconds())
func RecordOperation(operation, family, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, family, status).Inc()
	OperationDuration.WithLabelValues(operation, family).Observe(duration)
}

// RecordError records an error event with context about where it occurred.
// errorType should be a stable identifier such as "decode_failure".
func RecordError(operation, family, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, family, errorType).Inc()
}

// Track starts timing an operation. The returned function records the
// operation with the status implied by err; family may be resolved late,
// so it is read when the function is called.
//
//	done := metrics.Track(metrics.OpSign)
//	defer func() { done(k.family(), err) }()
func Track(operation string) func(family string, err error) {
	start := time.Now()
	return func(family string, err error) {
		status := StatusSuccess
		if err != nil {
			status = StatusError
		}
		RecordOperation(operation, family, status, time.Since(start).Seconds())
	}
}

// HandleAcquired increments the live handle gauge and reports whether it
// did. Only a handle that was counted may later call HandleReleased.
func HandleAcquired() bool {
	if !enabled.Load() {
		return false
	}
	LiveHandles.Inc()
	return true
}

// HandleReleased decrements the live handle gauge. It is not gated on
// the enabled flag so that a handle counted before Disable still leaves
// the gauge when it is released.
func HandleReleased() {
	LiveHandles.Dec()
}

// RecordNameEntry counts an appended alternative-name entry.
func RecordNameEntry(nameType string) {
	if !enabled.Load() {
		return
	}
	NameEntriesTotal.WithLabelValues(nameType).Inc()
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
