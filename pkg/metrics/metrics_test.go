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

package metrics

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsEnabled(t *testing.T) {
	// Metrics should be enabled by default
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled by default")
	}

	Disable()
	if IsEnabled() {
		t.Error("Expected metrics to be disabled after Disable()")
	}

	Enable()
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled after Enable()")
	}
}

func TestRecordOperation(t *testing.T) {
	Enable()

	OperationsTotal.Reset()
	OperationDuration.Reset()

	RecordOperation(OpGenerate, "rsa", StatusSuccess, 0.5)

	if count := testutil.CollectAndCount(OperationsTotal); count != 1 {
		t.Errorf("Expected 1 operation recorded, got %d", count)
	}
	if count := testutil.CollectAndCount(OperationDuration); count != 1 {
		t.Errorf("Expected 1 histogram sample, got %d", count)
	}

	RecordOperation(OpLoad, "ec", StatusError, 0.1)

	if count := testutil.CollectAndCount(OperationsTotal); count != 2 {
		t.Errorf("Expected 2 operations recorded, got %d", count)
	}
	if v := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpLoad, "ec", StatusError)); v != 1 {
		t.Errorf("Expected load/ec/error = 1, got %v", v)
	}
}

func TestRecordOperationWhenDisabled(t *testing.T) {
	Disable()
	defer Enable()

	OperationsTotal.Reset()

	RecordOperation(OpGenerate, "rsa", StatusSuccess, 0.5)

	if count := testutil.CollectAndCount(OperationsTotal); count != 0 {
		t.Errorf("Expected 0 operations when disabled, got %d", count)
	}
}

func TestRecordError(t *testing.T) {
	Enable()
	ErrorsTotal.Reset()

	RecordError(OpLoad, "unknown", "decode_failure")
	RecordError(OpLoad, "unknown", "decode_failure")
	RecordError(OpSign, "rsa", "closed")

	if count := testutil.CollectAndCount(ErrorsTotal); count != 2 {
		t.Errorf("Expected 2 error series, got %d", count)
	}
	if v := testutil.ToFloat64(ErrorsTotal.WithLabelValues(OpLoad, "unknown", "decode_failure")); v != 2 {
		t.Errorf("Expected decode_failure = 2, got %v", v)
	}
}

func TestTrack(t *testing.T) {
	Enable()
	OperationsTotal.Reset()

	done := Track(OpSign)
	done("ec", nil)
	done = Track(OpSign)
	done("ec", errors.New("failed"))

	if v := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpSign, "ec", StatusSuccess)); v != 1 {
		t.Errorf("Expected sign/ec/success = 1, got %v", v)
	}
	if v := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpSign, "ec", StatusError)); v != 1 {
		t.Errorf("Expected sign/ec/error = 1, got %v", v)
	}
}

func TestLiveHandles(t *testing.T) {
	Enable()
	LiveHandles.Set(0)

	if !HandleAcquired() || !HandleAcquired() {
		t.Fatal("Expected HandleAcquired to count while enabled")
	}
	HandleReleased()

	if v := testutil.ToFloat64(LiveHandles); v != 1 {
		t.Errorf("Expected 1 live handle, got %v", v)
	}

	Disable()
	if HandleAcquired() {
		t.Error("Expected HandleAcquired to skip while disabled")
	}
	HandleReleased()
	Enable()
	if v := testutil.ToFloat64(LiveHandles); v != 0 {
		t.Errorf("Expected counted handle released while disabled, got %v", v)
	}
}

func TestRecordNameEntry(t *testing.T) {
	Enable()
	NameEntriesTotal.Reset()

	RecordNameEntry("DNS")
	RecordNameEntry("URI")
	RecordNameEntry("DNS")

	if v := testutil.ToFloat64(NameEntriesTotal.WithLabelValues("DNS")); v != 2 {
		t.Errorf("Expected 2 DNS entries, got %v", v)
	}
}

func TestMetricsNamespace(t *testing.T) {
	if Namespace != "pkey" {
		t.Errorf("Expected namespace 'pkey', got '%s'", Namespace)
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	Enable()
	OperationsTotal.Reset()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordOperation(OpVerify, "rsa", StatusSuccess, 0.1)
		}()
	}
	wg.Wait()

	if v := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpVerify, "rsa", StatusSuccess)); v != 100 {
		t.Errorf("Expected 100 operations, got %v", v)
	}
}

func BenchmarkRecordOperation(b *testing.B) {
	Enable()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		RecordOperation(OpSign, "rsa", StatusSuccess, 0.001)
	}
}
