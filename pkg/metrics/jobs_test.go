package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestJobMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.ObserveDuration("low_stock_sweep", 120*time.Millisecond)
	m.IncSuccess("low_stock_sweep")
	m.IncFailure("lab_case_due_sweep")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	if fam, ok := byName["job_success"]; !ok || fam.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one success sample, got %v", fam)
	}
	if fam, ok := byName["job_failure"]; !ok || fam.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one failure sample, got %v", fam)
	}
	if _, ok := byName["job_duration_seconds"]; !ok {
		t.Fatal("expected duration histogram to be registered")
	}
}

func TestJobMetricsNilRegisterer(t *testing.T) {
	m := NewJobMetrics(nil)
	// Must not panic when metrics are disabled.
	m.ObserveDuration("x", time.Second)
	m.IncSuccess("x")
	m.IncFailure("")
}
