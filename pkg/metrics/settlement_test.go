package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSettlementMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSettlementMetrics(reg)

	metrics.ObserveDuration("verify_and_process", 120*time.Millisecond)
	metrics.IncSettled(52000)
	metrics.IncFailure("insufficient_stock")
	metrics.IncAmountMismatch()
	metrics.IncCartCleanup("removed")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchPlainCounter(mfs, "settlement_orders_total"); err != nil {
		t.Fatalf("fetch settled: %v", err)
	} else if got != 1 {
		t.Fatalf("expected settled=1, got %f", got)
	}

	if got, err := fetchPlainCounter(mfs, "settlement_amount_krw_total"); err != nil {
		t.Fatalf("fetch amount: %v", err)
	} else if got != 52000 {
		t.Fatalf("expected amount=52000, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "settlement_failures_total", "reason", "insufficient_stock"); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchPlainCounter(mfs, "settlement_amount_mismatch_total"); err != nil {
		t.Fatalf("fetch mismatch: %v", err)
	} else if got != 1 {
		t.Fatalf("expected mismatch=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "settlement_duration_seconds", "operation", "verify_and_process"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestSettlementMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *SettlementMetrics
	metrics.IncSettled(1000)
	metrics.IncFailure("x")
	metrics.IncAmountMismatch()
	metrics.IncCartCleanup("failed")
	metrics.ObserveDuration("noop", time.Second)
}

func fetchPlainCounter(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	if len(mf.GetMetric()) == 0 {
		return 0, fmt.Errorf("metric %q has no samples", name)
	}
	return mf.GetMetric()[0].GetCounter().GetValue(), nil
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
