package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

// TestRecordJobCreated_IncrementsCounter は求人作成カウンタが増加することを検証する。
func TestRecordJobCreated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordJobCreated()
	c.RecordJobCreated()

	if val := counterValue(t, reg, "jobboard_jobs_created_total"); val != 2 {
		t.Errorf("jobs_created_total = %v, want 2", val)
	}
}

// TestRecordJobPublished_IncrementsCounter は求人公開カウンタが増加することを検証する。
func TestRecordJobPublished_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordJobPublished()

	if val := counterValue(t, reg, "jobboard_jobs_published_total"); val != 1 {
		t.Errorf("jobs_published_total = %v, want 1", val)
	}
}

// TestRecordJobExtended_IncrementsCounter は掲載延長カウンタが増加することを検証する。
func TestRecordJobExtended_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordJobExtended()
	c.RecordJobExtended()
	c.RecordJobExtended()

	if val := counterValue(t, reg, "jobboard_jobs_extended_total"); val != 3 {
		t.Errorf("jobs_extended_total = %v, want 3", val)
	}
}

// TestRecordJobDeleted_IncrementsCounter は求人削除カウンタが増加することを検証する。
func TestRecordJobDeleted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordJobDeleted()

	if val := counterValue(t, reg, "jobboard_jobs_deleted_total"); val != 1 {
		t.Errorf("jobs_deleted_total = %v, want 1", val)
	}
}

// TestRecordCleanupDeleted_AddsCount はクリーンアップ削除数が加算されることを検証する。
func TestRecordCleanupDeleted_AddsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCleanupDeleted(10)
	c.RecordCleanupDeleted(5)

	if val := counterValue(t, reg, "jobboard_cleanup_deleted_total"); val != 15 {
		t.Errorf("cleanup_deleted_total = %v, want 15", val)
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "jobboard_http_status_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "200":
					if val != 2 {
						t.Errorf("http_status_total{status_code=200} = %v, want 2", val)
					}
				case "404":
					if val != 1 {
						t.Errorf("http_status_total{status_code=404} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("jobboard_http_status_total metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	// いくつかのメトリクスを記録
	c.RecordJobCreated()
	c.RecordJobPublished()
	c.RecordHTTPStatus(200)
	c.RecordCleanupDeleted(3)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	// Prometheus形式のメトリクスが含まれていることを確認
	expectedMetrics := []string{
		"jobboard_jobs_created_total",
		"jobboard_jobs_published_total",
		"jobboard_http_status_total",
		"jobboard_cleanup_deleted_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}

// TestMultipleCollectors_IndependentRegistries は異なるレジストリで独立に動作することを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	c2 := NewCollector(reg2)

	c1.RecordJobCreated()
	c2.RecordJobCreated()
	c2.RecordJobCreated()

	if val := counterValue(t, reg1, "jobboard_jobs_created_total"); val != 1 {
		t.Errorf("reg1 jobs_created = %v, want 1", val)
	}
	if val := counterValue(t, reg2, "jobboard_jobs_created_total"); val != 2 {
		t.Errorf("reg2 jobs_created = %v, want 2", val)
	}
}
