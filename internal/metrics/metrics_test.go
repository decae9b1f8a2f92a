package metrics

import (
	"testing"
	"time"

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

// counterValue はGatherの結果から指定メトリクスの合計値を取り出す。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var total float64
	found := false
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		found = true
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	if !found {
		t.Fatalf("metric %s not found", name)
	}
	return total
}

// TestRecordSearchSuccess_IncrementsCounter は検索成功カウンタが増加することを検証する。
func TestRecordSearchSuccess_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSearchSuccess("keyword")
	c.RecordSearchSuccess("keyword")

	if got := counterValue(t, reg, "adscope_search_success_total"); got != 2 {
		t.Errorf("adscope_search_success_total = %v, want 2", got)
	}
}

// TestRecordSearchFailure_IncrementsCounter は検索失敗カウンタが増加することを検証する。
func TestRecordSearchFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSearchFailure("page_id", "provider")

	if got := counterValue(t, reg, "adscope_search_fail_total"); got != 1 {
		t.Errorf("adscope_search_fail_total = %v, want 1", got)
	}
}

// TestRecordAdsCurated_AddsCount は正規化件数カウンタが件数分増加することを検証する。
func TestRecordAdsCurated_AddsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAdsCurated(5)
	c.RecordAdsCurated(3)

	if got := counterValue(t, reg, "adscope_ads_curated_total"); got != 8 {
		t.Errorf("adscope_ads_curated_total = %v, want 8", got)
	}
}

// TestRecordAdSavedAndDeleted_IncrementPerTeam は保存・削除カウンタがチーム別に増加することを検証する。
func TestRecordAdSavedAndDeleted_IncrementPerTeam(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAdSaved("team1")
	c.RecordAdSaved("team2")
	c.RecordAdDeleted("team1")

	if got := counterValue(t, reg, "adscope_ads_saved_total"); got != 2 {
		t.Errorf("adscope_ads_saved_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "adscope_ads_deleted_total"); got != 1 {
		t.Errorf("adscope_ads_deleted_total = %v, want 1", got)
	}
}

// TestRecordHTTPStatus_IncrementsCounterPerCode はステータスコード別カウンタが増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterPerCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := counterValue(t, reg, "adscope_http_status_total"); got != 3 {
		t.Errorf("adscope_http_status_total = %v, want 3", got)
	}
}

// TestRecordScrapeLatency_ObservesHistogram はレイテンシヒストグラムに観測値が記録されることを検証する。
func TestRecordScrapeLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordScrapeLatency(250 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == "adscope_scrape_latency_seconds" {
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("sample count = %d, want 1", count)
			}
			return
		}
	}
	t.Fatal("metric adscope_scrape_latency_seconds not found")
}
