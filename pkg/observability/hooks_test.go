package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	m := NoopMiningHooks{}
	m.OnMineStart(ctx, 10)
	m.OnConditionalTree(ctx, 1, 5)
	m.OnMineComplete(ctx, 7, time.Second, nil)

	p := NoopPipelineHooks{}
	p.OnLoadComplete(ctx, 100, time.Second, nil)
	p.OnBuildComplete(ctx, 8, 40, time.Second)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/mine", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Mining().(NoopMiningHooks); !ok {
		t.Error("Mining() should return NoopMiningHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customMining := &testMiningHooks{}
	SetMiningHooks(customMining)
	if Mining() != customMining {
		t.Error("SetMiningHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Mining().(NoopMiningHooks); !ok {
		t.Error("Reset() should restore NoopMiningHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestRegisterInstallsEveryInterface(t *testing.T) {
	Reset()
	defer Reset()

	p := NewPrometheus(prometheus.NewRegistry())
	Register(p)

	if Mining() != MiningHooks(p) || Pipeline() != PipelineHooks(p) ||
		Cache() != CacheHooks(p) || Server() != ServerHooks(p) {
		t.Error("Register should install the Prometheus hooks everywhere")
	}
}

func TestPrometheusCounts(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheus(prometheus.NewRegistry())

	p.OnMineComplete(ctx, 12, time.Millisecond, nil)
	p.OnMineComplete(ctx, 0, time.Millisecond, errors.New("canceled"))
	p.OnConditionalTree(ctx, 1, 3)
	p.OnConditionalTree(ctx, 2, 1)
	p.OnLoadComplete(ctx, 5, time.Millisecond, nil)
	p.OnCacheHit(ctx, "result")
	p.OnCacheSet(ctx, "result", 64)
	p.OnRequest(ctx, "POST", "/v1/mine", 200, time.Millisecond)

	if got := testutil.ToFloat64(p.runs.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.runs.WithLabelValues("error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.condTrees); got != 2 {
		t.Errorf("conditional trees = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.loaded); got != 5 {
		t.Errorf("loaded = %v, want 5", got)
	}
	if got := testutil.ToFloat64(p.cacheBytes); got != 64 {
		t.Errorf("cache bytes = %v, want 64", got)
	}

	want := `
# HELP sppgrowth_http_requests_total HTTP requests by route and status.
# TYPE sppgrowth_http_requests_total counter
sppgrowth_http_requests_total{method="POST",route="/v1/mine",status="200"} 1
`
	if err := testutil.CollectAndCompare(p.requests, strings.NewReader(want)); err != nil {
		t.Error(err)
	}
}

// Test implementations
type testMiningHooks struct{ NoopMiningHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
