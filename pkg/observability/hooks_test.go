package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnInsert(1, "term")
	l.OnRemove(1, "term", 2)
	l.OnSplit("term", "splitv")
	l.OnRecalc(5, time.Millisecond)
	l.OnFault("ORPHANED_NODE")

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/tree")
	h.OnResponse(ctx, "GET", "/tree", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

func TestMultiLayoutHooksFansOut(t *testing.T) {
	a, b := &testLayoutHooks{}, &testLayoutHooks{}
	m := MultiLayoutHooks{a, b}

	m.OnInsert(1, "x")
	m.OnRemove(1, "x", 1)
	m.OnSplit("x", "splith")
	m.OnRecalc(3, time.Microsecond)
	m.OnFault("UNKNOWN_WINDOW")

	for i, h := range []*testLayoutHooks{a, b} {
		if h.calls != 5 {
			t.Errorf("hook %d received %d calls, want 5", i, h.calls)
		}
	}
}

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusHooks(reg)

	p.OnInsert(1, "a")
	p.OnInsert(1, "b")
	p.OnInsert(2, "c")
	p.OnRemove(1, "a", 2)
	p.OnSplit("b", "splitv")
	p.OnRecalc(4, time.Millisecond)
	p.OnFault("ORPHANED_NODE")
	p.OnFault("ORPHANED_NODE")
	p.OnResponse(context.Background(), "GET", "/tree", 200, time.Millisecond)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"inserts", p.Operations.WithLabelValues("insert"), 3},
		{"removes", p.Operations.WithLabelValues("remove"), 1},
		{"splits", p.Operations.WithLabelValues("split"), 1},
		{"recalcs", p.Operations.WithLabelValues("recalc"), 1},
		{"collapsed", p.CollapsedGroups, 2},
		{"faults", p.Faults.WithLabelValues("ORPHANED_NODE"), 2},
		{"workspace 1 windows", p.TiledWindows.WithLabelValues("1"), 1},
		{"workspace 2 windows", p.TiledWindows.WithLabelValues("2"), 1},
		{"requests", p.RequestsTotal.WithLabelValues("GET", "/tree", "200"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(p.RecalcDuration); n != 1 {
		t.Errorf("recalc histogram series = %d, want 1", n)
	}
}

type testLayoutHooks struct {
	NoopLayoutHooks
	calls int
}

func (h *testLayoutHooks) OnInsert(int, string)        { h.calls++ }
func (h *testLayoutHooks) OnRemove(int, string, int)   { h.calls++ }
func (h *testLayoutHooks) OnSplit(string, string)      { h.calls++ }
func (h *testLayoutHooks) OnRecalc(int, time.Duration) { h.calls++ }
func (h *testLayoutHooks) OnFault(string)              { h.calls++ }

type testHTTPHooks struct{ NoopHTTPHooks }
