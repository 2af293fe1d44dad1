package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingCacheHooks struct {
	hits, misses, sets, errs int
}

func (c *countingCacheHooks) OnHit(context.Context, string)      { c.hits++ }
func (c *countingCacheHooks) OnMiss(context.Context, string)     { c.misses++ }
func (c *countingCacheHooks) OnSet(context.Context, string, int) { c.sets++ }
func (c *countingCacheHooks) OnError(context.Context, string, error) {
	c.errs++
}

func TestSetCacheHooks_RoutesEvents(t *testing.T) {
	defer Reset()
	counter := &countingCacheHooks{}
	SetCacheHooks(counter)

	ctx := context.Background()
	Cache().OnHit(ctx, "k")
	Cache().OnMiss(ctx, "k")
	Cache().OnSet(ctx, "k", 10)
	Cache().OnError(ctx, "get", errors.New("boom"))

	if counter.hits != 1 || counter.misses != 1 || counter.sets != 1 || counter.errs != 1 {
		t.Errorf("counts = %+v, want one of each", *counter)
	}
}

func TestSetHooks_NilKeepsDefault(t *testing.T) {
	defer Reset()
	SetRenderHooks(nil)
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Errorf("Render() = %T, want the no-op default", Render())
	}
}

func TestReset_RestoresNoops(t *testing.T) {
	SetCacheHooks(&countingCacheHooks{})
	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T after Reset, want no-op", Cache())
	}
}

type recordingRenderHooks struct {
	started, completed int
	lastErr            error
}

func (r *recordingRenderHooks) OnRenderStart(context.Context, int) { r.started++ }
func (r *recordingRenderHooks) OnRenderComplete(_ context.Context, _ int, _ time.Duration, err error) {
	r.completed++
	r.lastErr = err
}

func TestRenderHooks_ObserveOutcome(t *testing.T) {
	defer Reset()
	rec := &recordingRenderHooks{}
	SetRenderHooks(rec)

	ctx := context.Background()
	Render().OnRenderStart(ctx, 4)
	Render().OnRenderComplete(ctx, 4, time.Millisecond, nil)

	if rec.started != 1 || rec.completed != 1 || rec.lastErr != nil {
		t.Errorf("recorded = %+v", *rec)
	}
}
