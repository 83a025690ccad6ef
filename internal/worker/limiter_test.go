package worker

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/juridico/internal/model"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://dejt.jt.jus.br/cadernos/2024-03-15.pdf"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://www.tst.jus.br"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "relative/path.pdf"); err == nil {
		t.Error("expected error for a URL without host")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	start := time.Now()
	if err := limiter.WaitWithDelay(context.Background(), "https://dejt.jt.jus.br", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", elapsed)
	}
}

func TestLimiter_WaitWithDelay_Cancelled(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.WaitWithDelay(ctx, "https://dejt.jt.jus.br", time.Second); err == nil {
		t.Error("expected error for cancelled context")
	}
}

// passes reports whether a request to rawURL clears the limiter at once.
// rate.Limiter.Wait fails immediately when the wait would outlast ctx.
func passes(l *Limiter, rawURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, rawURL) == nil
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !passes(limiter, "https://dejt.jt.jus.br/a.pdf") {
		t.Fatal("first request should pass")
	}

	// Burst consumed; host matching ignores case and port
	if passes(limiter, "https://DEJT.jt.jus.br:443/b.pdf") {
		t.Error("expected the same host to be throttled")
	}
	if !passes(limiter, "https://pje.trt2.jus.br/c.pdf") {
		t.Error("expected another host to be allowed")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate(" Slow.jus.br ", 0.1, 1)

	if !passes(limiter, "https://slow.jus.br/1") {
		t.Error("first request should pass")
	}
	if passes(limiter, "https://slow.jus.br/2") {
		t.Error("second request should be throttled")
	}
	if !passes(limiter, "https://fast.jus.br/1") {
		t.Error("other host should pass")
	}
}

func TestNewLimiterFromConfig(t *testing.T) {
	limiter := NewLimiterFromConfig(model.RateLimitingConfig{
		RequestsPerSecond: 0.1,
		BurstSize:         1,
		Hosts: []model.HostRateConfig{
			{Host: "dejt.jt.jus.br", RequestsPerSecond: 0},
			{Host: "pje.trt2.jus.br", RequestsPerSecond: 0.1, BurstSize: 2},
			{Host: ""},
		},
	})

	for i := 0; i < 5; i++ {
		if !passes(limiter, "https://dejt.jt.jus.br/caderno.pdf") {
			t.Fatalf("request %d: a zero host rate should disable pacing", i)
		}
	}

	for i := 0; i < 2; i++ {
		if !passes(limiter, "https://pje.trt2.jus.br/x.pdf") {
			t.Fatalf("request %d should fit the host burst of 2", i)
		}
	}
	if passes(limiter, "https://pje.trt2.jus.br/y.pdf") {
		t.Error("third request should be throttled")
	}

	if !passes(limiter, "https://www.tst.jus.br/a") || passes(limiter, "https://www.tst.jus.br/b") {
		t.Error("other hosts should use the default rate and burst")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !passes(limiter, "https://dejt.jt.jus.br") {
			t.Fatal("a zero rate should disable pacing")
		}
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://DEJT.jt.jus.br:8443/foo")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "dejt.jt.jus.br" {
		t.Errorf("expected dejt.jt.jus.br, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
