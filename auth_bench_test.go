package muhasabah

import (
	"context"
	"testing"
)

func newBenchmarkEngine(b *testing.B) *Engine {
	b.Helper()
	engine := newTestEngine(b, testConfig(), newMemUserStore())
	seedUser(b, engine)
	return engine
}

func BenchmarkValidateAccess(b *testing.B) {
	engine := newBenchmarkEngine(b)

	login, err := engine.Login(context.Background(), "alice", testPassword)
	if err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.ValidateAccess(context.Background(), login.AccessToken); err != nil {
			b.Fatalf("validate failed: %v", err)
		}
	}
}

func BenchmarkRefresh(b *testing.B) {
	engine := newBenchmarkEngine(b)

	login, err := engine.Login(context.Background(), "alice", testPassword)
	if err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Refresh(context.Background(), login.RefreshToken); err != nil {
			b.Fatalf("refresh failed: %v", err)
		}
	}
}

func BenchmarkLogin(b *testing.B) {
	engine := newBenchmarkEngine(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Login(context.Background(), "alice", testPassword); err != nil {
			b.Fatalf("login failed: %v", err)
		}
	}
}
