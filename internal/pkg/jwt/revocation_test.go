package jwt

import (
	"testing"
	"time"
)

func TestRevocationSet(t *testing.T) {
	set := NewRevocationSet()

	if set.IsRevoked("a") {
		t.Error("empty set reported a revocation")
	}

	set.Revoke("a", time.Now().Add(15*time.Minute))
	if !set.IsRevoked("a") {
		t.Error("revoked id not reported")
	}
	if set.IsRevoked("b") {
		t.Error("unrevoked id reported")
	}
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
}

func TestRevocationSetPruneExpired(t *testing.T) {
	set := NewRevocationSet()
	now := time.Now()

	set.Revoke("expired", now.Add(-time.Minute))
	set.Revoke("live", now.Add(15*time.Minute))

	if pruned := set.PruneExpired(now); pruned != 1 {
		t.Errorf("PruneExpired = %d, want 1", pruned)
	}
	if set.IsRevoked("expired") {
		t.Error("expired entry survived prune")
	}
	if !set.IsRevoked("live") {
		t.Error("live entry pruned")
	}
}

func TestRevocationSetConcurrent(t *testing.T) {
	set := NewRevocationSet()
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			id := string(rune('a' + n))
			set.Revoke(id, time.Now().Add(time.Hour))
			set.IsRevoked(id)
			set.PruneExpired(time.Now())
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if set.Len() != 8 {
		t.Errorf("Len = %d, want 8", set.Len())
	}
}
