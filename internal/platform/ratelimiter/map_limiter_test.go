package ratelimiter

import (
	"testing"
	"time"
)

func TestNewRejectsInvalidArgs(t *testing.T) {
	if New(0, 10, time.Minute) != nil {
		t.Fatal("expected nil limiter for zero rps")
	}
	if New(5, 0, time.Minute) != nil {
		t.Fatal("expected nil limiter for zero burst")
	}
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *MapLimiter
	for i := 0; i < 100; i++ {
		if !l.Allow("key", time.Now()) {
			t.Fatal("nil limiter denied a request")
		}
	}
}

func TestBurstExhaustion(t *testing.T) {
	l := New(1, 3, time.Minute)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !l.Allow("signer", now) {
			t.Fatalf("request %d within burst denied", i)
		}
	}
	if l.Allow("signer", now) {
		t.Fatal("request beyond burst allowed")
	}
	// A different key has its own bucket.
	if !l.Allow("other", now) {
		t.Fatal("independent key denied")
	}
	// Tokens refill with time.
	if !l.Allow("signer", now.Add(2*time.Second)) {
		t.Fatal("request after refill denied")
	}
}

func TestEmptyKeyBypasses(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()
	for i := 0; i < 10; i++ {
		if !l.Allow("  ", now) {
			t.Fatal("blank key was rate limited")
		}
	}
}
