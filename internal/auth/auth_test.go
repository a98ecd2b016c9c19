package auth

import (
	"context"
	"testing"
	"time"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	user := &domain.User{ID: "u-1", Role: domain.RoleDTE}

	token, exp, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(exp) <= 14*time.Minute {
		t.Errorf("expiry %v too soon", exp)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != domain.RoleDTE {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 15).GenerateToken(&domain.User{ID: "u"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("two", 15).ParseToken(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	past := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return past }
	token, _, err := tm.GenerateToken(&domain.User{ID: "u"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	tm.now = time.Now
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "s3cret!"); err != nil {
		t.Errorf("ComparePassword(correct): %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Error("ComparePassword(wrong) succeeded")
	}
}

func TestMemoryThrottle(t *testing.T) {
	ctx := context.Background()
	th := NewMemoryThrottle(2, time.Minute)
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	th.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := th.Allow(ctx, "a@itla.edu.do"); !ok {
			t.Fatalf("attempt %d rejected", i+1)
		}
	}
	if ok, _ := th.Allow(ctx, "a@itla.edu.do"); ok {
		t.Fatal("third attempt allowed")
	}
	if ok, _ := th.Allow(ctx, "b@itla.edu.do"); !ok {
		t.Fatal("other key throttled")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := th.Allow(ctx, "a@itla.edu.do"); !ok {
		t.Fatal("attempt after window rejected")
	}

	_ = th.Reset(ctx, "a@itla.edu.do")
	if _, exists := th.windows["a@itla.edu.do"]; exists {
		t.Fatal("Reset left window in place")
	}
}

func TestMemoryThrottleDisabled(t *testing.T) {
	th := NewMemoryThrottle(0, time.Minute)
	for i := 0; i < 10; i++ {
		if ok, _ := th.Allow(context.Background(), "k"); !ok {
			t.Fatal("disabled throttle rejected attempt")
		}
	}
}
