package sessiontoken

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	sid, tok, err := codec.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != sid {
		t.Fatalf("session id: want=%q got=%q", sid, got)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	a, _ := NewCodec("secret-a", time.Hour)
	b, _ := NewCodec("secret-b", time.Hour)
	_, tok, err := a.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec, _ := NewCodec("test-secret", time.Minute)
	base := time.Now()
	codec.now = func() time.Time { return base }
	_, tok, err := codec.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	codec.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec("  ", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
