package team

import (
	"errors"
	"strings"
	"testing"
)

func TestNewIDFormat(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(id) != IDLength {
		t.Fatalf("expected %d-character id, got %d (%q)", IDLength, len(id), id)
	}
	for _, r := range id {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			t.Fatalf("unexpected character %q in id %q", r, id)
		}
	}
}

func TestNewIDsDiffer(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"ABCD1234", "ABCD1234", true},
		{"abcd1234", "ABCD1234", true},
		{" abcd1234 ", "ABCD1234", true},
		{"ABCD123", "", false},
		{"ABCD12345", "", false},
		{"ABCD 123", "", false},
		{"ABCD-123", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, err := NormalizeID(tt.raw)
		if tt.ok {
			if err != nil {
				t.Fatalf("NormalizeID(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeID(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidID) {
			t.Fatalf("NormalizeID(%q) err = %v, want ErrInvalidID", tt.raw, err)
		}
	}
}

func TestInviteLink(t *testing.T) {
	link, err := InviteLink("https://hackeurope.example/", "ABCD1234")
	if err != nil {
		t.Fatalf("invite link: %v", err)
	}
	if link != "https://hackeurope.example/?t=ABCD1234" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestInviteLinkPreservesExistingQuery(t *testing.T) {
	link, err := InviteLink("https://hackeurope.example/?utm=launch", "ABCD1234")
	if err != nil {
		t.Fatalf("invite link: %v", err)
	}
	if !strings.Contains(link, "t=ABCD1234") || !strings.Contains(link, "utm=launch") {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestInviteLinkRejectsBadBase(t *testing.T) {
	if _, err := InviteLink("://nope", "ABCD1234"); err == nil {
		t.Fatal("expected error for unparseable base URL")
	}
}
