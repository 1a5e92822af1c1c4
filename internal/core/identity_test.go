package core

import (
	"testing"
	"time"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

func TestBranchFor(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"60.0b3", BranchBeta},
		{"60.0B3", BranchBeta},
		{"60.0rc1", BranchRelease},
		{"60.0", BranchRelease},
		{"60.0.1", BranchRelease},
		{"52.7.0esr", BranchESR},
		{"60.1.0esr", BranchESR},
		{"52.7.0esrb1", BranchESR},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := BranchFor(tt.version); got != tt.want {
				t.Errorf("BranchFor(%q) = %q, want %q", tt.version, got, tt.want)
			}
		})
	}
}

func TestParseProduct(t *testing.T) {
	for _, p := range Products {
		got, err := ParseProduct(string(p))
		if err != nil {
			t.Errorf("ParseProduct(%q) error: %v", p, err)
		}
		if got != p {
			t.Errorf("ParseProduct(%q) = %q", p, got)
		}
	}

	_, err := ParseProduct("seamonkey")
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if errors.GetCode(err) != errors.EUsage {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.EUsage)
	}
}

func TestNewIdentity(t *testing.T) {
	id, err := NewIdentity(Firefox, " 60.0b3 ", "2024-01-15")
	if err != nil {
		t.Fatalf("NewIdentity failed: %v", err)
	}
	if id.Branch != BranchBeta {
		t.Errorf("Branch = %q, want beta", id.Branch)
	}
	if id.Version != "60.0b3" {
		t.Errorf("Version = %q, want trimmed", id.Version)
	}
	if id.Slug() != "firefox-beta-60.0b3" {
		t.Errorf("Slug() = %q", id.Slug())
	}
	if id.String() != "firefox 60.0b3" {
		t.Errorf("String() = %q", id.String())
	}
}

func TestNewIdentity_Invalid(t *testing.T) {
	for _, v := range []string{"", "   ", "../60.0", `60\0`} {
		_, err := NewIdentity(Fennec, v, "")
		if errors.GetCode(err) != errors.EUsage {
			t.Errorf("NewIdentity(%q) code = %s, want %s", v, errors.GetCode(err), errors.EUsage)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-02-01"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"2024-2-1", "02/01/2024", "2024-13-01", ""} {
		if _, err := ParseDate(bad); errors.GetCode(err) != errors.EUsage {
			t.Errorf("ParseDate(%q) code = %s, want %s", bad, errors.GetCode(err), errors.EUsage)
		}
	}
}

func TestToday_UsesReferenceZone(t *testing.T) {
	// 05:00 UTC on Jan 16 is still Jan 15 in US/Pacific.
	now := time.Date(2024, 1, 16, 5, 0, 0, 0, time.UTC)
	if got := Today(now); got != "2024-01-15" {
		t.Errorf("Today() = %q, want 2024-01-15", got)
	}
}
