package lifecycle_test

import (
	"testing"

	"apptracker/internal/lifecycle"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"APPLIED", "PHONE_SCREEN", "INTERVIEW", "OFFER", "ACCEPTED", "REJECTED"}
	for _, s := range valid {
		got, err := lifecycle.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	_, err := lifecycle.ParseStatus("UNKNOWN")
	if err == nil {
		t.Error("ParseStatus(\"UNKNOWN\") expected error, got nil")
	}
}

func TestParseStatus_EmptyString(t *testing.T) {
	_, err := lifecycle.ParseStatus("")
	if err == nil {
		t.Error("ParseStatus(\"\") expected error, got nil")
	}
}

// ── IsTerminal ─────────────────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	for _, s := range []lifecycle.Status{lifecycle.StatusAccepted, lifecycle.StatusRejected} {
		if !lifecycle.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should return true", s)
		}
	}
	for _, s := range []lifecycle.Status{
		lifecycle.StatusApplied,
		lifecycle.StatusPhoneScreen,
		lifecycle.StatusInterview,
		lifecycle.StatusOffer,
	} {
		if lifecycle.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should return false", s)
		}
	}
}

// ── CanTransition — valid (forward) transitions ────────────────────────────

func TestCanTransition_ValidForward(t *testing.T) {
	cases := []struct {
		from lifecycle.Status
		to   lifecycle.Status
	}{
		{lifecycle.StatusApplied, lifecycle.StatusPhoneScreen},
		{lifecycle.StatusPhoneScreen, lifecycle.StatusInterview},
		{lifecycle.StatusInterview, lifecycle.StatusOffer},
		{lifecycle.StatusOffer, lifecycle.StatusAccepted},
	}
	for _, c := range cases {
		if !lifecycle.CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%s → %s) should be true", c.from, c.to)
		}
	}
}

// ── CanTransition — rejection is always allowed (except from terminals) ────

func TestCanTransition_ToRejected(t *testing.T) {
	nonTerminals := []lifecycle.Status{
		lifecycle.StatusApplied,
		lifecycle.StatusPhoneScreen,
		lifecycle.StatusInterview,
		lifecycle.StatusOffer,
	}
	for _, from := range nonTerminals {
		if !lifecycle.CanTransition(from, lifecycle.StatusRejected) {
			t.Errorf("CanTransition(%s → REJECTED) should be true", from)
		}
	}
}

// ── CanTransition — terminal states have no outgoing transitions ───────────

func TestCanTransition_FromTerminal(t *testing.T) {
	terminals := []lifecycle.Status{lifecycle.StatusAccepted, lifecycle.StatusRejected}
	targets := []lifecycle.Status{
		lifecycle.StatusApplied,
		lifecycle.StatusPhoneScreen,
		lifecycle.StatusInterview,
		lifecycle.StatusOffer,
		lifecycle.StatusAccepted,
		lifecycle.StatusRejected,
	}
	for _, from := range terminals {
		for _, to := range targets {
			if lifecycle.CanTransition(from, to) {
				t.Errorf("CanTransition(%s → %s) should be false (terminal state)", from, to)
			}
		}
	}
}

// ── CanTransition — skip-level transitions are forbidden ───────────────────

func TestCanTransition_SkipLevel(t *testing.T) {
	cases := []struct {
		from lifecycle.Status
		to   lifecycle.Status
	}{
		{lifecycle.StatusApplied, lifecycle.StatusInterview},    // skip PHONE_SCREEN
		{lifecycle.StatusApplied, lifecycle.StatusOffer},        // skip two
		{lifecycle.StatusApplied, lifecycle.StatusAccepted},     // skip all
		{lifecycle.StatusPhoneScreen, lifecycle.StatusOffer},    // skip INTERVIEW
		{lifecycle.StatusPhoneScreen, lifecycle.StatusAccepted}, // skip two
		{lifecycle.StatusInterview, lifecycle.StatusAccepted},   // skip OFFER
	}
	for _, c := range cases {
		if lifecycle.CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%s → %s) should be false (skip-level)", c.from, c.to)
		}
	}
}

// ── CanTransition — backwards movements are forbidden ──────────────────────

func TestCanTransition_Backwards(t *testing.T) {
	cases := []struct {
		from lifecycle.Status
		to   lifecycle.Status
	}{
		{lifecycle.StatusPhoneScreen, lifecycle.StatusApplied},
		{lifecycle.StatusInterview, lifecycle.StatusPhoneScreen},
		{lifecycle.StatusOffer, lifecycle.StatusInterview},
	}
	for _, c := range cases {
		if lifecycle.CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%s → %s) should be false (backwards)", c.from, c.to)
		}
	}
}

// ── CanTransition — self-transitions are forbidden ─────────────────────────

func TestCanTransition_Self(t *testing.T) {
	all := []lifecycle.Status{
		lifecycle.StatusApplied, lifecycle.StatusPhoneScreen, lifecycle.StatusInterview,
		lifecycle.StatusOffer, lifecycle.StatusAccepted, lifecycle.StatusRejected,
	}
	for _, s := range all {
		if lifecycle.CanTransition(s, s) {
			t.Errorf("CanTransition(%s → %s) should be false (self)", s, s)
		}
	}
}
