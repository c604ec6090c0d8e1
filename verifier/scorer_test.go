package verifier

import "testing"

func TestScoreRejectionOverridesEverything(t *testing.T) {
	smtp := SMTPProbe{Rejected: true}
	mx := MXCheck{Valid: true}
	deliverability := Deliverability{SPF: true, DKIM: true, DMARC: true}
	catchAll := CatchAll{IsCatchAll: false}

	if got := Score(smtp, catchAll, mx, deliverability); got != 0.0 {
		t.Errorf("expected 0.0 for rejected mailbox, got %v", got)
	}
}

func TestScoreCleanAccept(t *testing.T) {
	smtp := SMTPProbe{Accepted: true}
	mx := MXCheck{Valid: true}
	deliverability := Deliverability{SPF: true, DKIM: true, DMARC: true}
	catchAll := CatchAll{IsCatchAll: false}

	if got := Score(smtp, catchAll, mx, deliverability); got != 1.0 {
		t.Errorf("expected 1.0 for clean accept with all policies, got %v", got)
	}
}

func TestScoreCatchAllPenalty(t *testing.T) {
	smtp := SMTPProbe{Accepted: true}
	mx := MXCheck{Valid: true}

	strict := Score(smtp, CatchAll{IsCatchAll: false}, mx, Deliverability{})
	catchAll := Score(smtp, CatchAll{IsCatchAll: true}, mx, Deliverability{})

	if diff := round2(strict - catchAll); diff != 0.15 {
		t.Errorf("expected catch-all to cost exactly 0.15, strict=%v catchall=%v", strict, catchAll)
	}
}

func TestScorePolicyMonotonicity(t *testing.T) {
	smtp := SMTPProbe{Accepted: true}
	mx := MXCheck{Valid: true}
	catchAll := CatchAll{IsCatchAll: false}

	cases := []Deliverability{
		{},
		{SPF: true},
		{SPF: true, DMARC: true},
		{SPF: true, DMARC: true, DKIM: true},
	}

	prev := -1.0
	for i, d := range cases {
		got := Score(smtp, catchAll, mx, d)
		if got < prev {
			t.Errorf("score decreased with %d policy flags: %v < %v", i, got, prev)
		}
		prev = got
	}
	if prev != 1.0 {
		t.Errorf("expected 1.0 with all flags, got %v", prev)
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	// One policy flag contributes 0.15/3 = 0.05 exactly after rounding.
	got := Score(SMTPProbe{}, CatchAll{IsCatchAll: true}, MXCheck{}, Deliverability{DKIM: true})
	if got != 0.05 {
		t.Errorf("expected 0.05, got %v", got)
	}
}
