package finder

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"mailscout/verifier"
)

// fakeVerifier returns scripted results per address and records the
// probe order. Unknown addresses get an unknown/0.0 result.
type fakeVerifier struct {
	results map[string]verifier.VerificationResult
	errs    map[string]error
	calls   []string
}

func (f *fakeVerifier) Verify(ctx context.Context, email string) (verifier.VerificationResult, error) {
	f.calls = append(f.calls, email)
	if err, ok := f.errs[email]; ok {
		return verifier.VerificationResult{}, err
	}
	if r, ok := f.results[email]; ok {
		return r, nil
	}
	return verifier.VerificationResult{Email: email, Status: verifier.StatusUnknown}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func scripted(email string, status verifier.Status, confidence float64) verifier.VerificationResult {
	return verifier.VerificationResult{Email: email, Status: status, Confidence: confidence}
}

func TestFindBestEmailsEarlyStop(t *testing.T) {
	fake := &fakeVerifier{results: map[string]verifier.VerificationResult{
		"john.doe@acme.io": scripted("john.doe@acme.io", verifier.StatusValid, 0.9),
		"johndoe@acme.io":  scripted("johndoe@acme.io", verifier.StatusValid, 0.95),
	}}
	f := New(fake, quietLogger())

	results := f.FindBestEmails(context.Background(), "john", "doe", "acme.io", 1, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Email != "john.doe@acme.io" {
		t.Errorf("got %q", results[0].Email)
	}
	if len(fake.calls) != 1 {
		t.Errorf("expected early stop after first probe, got %d calls: %v", len(fake.calls), fake.calls)
	}
}

func TestFindBestEmailsRanking(t *testing.T) {
	fake := &fakeVerifier{results: map[string]verifier.VerificationResult{
		"john.doe@acme.io": scripted("john.doe@acme.io", verifier.StatusCatchAll, 0.6),
		"johndoe@acme.io":  scripted("johndoe@acme.io", verifier.StatusValid, 0.9),
		"john@acme.io":     scripted("john@acme.io", verifier.StatusLikelyValid, 0.6),
	}}
	f := New(fake, quietLogger())

	results := f.FindBestEmails(context.Background(), "john", "doe", "acme.io", 3, 3)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Email != "johndoe@acme.io" {
		t.Errorf("highest confidence first: got %q", results[0].Email)
	}
	// Equal confidences keep probe order.
	if results[1].Email != "john.doe@acme.io" || results[2].Email != "john@acme.io" {
		t.Errorf("tie not stable: %q, %q", results[1].Email, results[2].Email)
	}
}

func TestFindBestEmailsDiscardsNegativeOutcomes(t *testing.T) {
	fake := &fakeVerifier{results: map[string]verifier.VerificationResult{
		"john.doe@acme.io": scripted("john.doe@acme.io", verifier.StatusInvalid, 0.0),
		"johndoe@acme.io":  scripted("johndoe@acme.io", verifier.StatusUnknown, 0.25),
	}}
	f := New(fake, quietLogger())

	results := f.FindBestEmails(context.Background(), "john", "doe", "acme.io", 5, 2)
	if len(results) != 0 {
		t.Errorf("expected no retained results, got %v", results)
	}
}

func TestFindBestEmailsSkipsFailedProbes(t *testing.T) {
	fake := &fakeVerifier{
		errs: map[string]error{
			"john.doe@acme.io": errors.New("context deadline exceeded"),
		},
		results: map[string]verifier.VerificationResult{
			"johndoe@acme.io": scripted("johndoe@acme.io", verifier.StatusValid, 0.85),
		},
	}
	f := New(fake, quietLogger())

	results := f.FindBestEmails(context.Background(), "john", "doe", "acme.io", 1, 5)
	if len(results) != 1 || results[0].Email != "johndoe@acme.io" {
		t.Fatalf("expected the search to continue past a failed probe, got %v", results)
	}
}

func TestFindBestEmailsEmptyInputs(t *testing.T) {
	fake := &fakeVerifier{}
	f := New(fake, quietLogger())

	if results := f.FindBestEmails(context.Background(), "", "doe", "acme.io", 2, 8); results != nil {
		t.Errorf("expected nil for empty first name, got %v", results)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no probes, got %v", fake.calls)
	}
}

func TestFindBestEmailsPatternBudget(t *testing.T) {
	fake := &fakeVerifier{}
	f := New(fake, quietLogger())

	f.FindBestEmails(context.Background(), "john", "doe", "acme.io", 5, 1)
	if len(fake.calls) != 1 {
		t.Errorf("expected exactly 1 probe under a budget of 1, got %d", len(fake.calls))
	}

	fake.calls = nil
	f.FindBestEmails(context.Background(), "john", "doe", "acme.io", 5, 0)
	if len(fake.calls) != 1 {
		t.Errorf("a non-positive budget clamps to 1, got %d probes", len(fake.calls))
	}
}

func TestFindBestEmailsProbesPriorityFirst(t *testing.T) {
	fake := &fakeVerifier{}
	f := New(fake, quietLogger())

	f.FindBestEmails(context.Background(), "john", "doe", "acme.io", 2, 5)
	want := []string{
		"john.doe@acme.io",
		"johndoe@acme.io",
		"john@acme.io",
		"j.doe@acme.io",
		"jdoe@acme.io",
	}
	if len(fake.calls) != len(want) {
		t.Fatalf("expected %d probes, got %v", len(want), fake.calls)
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Errorf("probe %d: got %q, want %q", i, fake.calls[i], want[i])
		}
	}
}

func TestFindBestEmailSingle(t *testing.T) {
	fake := &fakeVerifier{results: map[string]verifier.VerificationResult{
		"johndoe@acme.io": scripted("johndoe@acme.io", verifier.StatusValid, 0.85),
	}}
	f := New(fake, quietLogger())

	result, ok := f.FindBestEmail(context.Background(), "john", "doe", "acme.io")
	if !ok {
		t.Fatal("expected a match")
	}
	if result.Email != "johndoe@acme.io" {
		t.Errorf("got %q", result.Email)
	}
}

func TestFindBestEmailNoMatch(t *testing.T) {
	f := New(&fakeVerifier{}, quietLogger())

	if _, ok := f.FindBestEmail(context.Background(), "john", "doe", "acme.io"); ok {
		t.Fatal("expected ok=false when nothing verifies")
	}
}
