package finder

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"mailscout/verifier"
)

// Confidence at or above which the search stops as soon as it has
// enough retained results.
const earlyStopConfidence = 0.8

// EmailVerifier is the slice of the verifier the Finder needs; the
// concrete type is verifier.Verifier, tests supply a scripted fake.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) (verifier.VerificationResult, error)
}

// Finder ranks generated patterns, probes them in order under a search
// budget, and keeps only results that carry a positive signal.
type Finder struct {
	verifier EmailVerifier
	log      *logrus.Logger
}

func New(v EmailVerifier, log *logrus.Logger) *Finder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Finder{verifier: v, log: log}
}

// FindBestEmails generates candidates for the name pair, probes up to
// maxPatterns of them in priority order, and returns at most maxResults
// results sorted by confidence (ties keep probe order). Only valid,
// catch-all and likely_valid outcomes are surfaced; per-candidate
// failures are logged and skipped so one bad probe never aborts the
// search.
func (f *Finder) FindBestEmails(ctx context.Context, firstName, lastName, domain string, maxResults, maxPatterns int) []verifier.VerificationResult {
	patterns := GeneratePatterns(firstName, lastName, domain)
	f.log.WithField("count", len(patterns)).Info("generated email patterns")
	if len(patterns) == 0 {
		return nil
	}

	ordered := make([]string, 0, len(patterns))
	seen := make(map[string]struct{})
	generated := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		generated[p] = struct{}{}
	}
	for _, p := range priorityPatterns(firstName, lastName, domain) {
		if _, ok := generated[p]; !ok {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		ordered = append(ordered, p)
	}
	for _, p := range patterns {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		ordered = append(ordered, p)
	}

	// Hard ceiling on network calls for this request.
	maxPatterns = max(1, min(maxPatterns, len(ordered)))
	toCheck := ordered[:maxPatterns]
	f.log.WithField("count", len(toCheck)).Info("probing candidate patterns")

	var results []verifier.VerificationResult
	for i, email := range toCheck {
		f.log.WithFields(logrus.Fields{
			"candidate": email,
			"position":  i + 1,
			"of":        len(toCheck),
		}).Debug("verifying candidate")

		result, err := f.verifier.Verify(ctx, email)
		if err != nil {
			f.log.WithError(err).WithField("candidate", email).Warn("verification failed, skipping candidate")
			continue
		}

		switch result.Status {
		case verifier.StatusValid, verifier.StatusCatchAll, verifier.StatusLikelyValid:
			results = append(results, result)
		default:
			continue
		}

		if result.Confidence >= earlyStopConfidence && len(results) >= maxResults {
			f.log.Info("high-confidence result found, stopping early")
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// FindBestEmail returns the single best match, or ok=false when no
// candidate produced a positive signal.
func (f *Finder) FindBestEmail(ctx context.Context, firstName, lastName, domain string) (verifier.VerificationResult, bool) {
	results := f.FindBestEmails(ctx, firstName, lastName, domain, 1, defaultSinglePatternBudget)
	if len(results) == 0 {
		return verifier.VerificationResult{}, false
	}
	return results[0], true
}

// Default search budget for single-result lookups.
const defaultSinglePatternBudget = 8
