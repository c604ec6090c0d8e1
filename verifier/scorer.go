package verifier

import "math"

// Scoring weights. An explicit RCPT rejection overrides everything: the
// server told us the mailbox does not exist.
const (
	weightSMTPAccepted = 0.60
	weightNotCatchAll  = 0.15
	weightValidMX      = 0.10
	weightPolicies     = 0.15
)

// Score fuses the probe outcomes into a confidence in [0,1], rounded to
// two decimals. Pure and deterministic; no I/O.
func Score(smtp SMTPProbe, catchAll CatchAll, mx MXCheck, deliverability Deliverability) float64 {
	if smtp.Rejected {
		return 0.0
	}

	confidence := 0.0
	if smtp.Accepted {
		confidence += weightSMTPAccepted
	}
	if mx.Valid {
		confidence += weightValidMX
	}
	if !catchAll.IsCatchAll {
		confidence += weightNotCatchAll
	}

	policies := 0
	for _, present := range []bool{deliverability.SPF, deliverability.DKIM, deliverability.DMARC} {
		if present {
			policies++
		}
	}
	confidence += float64(policies) / 3 * weightPolicies

	return round2(confidence)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
