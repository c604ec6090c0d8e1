// Package verifier assesses whether an email address is deliverable
// without sending mail: MX resolution, an SMTP RCPT handshake, sender
// policy discovery and catch-all detection, fused into a confidence
// score. Every verification is call-scoped; nothing is cached between
// runs.
package verifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/sirupsen/logrus"
)

// Status labels for a verification outcome.
type Status string

const (
	StatusValid       Status = "valid"
	StatusInvalid     Status = "invalid"
	StatusCatchAll    Status = "catch-all"
	StatusLikelyValid Status = "likely_valid"
	StatusUnknown     Status = "unknown"
)

const (
	defaultTimeout   = 3 * time.Second
	defaultMaxHosts  = 2
	defaultHelloName = "verify.mailscout.local"
)

// Details carries the raw signals behind a verdict.
type Details struct {
	MXCheck        MXCheck        `json:"mx_check"`
	SMTPCheck      SMTPProbe      `json:"smtp_check"`
	Deliverability Deliverability `json:"deliverability"`
	CatchAll       CatchAll       `json:"catch_all"`
}

// VerificationResult is the unit returned to callers, fully determined
// by one verification run.
type VerificationResult struct {
	Email      string  `json:"email"`
	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Details    Details `json:"details"`
	WHOIS      string  `json:"whois,omitempty"`
}

// Verifier sequences resolver, SMTP probe, policy checks, catch-all
// detection and scoring for one address.
type Verifier struct {
	resolver    Resolver
	prober      Prober
	randomLocal func(int) string
	log         *logrus.Logger
}

// Options configures a Verifier. Resolver, Prober and RandomLocal exist
// as seams; leave them nil outside tests.
type Options struct {
	HelloName      string
	Timeout        time.Duration
	MaxHosts       int
	Port           string
	BlockedDomains []string
	Limiter        *RateLimiterManager
	Resolver       Resolver
	Prober         Prober
	RandomLocal    func(int) string
	Logger         *logrus.Logger
}

func New(opts Options) *Verifier {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Resolver == nil {
		opts.Resolver = NewNetResolver(opts.Timeout)
	}
	if opts.Prober == nil {
		opts.Prober = NewSMTPProber(SMTPProberOptions{
			HelloName:      opts.HelloName,
			Timeout:        opts.Timeout,
			MaxHosts:       opts.MaxHosts,
			Port:           opts.Port,
			BlockedDomains: opts.BlockedDomains,
			Limiter:        opts.Limiter,
			Logger:         opts.Logger,
		})
	}
	if opts.RandomLocal == nil {
		opts.RandomLocal = randomLocalPart
	}
	return &Verifier{
		resolver:    opts.Resolver,
		prober:      opts.Prober,
		randomLocal: opts.RandomLocal,
		log:         opts.Logger,
	}
}

// Verify runs the full pipeline for one address. It always returns a
// structured result; the error is non-nil only when the caller's context
// was cancelled mid-pipeline.
func (v *Verifier) Verify(ctx context.Context, email string) (VerificationResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	result := VerificationResult{
		Email:  email,
		Status: StatusUnknown,
	}

	if err := checkmail.ValidateFormat(email); err != nil {
		result.Status = StatusInvalid
		result.Reason = "Invalid email format"
		return result, nil
	}
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		result.Status = StatusInvalid
		result.Reason = "Invalid email format"
		return result, nil
	}

	mx := v.resolver.CheckMX(ctx, domain)
	result.Details.MXCheck = mx
	if !mx.Valid {
		result.Status = StatusInvalid
		result.Reason = "Domain has no valid MX records"
		return result, ctx.Err()
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	smtpResult := v.prober.Probe(ctx, email, domain, mx.Hosts)
	result.Details.SMTPCheck = smtpResult

	if err := ctx.Err(); err != nil {
		return result, err
	}
	deliverability := v.checkDeliverability(ctx, domain)
	result.Details.Deliverability = deliverability

	if err := ctx.Err(); err != nil {
		return result, err
	}
	catchAll := v.detectCatchAll(ctx, domain, mx.Hosts)
	result.Details.CatchAll = catchAll

	confidence := Score(smtpResult, catchAll, mx, deliverability)
	result.Confidence = confidence
	hasPolicy := deliverability.SPF || deliverability.DMARC

	switch {
	case smtpResult.Skipped:
		if hasPolicy {
			result.Status = StatusLikelyValid
			result.Reason = "Domain exists with valid MX and security records (SMTP check blocked by provider)"
			result.Confidence = round2(min(0.75, confidence+0.15))
		} else {
			result.Reason = "Could not complete full verification (SMTP blocked)"
		}
	case smtpResult.Accepted:
		if catchAll.IsCatchAll {
			result.Status = StatusCatchAll
			result.Reason = "Email accepted but domain uses catch-all"
		} else {
			result.Status = StatusValid
			result.Reason = "Email verified and deliverable"
		}
	case smtpResult.Rejected:
		result.Status = StatusInvalid
		result.Confidence = 0.0
		reason := smtpResult.Error
		if reason == "" {
			reason = "Unknown error"
		}
		result.Reason = fmt.Sprintf("Mailbox rejected: %s", reason)
	default:
		if hasPolicy {
			result.Status = StatusLikelyValid
			result.Reason = "Domain valid with security records (SMTP timeout - may be blocked)"
			result.Confidence = round2(min(0.70, confidence+0.10))
		} else {
			result.Reason = "Could not verify mailbox (server unavailable or timeout)"
		}
	}

	v.log.WithFields(logrus.Fields{
		"email":      email,
		"status":     result.Status,
		"confidence": result.Confidence,
	}).Debug("verification finished")

	return result, ctx.Err()
}
