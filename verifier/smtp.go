package verifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SMTPProbe is the outcome of an RCPT handshake against a domain's mail
// exchangers. Accepted and Rejected are mutually exclusive; Skipped means
// the provider is known to block verification and no connection was
// attempted. All three false is the inconclusive state (timeouts,
// greylisting, unreachable hosts).
type SMTPProbe struct {
	Accepted bool   `json:"accepted"`
	Rejected bool   `json:"rejected"`
	Skipped  bool   `json:"skipped"`
	MXUsed   string `json:"mx_used,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Prober tests whether a mailbox exists without delivering anything.
type Prober interface {
	Probe(ctx context.Context, email, domain string, hosts []string) SMTPProbe
}

// Providers that reject or tarpit RCPT probing; connecting is a waste of
// the caller's latency budget.
var defaultBlockedDomains = []string{
	"outlook.com", "hotmail.com", "live.com", "msn.com",
	"gmail.com", "googlemail.com", "yahoo.com", "yahoo.co.uk",
	"aol.com", "icloud.com", "me.com", "mac.com",
	"microsoft.com", "office365.com",
}

// DefaultBlockedDomains returns a copy of the built-in provider blocklist.
func DefaultBlockedDomains() []string {
	out := make([]string, len(defaultBlockedDomains))
	copy(out, defaultBlockedDomains)
	return out
}

// SMTPProber opens transient port-25 connections and walks the
// EHLO/MAIL/RCPT sequence, interpreting the RCPT response code. Every
// connection is scoped to one probe; nothing is pooled or reused.
type SMTPProber struct {
	helloName string
	timeout   time.Duration
	maxHosts  int
	port      string
	blocked   []string
	limiter   *RateLimiterManager
	log       *logrus.Logger
}

// SMTPProberOptions configures an SMTPProber. Zero values fall back to
// defaults; an explicit empty BlockedDomains slice disables the blocklist.
type SMTPProberOptions struct {
	HelloName      string
	Timeout        time.Duration
	MaxHosts       int
	Port           string
	BlockedDomains []string
	Limiter        *RateLimiterManager
	Logger         *logrus.Logger
}

func NewSMTPProber(opts SMTPProberOptions) *SMTPProber {
	if opts.HelloName == "" {
		opts.HelloName = defaultHelloName
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxHosts <= 0 {
		opts.MaxHosts = defaultMaxHosts
	}
	if opts.Port == "" {
		opts.Port = "25"
	}
	if opts.BlockedDomains == nil {
		opts.BlockedDomains = DefaultBlockedDomains()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &SMTPProber{
		helloName: opts.HelloName,
		timeout:   opts.Timeout,
		maxHosts:  opts.MaxHosts,
		port:      opts.Port,
		blocked:   opts.BlockedDomains,
		limiter:   opts.Limiter,
		log:       opts.Logger,
	}
}

// Probe runs the RCPT handshake for email against the first hosts in
// priority order, stopping at the first conclusive accept or reject.
// Connection-level failures move on to the next host.
func (p *SMTPProber) Probe(ctx context.Context, email, domain string, hosts []string) SMTPProbe {
	var result SMTPProbe

	if isBlockedDomain(domain, p.blocked) {
		result.Skipped = true
		result.Error = "SMTP check skipped (domain typically blocks verification)"
		return result
	}

	if len(hosts) > p.maxHosts {
		hosts = hosts[:p.maxHosts]
	}

	for _, host := range hosts {
		if ctx.Err() != nil {
			result.Error = "probe cancelled"
			return result
		}
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx, domain); err != nil {
				result.Error = "probe cancelled"
				return result
			}
		}
		if done := p.probeHost(ctx, host, email, domain, &result); done {
			return result
		}
	}

	if result.Error == "" {
		result.Error = "Could not connect to any MX server"
	}
	return result
}

// probeHost attempts one host. It returns true when the outcome is
// conclusive (accept or reject); false means try the next host. The
// connection is closed on every exit path, including caller cancellation.
func (p *SMTPProber) probeHost(ctx context.Context, host, email, domain string, result *SMTPProbe) bool {
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, p.port)
	}
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			result.Error = "Connection timeout"
		}
		return false
	}
	defer conn.Close()

	// A cancelled context tears the socket down mid-command instead of
	// waiting out the deadline.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	// Per-command deadline, matching the connect timeout.
	extend := func() { _ = conn.SetDeadline(time.Now().Add(p.timeout)) }
	extend()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return false
	}
	defer client.Close()

	// Hello issues EHLO and falls back to HELO itself.
	extend()
	if err := client.Hello(p.helloName); err != nil {
		result.Error = fmt.Sprintf("SMTP error: %v", err)
		return false
	}

	// Synthetic sender on the target's own domain; a refused MAIL FROM
	// means this host won't talk to us, not that the mailbox is absent.
	extend()
	if err := client.Mail("test@" + domain); err != nil {
		return false
	}

	extend()
	rcptErr := client.Rcpt(email)
	_ = client.Quit()

	if rcptErr == nil {
		result.Accepted = true
		result.MXUsed = host
		return true
	}

	switch code := smtpCode(rcptErr); code {
	case 550:
		result.Rejected = true
		result.Error = "Mailbox does not exist"
		result.MXUsed = host
		return true
	case 450, 451:
		result.Error = "Temporarily unavailable (greylisted)"
		result.MXUsed = host
		return false
	case 421:
		result.Error = "Service unavailable"
		return false
	default:
		result.Error = fmt.Sprintf("Unexpected response: %v", rcptErr)
		return false
	}
}

// smtpCode extracts the reply code from a net/smtp error, or 0 when the
// failure happened below the protocol (timeout, disconnect).
func smtpCode(err error) int {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code
	}
	return 0
}

// isBlockedDomain reports whether domain equals, or is a subdomain of,
// any blocklist entry.
func isBlockedDomain(domain string, blocked []string) bool {
	domain = strings.ToLower(domain)
	for _, b := range blocked {
		if domain == b || strings.HasSuffix(domain, "."+b) {
			return true
		}
	}
	return false
}
