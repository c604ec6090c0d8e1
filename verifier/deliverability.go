package verifier

import (
	"context"
	"strings"
)

// Deliverability reports which sender-policy records the domain
// publishes. DKIM is best-effort: true only when one of the common
// selector names resolves, so false never proves DKIM is unconfigured.
type Deliverability struct {
	SPF         bool   `json:"spf"`
	DKIM        bool   `json:"dkim"`
	DMARC       bool   `json:"dmarc"`
	SPFRecord   string `json:"spf_record,omitempty"`
	DMARCRecord string `json:"dmarc_record,omitempty"`
}

// Selector names seen across the major hosted-mail providers, checked in
// order until one resolves.
var dkimSelectors = []string{"default", "google", "selector1", "selector2", "k1", "mail"}

// checkDeliverability looks up SPF on the bare domain, DMARC on the
// _dmarc subdomain, and sweeps common DKIM selectors. Lookup failures
// just leave the corresponding flag false.
func (v *Verifier) checkDeliverability(ctx context.Context, domain string) Deliverability {
	var result Deliverability

	if records, err := v.resolver.LookupTXT(ctx, domain); err == nil {
		for _, txt := range records {
			if strings.HasPrefix(txt, "v=spf1") {
				result.SPF = true
				result.SPFRecord = txt
			}
		}
	}

	if records, err := v.resolver.LookupTXT(ctx, "_dmarc."+domain); err == nil {
		for _, txt := range records {
			if strings.HasPrefix(txt, "v=DMARC1") {
				result.DMARC = true
				result.DMARCRecord = txt
			}
		}
	}

	for _, selector := range dkimSelectors {
		records, err := v.resolver.LookupTXT(ctx, selector+"._domainkey."+domain)
		if err == nil && len(records) > 0 {
			result.DKIM = true
			break
		}
	}

	return result
}
