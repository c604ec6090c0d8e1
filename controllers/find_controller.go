package controller

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"mailscout/utils"
	"mailscout/verifier"
)

type emailFinder interface {
	FindBestEmails(ctx context.Context, firstName, lastName, domain string, maxResults, maxPatterns int) []verifier.VerificationResult
	FindBestEmail(ctx context.Context, firstName, lastName, domain string) (verifier.VerificationResult, bool)
}

// FindController exposes pattern search over HTTP.
type FindController struct {
	Finder         emailFinder
	Logger         *logrus.Logger
	MaxResultsCap  int
	MaxPatternsCap int
}

func NewFindController(f emailFinder, logger *logrus.Logger, maxResultsCap, maxPatternsCap int) *FindController {
	if maxResultsCap <= 0 {
		maxResultsCap = 20
	}
	if maxPatternsCap <= 0 {
		maxPatternsCap = 60
	}
	return &FindController{
		Finder:         f,
		Logger:         logger,
		MaxResultsCap:  maxResultsCap,
		MaxPatternsCap: maxPatternsCap,
	}
}

type findRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Domain      string `json:"domain" validate:"required"`
	MaxResults  int    `json:"max_results" validate:"gte=0"`
	MaxPatterns int    `json:"max_patterns" validate:"gte=0"`
}

type findResponse struct {
	Email      *string `json:"email"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

// clampSearchBounds applies defaults and caps: zero maxResults becomes 2,
// zero maxPatterns becomes maxResults*4, and both are clamped so one
// request cannot schedule unbounded probing.
func clampSearchBounds(maxResults, maxPatterns, resultsCap, patternsCap int) (int, int) {
	if maxResults <= 0 {
		maxResults = 2
	}
	maxResults = max(1, min(maxResults, resultsCap))
	if maxPatterns <= 0 {
		maxPatterns = maxResults * 4
	}
	maxPatterns = max(maxResults, min(maxPatterns, patternsCap))
	return maxResults, maxPatterns
}

// FindEmail handles POST /api/find. A search with no positive signal
// answers a single not_found row, not an error.
func (fc *FindController) FindEmail(c *fiber.Ctx) error {
	var req findRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	maxResults, maxPatterns := clampSearchBounds(req.MaxResults, req.MaxPatterns, fc.MaxResultsCap, fc.MaxPatternsCap)
	fc.Logger.WithFields(logrus.Fields{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"domain":     req.Domain,
	}).Info("finding email")

	results := fc.Finder.FindBestEmails(c.UserContext(), req.FirstName, req.LastName, req.Domain, maxResults, maxPatterns)
	if len(results) == 0 {
		return c.JSON([]findResponse{{
			Email:      nil,
			Status:     "not_found",
			Confidence: 0.0,
			Reason:     "No valid email patterns found",
		}})
	}

	out := make([]findResponse, 0, len(results))
	for _, r := range results {
		email := r.Email
		out = append(out, findResponse{
			Email:      &email,
			Status:     string(r.Status),
			Confidence: r.Confidence,
			Reason:     r.Reason,
		})
	}
	return c.JSON(out)
}

// BulkFind handles POST /api/bulk-find: a CSV upload with
// first_name,last_name,domain columns, one best-match search per row,
// answered with a result CSV.
func (fc *FindController) BulkFind(c *fiber.Ctx) error {
	records, err := readCSVUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if len(records) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Empty CSV file",
		})
	}

	header := records[0]
	cols := map[string]int{
		"first_name": columnIndex(header, "first_name"),
		"last_name":  columnIndex(header, "last_name"),
		"domain":     columnIndex(header, "domain"),
	}
	var missing []string
	for _, name := range []string{"first_name", "last_name", "domain"} {
		if cols[name] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required columns: " + strings.Join(missing, ", "),
		})
	}

	out := [][]string{{"first_name", "last_name", "domain", "email", "status", "confidence", "reason"}}
	for _, record := range records[1:] {
		first := cell(record, cols["first_name"])
		last := cell(record, cols["last_name"])
		domain := cell(record, cols["domain"])
		if first == "" && last == "" && domain == "" {
			continue
		}

		result, ok := fc.Finder.FindBestEmail(c.UserContext(), first, last, domain)
		if !ok {
			out = append(out, []string{first, last, domain, "", "not_found", "0.0", "No valid email found"})
			continue
		}
		out = append(out, []string{
			first, last, domain,
			result.Email,
			string(result.Status),
			formatConfidence(result.Confidence),
			result.Reason,
		})
	}

	return sendCSV(c, "email_finder_results", out)
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
