package controller

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/likexian/whois"
	"github.com/sirupsen/logrus"

	"mailscout/utils"
	"mailscout/verifier"
)

type emailVerifier interface {
	Verify(ctx context.Context, email string) (verifier.VerificationResult, error)
}

// VerifyController exposes single and bulk verification over HTTP. It is
// a thin adapter: all semantics live in the verifier.
type VerifyController struct {
	Verifier emailVerifier
	Logger   *logrus.Logger
}

func NewVerifyController(v emailVerifier, logger *logrus.Logger) *VerifyController {
	return &VerifyController{Verifier: v, Logger: logger}
}

type verifyRequest struct {
	Email string `json:"email" validate:"required"`
}

// VerifyEmail handles POST /api/verify. With ?whois=true the response is
// enriched with the domain's WHOIS text.
func (vc *VerifyController) VerifyEmail(c *fiber.Ctx) error {
	var req verifyRequest
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

	result, err := vc.Verifier.Verify(c.UserContext(), req.Email)
	if err != nil {
		vc.Logger.WithError(err).WithField("email", req.Email).Error("verification aborted")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Verification failed",
		})
	}

	if c.QueryBool("whois") {
		if _, domain, ok := strings.Cut(result.Email, "@"); ok {
			if whoisInfo, err := whois.Whois(domain); err == nil {
				result.WHOIS = whoisInfo
			}
		}
	}

	return c.JSON(result)
}

// BulkVerify handles POST /api/bulk-verify: a CSV upload with an `email`
// column, answered with a result CSV. Rows fail individually, never the
// batch.
func (vc *VerifyController) BulkVerify(c *fiber.Ctx) error {
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

	emailCol := columnIndex(records[0], "email")
	if emailCol < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required column: email",
		})
	}

	out := [][]string{{"email", "status", "confidence", "reason"}}
	for _, record := range records[1:] {
		if emailCol >= len(record) {
			continue
		}
		email := strings.TrimSpace(record[emailCol])
		if email == "" {
			continue
		}

		result, err := vc.Verifier.Verify(c.UserContext(), email)
		if err != nil {
			vc.Logger.WithError(err).WithField("email", email).Warn("bulk verify row failed")
			sentry.CaptureException(err)
			out = append(out, []string{email, "error", "0.0", err.Error()})
			continue
		}
		out = append(out, []string{
			result.Email,
			string(result.Status),
			formatConfidence(result.Confidence),
			result.Reason,
		})
	}

	return sendCSV(c, "email_verifier_results", out)
}

// readCSVUpload parses the multipart "file" field into CSV records.
func readCSVUpload(c *fiber.Ctx) ([][]string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("CSV file upload is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read uploaded file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV file: %v", err)
	}
	return records, nil
}

// columnIndex finds a header column by case-insensitive name.
func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}

func formatConfidence(confidence float64) string {
	return strconv.FormatFloat(confidence, 'f', 2, 64)
}

// sendCSV writes rows as a timestamped CSV attachment.
func sendCSV(c *fiber.Ctx, prefix string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build result CSV",
		})
	}

	filename := fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}
