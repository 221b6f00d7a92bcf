package certificates

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"certify-backend/internal/application/artifact"
	"certify-backend/internal/application/certstore"
	"certify-backend/internal/application/issuance"
	"certify-backend/internal/application/templates"
	"certify-backend/internal/application/verification"
	"certify-backend/internal/domain"
	"certify-backend/internal/middleware"
	"certify-backend/internal/pkg/response"
	"certify-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers serves issuance and certificate lookup.
type Handlers struct {
	Issuer    *issuance.Service
	Verifier  *verification.Service
	Store     *certstore.GormStore
	Templates *templates.Catalog
}

// GenerateRequest keeps the admin console's request shape: event details, the rows
// of the uploaded spreadsheet and the chosen template.
type GenerateRequest struct {
	EventData        domain.EventDetails      `json:"eventData"`
	ExcelData        []map[string]interface{} `json:"excelData"`
	SelectedTemplate json.RawMessage          `json:"selectedTemplate"`
}

// IssuedCertificate is a committed record plus what a renderer needs to embed.
type IssuedCertificate struct {
	domain.Certificate
	Template string `json:"template"`
	Artifact string `json:"artifact"`
}

// Generate POST /api/v1/certificates/generate: issue one certificate per row.
func (h *Handlers) Generate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required data", fiber.StatusBadRequest, nil)
	}

	tplID := templateID(req.SelectedTemplate)
	var tpl domain.Template
	if tplID != "" {
		var err error
		if tpl, err = h.Templates.Get(tplID); err != nil {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, fiber.Map{"selectedTemplate": tplID})
		}
	}

	certs, err := h.Issuer.Issue(c.UserContext(), domain.IssuanceBatch{
		Event:        req.EventData,
		TemplateID:   tplID,
		Participants: issuance.ParticipantsFromRecords(req.ExcelData),
	})
	if err != nil {
		return h.issueError(c, err)
	}

	out := make([]IssuedCertificate, len(certs))
	for i := range certs {
		out[i] = IssuedCertificate{
			Certificate: certs[i],
			Template:    tpl.Name,
			Artifact:    artifact.Encode(&certs[i]),
		}
	}
	if u := middleware.GetSessionUser(c); u != nil {
		log.Info().Str("trace_id", middleware.GetTraceID(c)).Str("user_id", u.UserID).
			Int("count", len(out)).Msg("certificate batch generated")
	}
	return response.SuccessCreated(c, "Certificates Generated Successfully", fiber.Map{
		"count":        len(out),
		"certificates": out,
	}, nil)
}

func (h *Handlers) issueError(c *fiber.Ctx, err error) error {
	var verr *issuance.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.Error(c, "Invalid certificate batch", fiber.StatusBadRequest, verr)
	case errors.Is(err, certstore.ErrStorageUnavailable):
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("certificate storage unavailable")
		return response.Unavailable(c, "Certificate storage temporarily unavailable, please retry")
	case errors.Is(err, issuance.ErrIssuanceFailed):
		return response.Error(c, "Could not allocate unique certificate ids, please retry", fiber.StatusConflict, nil)
	default:
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("certificate generation failed")
		return response.Error(c, "Failed to generate certificates", fiber.StatusInternalServerError, nil)
	}
}

// Get GET /api/v1/certificates/:id: public lookup, same outcome as verify by id.
func (h *Handlers) Get(c *fiber.Ctx) error {
	res := h.Verifier.VerifyByID(c.UserContext(), c.Params("id"))
	return response.Success(c, resultMessage(res), res, nil)
}

// List GET /api/v1/certificates: issued certificates, newest first.
func (h *Handlers) List(c *fiber.Ctx) error {
	q := certstore.ListQuery{
		EventName: strings.TrimSpace(c.Query("event")),
		Email:     validation.NormalizeEmail(c.Query("email")),
		Limit:     c.QueryInt("limit", certstore.DefaultListLimit),
		Offset:    c.QueryInt("offset", 0),
	}
	if q.Limit <= 0 || q.Offset < 0 {
		return response.Error(c, "limit must be positive and offset non-negative", fiber.StatusBadRequest, nil)
	}
	certs, total, err := h.Store.List(c.UserContext(), q)
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("certificate list failed")
		return response.Unavailable(c, "Certificate storage temporarily unavailable, please retry")
	}
	return response.Success(c, "Certificates found", fiber.Map{
		"certificates": certs,
		"total":        total,
	}, fiber.Map{"limit": q.Limit, "offset": q.Offset})
}

func resultMessage(res verification.Result) string {
	if res.Valid {
		return "Certificate is valid"
	}
	return string(res.Reason)
}

// templateID accepts "1", 1 or {"id": 1, ...} as sent by different console versions.
func templateID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var obj struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && len(obj.ID) > 0 && obj.ID[0] != '{' {
		return templateID(obj.ID)
	}
	return ""
}
