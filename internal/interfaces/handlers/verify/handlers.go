package verify

import (
	"errors"
	"io"
	"strings"

	"certify-backend/internal/application/artifact"
	"certify-backend/internal/application/verification"
	"certify-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MaxUploadSize bounds the document read by Upload.
const MaxUploadSize = 10 << 20

// Handlers serves the public verification endpoints.
type Handlers struct {
	Verifier *verification.Service
}

// VerifyRequest: method "id" needs certificateId; method "pdf" needs either the
// embedded artifact block or certificateId plus the fields read from the document.
type VerifyRequest struct {
	CertificateID string            `json:"certificateId"`
	Method        string            `json:"method"`
	Artifact      string            `json:"artifact"`
	Fields        map[string]string `json:"fields"`
}

// Verify POST /api/v1/verify: 200 with the verification result on any well-formed request.
func (h *Handlers) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	ctx := c.UserContext()

	switch req.Method {
	case "id":
		return respond(c, h.Verifier.VerifyByID(ctx, req.CertificateID))
	case "pdf":
		if strings.TrimSpace(req.Artifact) != "" {
			claim, err := artifact.Decode(strings.TrimSpace(req.Artifact))
			if err != nil {
				return response.Error(c, "Invalid verification block", fiber.StatusBadRequest, nil)
			}
			return respond(c, h.verifyClaim(c, claim, req.CertificateID))
		}
		if strings.TrimSpace(req.CertificateID) == "" {
			return response.Error(c, "certificateId is required", fiber.StatusBadRequest, nil)
		}
		return respond(c, h.Verifier.VerifyByArtifact(ctx, req.CertificateID, req.Fields))
	default:
		return response.Error(c, "Invalid verification method", fiber.StatusBadRequest, nil)
	}
}

// Upload POST /api/v1/verify/upload: multipart "file" holding a rendered certificate.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "file is required", fiber.StatusBadRequest, nil)
	}
	if fh.Size > MaxUploadSize {
		return response.Error(c, "File too large", fiber.StatusRequestEntityTooLarge, nil)
	}
	f, err := fh.Open()
	if err != nil {
		return response.Error(c, "Could not read file", fiber.StatusBadRequest, nil)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize))
	if err != nil {
		return response.Error(c, "Could not read file", fiber.StatusBadRequest, nil)
	}

	claim, err := artifact.Extract(data)
	if err != nil {
		if errors.Is(err, artifact.ErrNoArtifact) {
			return response.Error(c, "No certificate verification block found in file", fiber.StatusUnprocessableEntity, nil)
		}
		return response.Error(c, "Invalid verification block", fiber.StatusUnprocessableEntity, nil)
	}
	return respond(c, h.verifyClaim(c, claim, ""))
}

// verifyClaim checks a decoded block. A certificateId typed in by the user that
// disagrees with the block counts as a content mismatch.
func (h *Handlers) verifyClaim(c *fiber.Ctx, claim *artifact.Claim, typedID string) verification.Result {
	fields := make(map[string]string, len(claim.Fields)+1)
	for k, v := range claim.Fields {
		fields[k] = v
	}
	if typedID = strings.TrimSpace(typedID); typedID != "" {
		fields["id"] = typedID
	}
	return h.Verifier.VerifyByArtifact(c.UserContext(), claim.ID, fields)
}

func respond(c *fiber.Ctx, res verification.Result) error {
	msg := "Certificate is valid"
	if !res.Valid {
		msg = string(res.Reason)
	}
	return response.Success(c, msg, res, nil)
}
