package artifact

import (
	"testing"
	"time"

	"certify-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func sample() *domain.Certificate {
	return &domain.Certificate{
		ID:               "CERT-2025-ABCDEF12",
		ParticipantName:  "John Smith",
		ParticipantEmail: "john@example.com",
		EventName:        "Advanced React Workshop",
		Organization:     "Tech Academy",
		Date:             "2025-01-15",
		Signatory:        "J. Smith",
		TemplateID:       "1",
		Attributes:       datatypes.NewJSONType(map[string]string{"course": "Advanced React"}),
		Signature:        "ab12",
		IssuedAt:         time.Date(2025, 1, 15, 10, 0, 0, 5000, time.UTC),
	}
}

func TestEncodeDecode(t *testing.T) {
	block := Encode(sample())
	assert.Contains(t, block, Marker)

	claim, err := Decode(block)
	require.NoError(t, err)
	assert.Equal(t, "CERT-2025-ABCDEF12", claim.ID)
	assert.Equal(t, "John Smith", claim.Fields["participantName"])
	assert.Equal(t, "Advanced React", claim.Fields["attributes.course"])
	assert.Equal(t, "ab12", claim.Fields["signature"])
	assert.Equal(t, "2025-01-15T10:00:00.000005Z", claim.Fields["issuedAt"])
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("hello")
	assert.ErrorIs(t, err, ErrNoArtifact)

	_, err = Decode(Marker + "!!!")
	assert.ErrorIs(t, err, ErrMalformedArtifact)

	_, err = Decode(Marker + "e30") // "{}"
	assert.ErrorIs(t, err, ErrMalformedArtifact)
}

func TestExtract_FromPDFBytes(t *testing.T) {
	block := Encode(sample())
	pdf := []byte("%PDF-1.7\n1 0 obj\n<< /Title (Certificate) /Keywords (" + block + ") >>\nendobj\n%%EOF")

	claim, err := Extract(pdf)
	require.NoError(t, err)
	assert.Equal(t, "CERT-2025-ABCDEF12", claim.ID)
	assert.Equal(t, "Tech Academy", claim.Fields["organization"])
}

func TestExtract_NoBlock(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.7\n%%EOF"))
	assert.ErrorIs(t, err, ErrNoArtifact)
}
