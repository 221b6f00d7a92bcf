package database

import (
	"testing"
	"time"

	"certify-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	cert := domain.Certificate{
		ID: "CERT-2025-AAAAAAAA", ParticipantName: "John Smith", ParticipantEmail: "john@example.com",
		EventName: "Advanced React Workshop", Organization: "Tech Academy", Date: "2025-01-15",
		Signatory: "J. Smith", TemplateID: "1", Signature: "00",
		Attributes: datatypes.NewJSONType(map[string]string{"course": "Advanced React"}),
		IssuedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, db.Create(&cert).Error)

	var got domain.Certificate
	require.NoError(t, db.Where("id = ?", cert.ID).First(&got).Error)
	assert.Equal(t, "John Smith", got.ParticipantName)
	assert.Equal(t, "Advanced React", got.AttributeMap()["course"])
	assert.True(t, cert.IssuedAt.Equal(got.IssuedAt))
}
