package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Certificate is one issued certificate. Rows are written once and never updated,
// so the model carries no UpdatedAt/DeletedAt columns.
type Certificate struct {
	ID               string                                `gorm:"column:id;type:varchar(40);primaryKey" json:"id"`
	ParticipantName  string                                `gorm:"column:participant_name;not null" json:"participantName"`
	ParticipantEmail string                                `gorm:"column:participant_email;not null;index" json:"participantEmail"`
	EventName        string                                `gorm:"column:event_name;not null" json:"eventName"`
	Organization     string                                `gorm:"column:organization;not null" json:"organization"`
	Date             string                                `gorm:"column:event_date;type:varchar(10);not null" json:"date"`
	Signatory        string                                `gorm:"column:signatory;not null" json:"signatory"`
	TemplateID       string                                `gorm:"column:template_id;not null" json:"templateId"`
	Attributes       datatypes.JSONType[map[string]string] `gorm:"column:attributes" json:"attributes"`
	Signature        string                                `gorm:"column:signature;type:varchar(64);not null" json:"signature"`
	IssuedAt         time.Time                             `gorm:"column:issued_at;not null;index" json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "Certificates"
}

// AttributeMap returns the extra participant columns (never nil).
func (c *Certificate) AttributeMap() map[string]string {
	m := c.Attributes.Data()
	if m == nil {
		return map[string]string{}
	}
	return m
}

// EventDetails is the metadata shared by every certificate of a batch.
type EventDetails struct {
	EventName    string `json:"eventName" yaml:"eventName" validate:"required"`
	Organization string `json:"organization" yaml:"organization" validate:"required"`
	Date         string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Signatory    string `json:"signatory" yaml:"signatory" validate:"required"`
}

// ParticipantRow is one parsed line of the uploaded participant sheet.
type ParticipantRow struct {
	Name       string            `json:"name" yaml:"name" validate:"required"`
	Email      string            `json:"email" yaml:"email" validate:"required,email_addr"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// IssuanceBatch is consumed once by the issuance engine; it has no stored identity.
type IssuanceBatch struct {
	Event        EventDetails     `json:"eventData" yaml:"event"`
	TemplateID   string           `json:"templateId" yaml:"templateId"`
	Participants []ParticipantRow `json:"participants" yaml:"participants"`
}
