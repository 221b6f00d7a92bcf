package issuance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"certify-backend/internal/domain"
)

// ParticipantsFromRecords converts spreadsheet rows (column name to cell) into
// participant rows. "name" and "email" are matched case-insensitively; every other
// non-empty column becomes a signed attribute under its trimmed header.
func ParticipantsFromRecords(records []map[string]interface{}) []domain.ParticipantRow {
	rows := make([]domain.ParticipantRow, len(records))
	for i, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		// Stable when two headers differ only by case.
		sort.Strings(keys)

		var row domain.ParticipantRow
		for _, k := range keys {
			v := cell(rec[k])
			header := strings.TrimSpace(k)
			switch strings.ToLower(header) {
			case "name", "participantname":
				if row.Name == "" {
					row.Name = v
				}
			case "email", "participantemail":
				if row.Email == "" {
					row.Email = v
				}
			default:
				if header == "" || v == "" {
					continue
				}
				if row.Attributes == nil {
					row.Attributes = make(map[string]string)
				}
				row.Attributes[header] = v
			}
		}
		rows[i] = row
	}
	return rows
}

func cell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
