package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"certify-backend/internal/application/artifact"
	"certify-backend/internal/application/certstore"
	"certify-backend/internal/application/issuance"
	"certify-backend/internal/application/signing"
	"certify-backend/internal/domain"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// batchFile is the YAML layout read by "certctl issue". Participants may be given
// as typed rows or as raw spreadsheet records; both lists are issued in order.
type batchFile struct {
	Event        domain.EventDetails      `yaml:"event"`
	TemplateID   string                   `yaml:"templateId"`
	Participants []domain.ParticipantRow  `yaml:"participants"`
	Records      []map[string]interface{} `yaml:"records"`
}

func (b batchFile) batch() domain.IssuanceBatch {
	rows := append([]domain.ParticipantRow(nil), b.Participants...)
	rows = append(rows, issuance.ParticipantsFromRecords(b.Records)...)
	return domain.IssuanceBatch{Event: b.Event, TemplateID: b.TemplateID, Participants: rows}
}

func readBatchFile(path string) (domain.IssuanceBatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.IssuanceBatch{}, err
	}
	var f batchFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return domain.IssuanceBatch{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.batch(), nil
}

type issuedLine struct {
	ID       string `json:"id"`
	Name     string `json:"participantName"`
	Email    string `json:"participantEmail"`
	Artifact string `json:"artifact"`
}

func newIssueCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a batch of certificates from a YAML file",
		Long: `Issue one certificate per participant listed in a YAML batch file.

Example batch.yaml:
  event:
    eventName: Advanced React Workshop
    organization: Tech Academy
    date: "2025-01-15"
    signatory: J. Smith
  templateId: "1"
  participants:
    - name: John Doe
      email: john@example.com
      attributes:
        course: React`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			batch, err := readBatchFile(file)
			if err != nil {
				return err
			}
			signer, err := signing.NewService([]byte(e.cfg.SigningSecret))
			if err != nil {
				return err
			}
			db, err := e.openDB()
			if err != nil {
				return err
			}
			svc := &issuance.Service{
				Store:       &certstore.GormStore{DB: db, Timeout: e.cfg.StoreTimeout},
				Signer:      signer,
				MaxAttempts: e.cfg.IssueMaxAttempts,
			}
			certs, err := svc.Issue(cmd.Context(), batch)
			if err != nil {
				var verr *issuance.ValidationError
				if errors.As(err, &verr) {
					b, _ := json.MarshalIndent(verr, "", "  ")
					fmt.Fprintln(cmd.ErrOrStderr(), string(b))
				}
				return err
			}
			return printIssued(cmd, e.flags.Output, certs)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "batch YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printIssued(cmd *cobra.Command, format string, certs []domain.Certificate) error {
	lines := make([]issuedLine, len(certs))
	for i := range certs {
		lines[i] = issuedLine{
			ID:       certs[i].ID,
			Name:     certs[i].ParticipantName,
			Email:    certs[i].ParticipantEmail,
			Artifact: artifact.Encode(&certs[i]),
		}
	}
	w := cmd.OutOrStdout()
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.ID, l.Name, l.Email)
	}
	return tw.Flush()
}
