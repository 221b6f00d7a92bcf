package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"certify-backend/internal/application/certstore"
	"certify-backend/internal/application/signing"
	"certify-backend/internal/application/verification"

	"github.com/spf13/cobra"
)

// ErrCertificateInvalid makes certctl exit non-zero after printing a negative result.
var ErrCertificateInvalid = errors.New("certificate is not valid")

func newVerifyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <certificate-id>",
		Short: "Check a certificate id against the store and its signature",
		Long: `Look a certificate up by id and recompute its signature. The result is
printed as JSON.

Exit codes:
  0: certificate is valid
  1: not found, tampered, or the store could not be reached`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := signing.NewService([]byte(e.cfg.SigningSecret))
			if err != nil {
				return err
			}
			db, err := e.openDB()
			if err != nil {
				return err
			}
			svc := &verification.Service{
				Store:  &certstore.GormStore{DB: db, Timeout: e.cfg.StoreTimeout},
				Signer: signer,
			}
			res := svc.VerifyByID(cmd.Context(), args[0])

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("%w: %s", ErrCertificateInvalid, res.Reason)
			}
			return nil
		},
	}
}
