package cli

import (
	"encoding/json"
	"fmt"

	usersvc "certify-backend/internal/application/user"
	"certify-backend/internal/pkg/constants"

	"github.com/spf13/cobra"
)

type adminFlags struct {
	email    string
	password string
	fullname string
	role     string
}

func newCreateAdminCmd(e *env) *cobra.Command {
	var f adminFlags
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff account with a bcrypt-hashed password",
		Long: `Create a staff account directly in the database. Use it to bootstrap the
first superadmin; later accounts can be created through the API.

Examples:
  certctl create-admin --email root@example.com --password 'S3cret!pw' --fullname "Ada Admin"
  certctl create-admin --email ops@example.com --password 'S3cret!pw' --fullname "Ops" --role manager`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			svc := &usersvc.Service{DB: db}
			u, err := svc.CreateUser(cmd.Context(), constants.Superadmin, usersvc.CreateUserInput{
				Email:    f.email,
				Password: f.password,
				Fullname: f.fullname,
				Role:     f.role,
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if e.flags.Output == OutputJSON {
				return json.NewEncoder(w).Encode(map[string]string{
					"user_id": u.UserID.String(),
					"email":   u.Email,
					"role":    u.Role,
				})
			}
			_, err = fmt.Fprintf(w, "created %s (%s) %s\n", u.Email, u.Role, u.UserID)
			return err
		},
	}
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password")
	cmd.Flags().StringVar(&f.fullname, "fullname", "", "display name")
	cmd.Flags().StringVar(&f.role, "role", constants.Superadmin, "role (viewer|manager|admin|superadmin)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("fullname")
	return cmd
}
