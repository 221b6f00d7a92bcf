package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

const batchYAML = `event:
  eventName: Advanced React Workshop
  organization: Tech Academy
  date: "2025-01-15"
  signatory: J. Smith
templateId: "1"
participants:
  - name: John Doe
    email: john@example.com
    attributes:
      course: React
records:
  - Name: Sarah Johnson
    Email: sarah@example.com
    score: 97
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&GlobalFlags{})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupCLITest(t *testing.T) (string, string) {
	dir := t.TempDir()
	dsn := "sqlite://" + filepath.Join(dir, "certify.db")
	out, err := run(t, "migrate", "--database-url", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")
	return dir, dsn
}

func TestRoot_Help(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"migrate", "create-admin", "issue", "verify", "--database-url"} {
		assert.Contains(t, out, sub)
	}
}

func TestRoot_InvalidOutput(t *testing.T) {
	_, err := run(t, "migrate", "--output", "xml", "--database-url", "sqlite://:memory:")
	assert.ErrorIs(t, err, ErrInvalidOutputFormat)
}

func TestCreateAdmin(t *testing.T) {
	_, dsn := setupCLITest(t)

	out, err := run(t, "create-admin", "--database-url", dsn, "-o", "json",
		"--email", "Root@Example.com", "--password", "Passw0rd!", "--fullname", "ada admin")
	require.NoError(t, err)
	var created map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "root@example.com", created["email"])
	assert.Equal(t, "superadmin", created["role"])
	assert.NotEmpty(t, created["user_id"])

	_, err = run(t, "create-admin", "--database-url", dsn,
		"--email", "root@example.com", "--password", "Passw0rd!", "--fullname", "Ada Admin")
	assert.Error(t, err)

	_, err = run(t, "create-admin", "--database-url", dsn,
		"--email", "weak@example.com", "--password", "weak", "--fullname", "Weak")
	assert.Error(t, err)
}

func TestIssueThenVerify(t *testing.T) {
	dir, dsn := setupCLITest(t)
	batch := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(batch, []byte(batchYAML), 0o600))

	out, err := run(t, "issue", "-f", batch, "-o", "json", "--database-url", dsn, "--signing-secret", testSecret)
	require.NoError(t, err)
	var issued []issuedLine
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	require.Len(t, issued, 2)
	assert.Equal(t, "John Doe", issued[0].Name)
	assert.Equal(t, "Sarah Johnson", issued[1].Name)
	assert.Regexp(t, `^CERT-\d{4}-[A-Z0-9]{8}$`, issued[0].ID)
	assert.Regexp(t, `^CERTIFY1:`, issued[0].Artifact)

	out, err = run(t, "verify", issued[1].ID, "--database-url", dsn, "--signing-secret", testSecret)
	require.NoError(t, err)
	var res struct {
		Valid       bool                   `json:"valid"`
		Certificate map[string]interface{} `json:"certificate"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Valid)
	assert.Equal(t, "97", res.Certificate["attributes"].(map[string]interface{})["score"])

	// A different secret cannot vouch for these records.
	_, err = run(t, "verify", issued[0].ID, "--database-url", dsn, "--signing-secret", "ffffffffffffffffffffffffffffffff")
	assert.ErrorIs(t, err, ErrCertificateInvalid)

	out, err = run(t, "verify", "CERT-2025-MISSING0", "--database-url", dsn, "--signing-secret", testSecret)
	assert.ErrorIs(t, err, ErrCertificateInvalid)
	assert.Contains(t, out, "Certificate not found")
}

func TestIssue_TextOutputAndValidation(t *testing.T) {
	dir, dsn := setupCLITest(t)
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(batchYAML), 0o600))
	out, err := run(t, "issue", "-f", good, "--database-url", dsn, "--signing-secret", testSecret)
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "john@example.com")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("event:\n  eventName: X\nparticipants:\n  - name: A\n"), 0o600))
	_, err = run(t, "issue", "-f", bad, "--database-url", dsn, "--signing-secret", testSecret)
	assert.Error(t, err)

	_, err = run(t, "issue", "-f", good, "--database-url", dsn, "--signing-secret", "short")
	assert.Error(t, err)

	_, err = run(t, "issue", "-f", filepath.Join(dir, "missing.yaml"), "--database-url", dsn, "--signing-secret", testSecret)
	assert.Error(t, err)
}
