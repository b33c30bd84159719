package e2e

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runQP(t, binaryPath, home, nil, "shortcut", "set", "ctrl+shift+k")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runQP(t, binaryPath, home, nil, "shortcut", "show")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Ctrl+Shift+K")
}

func TestSmokeLoginAndCredits(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = w.Write([]byte(`{"access_token":"tok-1","user":{"id":7,"name":"Ada","credits":3}}`))
		case "/get-credits":
			_, _ = w.Write([]byte(`{"credits":5}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := []string{"QP_API_BASE=" + server.URL}

	stdout, stderr, err := runQP(t, binaryPath, home, env,
		"login", "--email", "ada@example.com", "--password", "hunter22")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Logged in as Ada")

	stdout, stderr, err = runQP(t, binaryPath, home, env, "credits")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Remaining credits: 5")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "qp-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/qp")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build qp binary: %s", string(output))
	return binaryPath
}

func runQP(t *testing.T, binaryPath, home string, extraEnv []string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Env = append(cmd.Env, extraEnv...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
