package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clienthttp "github.com/wesleyorama2/httpclient/http"
	"github.com/wesleyorama2/httpclient/internal/testserver"
)

const authHeader = "Authorization: Bearer " + testserver.DefaultToken

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(testserver.New(testserver.Config{}))
	t.Cleanup(server.Close)
	return server
}

// runCommand executes the command tree with args and returns stdout
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, err := runCommand(t)
	require.NoError(t, err)

	for _, name := range []string{"get", "post", "fetch", "bench", "serve", "config"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCmd_Version(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestGetCmd(t *testing.T) {
	server := newTestServer(t)

	out, err := runCommand(t, "get", server.URL+"/api/search", "-q", "name=foo", "-H", authHeader)
	require.NoError(t, err)

	assert.Contains(t, out, "REQUEST: GET "+server.URL+"/api/search?name=foo")
	assert.Contains(t, out, "RESPONSE: 200 OK")
	assert.Contains(t, out, `"name": "foo"`)
	assert.Contains(t, out, `"limit": 10`)
}

func TestGetCmd_StatusIsNotAnError(t *testing.T) {
	server := newTestServer(t)

	out, err := runCommand(t, "get", server.URL+"/api/data")
	require.NoError(t, err)
	assert.Contains(t, out, "RESPONSE: 401 Unauthorized")
}

func TestGetCmd_ConfigProfile(t *testing.T) {
	server := newTestServer(t)

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := "profiles:\n  local:\n    base_url: " + server.URL + "\n    headers:\n      Authorization: Bearer secret_token\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := runCommand(t, "get", "/api/data", "--config", path, "--profile", "local", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"statusCode": 200`)
	assert.Contains(t, out, `"message": "GET request received"`)
}

func TestGetCmd_Errors(t *testing.T) {
	_, err := runCommand(t, "get", "not a url")
	require.Error(t, err)
	assert.True(t, clienthttp.IsConfigError(err))

	_, err = runCommand(t, "get", "http://localhost", "-H", "no-colon")
	assert.Error(t, err)

	_, err = runCommand(t, "get", "http://localhost", "-o", "junit")
	assert.Error(t, err)

	_, err = runCommand(t, "get", "http://localhost", "--timeout", "-1")
	require.Error(t, err)
	assert.True(t, clienthttp.IsConfigError(err))
}

func TestPostCmd_JSON(t *testing.T) {
	server := newTestServer(t)

	out, err := runCommand(t, "post", server.URL+"/api/post/data", "--json",
		"-d", "title=foo", "-d", "body=bar", "-H", authHeader,
		"--extract", "title=$.title", "--extract", "body=$.body")
	require.NoError(t, err)

	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, "RESPONSE: 200 OK")
	assert.Contains(t, out, "title = foo")
	assert.Contains(t, out, "body = bar")
}

func TestPostCmd_Form(t *testing.T) {
	server := newTestServer(t)

	out, err := runCommand(t, "post", server.URL+"/api/post/data/form", "-d", "title=foo", "-H", authHeader, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "statusCode: 200")
	assert.Contains(t, out, "title: foo")

	out, err = runCommand(t, "post", server.URL+"/api/post/data/form", "-H", authHeader)
	require.NoError(t, err)
	assert.Contains(t, out, "RESPONSE: 400 Bad Request")
}

func TestPostCmd_Raw(t *testing.T) {
	server := newTestServer(t)

	out, err := runCommand(t, "post", server.URL+"/api/post/data", "--json", "--raw", `{"a":[1,2]}`, "-H", authHeader)
	require.NoError(t, err)
	assert.Contains(t, out, "RESPONSE: 200 OK")
	assert.Contains(t, out, `"a": [`)
}

func TestFetchCmd(t *testing.T) {
	server := newTestServer(t)

	out, err := runCommand(t, "fetch", server.URL+"/api/post/data", "-X", "post",
		"-H", "Content-Type: application/json", "-H", authHeader, "-d", "title=foo")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "foo"`)

	_, err = runCommand(t, "fetch", server.URL+"/api/data", "-X", "WRONG")
	require.Error(t, err)
	assert.True(t, clienthttp.IsConfigError(err))
}

func TestSchemaFlag(t *testing.T) {
	server := newTestServer(t)

	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"type": "object",
		"required": ["name", "page"],
		"properties": {"name": {"type": "string"}, "page": {"type": "integer"}}
	}`), 0644))

	out, err := runCommand(t, "get", server.URL+"/api/search", "-H", authHeader, "--schema", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema validation passed")

	out, err = runCommand(t, "get", server.URL+"/api/data", "-H", authHeader, "--schema", path)
	require.Error(t, err)
	assert.Contains(t, out, "Schema validation failed")
}

func TestBenchCmd(t *testing.T) {
	server := newTestServer(t)

	out, err := runCommand(t, "bench", server.URL+"/api/data", "-n", "5", "-c", "2", "-H", authHeader)
	require.NoError(t, err)

	assert.Contains(t, out, "Requests:  5 (0 errors")
	assert.Contains(t, out, "200: 5")
	assert.True(t, strings.Contains(out, "p99"))
}

func TestServeCmd_Flags(t *testing.T) {
	cmd := newServeCmd(&globalOptions{})

	addr := cmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, "localhost:4245", addr.DefValue)

	token := cmd.Flags().Lookup("token")
	require.NotNil(t, token)
	assert.Equal(t, testserver.DefaultToken, token.DefValue)
}

func TestConfigCmd(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yaml")
	content := "default: local\nprofiles:\n  local:\n    base_url: http://localhost:4245\n  remote:\n    timeout: 5\n"
	require.NoError(t, os.WriteFile(valid, []byte(content), 0644))

	out, err := runCommand(t, "config", "validate", "--config", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 profiles valid")

	out, err = runCommand(t, "config", "profiles", "--config", valid)
	require.NoError(t, err)
	assert.Equal(t, "local (default)\nremote\n", out)

	invalid := filepath.Join(dir, "invalid.yaml")
	content = "profiles:\n  a:\n    timeout: soon\n  b:\n    base_url: WRONG_URL\n"
	require.NoError(t, os.WriteFile(invalid, []byte(content), 0644))

	out, err = runCommand(t, "config", "validate", "--config", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 problems")
	assert.Contains(t, out, "✗ profiles.a.timeout: timeout must be an integer")
	assert.Contains(t, out, "✗ profiles.b.base_url: base URL must be a valid URL")

	_, err = runCommand(t, "get", "http://localhost/a", "--config", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profiles.a.timeout")
	assert.Contains(t, err.Error(), "profiles.b.base_url")

	_, err = runCommand(t, "config", "validate")
	require.Error(t, err)
}
