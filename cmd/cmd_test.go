package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkatarajeshjakka/notes/internal/errors"
)

var projectDocs = map[string]string{
	"docs/nodejs/introduction.md":                     "---\ntitle: Introduction to Node.js\nsidebar_position: 1\n---\nNode.js runs **JavaScript** on the server.\n",
	"docs/nodejs/database/create-database-mongodb.md": "# Create a MongoDB database\n",
	"docs/dotnet/middleware.md":                       "# Middleware\n",
	"docs/dotnet/authentication/jwt-token.md":         "# JWT Token\n",
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

// runCommand runs the CLI in dir with fresh global state and returns its
// combined output.
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	cfgFile = ""
	buildOutput, buildClean = "", false
	configFormat = "yaml"
	versionFormat, versionShort = "text", false
	previewStyle, previewWidth, previewRaw = "dark", 80, false
	require.NoError(t, rootCmd.PersistentFlags().Set("log-level", "error"))

	t.Chdir(dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, t.TempDir(), "version", "--format", "json")
	require.NoError(t, err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])

	out, err = runCommand(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "notes ")
	assert.Contains(t, out, "Platform: ")

	_, err = runCommand(t, t.TempDir(), "version", "--format", "xml")
	assert.Error(t, err)
}

func TestConfigShow(t *testing.T) {
	dir := writeProject(t, map[string]string{"notes.yml": "title: Test Notes\nserver:\n  port: 4000\n"})

	out, err := runCommand(t, dir, "config", "show", "--format", "json")
	require.NoError(t, err)

	var shown map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "Test Notes", shown["title"])
	assert.Equal(t, "/notes/", shown["baseUrl"])
	assert.Equal(t, float64(4000), shown["server"].(map[string]interface{})["port"])

	out, err = runCommand(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Test Notes")
	assert.Contains(t, out, "baseUrl: /notes/")
}

func TestConfigShow_EnvOverride(t *testing.T) {
	t.Setenv("NOTES_TITLE", "From Env")

	out, err := runCommand(t, t.TempDir(), "config", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "From Env"`)
}

func TestConfigFileFromEnv(t *testing.T) {
	dir := writeProject(t, map[string]string{"site/custom.yml": "tagline: Custom tagline\n"})
	t.Setenv(ConfigFileEnv, filepath.Join(dir, "site", "custom.yml"))

	out, err := runCommand(t, t.TempDir(), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "tagline: Custom tagline")
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := runCommand(t, t.TempDir(), "--config", "missing.yml", "config", "show")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestConfigValidate(t *testing.T) {
	out, err := runCommand(t, t.TempDir(), "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "valid defaults")

	dir := writeProject(t, map[string]string{"notes.yml": "baseUrl: notes\ni18n:\n  locales: [en, fr]\n"})
	out, err = runCommand(t, dir, "config", "validate")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, out, "baseUrl: baseUrl must start and end with '/'")
	assert.Contains(t, out, `hint: try "/notes/"`)
	assert.Contains(t, out, "warning i18n.locales")
}

func TestBuildCommand(t *testing.T) {
	dir := writeProject(t, projectDocs)

	out, err := runCommand(t, dir, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Built 6 pages")

	assert.FileExists(t, filepath.Join(dir, "build", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "build", "404.html"))
	assert.FileExists(t, filepath.Join(dir, "build", "docs", "nodejs", "introduction", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "build", "sitemap.xml"))
}

func TestBuildCommand_OutAndClean(t *testing.T) {
	dir := writeProject(t, projectDocs)
	stale := filepath.Join(dir, "public", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := runCommand(t, dir, "build", "--out", "public", "--clean")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "public", "index.html"))
	assert.NoFileExists(t, stale)
}

func TestBuildCommand_BrokenLinks(t *testing.T) {
	// No docs: the home page links nowhere and onBrokenLinks is throw.
	_, err := runCommand(t, t.TempDir(), "build")
	require.Error(t, err)
	assert.True(t, errors.IsLinkError(err))
}

func TestPreviewCommand(t *testing.T) {
	dir := writeProject(t, projectDocs)

	out, err := runCommand(t, dir, "preview", "--raw", "/notes/docs/nodejs/introduction")
	require.NoError(t, err)
	assert.Contains(t, out, "# Introduction to Node.js")
	assert.Contains(t, out, "**JavaScript**")

	out, err = runCommand(t, dir, "preview", "--style", "notty", "--width", "60", "/docs/nodejs/introduction")
	require.NoError(t, err)
	assert.Contains(t, out, "Introduction to Node.js")

	_, err = runCommand(t, dir, "preview", "/docs/nope")
	assert.Error(t, err)
}

func TestFlagNameNormalization(t *testing.T) {
	dir := writeProject(t, projectDocs)

	_, err := runCommand(t, dir, "build", "--log_level", "error", "--out", "site_out")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "site_out", "index.html"))

	assert.Equal(t, "no-watch", string(wordSepNormalizeFunc(nil, "no_watch")))
}
