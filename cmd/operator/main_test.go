package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easeaico/her-line/internal/line"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd, out
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "abcd****6789", maskValue("abcdef0123456789"))
	assert.Equal(t, "http://x", displayValue("LINE_API_ENDPOINT", "http://x"))
	assert.Equal(t, "****", displayValue("LINE_CHANNEL_SECRET", "secret"))
}

func TestClassify(t *testing.T) {
	cmd, out := newTestCmd()
	require.NoError(t, runClassify(cmd, []string{"thanks,", "hello"}))
	assert.Contains(t, out.String(), "intent:     thanks")
	assert.Contains(t, out.String(), "mood delta: +1")
	assert.Contains(t, out.String(), `matched:    "thank"`)

	cmd, out = newTestCmd()
	require.NoError(t, runClassify(cmd, []string{"xyz"}))
	assert.Contains(t, out.String(), "intent:     generic")
	assert.Contains(t, out.String(), "none (fallback)")
}

func TestSign(t *testing.T) {
	body := []byte(`{"events":[]}`)
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	signFile, signSecret = path, "s3cret"
	t.Cleanup(func() { signFile, signSecret = "-", "" })

	cmd, out := newTestCmd()
	require.NoError(t, runSign(cmd, nil))
	assert.Equal(t, line.Sign("s3cret", body), strings.TrimSpace(out.String()))

	signFile = "-"
	cmd, out = newTestCmd()
	cmd.SetIn(bytes.NewReader(body))
	require.NoError(t, runSign(cmd, nil))
	assert.Equal(t, line.Sign("s3cret", body), strings.TrimSpace(out.String()))
}

func TestSignRequiresSecret(t *testing.T) {
	t.Setenv("LINE_CHANNEL_SECRET", "")
	signFile, signSecret = "-", ""

	cmd, _ := newTestCmd()
	assert.Error(t, runSign(cmd, nil))
}

func TestPersonasBuiltin(t *testing.T) {
	personasSchema = false
	cmd, out := newTestCmd()
	require.NoError(t, runPersonas(cmd, nil))
	assert.Contains(t, out.String(), "muryi (ミュリィ)")
	assert.Contains(t, out.String(), "piona (ピオナ)")
}

func TestPersonasSchema(t *testing.T) {
	personasSchema = true
	t.Cleanup(func() { personasSchema = false })

	cmd, out := newTestCmd()
	require.NoError(t, runPersonas(cmd, nil))
	assert.Contains(t, out.String(), `"display_name"`)
}

func TestPersonasDirError(t *testing.T) {
	personasSchema = false
	cmd, _ := newTestCmd()
	assert.Error(t, runPersonas(cmd, []string{t.TempDir()}))
}

func TestPreview(t *testing.T) {
	previewPersona, previewDir, previewDebug, previewNoMood = "", "", false, true
	t.Cleanup(func() { previewNoMood = false })

	cmd, out := newTestCmd()
	require.NoError(t, runPreview(cmd, []string{"/debug on", "/who", "/piona", "/debug off"}))
	assert.Equal(t, "(system) debug: ON\n(system) 現在は「ミュリィ」です\n(system) ピオナに切替えたよ！\n(system) debug: OFF\n", out.String())
}

func TestPreviewUnknownPersona(t *testing.T) {
	previewPersona = "nobody"
	t.Cleanup(func() { previewPersona = "" })

	cmd, _ := newTestCmd()
	assert.Error(t, runPreview(cmd, []string{"hello"}))
}

func TestValidate(t *testing.T) {
	t.Setenv("LINE_CHANNEL_SECRET", "0123456789abcdef")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token-token-token")
	t.Setenv("PERSONA_DIR", "")

	cmd, out := newTestCmd()
	require.NoError(t, runValidate(cmd, nil))
	assert.Contains(t, out.String(), "0123****cdef")
	assert.NotContains(t, out.String(), "0123456789abcdef")
	assert.Contains(t, out.String(), "Configuration is valid!")

	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "")
	cmd, out = newTestCmd()
	assert.Error(t, runValidate(cmd, nil))
	assert.Contains(t, out.String(), "NOT SET (required)")
}
