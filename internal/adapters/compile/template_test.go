package compile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/heifsys/internal/adapters/compile"
	"go.trai.ch/heifsys/internal/core/domain"
)

func TestRenderTemplate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "de265-version.h.in")
	require.NoError(t, os.WriteFile(src, []byte(
		"#define LIBDE265_NUMERIC_VERSION @NUMERIC_VERSION@\n"+
			"#define LIBDE265_VERSION \"@PACKAGE_VERSION@\"\n"), 0o600))

	dst := filepath.Join(dir, "out", "include", "libde265", "de265-version.h")
	err := compile.RenderTemplate(src, dst, map[string]string{
		"NUMERIC_VERSION": "0x01000f00",
		"PACKAGE_VERSION": "1.0.15",
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t,
		"#define LIBDE265_NUMERIC_VERSION 0x01000f00\n"+
			"#define LIBDE265_VERSION \"1.0.15\"\n", string(got))
	assert.Equal(t, 0, strings.Count(string(got), "@"))
}

func TestRenderTemplate_BraceSyntax(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "x265_config.h.in")
	require.NoError(t, os.WriteFile(src, []byte("#define X265_BUILD ${X265_BUILD}\n#define KEEP ${OTHER}\n"), 0o600))

	dst := filepath.Join(dir, "x265_config.h")
	require.NoError(t, compile.RenderTemplate(src, dst, map[string]string{"X265_BUILD": "199"}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#define X265_BUILD 199\n#define KEEP ${OTHER}\n", string(got))
}

func TestRenderTemplate_Missing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.h")

	err := compile.RenderTemplate(filepath.Join(dir, "absent.h.in"), dst, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTemplateMissing)
	assert.NoFileExists(t, dst)
}
