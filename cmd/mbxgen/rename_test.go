package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptomb/mbxgen/cmd/mbxgen/decl"
)

func TestRenameFilename(t *testing.T) {
	tests := []struct {
		header  string
		variant string
		want    string
	}{
		{"include/crypto_mb/x25519.h", "k1", "x25519_k1.h"},
		{"rsa.h", "l9", "rsa_l9.h"},
		{"/abs/hash.sha.h", "k1", "hash.sha_k1.h"},
		{"noext", "l9", "noext_l9.h"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RenameFilename(tt.header, tt.variant))
		})
	}
}

func TestRenderRenameHeader(t *testing.T) {
	opts := RenameOptions{Holder: "Example Corp", Now: fixedYear(2031)}
	decls := []decl.Decl{
		mbxAdd,
		{ReturnType: "void", Name: "mbx_clear"},
	}

	got := string(RenderRenameHeader(decls, "k1", opts))
	assert.True(t, strings.HasPrefix(got, "/****"))
	assert.Contains(t, got, "* Copyright 2031 Example Corp\n")
	assert.True(t, strings.HasSuffix(got, "*/\n\n#define mbx_add k1_mbx_add\n#define mbx_clear k1_mbx_clear\n"), got)
	assert.Equal(t, len(decls), strings.Count(got, "#define "))
}

func TestEmitRenameHeaders(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "include")
	opts := RenameOptions{Holder: "Intel Corporation", Now: fixedYear(2024)}

	written, err := EmitRenameHeaders("crypto_mb/mbx.h", outDir, []decl.Decl{mbxAdd}, DefaultVariants, opts)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(outDir, "mbx_k1.h"),
		filepath.Join(outDir, "mbx_l9.h"),
	}, written)

	for i, path := range written {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		variant := DefaultVariants[i]
		assert.Equal(t, 1, strings.Count(string(data), "#define "))
		assert.Contains(t, string(data), "#define mbx_add "+variant+"_mbx_add\n")
	}

	// Creating an existing directory again is fine and output is reproduced.
	first, err := os.ReadFile(written[0])
	require.NoError(t, err)
	_, err = EmitRenameHeaders("crypto_mb/mbx.h", outDir, []decl.Decl{mbxAdd}, DefaultVariants, opts)
	require.NoError(t, err)
	second, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmitRenameHeadersOnlyYearDiffers(t *testing.T) {
	a := RenderRenameHeader([]decl.Decl{mbxAdd}, "k1", RenameOptions{Holder: "Intel Corporation", Now: fixedYear(2024)})
	b := RenderRenameHeader([]decl.Decl{mbxAdd}, "k1", RenameOptions{Holder: "Intel Corporation", Now: fixedYear(2025)})
	assert.NotEqual(t, a, b)
	assert.Equal(t, string(a), strings.Replace(string(b), "Copyright 2025", "Copyright 2024", 1))
}

func TestEmitRenameHeadersErrors(t *testing.T) {
	_, err := EmitRenameHeaders("mbx.h", t.TempDir(), []decl.Decl{{ReturnType: "int"}}, DefaultVariants, DefaultRenameOptions())
	assert.ErrorIs(t, err, decl.ErrMalformed)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = EmitRenameHeaders("mbx.h", filepath.Join(file, "sub"), []decl.Decl{mbxAdd}, DefaultVariants, DefaultRenameOptions())
	assert.ErrorContains(t, err, "create output directory")
}
