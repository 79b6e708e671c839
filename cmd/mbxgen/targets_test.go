package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUList(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr string
	}{
		{in: "k1;l9", want: []string{"k1", "l9"}},
		{in: "l9;k1", want: []string{"l9", "k1"}},
		{in: " k1 ; l9 ;", want: []string{"k1", "l9"}},
		{in: "n0", want: []string{"n0"}},
		{in: "", wantErr: "empty architecture list"},
		{in: ";;", wantErr: "empty architecture list"},
		{in: "k1;k1", wantErr: "duplicate"},
		{in: "k1;avx-512", wantErr: "invalid architecture tag"},
		{in: "1k", wantErr: "invalid architecture tag"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCPUList(tt.in)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetArch(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr bool
	}{
		{"k1", false},
		{"l9", false},
		{"y8", true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			a, err := GetArch(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetArch(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err == nil && a.Tag != tt.tag {
				t.Errorf("GetArch(%q).Tag = %q", tt.tag, a.Tag)
			}
		})
	}
}

func TestDefaultVariantsAreKnown(t *testing.T) {
	assert.Equal(t, []string{"k1", "l9"}, DefaultVariants)
	assert.Equal(t, DefaultVariants, AvailableArchs())
}

func TestGeneratorVariantsAreOwned(t *testing.T) {
	gen := NewGenerator("mbx.h", t.TempDir())
	gen.Variants[0] = "n0"
	assert.Equal(t, []string{"k1", "l9"}, DefaultVariants)
	assert.Equal(t, []string{"k1", "l9"}, NewGenerator("mbx.h", t.TempDir()).Variants)
}
