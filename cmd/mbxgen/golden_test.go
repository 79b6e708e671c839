package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

func fixedYear(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.March, 1, 12, 0, 0, 0, time.UTC) }
}

// TestGolden runs both generators over each archive in testdata/golden.
// An archive holds a "cpu-list" file, one input header and the expected
// outputs under "out/".
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "golden", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			inDir, outDir := t.TempDir(), t.TempDir()
			var header, cpuList string
			want := make(map[string]string)
			for _, f := range ar.Files {
				switch {
				case f.Name == "cpu-list":
					cpuList = strings.TrimSpace(string(f.Data))
				case strings.HasPrefix(f.Name, "out/"):
					want[strings.TrimPrefix(f.Name, "out/")] = string(f.Data)
				default:
					header = filepath.Join(inDir, f.Name)
					require.NoError(t, os.WriteFile(header, f.Data, 0644))
				}
			}
			require.NotEmpty(t, header, "archive has no input header")

			cpus, err := ParseCPUList(cpuList)
			require.NoError(t, err)

			gen := NewGenerator(header, outDir)
			gen.CPUList = cpus
			gen.Compiler = "gcc"
			gen.Rename.Now = fixedYear(2024)
			require.NoError(t, gen.RunDispatch())
			require.NoError(t, gen.RunRename())

			entries, err := os.ReadDir(outDir)
			require.NoError(t, err)
			gotNames := []string{}
			for _, e := range entries {
				gotNames = append(gotNames, e.Name())
			}
			wantNames := make([]string, 0, len(want))
			for name := range want {
				wantNames = append(wantNames, name)
			}
			slices.Sort(wantNames)
			assert.Equal(t, wantNames, gotNames)

			for name, content := range want {
				got, err := os.ReadFile(filepath.Join(outDir, name))
				if !assert.NoError(t, err) {
					continue
				}
				assert.Equal(t, content, string(got), name)
			}
		})
	}
}
