package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cryptomb/mbxgen/cmd/mbxgen/decl"
)

// RenameOptions controls the renamed single-target headers.
type RenameOptions struct {
	Holder string           // copyright holder in the license block
	Now    func() time.Time // source of the copyright year
}

// DefaultRenameOptions returns the crypto_mb license holder and the wall clock.
func DefaultRenameOptions() RenameOptions {
	return RenameOptions{Holder: "Intel Corporation", Now: time.Now}
}

const licenseTemplate = `/*******************************************************************************
* Copyright %d %s
*
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You may obtain a copy of the License at
*
*     http://www.apache.org/licenses/LICENSE-2.0
*
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
*******************************************************************************/
`

// RenameFilename returns "<header base name>_<variant>.h".
func RenameFilename(headerPath, variant string) string {
	base := filepath.Base(headerPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_" + variant + ".h"
}

// RenderRenameHeader generates a header that maps every declared function
// to its variant implementation, e.g. "#define mbx_add k1_mbx_add". Builds
// that include it call one implementation directly, without dispatch.
func RenderRenameHeader(decls []decl.Decl, variant string, opts RenameOptions) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, licenseTemplate, opts.Now().Year(), opts.Holder)
	fmt.Fprintf(&buf, "\n")
	for _, d := range decls {
		fmt.Fprintf(&buf, "#define %s %s_%s\n", d.Name, variant, d.Name)
	}
	return buf.Bytes()
}

// EmitRenameHeaders writes one renamed header per variant into outDir,
// creating it when missing. It returns the written paths in variant order.
func EmitRenameHeaders(headerPath, outDir string, decls []decl.Decl, variants []string, opts RenameOptions) ([]string, error) {
	for _, d := range decls {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, variant := range variants {
		filename := filepath.Join(outDir, RenameFilename(headerPath, variant))
		if err := os.WriteFile(filename, RenderRenameHeader(decls, variant, opts), 0644); err != nil {
			return written, fmt.Errorf("write header: %w", err)
		}
		slog.Debug("generated header", "variant", variant, "defines", len(decls), "file", filename)
		written = append(written, filename)
	}
	return written, nil
}
