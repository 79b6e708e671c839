// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cryptomb/mbxgen/cmd/mbxgen/decl"
)

// Generator orchestrates one generation run over a single header.
type Generator struct {
	HeaderFile string   // Input header with MBXAPI declarations
	OutputDir  string   // Output directory
	CPUList    []string // Architecture tags, in dispatch table order
	Compiler   string   // Accepted for build-system compatibility; not used by generation
	Variants   []string // Single-target variants for renamed headers

	Dispatch DispatchOptions
	Rename   RenameOptions
}

// NewGenerator returns a Generator with the crypto_mb defaults.
func NewGenerator(headerFile, outputDir string) *Generator {
	return &Generator{
		HeaderFile: headerFile,
		OutputDir:  outputDir,
		Variants:   slices.Clone(DefaultVariants),
		Dispatch:   DefaultDispatchOptions(),
		Rename:     DefaultRenameOptions(),
	}
}

// declarations loads the header and drains all of its declarations.
func (g *Generator) declarations() ([]decl.Decl, error) {
	hdr, err := decl.LoadHeader(g.HeaderFile)
	if err != nil {
		return nil, err
	}
	decls, guard, err := hdr.Decls()
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	slog.Debug("parsed header", "header", g.HeaderFile, "declarations", len(decls), "guard", guard)
	for _, d := range decls {
		slog.Debug("declaration", "line", d.Line, "signature", d.Signature(), "call", d.CallArgs())
	}
	return decls, nil
}

// RunDispatch generates one dispatch shim per declaration.
func (g *Generator) RunDispatch() error {
	if len(g.CPUList) == 0 {
		return fmt.Errorf("no architectures specified")
	}
	for _, tag := range g.CPUList {
		if _, err := GetArch(tag); err != nil {
			slog.Debug("architecture tag not in the known list", "tag", tag)
		}
	}
	slog.Debug("dispatch generation", "compiler", g.Compiler, "cpus", g.CPUList)

	decls, err := g.declarations()
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		slog.Info("no declarations found", "header", g.HeaderFile)
		return nil
	}

	written, err := EmitDispatchShims(g.HeaderFile, g.OutputDir, decls, g.CPUList, g.Dispatch)
	if err != nil {
		return fmt.Errorf("emit dispatcher: %w", err)
	}
	slog.Info("generated dispatchers", "header", g.HeaderFile, "files", len(written), "output", g.OutputDir)
	return nil
}

// RunRename generates one renamed header per variant.
func (g *Generator) RunRename() error {
	if len(g.Variants) == 0 {
		return fmt.Errorf("no variants specified")
	}

	decls, err := g.declarations()
	if err != nil {
		return err
	}

	written, err := EmitRenameHeaders(g.HeaderFile, g.OutputDir, decls, g.Variants, g.Rename)
	if err != nil {
		return fmt.Errorf("emit headers: %w", err)
	}
	slog.Info("generated headers", "header", g.HeaderFile, "files", len(written), "defines", len(decls), "output", g.OutputDir)
	return nil
}
