package main

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cryptomb/mbxgen/cmd/mbxgen/decl"
)

// DispatchOptions controls the names used in generated dispatch shims.
type DispatchOptions struct {
	IncludePrefix string // directory the public header is included from: <crypto_mb/mbx.h>
	DefsHeader    string // internal definitions header providing ExportMacro
	IndexFunc     string // runtime function returning the resolved architecture index
	InitPrefix    string // prefix of the first-call initialization entry
	ExportMacro   string // marks the trampoline as exported; empty for none
	FuncPtrType   string // typedef name of the function-pointer type
}

// DefaultDispatchOptions returns the names used by the crypto_mb build.
func DefaultDispatchOptions() DispatchOptions {
	return DispatchOptions{
		IncludePrefix: "crypto_mb",
		DefsHeader:    "internal/common/ifma_defs.h",
		IndexFunc:     "_mbx_own_get_index",
		InitPrefix:    "ini",
		ExportMacro:   "DLL_PUBLIC",
		FuncPtrType:   "MBX_FUNC_PTR",
	}
}

// ShimFilename returns the dispatch shim file name for a function:
// "jmp_<name>_<first 8 hex digits of sha512(name)>.c". The hash keeps names
// unique and stable across runs; it has no security role.
func ShimFilename(name string) string {
	sum := sha512.Sum512([]byte(name))
	return fmt.Sprintf("jmp_%s_%s.c", name, hex.EncodeToString(sum[:])[:8])
}

// RenderDispatchShim generates the C source of the dispatch shim for d.
//
// The shim holds a table {init, arch[0], ..., arch[n-1]} indexed by
// *p_<name>_index + 1. The index starts at -1, so the first call lands on
// the init entry, which points p_<name>_index at the index resolved by
// opts.IndexFunc and then forwards the call. Later calls go straight to the
// selected implementation.
func RenderDispatchShim(header string, d decl.Decl, archs []string, opts DispatchOptions) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if len(archs) == 0 {
		return nil, fmt.Errorf("%s: no architectures to dispatch to", d.Name)
	}

	var (
		buf       bytes.Buffer
		params    = d.ParamList()
		call      = d.CallArgs()
		index     = d.Name + "_index"
		indexPtr  = "p_" + index
		initName  = opts.InitPrefix + "_" + d.Name
		tableCall = fmt.Sprintf("(arraddr[*%s + 1])%s", indexPtr, call)
	)

	if opts.IncludePrefix != "" {
		fmt.Fprintf(&buf, "#include <%s/%s>\n\n", opts.IncludePrefix, header)
	} else {
		fmt.Fprintf(&buf, "#include <%s>\n\n", header)
	}
	if opts.DefsHeader != "" {
		fmt.Fprintf(&buf, "#include <%s>\n\n", opts.DefsHeader)
	}

	fmt.Fprintf(&buf, "typedef %s (*%s)%s;\n\n", d.ReturnType, opts.FuncPtrType, params)

	fmt.Fprintf(&buf, "static int %s = -1;\n", index)
	fmt.Fprintf(&buf, "static int *%s = &%s;\n\n", indexPtr, index)

	fmt.Fprintf(&buf, "extern int* %s();\n", opts.IndexFunc)
	fmt.Fprintf(&buf, "extern %s %s%s;\n", d.ReturnType, initName, params)
	for _, arch := range archs {
		fmt.Fprintf(&buf, "extern %s %s_%s%s;\n", d.ReturnType, arch, d.Name, params)
	}
	fmt.Fprintf(&buf, "\n")

	fmt.Fprintf(&buf, "static %s arraddr[] =\n{\n", opts.FuncPtrType)
	fmt.Fprintf(&buf, "    %s", initName)
	for _, arch := range archs {
		fmt.Fprintf(&buf, ",\n    %s_%s", arch, d.Name)
	}
	fmt.Fprintf(&buf, "\n};\n\n")

	ret := "return "
	if d.IsVoid() {
		ret = ""
	}

	// Trampoline
	if opts.ExportMacro != "" {
		fmt.Fprintf(&buf, "%s\n", opts.ExportMacro)
	}
	fmt.Fprintf(&buf, "%s %s%s\n{\n", d.ReturnType, d.Name, params)
	fmt.Fprintf(&buf, "    %s%s;\n", ret, tableCall)
	fmt.Fprintf(&buf, "}\n\n")

	// First-call initialization
	fmt.Fprintf(&buf, "%s %s%s\n{\n", d.ReturnType, initName, params)
	fmt.Fprintf(&buf, "    %s = %s();\n", indexPtr, opts.IndexFunc)
	fmt.Fprintf(&buf, "    %s%s;\n", ret, tableCall)
	fmt.Fprintf(&buf, "}\n")

	return buf.Bytes(), nil
}

// EmitDispatchShims writes one dispatch shim per declaration into outDir,
// which must already exist. Existing files are overwritten. It returns the
// written paths in declaration order.
func EmitDispatchShims(headerPath, outDir string, decls []decl.Decl, archs []string, opts DispatchOptions) ([]string, error) {
	info, err := os.Stat(outDir)
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not a directory", outDir)
	}

	header := filepath.Base(headerPath)
	var written []string
	for _, d := range decls {
		content, err := RenderDispatchShim(header, d, archs, opts)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", d.Name, err)
		}

		filename := filepath.Join(outDir, ShimFilename(d.Name))
		if err := os.WriteFile(filename, content, 0644); err != nil {
			return written, fmt.Errorf("write dispatcher: %w", err)
		}
		slog.Debug("generated dispatcher", "func", d.Name, "file", filename)
		written = append(written, filename)
	}
	return written, nil
}
