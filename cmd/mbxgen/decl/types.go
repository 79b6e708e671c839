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

// Package decl extracts MBXAPI(type, name, (params)) declarations from
// C headers.
//
// A declaration may span several physical lines. Scanning is driven by an
// explicit Cursor so callers can drain a header one declaration at a time:
//
//	cur := decl.Cursor{}
//	for {
//		d, next, ok, err := hdr.Scan(cur)
//		if err != nil || !ok {
//			break
//		}
//		use(d)
//		cur = next
//	}
package decl

import "strings"

// Macro is the name of the declaration macro recognized by the scanner.
const Macro = "MBXAPI"

// Param is one function parameter.
type Param struct {
	Text string // parameter as written, whitespace collapsed: "int8u* const pa[8]"
	Name string // bare identifier used at call sites: "pa"
}

// Decl is one declaration extracted from a header.
type Decl struct {
	ReturnType string  // "mbx_status"
	Name       string  // "mbx_x25519_mb8"
	Params     []Param // empty for "()" and "(void)"
	Line       int     // 1-based line of the MBXAPI token
}

// ParamList returns the parenthesized parameter list, e.g. "(int a, int *b)".
// A void-only list renders as "()".
func (d Decl) ParamList() string {
	texts := make([]string, len(d.Params))
	for i, p := range d.Params {
		texts[i] = p.Text
	}
	return "(" + strings.Join(texts, ", ") + ")"
}

// CallArgs returns the parenthesized argument list used to forward a call,
// e.g. "(a, b)".
func (d Decl) CallArgs() string {
	return CallArgs(d.Params)
}

// Signature returns "name(params)" for logging.
func (d Decl) Signature() string {
	return d.ReturnType + " " + d.Name + d.ParamList()
}

// IsVoid reports whether the declaration returns nothing.
func (d Decl) IsVoid() bool {
	return collapseSpace(d.ReturnType) == "void"
}

// Validate checks the structural invariants every generator relies on.
func (d Decl) Validate() error {
	if d.ReturnType == "" {
		return malformedf(d.Line, "declaration %q has no return type", d.Name)
	}
	if !isIdent(d.Name) {
		return malformedf(d.Line, "declaration name %q is not an identifier", d.Name)
	}
	for i, p := range d.Params {
		if !isIdent(p.Name) {
			return malformedf(d.Line, "%s: parameter %d (%q) has no name", d.Name, i+1, p.Text)
		}
	}
	return nil
}

// Cursor is the scan position threaded between Scan calls.
type Cursor struct {
	Line  int    // 0-based index of the next line to examine
	Guard string // include-guard token such as "__IPPCP_H__"; set once
}
