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

// Package cpuinfo reports the host CPU features that decide which
// architecture-specific implementation a dispatch shim selects.
//
// It mirrors the index resolution done by the library at run time so the
// choice can be inspected at build time. Generated code never depends on it.
package cpuinfo

import (
	"runtime"
	"slices"

	"golang.org/x/sys/cpu"
)

// Features holds the x86 features relevant to the multi-buffer kernels.
type Features struct {
	GOARCH     string
	AVX2       bool
	BMI2       bool
	ADX        bool
	AVX512F    bool
	AVX512BW   bool
	AVX512DQ   bool
	AVX512VL   bool
	AVX512IFMA bool
	AVX512VBMI bool
}

// Detect reads the host features.
func Detect() Features {
	return Features{
		GOARCH:     runtime.GOARCH,
		AVX2:       cpu.X86.HasAVX2,
		BMI2:       cpu.X86.HasBMI2,
		ADX:        cpu.X86.HasADX,
		AVX512F:    cpu.X86.HasAVX512F,
		AVX512BW:   cpu.X86.HasAVX512BW,
		AVX512DQ:   cpu.X86.HasAVX512DQ,
		AVX512VL:   cpu.X86.HasAVX512VL,
		AVX512IFMA: cpu.X86.HasAVX512IFMA,
		AVX512VBMI: cpu.X86.HasAVX512VBMI,
	}
}

// Feature is one named flag, for reports.
type Feature struct {
	Name    string
	Present bool
}

// List returns the features in report order.
func (f Features) List() []Feature {
	return []Feature{
		{"AVX2", f.AVX2},
		{"BMI2", f.BMI2},
		{"ADX", f.ADX},
		{"AVX512F", f.AVX512F},
		{"AVX512BW", f.AVX512BW},
		{"AVX512DQ", f.AVX512DQ},
		{"AVX512VL", f.AVX512VL},
		{"AVX512IFMA", f.AVX512IFMA},
		{"AVX512VBMI", f.AVX512VBMI},
	}
}

// Supports reports whether f can run the implementation for tag.
// known is false for tags without a requirement table.
func (f Features) Supports(tag string) (supported, known bool) {
	switch tag {
	case "k1":
		return f.l9() && f.AVX512F && f.AVX512BW && f.AVX512DQ && f.AVX512VL &&
			f.AVX512IFMA && f.AVX512VBMI, true
	case "l9":
		return f.l9(), true
	default:
		return false, false
	}
}

func (f Features) l9() bool {
	return f.AVX2 && f.BMI2 && f.ADX
}

// Resolve returns the position in tags of the first tag in preference
// (best first) that f supports, or -1 when none fits. -1 selects no
// implementation, the same value an unresolved dispatch index holds.
func Resolve(f Features, tags, preference []string) int {
	for _, want := range preference {
		if ok, _ := f.Supports(want); !ok {
			continue
		}
		if i := slices.Index(tags, want); i >= 0 {
			return i
		}
	}
	return -1
}
