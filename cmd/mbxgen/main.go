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

// Command mbxgen generates the CPU dispatch layer of the multi-buffer crypto
// library from its public headers.
//
// Usage:
//
//	mbxgen dispatch -i include/crypto_mb/x25519.h -o gen/jmp -l "k1;l9" -c gcc
//	mbxgen rename include/crypto_mb/x25519.h gen/include
//	mbxgen cpuinfo -l "k1;l9"
//	mbxgen targets
//
// Every public function is declared in a header as
//
//	MBXAPI(mbx_status, mbx_x25519_mb8, (int8u* const pa_shared_key[8], ...))
//
// For each such declaration the dispatch command writes jmp_<name>_<hash>.c,
// which exports <name> and forwards every call through a table of the
// architecture-specific implementations <cpu>_<name>, selected on first call.
// The rename command writes <header>_<variant>.h files with
// "#define <name> <variant>_<name>" lines for single-target builds that link
// one implementation directly.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
