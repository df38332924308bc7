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

package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mkroboth/cs8/vm"
)

func TestDumpRegisters(t *testing.T) {
	var regs [16]int16
	regs[4] = 42 // tmp
	var buf bytes.Buffer
	if err := DumpRegisters(&buf, regs); err != nil {
		t.Fatalf("DumpRegisters returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "tmp=42") {
		t.Fatalf("expected dump to contain tmp=42, got %q", buf.String())
	}
}

func TestDumpCPU(t *testing.T) {
	cpu := vm.NewCPU()
	cpu.Init()
	var buf bytes.Buffer
	if err := DumpCPU(&buf, cpu); err != nil {
		t.Fatalf("DumpCPU returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "phase=Fetch0") {
		t.Fatalf("expected dump to contain phase=Fetch0, got %q", buf.String())
	}
}

func TestDumpBus(t *testing.T) {
	bus := vm.Bus{}
	bus.Acquire(vm.CPUID, vm.Read, 0x10)
	var buf bytes.Buffer
	if err := DumpBus(&buf, &bus); err != nil {
		t.Fatalf("DumpBus returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "mode=read") {
		t.Fatalf("expected dump to contain mode=read, got %q", buf.String())
	}
}

func TestDumpMemory(t *testing.T) {
	var buf bytes.Buffer
	if err := DumpMemory(&buf, []byte{1, 2, 255}); err != nil {
		t.Fatalf("DumpMemory returned error: %v", err)
	}
	if buf.String() != "1 2 255" {
		t.Fatalf("expected '1 2 255', got %q", buf.String())
	}
}
