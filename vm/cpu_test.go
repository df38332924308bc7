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

package vm

import (
	"testing"

	"github.com/mkroboth/cs8/asmtree"
)

func newTestMachine(program []byte) (*Machine, *Memory) {
	mem := NewMemory(0, 256)
	copy(mem.Cells, program)
	cpu := NewCPU()
	m := NewMachine(cpu, mem)
	m.Init()
	return m, mem
}

// One LoadImmediate instruction (00 00 05) must leave tmp == 5 and
// ip == 3 once the instruction completes.
func TestCPULoadImmediate(t *testing.T) {
	m, _ := newTestMachine([]byte{0x00, 0x00, 0x05})
	ticks := 0
	for (m.CPU.ip != 3 || m.CPU.phase != Fetch0) && ticks < 50 {
		m.Tick()
		ticks++
	}
	if m.CPU.Registers[asmtree.Tmp] != 5 {
		t.Fatalf("expected tmp == 5, got %d", m.CPU.Registers[asmtree.Tmp])
	}
	if m.CPU.ip != 3 {
		t.Fatalf("expected ip == 3, got %d", m.CPU.ip)
	}
}

func TestCPUAddStoresDestination(t *testing.T) {
	m, _ := newTestMachine([]byte{0xAA}) // opcode 0x0A, Add, r0 nibble unused
	m.CPU.Registers[asmtree.Sc0] = 3
	m.CPU.Registers[asmtree.Sc1] = 4
	ticks := 0
	for (m.CPU.ip != 1 || m.CPU.phase != Fetch0) && ticks < 50 {
		m.Tick()
		ticks++
	}
	if m.CPU.Registers[asmtree.Dst] != 7 {
		t.Fatalf("expected dst == 7, got %d", m.CPU.Registers[asmtree.Dst])
	}
}

func TestCPUHaltSentinel(t *testing.T) {
	m, _ := newTestMachine([]byte{0x1F}) // Extended, r0=1 (high nibble), jump/halt
	m.CPU.Registers[asmtree.Tmp] = -1
	ticks := 0
	for !m.CPU.Halted() && ticks < 50 {
		m.Tick()
		ticks++
	}
	if !m.CPU.Halted() {
		t.Fatalf("expected CPU to halt")
	}
}

func TestCPUUnconditionalJump(t *testing.T) {
	m, _ := newTestMachine([]byte{0x1F}) // Extended, r0=1
	m.CPU.Registers[asmtree.Tmp] = 0x0010
	ticks := 0
	for m.CPU.ip != 0x10 && ticks < 50 && !m.CPU.Halted() {
		m.Tick()
		ticks++
	}
	if m.CPU.ip != 0x10 {
		t.Fatalf("expected ip == 0x10 after jump, got %#x", m.CPU.ip)
	}
	if m.CPU.Registers[asmtree.Lnk] != 1 {
		t.Fatalf("expected lnk to hold return address 1, got %d", m.CPU.Registers[asmtree.Lnk])
	}
}

func TestCPUStoreDirectWritesMemory(t *testing.T) {
	// limm 0x2A (00 00 2A), smem 0x10 (02 00 10)
	m, mem := newTestMachine([]byte{0x00, 0x00, 0x2A, 0x02, 0x00, 0x10})
	ticks := 0
	for (m.CPU.ip != 6 || m.CPU.phase != Fetch0) && ticks < 200 {
		m.Tick()
		ticks++
	}
	if mem.Cells[0x10] != 0x2A {
		t.Fatalf("expected memory[0x10] == 0x2A, got %#x", mem.Cells[0x10])
	}
}
