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
	"io"
	"strconv"

	"github.com/mkroboth/cs8/asmtree"
	"github.com/mkroboth/cs8/vm"
)

// DumpRegisters writes one "name=value" pair per register, in
// register-index order, space-separated, to w.
func DumpRegisters(w io.Writer, regs [16]int16) error {
	b := make([]byte, 0, 128)
	for i := 0; i < 16; i++ {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, asmtree.Register(i).String()...)
		b = append(b, '=')
		b = strconv.AppendInt(b, int64(regs[i]), 10)
	}
	_, err := w.Write(b)
	return err
}

// DumpCPU writes the CPU's phase, instruction pointer, and register
// file to w.
func DumpCPU(w io.Writer, cpu *vm.CPU) error {
	if _, err := io.WriteString(w, "phase="+cpu.Phase().String()+" ip="+strconv.Itoa(int(cpu.IP()))+" "); err != nil {
		return err
	}
	return DumpRegisters(w, cpu.Registers)
}

// DumpBus writes the bus's owner, mode, address, and data fields to w.
func DumpBus(w io.Writer, bus *vm.Bus) error {
	_, err := io.WriteString(w,
		"owner="+strconv.Itoa(int(bus.Owner))+
			" mode="+bus.Mode.String()+
			" address="+strconv.Itoa(int(bus.Address))+
			" data="+strconv.Itoa(int(bus.Data)))
	return err
}

// DumpMemory writes mem as space-separated decimal bytes to w.
func DumpMemory(w io.Writer, mem []byte) error {
	b := make([]byte, 0, len(mem)*4)
	for i, v := range mem {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	_, err := w.Write(b)
	return err
}
