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
	"bufio"
	"debug/elf"
	"fmt"
	"os"
	"strings"

	"github.com/mkroboth/cs8/vm"
	"github.com/pkg/errors"
	"github.com/teris-io/cli"
)

// memorySize is the size of the simulated RAM region, [0x0000, memorySize).
// serialAddress is the single bus address the simulated serial port answers.
const (
	memorySize    = 0x2000
	serialAddress = 0x2000
)

var description = strings.ReplaceAll(`
The cs8 emulator loads every PT_LOAD segment of an ELF64 object into a
simulated 8KiB memory and runs the CPU's bus-driven instruction cycle
until it halts. Standard input and output are wired to the simulated
serial port.
`, "\n", " ")

var emulator = cli.New(description).
	WithArg(cli.NewArg("elf-file", "The ELF64 object to load and run")).
	WithAction(run)

func run(args []string, options map[string]string) int {
	if err := runFile(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		return 1
	}
	return 0
}

func runFile(path string) error {
	mem := vm.NewMemory(0, memorySize)
	if err := loadSegments(path, mem); err != nil {
		return err
	}

	restore, rawErr := setRawIO()
	if rawErr == nil {
		defer restore()
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	serial := vm.NewSerialPort(serialAddress, os.Stdin, stdout)
	cpu := vm.NewCPU()
	machine := vm.NewMachine(cpu, mem, serial)
	machine.Init()
	machine.Run()
	return nil
}

// loadSegments copies every PT_LOAD segment's bytes into mem at the
// segment's virtual address.
func loadSegments(path string, mem *vm.Memory) error {
	f, err := elf.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening ELF object")
	}
	defer f.Close()

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return errors.Wrap(err, "reading PT_LOAD segment")
		}
		mem.Load(uint16(prog.Vaddr), data)
	}
	return nil
}

func main() { os.Exit(emulator.Run(os.Args, os.Stdout)) }
