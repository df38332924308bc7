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

import "github.com/mkroboth/cs8/asmtree"

// CPUID is the fixed DeviceID the CPU uses to acquire the bus.
const CPUID DeviceID = 1

// Phase is one state of the CPU's instruction-cycle state machine.
type Phase int

const (
	Init Phase = iota
	Fetch0
	Fetch1
	Decode
	GetData0
	GetData1
	GetData2
	GetData3
	Prepare
	Load0
	Load1
	Execute
	Store0
	Store1
	Halted
)

func (p Phase) String() string {
	switch p {
	case Init:
		return "Init"
	case Fetch0:
		return "Fetch0"
	case Fetch1:
		return "Fetch1"
	case Decode:
		return "Decode"
	case GetData0:
		return "GetData0"
	case GetData1:
		return "GetData1"
	case GetData2:
		return "GetData2"
	case GetData3:
		return "GetData3"
	case Prepare:
		return "Prepare"
	case Load0:
		return "Load0"
	case Load1:
		return "Load1"
	case Execute:
		return "Execute"
	case Store0:
		return "Store0"
	case Store1:
		return "Store1"
	default:
		return "Halted"
	}
}

// opcode is the low nibble of a fetched instruction byte. The
// enumerated names mirror the asm-tree encoding table; opcodes whose
// low nibble is 0xE or 0xF beyond the names below (the reserved
// Or/And/Invert/Shift/Rotate family) alias onto Nand or Extended and
// are executed as such — the CPU dispatches purely on the low nibble,
// so the assembler's wider encoding space for those mnemonics carries
// no additional meaning at execution time.
type opcode uint8

const (
	opLoadImmediate opcode = 0x0
	opLoadDirect    opcode = 0x1
	opStoreDirect   opcode = 0x2
	opLoadIndexed   opcode = 0x3
	opStoreIndexed  opcode = 0x4
	opTransfer      opcode = 0x5
	opPush0         opcode = 0x6
	opPush1         opcode = 0x7
	opPop0          opcode = 0x8
	opPop1          opcode = 0x9
	opAdd           opcode = 0xA
	opSub           opcode = 0xB
	opMul           opcode = 0xC
	opDivMod        opcode = 0xD
	opNand          opcode = 0xE
	opExtended      opcode = 0xF
)

// CPU is the bus device driving instruction execution. Registers are
// addressed with the same 16-entry index space the assembler encodes
// operands against (asmtree.Register).
type CPU struct {
	Registers [16]int16
	tmp2      int16

	ip uint16

	phase   Phase
	op      opcode
	r0, r1  uint8
	address uint16
	value   uint16
	opByte  uint8
}

// NewCPU returns a CPU ready to run from address 0 on its first tick.
func NewCPU() *CPU {
	return &CPU{phase: Init}
}

// Phase reports the CPU's current state-machine phase.
func (c *CPU) Phase() Phase { return c.phase }

// Halted reports whether the CPU has reached the terminal Halted phase.
func (c *CPU) Halted() bool { return c.phase == Halted }

// IP reports the CPU's current instruction pointer.
func (c *CPU) IP() uint16 { return c.ip }

// Init resets the instruction pointer. Called once before the first tick.
func (c *CPU) Init() {
	c.ip = 0
	c.phase = Fetch0
}

// Simulate advances the CPU by exactly one phase, acquiring or
// releasing bus ownership as the phase contract requires.
func (c *CPU) Simulate(bus *Bus) {
	switch c.phase {
	case Init:
		c.ip = 0
		c.phase = Fetch0

	case Fetch0:
		bus.Acquire(CPUID, Read, c.ip)
		c.ip++
		c.phase = Fetch1

	case Fetch1:
		c.opByte = byte(bus.Data)
		bus.Release()
		c.phase = Decode

	case Decode:
		c.op = opcode(c.opByte & 0x0F)
		c.r0 = c.opByte >> 4
		switch c.op {
		case opLoadImmediate, opLoadDirect, opStoreDirect:
			c.phase = GetData0
		case opTransfer:
			c.phase = GetData2
		default:
			c.phase = Prepare
		}

	case GetData0:
		bus.Acquire(CPUID, Read, c.ip)
		c.ip++
		c.phase = GetData1

	case GetData1:
		c.r0 = byte(bus.Data)
		bus.Release()
		c.phase = GetData2

	case GetData2:
		bus.Acquire(CPUID, Read, c.ip)
		c.ip++
		c.phase = GetData3

	case GetData3:
		c.r1 = byte(bus.Data)
		bus.Release()
		c.phase = Prepare

	case Prepare:
		c.address = uint16(c.r0)<<8 | uint16(c.r1)
		c.value = c.address
		c.r0 &= 0x0F
		c.r1 &= 0x0F
		switch c.op {
		case opLoadDirect, opLoadIndexed, opPop0, opPop1:
			c.phase = Load0
		default:
			c.phase = Execute
		}

	case Load0:
		bus.Acquire(CPUID, Read, c.loadAddress())
		c.phase = Load1

	case Load1:
		c.value = bus.Data
		bus.Release()
		c.phase = Execute

	case Execute:
		c.execute()

	case Store0:
		bus.Acquire(CPUID, Write, c.storeAddress())
		bus.Data = uint16(c.Registers[c.r0])
		c.phase = Store1

	case Store1:
		bus.Release()
		c.phase = Fetch0

	case Halted:
		// terminal; no-op
	}
}

func (c *CPU) loadAddress() uint16 {
	switch c.op {
	case opLoadIndexed:
		return uint16(c.Registers[asmtree.Bse]) + uint16(c.Registers[asmtree.Idx])
	case opPop0:
		return uint16(c.Registers[asmtree.Sp0])
	case opPop1:
		return uint16(c.Registers[asmtree.Sp1])
	default: // opLoadDirect
		return c.address
	}
}

func (c *CPU) storeAddress() uint16 {
	switch c.op {
	case opStoreIndexed:
		return uint16(c.Registers[asmtree.Bse]) + uint16(c.Registers[asmtree.Idx])
	case opPush0:
		return uint16(c.Registers[asmtree.Sp0])
	case opPush1:
		return uint16(c.Registers[asmtree.Sp1])
	default: // opStoreDirect
		return c.address
	}
}

func (c *CPU) execute() {
	switch c.op {
	case opLoadImmediate:
		c.tmp2 = c.Registers[asmtree.Tmp]
		c.Registers[asmtree.Tmp] = int16(c.value)
		c.r0 = uint8(asmtree.Tmp)
		c.phase = Fetch0

	case opLoadDirect, opLoadIndexed, opPop0, opPop1:
		c.tmp2 = c.Registers[asmtree.Tmp]
		c.Registers[asmtree.Tmp] = int16(c.value)
		c.phase = Fetch0

	case opStoreDirect, opPush0, opPush1:
		c.r0 = uint8(asmtree.Tmp)
		c.phase = Store0

	case opStoreIndexed:
		c.phase = Store0

	case opTransfer:
		src, tgt := asmtree.Register(c.r0), asmtree.Register(c.r1)
		if tgt == asmtree.Tmp {
			c.tmp2 = c.Registers[asmtree.Tmp]
		}
		c.Registers[tgt] = c.Registers[src]
		c.phase = Fetch0

	case opAdd:
		c.Registers[asmtree.Dst] = c.Registers[asmtree.Sc0] + c.Registers[asmtree.Sc1]
		c.phase = Fetch0

	case opSub:
		c.Registers[asmtree.Dst] = c.Registers[asmtree.Sc0] - c.Registers[asmtree.Sc1]
		c.phase = Fetch0

	case opMul:
		c.Registers[asmtree.Dst] = c.Registers[asmtree.Sc0] * c.Registers[asmtree.Sc1]
		c.phase = Fetch0

	case opDivMod:
		c.Registers[asmtree.Dst] = c.Registers[asmtree.Sc0] / c.Registers[asmtree.Sc1]
		c.tmp2 = c.Registers[asmtree.Tmp]
		c.Registers[asmtree.Tmp] = c.Registers[asmtree.Sc0] % c.Registers[asmtree.Sc1]
		c.phase = Fetch0

	case opNand:
		c.Registers[asmtree.Dst] = ^(c.Registers[asmtree.Sc0] & c.Registers[asmtree.Sc1])
		c.phase = Fetch0

	case opExtended:
		c.executeExtended()

	default:
		// Reserved Or/And/Invert/Shift/Rotate encodings never reach
		// here: their low nibble is 0xE or 0xF, already dispatched
		// above as Nand/Extended.
		c.phase = Fetch0
	}
}

func (c *CPU) executeExtended() {
	switch c.r0 {
	case 0x0:
		if c.Registers[asmtree.Cnt] <= 0 {
			c.Registers[asmtree.Lnk] = int16(c.ip)
			c.ip = uint16(c.Registers[asmtree.Tmp])
		}
		c.phase = Fetch0
	case 0x1:
		if c.Registers[asmtree.Tmp] == -1 {
			c.phase = Halted
			return
		}
		c.Registers[asmtree.Lnk] = int16(c.ip)
		c.ip = uint16(c.Registers[asmtree.Tmp])
		c.phase = Fetch0
	case 0x2:
		c.Registers[asmtree.Tmp], c.tmp2 = c.tmp2, c.Registers[asmtree.Tmp]
		c.phase = Fetch0
	default:
		c.phase = Fetch0
	}
}
