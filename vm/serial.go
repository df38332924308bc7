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
	"bufio"
	"io"
)

// SerialID is the fixed DeviceID of the serial port device.
const SerialID DeviceID = 3

// SerialPort is a one-byte-wide device mapped at a single bus address.
// A read blocks until one byte is available from In; a write sends the
// low byte of Bus.Data to Out and flushes it. Putting raw-mode terminal
// setup outside this type keeps it usable against any io.Reader/Writer,
// including the pipes used by tests.
type SerialPort struct {
	Address uint16
	In      *bufio.Reader
	Out     *bufio.Writer
}

// NewSerialPort wraps in/out for byte-at-a-time transfer at address.
func NewSerialPort(address uint16, in io.Reader, out io.Writer) *SerialPort {
	return &SerialPort{
		Address: address,
		In:      bufio.NewReader(in),
		Out:     bufio.NewWriter(out),
	}
}

// Init is a no-op; SerialPort has no internal phase to reset.
func (s *SerialPort) Init() {}

// Simulate services a pending Read or Write at s.Address. A read error
// (including EOF) latches zero, matching the convention that input
// exhaustion looks like a stream of idle bytes rather than a crash.
func (s *SerialPort) Simulate(bus *Bus) {
	if bus.Address != s.Address {
		return
	}
	switch bus.Mode {
	case Read:
		b, err := s.In.ReadByte()
		if err != nil {
			bus.Data = 0
			return
		}
		bus.Data = uint16(b)
	case Write:
		s.Out.WriteByte(byte(bus.Data))
		s.Out.Flush()
	}
}
