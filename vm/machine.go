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

// Machine owns the Bus and the fixed-order Device list: CPU first,
// then every other device in the order they were given. Run drives
// Devices' Simulate once per tick until the CPU halts.
type Machine struct {
	Bus     Bus
	CPU     *CPU
	Devices []Device
}

// NewMachine builds a Machine with cpu first in the device order,
// followed by peripherals, matching the reference invocation order
// (CPU, then memory, then serial).
func NewMachine(cpu *CPU, peripherals ...Device) *Machine {
	devices := make([]Device, 0, len(peripherals)+1)
	devices = append(devices, cpu)
	devices = append(devices, peripherals...)
	return &Machine{CPU: cpu, Devices: devices}
}

// Init calls Init on every device, in order, once.
func (m *Machine) Init() {
	for _, d := range m.Devices {
		d.Init()
	}
}

// Tick runs one simulation step: every device's Simulate is invoked
// exactly once, in registration order.
func (m *Machine) Tick() {
	for _, d := range m.Devices {
		d.Simulate(&m.Bus)
	}
}

// Run ticks until the CPU halts.
func (m *Machine) Run() {
	for !m.CPU.Halted() {
		m.Tick()
	}
}
