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

// Package vm is the cs8 emulator core: a Bus shared by a CPU and a set
// of peripheral Devices, driven one tick at a time by a Machine.
//
// The Bus is a plain mutable record (Address, Data, Mode, Owner); it
// carries no synchronization because the Machine invokes every
// device's Simulate in a fixed order, sequentially, once per tick.
// The CPU is itself a Device: it drives the instruction cycle through
// an explicit Phase state machine: on one tick it acquires the bus and
// sets an address, the devices after it in the order service the
// request on that same tick, and on its following tick the CPU latches
// the result and releases the bus.
package vm
