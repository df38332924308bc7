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

//go:build !windows

package main

import (
	"syscall"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
)

// stdinFD is the file descriptor SerialPort reads from: the emulator
// always wires the serial device to the process's own standard input.
const stdinFD = 0

// byteOrientedTermios mutates t so the line discipline stops doing
// anything the serial device is itself responsible for. SerialPort's
// contract is one raw byte per Read tick, with no host-side notion of
// a line or a control character: the cs8 program on the other end of
// the bus is the only thing entitled to decide what an incoming byte
// means, so nothing in the terminal driver may buffer, edit, echo, or
// reinterpret bytes before they reach it.
func byteOrientedTermios(t *syscall.Termios) {
	// A line editor (canonical mode, extended input processing, local
	// echo) would hold bytes back until a line is "complete" and show
	// the user their own keystrokes -- both decisions belong to the
	// emulated program, not the host tty.
	t.Lflag &^= syscall.ICANON | syscall.IEXTEN | syscall.ECHO

	// Flow-control characters (XON/XOFF) pass through as ordinary data
	// bytes and the eighth bit is kept. A break condition is not ignored
	// but raises SIGINT (BRKINT), and bytes with parity errors are
	// dropped (IGNPAR).
	t.Iflag &^= syscall.IGNBRK | syscall.ISTRIP | syscall.IXON | syscall.IXOFF
	t.Iflag |= syscall.BRKINT | syscall.IGNPAR

	// Every read should return as soon as a single byte is available;
	// there is no minimum line length or inter-byte timeout to wait on.
	t.Cc[syscall.VMIN] = 1
	t.Cc[syscall.VTIME] = 0
}

// setRawIO puts stdin into the byte-oriented mode SerialPort expects
// and returns a func that restores whatever mode stdin was in before.
func setRawIO() (func(), error) {
	var original syscall.Termios
	if err := termios.Tcgetattr(stdinFD, &original); err != nil {
		return nil, errors.Wrap(err, "reading current terminal settings")
	}

	modified := original
	byteOrientedTermios(&modified)
	if err := termios.Tcsetattr(stdinFD, termios.TCSANOW, &modified); err != nil {
		// best-effort: the driver may already be in a half-applied
		// state, so attempt to put it back the way we found it.
		termios.Tcsetattr(stdinFD, termios.TCSANOW, &original)
		return nil, errors.Wrap(err, "applying byte-oriented terminal settings")
	}

	return func() {
		termios.Tcsetattr(stdinFD, termios.TCSANOW, &original)
	}, nil
}
