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

package asmtree

import "fmt"

// UnknownInstructionError reports a mnemonic absent from the decoder
// table. It is not raised by the macro expander -- an unrecognised
// mnemonic passes straight through macro expansion and only becomes an
// error here, at translation time.
type UnknownInstructionError struct {
	Name string
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown instruction %q", e.Name)
}

// InvalidInstructionParameterCountError reports an arity mismatch
// between an instruction's parameter list and its mnemonic's required
// count.
type InvalidInstructionParameterCountError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *InvalidInstructionParameterCountError) Error() string {
	return fmt.Sprintf("instruction %q: expected %d parameter(s), got %d", e.Name, e.Expected, e.Actual)
}

// InvalidParameterKindError reports a parameter of the wrong variant
// for its position, e.g. a Number where a Register is required.
type InvalidParameterKindError struct {
	Name       string
	ParamIndex int
	Expected   string
}

func (e *InvalidParameterKindError) Error() string {
	return fmt.Sprintf("instruction %q: parameter %d must be %s", e.Name, e.ParamIndex, e.Expected)
}

// UnknownSymbolError reports a Symbol parameter that names neither a
// label nor (by the time it reaches this package) a macro formal.
type UnknownSymbolError struct {
	Name string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("symbol %q is not a label", e.Name)
}

// UnresolvedLabelError reports a label-referencing instruction whose
// label never appeared in the numbering pass's label map.
type UnresolvedLabelError struct {
	Name string
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("unresolved label %q", e.Name)
}

// UnknownRegisterError reports a register mnemonic outside the 16
// machine register names.
type UnknownRegisterError struct {
	Name string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("unknown register %q", e.Name)
}
