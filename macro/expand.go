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

package macro

import (
	"github.com/mkroboth/cs8/ast"
	"github.com/pkg/errors"
)

// Expand rewrites root's line stream in place, replacing every macro
// invocation with the macro's expanded body, until a pass performs zero
// replacements. Redact tombstones left behind by expansion are removed
// before Expand returns.
func Expand(root *ast.Root) error {
	defs := scan(root.Macros)

	lines := root.Lines
	for {
		next, replaced, err := expandOnce(lines, defs)
		if err != nil {
			return errors.Wrap(err, "macro expansion failed")
		}
		lines = next
		if replaced == 0 {
			break
		}
	}
	root.Lines = cleanup(lines)
	return nil
}

// scan builds a name -> definition lookup from the root's macro list.
// On a duplicate name, the later definition in the list wins.
func scan(macros []ast.Macro) map[string]*ast.Macro {
	m := make(map[string]*ast.Macro, len(macros))
	for i := range macros {
		def := macros[i]
		m[def.Name] = &def
	}
	return m
}

// expandOnce performs a single expansion pass over lines, returning the
// rewritten line stream and the number of invocations it replaced.
func expandOnce(lines []ast.Line, defs map[string]*ast.Macro) ([]ast.Line, int, error) {
	out := make([]ast.Line, 0, len(lines))
	replaced := 0

	for _, line := range lines {
		inst, ok := line.(ast.Instruction)
		if !ok {
			out = append(out, line)
			continue
		}
		def, ok := defs[inst.Name]
		if !ok {
			out = append(out, line)
			continue
		}
		if len(inst.Params) != len(def.Params) {
			return nil, 0, &ArityMismatchError{Macro: inst.Name, Expected: len(def.Params), Actual: len(inst.Params)}
		}

		actuals := make(map[string]ast.Parameter, len(def.Params))
		for i, formal := range def.Params {
			actuals[formal] = inst.Params[i]
		}

		for _, bodyLine := range def.Lines {
			out = append(out, substitute(bodyLine.Clone(), actuals))
		}
		out = append(out, ast.Redact{})
		replaced++
	}
	return out, replaced, nil
}

// substitute replaces every ReplaceSymbol parameter in an Instruction
// line with a deep copy of the corresponding actual parameter. Other
// line kinds carry no ReplaceSymbol parameters and pass through as-is.
func substitute(line ast.Line, actuals map[string]ast.Parameter) ast.Line {
	inst, ok := line.(ast.Instruction)
	if !ok {
		return line
	}
	for i, p := range inst.Params {
		rs, ok := p.(ast.ReplaceSymbol)
		if !ok {
			continue
		}
		if actual, ok := actuals[rs.Name]; ok {
			inst.Params[i] = actual.Clone()
		}
	}
	return inst
}

// cleanup drops every Redact tombstone from the line stream.
func cleanup(lines []ast.Line) []ast.Line {
	out := make([]ast.Line, 0, len(lines))
	for _, l := range lines {
		if _, ok := l.(ast.Redact); ok {
			continue
		}
		out = append(out, l)
	}
	return out
}
