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

import (
	"strconv"

	"github.com/mkroboth/cs8/ast"
	"github.com/pkg/errors"
)

// Transform runs the label scan, line translation and numbering
// sub-phases over an expanded ast.Root, producing a Tree ready for
// emission.
func Transform(root *ast.Root) (*Tree, error) {
	labels := scanLabels(root.Lines)

	nodes := make([]Node, 0, len(root.Lines))
	for _, line := range root.Lines {
		node, err := translateLine(line, labels)
		if err != nil {
			return nil, errors.Wrap(err, "translating line")
		}
		nodes = append(nodes, node)
	}

	resolved := numberAndBackpatch(nodes)

	return &Tree{Nodes: nodes, Labels: resolved}, nil
}

// scanLabels collects every Label line's name into a set, so the line
// translator can tell a label reference apart from an undefined
// symbol.
func scanLabels(lines []ast.Line) map[string]bool {
	labels := make(map[string]bool)
	for _, line := range lines {
		if l, ok := line.(ast.Label); ok {
			labels[l.Name] = true
		}
	}
	return labels
}

func translateLine(line ast.Line, labels map[string]bool) (Node, error) {
	switch l := line.(type) {
	case ast.Label:
		return Label{Name: l.Name}, nil
	case ast.Directive:
		return translateDirective(l), nil
	case ast.Instruction:
		return translateInstruction(l, labels)
	default:
		return nil, errors.Errorf("invalid line node %T", line)
	}
}

// translateDirective flattens a Directive's structured parameters to
// strings: Register/Symbol by name, Number by decimal text, String as
// one arg per character (its decimal byte value).
func translateDirective(d ast.Directive) Directive {
	args := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		switch v := p.(type) {
		case ast.Register:
			args = append(args, v.Name)
		case ast.Symbol:
			args = append(args, v.Name)
		case ast.Number:
			args = append(args, strconv.Itoa(v.Value))
		case ast.String:
			for _, c := range []byte(v.Text) {
				args = append(args, strconv.Itoa(int(c)))
			}
		}
	}
	return Directive{Name: d.Name, Args: args}
}

type instructionBuilder func(ast.Instruction, map[string]bool) (Instruction, error)

var instructionBuilders = map[string]instructionBuilder{
	"limm":   buildLoadImmediate,
	"lmem":   buildLoadDirect,
	"smem":   buildStoreDirect,
	"lidx":   func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "lidx", LoadIndexed{}) },
	"sidx":   func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "sidx", StoreIndexed{}) },
	"add":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "add", Add{}) },
	"sub":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "sub", Sub{}) },
	"mul":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "mul", Mul{}) },
	"divmod": func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "divmod", DivMod{}) },
	"nand":   func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "nand", Nand{}) },
	"or":     func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "or", Or{}) },
	"and":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "and", And{}) },
	"invert": func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "invert", Invert{}) },
	"shl":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "shl", ShiftLeft{}) },
	"shr":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "shr", ShiftRight{}) },
	"rol":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "rol", RotateLeft{}) },
	"ror":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "ror", RotateRight{}) },
	"jle":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "jle", JumpIfLE{}) },
	"jmp":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "jmp", Jump{}) },
	"rtm":    func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildNoArg(i, "rtm", RestoreTMP{}) },
	"tr":     buildTransfer,
	"psh0":   func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildRegisterOp(i, "psh0", func(r Register) Instruction { return Push0{Source: r} }) },
	"psh1":   func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildRegisterOp(i, "psh1", func(r Register) Instruction { return Push1{Source: r} }) },
	"pop0":   func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildRegisterOp(i, "pop0", func(r Register) Instruction { return Pop0{Source: r} }) },
	"pop1":   func(i ast.Instruction, _ map[string]bool) (Instruction, error) { return buildRegisterOp(i, "pop1", func(r Register) Instruction { return Pop1{Source: r} }) },
}

func translateInstruction(inst ast.Instruction, labels map[string]bool) (Node, error) {
	builder, ok := instructionBuilders[inst.Name]
	if !ok {
		return nil, &UnknownInstructionError{Name: inst.Name}
	}
	return builder(inst, labels)
}

func requireParamCount(inst ast.Instruction, required int) error {
	if len(inst.Params) != required {
		return &InvalidInstructionParameterCountError{Name: inst.Name, Expected: required, Actual: len(inst.Params)}
	}
	return nil
}

func buildNoArg(inst ast.Instruction, name string, node Instruction) (Instruction, error) {
	if err := requireParamCount(inst, 0); err != nil {
		return nil, err
	}
	return node, nil
}

func buildRegisterOp(inst ast.Instruction, name string, build func(Register) Instruction) (Instruction, error) {
	if err := requireParamCount(inst, 1); err != nil {
		return nil, err
	}
	reg, ok := inst.Params[0].(ast.Register)
	if !ok {
		return nil, &InvalidParameterKindError{Name: name, ParamIndex: 0, Expected: "Register"}
	}
	r, err := RegisterFromName(reg.Name)
	if err != nil {
		return nil, err
	}
	return build(r), nil
}

func buildTransfer(inst ast.Instruction, _ map[string]bool) (Instruction, error) {
	if err := requireParamCount(inst, 2); err != nil {
		return nil, err
	}
	src, ok := inst.Params[0].(ast.Register)
	if !ok {
		return nil, &InvalidParameterKindError{Name: "tr", ParamIndex: 0, Expected: "Register"}
	}
	tgt, ok := inst.Params[1].(ast.Register)
	if !ok {
		return nil, &InvalidParameterKindError{Name: "tr", ParamIndex: 1, Expected: "Register"}
	}
	srcReg, err := RegisterFromName(src.Name)
	if err != nil {
		return nil, err
	}
	tgtReg, err := RegisterFromName(tgt.Name)
	if err != nil {
		return nil, err
	}
	return Transfer{Source: srcReg, Target: tgtReg}, nil
}

// numberOrSymbol resolves a limm/lmem/smem operand, which is either a
// Number literal or a Symbol that must already be a known label.
func numberOrSymbol(inst ast.Instruction, name string, labels map[string]bool) (value uint16, label string, hasLabel bool, err error) {
	if err := requireParamCount(inst, 1); err != nil {
		return 0, "", false, err
	}
	switch p := inst.Params[0].(type) {
	case ast.Number:
		return uint16(p.Value), "", false, nil
	case ast.Symbol:
		if !labels[p.Name] {
			return 0, "", false, &UnknownSymbolError{Name: p.Name}
		}
		return 0, p.Name, true, nil
	default:
		return 0, "", false, &InvalidParameterKindError{Name: name, ParamIndex: 0, Expected: "Number or Symbol"}
	}
}

func buildLoadImmediate(inst ast.Instruction, labels map[string]bool) (Instruction, error) {
	v, label, hasLabel, err := numberOrSymbol(inst, "limm", labels)
	if err != nil {
		return nil, err
	}
	return LoadImmediate{Immediate: v, Label: label, HasLabel: hasLabel, Resolved: !hasLabel}, nil
}

func buildLoadDirect(inst ast.Instruction, labels map[string]bool) (Instruction, error) {
	v, label, hasLabel, err := numberOrSymbol(inst, "lmem", labels)
	if err != nil {
		return nil, err
	}
	return LoadDirect{Address: v, Label: label, HasLabel: hasLabel, Resolved: !hasLabel}, nil
}

func buildStoreDirect(inst ast.Instruction, labels map[string]bool) (Instruction, error) {
	v, label, hasLabel, err := numberOrSymbol(inst, "smem", labels)
	if err != nil {
		return nil, err
	}
	return StoreDirect{Address: v, Label: label, HasLabel: hasLabel, Resolved: !hasLabel}, nil
}

// numberAndBackpatch assigns every Label its (section, offset), then
// resolves label-carrying instructions against the resulting map.
// nodes is mutated in place: Label and LoadImmediate/LoadDirect/
// StoreDirect entries are replaced by their numbered/resolved copies.
func numberAndBackpatch(nodes []Node) map[string]LabelPosition {
	sections := map[string]int{"flat": 0}
	currentSection := "flat"
	positions := make(map[string]LabelPosition)

	for i, node := range nodes {
		switch n := node.(type) {
		case Label:
			pos := LabelPosition{Offset: sections[currentSection], Section: currentSection}
			positions[n.Name] = pos
			nodes[i] = Label{Name: n.Name, Section: pos.Section, Position: pos.Offset, Resolved: true}
		case Instruction:
			sections[currentSection] += n.Len()
		case Directive:
			switch n.Name {
			case "section":
				name := n.Args[0]
				if _, ok := sections[name]; !ok {
					base, _ := strconv.Atoi(n.Args[1])
					sections[name] = base
				}
				currentSection = name
			case "skip":
				amount, _ := strconv.Atoi(n.Args[0])
				sections[currentSection] += amount
			case "byte":
				sections[currentSection]++
			case "word":
				sections[currentSection] += 2
			case "bytes":
				sections[currentSection] += len(n.Args)
			}
		}
	}

	for i, node := range nodes {
		switch n := node.(type) {
		case LoadImmediate:
			if n.HasLabel {
				if pos, ok := positions[n.Label]; ok {
					nodes[i] = LoadImmediate{Immediate: uint16(pos.Offset), Label: n.Label, HasLabel: true, Resolved: true}
				}
			}
		case LoadDirect:
			if n.HasLabel {
				if pos, ok := positions[n.Label]; ok {
					nodes[i] = LoadDirect{Address: uint16(pos.Offset), Label: n.Label, HasLabel: true, Resolved: true}
				}
			}
		case StoreDirect:
			if n.HasLabel {
				if pos, ok := positions[n.Label]; ok {
					nodes[i] = StoreDirect{Address: uint16(pos.Offset), Label: n.Label, HasLabel: true, Resolved: true}
				}
			}
		}
	}

	return positions
}
