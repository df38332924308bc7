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

package parse

import (
	pc "github.com/prataprc/goparsec"
)

// grammar is the top-level parser combinator tree for cs8 assembly.
// It is built once, at package initialisation, and shared by every
// Parser.
var grammar = pc.NewAST("cs8asm", 0)

var (
	pComment = grammar.And("comment", nil, pc.Atom(";", ";"), pc.Token(`(?m)[^\n]*`, "COMMENT"))

	pIdent  = pc.Token(`[A-Za-z_][A-Za-z0-9_]*`, "IDENT")
	pNumber = pc.TokenExact(`0[xX][0-9a-fA-F]+|-?[0-9]+`, "NUMBER")
	pString = pc.TokenExact(`"([^"\\]|\\.)*"`, "STRING")

	pOperand = grammar.OrdChoice("operand", nil, pString, pNumber, pIdent)

	pOperandList = grammar.Maybe("operand-list", nil,
		grammar.And("operands", nil, pOperand,
			grammar.Kleene("operand-tail", nil,
				grammar.And("operand-item", nil, pc.Atom(",", ","), pOperand))))

	pLabelDecl = grammar.And("label-decl", nil, pIdent, pc.Atom(":", ":"))

	pDirective = grammar.And("directive", nil, pc.Atom(".", "."), pIdent, pOperandList)

	pInstruction = grammar.And("instruction", nil, pIdent, pOperandList)

	pParamList = grammar.Maybe("param-list", nil,
		grammar.And("params", nil, pIdent,
			grammar.Kleene("param-tail", nil,
				grammar.And("param-item", nil, pc.Atom(",", ","), pIdent))))

	pMacroLine = grammar.OrdChoice("macro-line", nil, pComment, pLabelDecl, pInstruction)

	pMacroDef = grammar.And("macro-def", nil,
		pc.Atom(".macro", ".macro"), pIdent,
		pc.Atom("(", "("), pParamList, pc.Atom(")", ")"),
		grammar.Kleene("macro-body", nil, pMacroLine),
		pc.Atom(".endmacro", ".endmacro"))

	pLine = grammar.OrdChoice("line", nil, pComment, pMacroDef, pLabelDecl, pDirective, pInstruction)

	pProgram = grammar.ManyUntil("program", nil, pLine, pc.End())
)
