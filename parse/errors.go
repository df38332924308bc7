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

import "fmt"

// SyntaxError reports a source file that goparsec could not reduce to
// end of input.
type SyntaxError struct {
	Filename string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error", e.Filename)
}

// UnexpectedNodeError reports a parser-combinator AST node of a kind
// fromAST did not expect at that position.
type UnexpectedNodeError struct {
	Expected string
	Got      string
}

func (e *UnexpectedNodeError) Error() string {
	return fmt.Sprintf("expected node %q, got %q", e.Expected, e.Got)
}
