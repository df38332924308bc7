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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkroboth/cs8/asmtree"
	"github.com/mkroboth/cs8/elfobj"
	"github.com/mkroboth/cs8/macro"
	"github.com/mkroboth/cs8/parse"
	"github.com/pkg/errors"
	"github.com/teris-io/cli"
)

var description = strings.ReplaceAll(`
The cs8 assembler reads a single cs8 assembly source file, expands its
macros, resolves labels in two passes, and emits an ELF64 object named
out.elf in the current directory.
`, "\n", " ")

var assembler = cli.New(description).
	WithArg(cli.NewArg("input", "The assembly source file to assemble")).
	WithAction(assemble)

func assemble(args []string, options map[string]string) int {
	input := args[0]
	abs, err := filepath.Abs(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	dir, name := filepath.Dir(abs), filepath.Base(abs)
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	defer os.Chdir(cwd)

	obj, err := assembleFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		return 1
	}

	out, err := os.Create(filepath.Join(cwd, "out.elf"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	defer out.Close()

	if err := elfobj.WriteELF(out, obj); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		return 1
	}
	return 0
}

func assembleFile(name string) (*elfobj.Object, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "opening source")
	}
	defer f.Close()

	root, err := parse.NewParser(name).Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, "parsing source")
	}

	if err := macro.Expand(root); err != nil {
		return nil, err
	}

	tree, err := asmtree.Transform(root)
	if err != nil {
		return nil, err
	}

	obj, err := elfobj.Emit(tree)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func main() { os.Exit(assembler.Run(os.Args, os.Stdout)) }
