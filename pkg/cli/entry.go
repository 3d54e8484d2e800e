// Package cli implements the lamb command line: parsing, type checking
// and costing program files against a domain signature.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/diagnostics"
	"github.com/funvibe/lamb/internal/dsl"
	"github.com/funvibe/lamb/internal/expr"
	"github.com/funvibe/lamb/internal/infer"
)

const usage = `usage: lamb <command> [--dsl signature.yaml] <file>

commands:
  parse   print each program in canonical form
  check   infer a type for each program against the signature
  cost    print each program's total cost

Program files hold one program per line; blank lines and lines starting
with ';' are skipped. Without --dsl, a ` + config.DefaultSignatureFile + `
next to the file is used when present, else the built-in simple domain.`

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	out := diagnostics.NewPrinter(os.Stdout)
	errOut := diagnostics.NewPrinter(os.Stderr)

	var command, file, dslPath string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--dsl":
			if i+1 >= len(args) {
				errOut.Errorf("--dsl needs a path")
				return 2
			}
			i++
			dslPath = args[i]
		case strings.HasPrefix(arg, "--dsl="):
			dslPath = strings.TrimPrefix(arg, "--dsl=")
		case arg == "-h" || arg == "--help" || arg == "help":
			out.Infof("%s", usage)
			return 0
		case command == "":
			command = arg
		case file == "":
			file = arg
		default:
			errOut.Errorf("unexpected argument %q", arg)
			return 2
		}
	}
	if command == "" || file == "" {
		errOut.Infof("%s", usage)
		return 2
	}

	if !knownExtension(file) {
		errOut.Dimf("note: %s does not have a recognized program extension %v", file, config.SourceFileExtensions)
	}

	sig, err := loadSignature(dslPath, file)
	if err != nil {
		errOut.Errorf("%v", err)
		return 1
	}
	programs, err := readPrograms(file)
	if err != nil {
		errOut.Errorf("%v", err)
		return 1
	}

	switch command {
	case "parse":
		return runParse(out, errOut, programs)
	case "check":
		return runCheck(out, errOut, file, programs, sig)
	case "cost":
		return runCost(out, errOut, programs, sig)
	default:
		errOut.Errorf("unknown command %q", command)
		return 2
	}
}

func knownExtension(file string) bool {
	ext := filepath.Ext(file)
	for _, known := range config.SourceFileExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

func loadSignature(dslPath, file string) (dsl.Signature, error) {
	if dslPath != "" {
		return dsl.LoadFile(dslPath)
	}
	neighbor := filepath.Join(filepath.Dir(file), config.DefaultSignatureFile)
	if _, err := os.Stat(neighbor); err == nil {
		return dsl.LoadFile(neighbor)
	}
	return dsl.Simple(), nil
}

func readPrograms(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var programs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		programs = append(programs, line)
	}
	return programs, nil
}

func runParse(out, errOut *diagnostics.Printer, programs []string) int {
	code := 0
	set := expr.NewExprSet(expr.ChildFirst, false)
	for _, program := range programs {
		root, err := set.ParseExtend(program)
		if err != nil {
			errOut.Errorf("%v", err)
			code = 1
			continue
		}
		out.Infof("%s", set.Get(root))
	}
	return code
}

func runCheck(out, errOut *diagnostics.Printer, file string, programs []string, sig dsl.Signature) int {
	out.Dimf("check %s run %s", file, uuid.NewString())
	failed := 0
	for _, program := range programs {
		tp, err := infer.InferParsed(program, sig)
		if err != nil {
			out.Failf("%s: %v", program, err)
			failed++
			continue
		}
		out.Passf("%s : %s", program, tp)
	}
	if failed > 0 {
		out.Infof("%d of %d programs failed", failed, len(programs))
		return 1
	}
	return 0
}

func runCost(out, errOut *diagnostics.Printer, programs []string, sig dsl.Signature) int {
	costs := programCost(sig)
	code := 0
	set := expr.NewExprSet(expr.ChildFirst, true)
	for _, program := range programs {
		root, err := set.ParseExtend(program)
		if err != nil {
			errOut.Errorf("%v", err)
			code = 1
			continue
		}
		total, err := set.CostSpan(root, &costs)
		if err != nil {
			errOut.Errorf("%v", err)
			code = 1
			continue
		}
		out.Infof("%d\t%s", total, set.Get(root))
	}
	return code
}

// programCost extracts a cost model from a signature; tables carry their
// own per-primitive mapping, anything else gets the standard model.
func programCost(sig dsl.Signature) expr.ProgramCost {
	if t, ok := sig.(*dsl.Table); ok {
		return t.ProgramCost()
	}
	return expr.DefaultCost()
}
