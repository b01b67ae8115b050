// Package formula evaluates small user-supplied numeric expressions over a
// fixed set of bound variables.
//
// Expressions are compiled with expr-lang/expr against an environment that
// holds only the declared variables, the constants PI and E and a whitelist of
// math functions. Nothing else from the process is reachable, and identifiers
// outside that environment fail at compile time.
package formula

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"

	"github.com/picogrid/param-sweep/pkg/models"
)

// ErrNotANumber is returned by EvalFloat when the expression produced
// something other than a finite number.
var ErrNotANumber = errors.New("result is not a finite number")

// mathPrefix lets expressions written as Math.sin(x) compile unchanged.
var mathPrefix = regexp.MustCompile(`\bMath\.`)

var constants = map[string]interface{}{
	"PI": math.Pi,
	"E":  math.E,
}

var unary = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"exp":   math.Exp,
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"trunc": math.Trunc,
	"sign":  sign,
}

var binary = map[string]func(float64, float64) float64{
	"atan2": math.Atan2,
	"pow":   math.Pow,
	"hypot": math.Hypot,
}

// builtins are the expr built-in functions left enabled. Everything else,
// including clock, string and collection helpers, is disabled.
var builtins = []string{"abs", "ceil", "floor", "round", "min", "max"}

// envGuard rejects references to the whole environment.
type envGuard struct {
	err error
}

func (g *envGuard) Visit(node *ast.Node) {
	if ident, ok := (*node).(*ast.IdentifierNode); ok && ident.Value == "$env" && g.err == nil {
		g.err = errors.New("unknown name $env")
	}
}

// Functions returns the names of the whitelisted functions.
func Functions() []string {
	names := make([]string, 0, len(unary)+len(binary)+len(builtins))
	names = append(names, builtins...)
	for name := range unary {
		names = append(names, name)
	}
	for name := range binary {
		names = append(names, name)
	}
	return names
}

// Formula is a compiled expression.
type Formula struct {
	src     string
	vars    []string
	program *vm.Program
}

// Compile parses src with the given variable names bound. An empty source is
// an error.
func Compile(src string, vars ...string) (*Formula, error) {
	source := strings.TrimSpace(src)
	if source == "" {
		return nil, errors.New("empty expression")
	}
	source = mathPrefix.ReplaceAllString(source, "")

	guard := &envGuard{}
	options := []expr.Option{
		expr.Env(sampleEnv(vars)),
		expr.DisableAllBuiltins(),
		expr.Patch(guard),
	}
	for _, name := range builtins {
		options = append(options, expr.EnableBuiltin(name))
	}
	for name, fn := range unary {
		options = append(options, expr.Function(name, wrapUnary(name, fn)))
	}
	for name, fn := range binary {
		options = append(options, expr.Function(name, wrapBinary(name, fn)))
	}

	program, err := expr.Compile(source, options...)
	if guard.err != nil {
		return nil, guard.err
	}
	if err != nil {
		return nil, err
	}
	return &Formula{src: src, vars: vars, program: program}, nil
}

// Source returns the expression as written.
func (f *Formula) Source() string { return f.src }

// Eval runs the expression with vars bound. Unknown keys are ignored and
// missing declared variables are bound to zero.
func (f *Formula) Eval(vars map[string]interface{}) (interface{}, error) {
	env := sampleEnv(f.vars)
	for _, name := range f.vars {
		if v, ok := vars[name]; ok {
			env[name] = v
		}
	}
	out, err := expr.Run(f.program, env)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EvalFloat runs the expression and requires a finite numeric result.
func (f *Formula) EvalFloat(vars map[string]interface{}) (float64, error) {
	out, err := f.Eval(vars)
	if err != nil {
		return 0, err
	}
	v, ok := models.AsFloat(out)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	return v, nil
}

func sampleEnv(vars []string) map[string]interface{} {
	env := make(map[string]interface{}, len(vars)+len(constants))
	for k, v := range constants {
		env[k] = v
	}
	for _, name := range vars {
		env[name] = 0.0
	}
	return env
}

func wrapUnary(name string, fn func(float64) float64) func(params ...interface{}) (interface{}, error) {
	return func(params ...interface{}) (interface{}, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		a, err := argument(name, params[0])
		if err != nil {
			return nil, err
		}
		return fn(a), nil
	}
}

func wrapBinary(name string, fn func(float64, float64) float64) func(params ...interface{}) (interface{}, error) {
	return func(params ...interface{}) (interface{}, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(params))
		}
		a, err := argument(name, params[0])
		if err != nil {
			return nil, err
		}
		b, err := argument(name, params[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	}
}

func argument(name string, v interface{}) (float64, error) {
	f, ok := models.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("%s: argument %v is not a number", name, v)
	}
	return f, nil
}

func sign(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v
	}
}
