// Package challenge checks submitted JavaScript solutions against a task's
// test cases. Code runs in an isolated goja VM with no host bindings; each
// case is interrupted when it exceeds the configured timeout.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/dop251/goja"

	"codeamongus/internal/domain"
)

const (
	// DefaultTimeout bounds a single test case run
	DefaultTimeout = 2 * time.Second

	maxCallStackSize = 1024
)

// ErrorKind distinguishes why a submission failed before or while running
type ErrorKind string

const (
	ErrorKindNone    ErrorKind = ""
	ErrorKindSyntax  ErrorKind = "syntax"
	ErrorKindRuntime ErrorKind = "runtime"
)

var (
	functionName = regexp.MustCompile(`function\s+(\w+)`)
	integerInput = regexp.MustCompile(`^-?\d+$`)

	errNoFunction = errors.New("no function declaration found")
	errTimeout    = errors.New("execution timed out")
)

// CaseResult is the outcome of a single test case
type CaseResult struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	ActualOutput   string `json:"actualOutput"`
	Passed         bool   `json:"passed"`
}

// Result is the outcome of validating a submission
type Result struct {
	Success     bool         `json:"success"`
	Error       string       `json:"error,omitempty"`
	ErrorKind   ErrorKind    `json:"errorKind,omitempty"`
	TestResults []CaseResult `json:"testResults"`
}

// Evaluator runs submissions against test cases
type Evaluator struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewEvaluator creates an evaluator with the given per-case timeout
func NewEvaluator(timeout time.Duration, logger *slog.Logger) *Evaluator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Evaluator{
		timeout: timeout,
		logger:  logger,
	}
}

// Validate compiles code, runs its first declared function once per test
// case and compares String(result) with the expected output.
func (e *Evaluator) Validate(ctx context.Context, code string, cases []domain.TestCase) Result {
	match := functionName.FindStringSubmatch(code)
	if match == nil {
		return syntaxFailure(errNoFunction)
	}
	name := match[1]

	program, err := goja.Compile("solution.js", code, false)
	if err != nil {
		return syntaxFailure(err)
	}

	// Top-level code that throws fails the whole submission once
	_, release, err := e.load(ctx, program)
	if err != nil {
		return syntaxFailure(err)
	}
	release()

	results := make([]CaseResult, 0, len(cases))
	success := true
	kind := ErrorKindNone

	for _, tc := range cases {
		res := CaseResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		}

		out, err := e.runCase(ctx, program, name, tc.Input)
		if err != nil {
			res.ActualOutput = "Error: " + err.Error()
			kind = ErrorKindRuntime
		} else {
			res.ActualOutput = out
			res.Passed = out == tc.ExpectedOutput
		}

		if !res.Passed {
			success = false
		}
		results = append(results, res)
	}

	if e.logger != nil {
		e.logger.Debug("solution validated", "function", name, "cases", len(cases), "success", success)
	}

	return Result{
		Success:     success,
		ErrorKind:   kind,
		TestResults: results,
	}
}

// load runs program in a fresh VM that is interrupted once the case
// timeout passes. release must be called when the VM is no longer used.
func (e *Evaluator) load(ctx context.Context, program *goja.Program) (*goja.Runtime, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)

	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStackSize)
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(errTimeout)
	})
	release := func() {
		stop()
		cancel()
	}

	if _, err := vm.RunProgram(program); err != nil {
		release()
		return nil, nil, describe(err)
	}
	return vm, release, nil
}

// runCase executes one call of the named function in a fresh VM
func (e *Evaluator) runCase(ctx context.Context, program *goja.Program, name, input string) (string, error) {
	vm, release, err := e.load(ctx, program)
	if err != nil {
		return "", err
	}
	defer release()

	fn, ok := goja.AssertFunction(vm.Get(name))
	if !ok {
		return "", fmt.Errorf("%s is not a function", name)
	}
	toString, ok := goja.AssertFunction(vm.Get("String"))
	if !ok {
		return "", errors.New("String is not a function")
	}

	value, err := fn(goja.Undefined(), vm.ToValue(coerceInput(input)))
	if err != nil {
		return "", describe(err)
	}

	// String() may run the result's own toString or valueOf
	out, err := toString(goja.Undefined(), value)
	if err != nil {
		return "", describe(err)
	}
	return out.String(), nil
}

// coerceInput passes integer-looking inputs as numbers
func coerceInput(input string) interface{} {
	if integerInput.MatchString(input) {
		if n, err := strconv.ParseInt(input, 10, 64); err == nil {
			return n
		}
	}
	return input
}

// describe reduces goja errors to their JavaScript message
func describe(err error) error {
	var exception *goja.Exception
	if errors.As(err, &exception) {
		if obj, ok := exception.Value().(*goja.Object); ok {
			if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
				return errors.New(msg.String())
			}
		}
		return errors.New(exception.Value().String())
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return errTimeout
	}
	return err
}

func syntaxFailure(err error) Result {
	return Result{
		Success:     false,
		Error:       "Syntax Error: " + err.Error(),
		ErrorKind:   ErrorKindSyntax,
		TestResults: []CaseResult{},
	}
}
