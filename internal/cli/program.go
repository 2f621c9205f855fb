package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"calculator-brain/internal/brain"
	"calculator-brain/internal/keypad"
)

// ProgramFile is the on-disk form of a program: variable bindings plus the
// token list. Files ending in .json are read as JSON, anything else as YAML.
type ProgramFile struct {
	Variables map[string]float64 `json:"variables,omitempty" yaml:"variables,omitempty"`
	Program   []brain.Token      `json:"program" yaml:"program"`
}

// Evaluation is the outcome of running a program.
type Evaluation struct {
	Result      brain.Value            `json:"result"`
	Display     string                 `json:"display"`
	Description string                 `json:"description"`
	Partial     bool                   `json:"partial"`
	Program     []brain.Token          `json:"program"`
	Variables   map[string]brain.Value `json:"variables,omitempty"`
}

// String renders the two display lines of a calculator: the trace, then the
// value.
func (e Evaluation) String() string {
	return e.Description + "\n" + e.Display
}

func evaluate(b *brain.Brain) Evaluation {
	pad := keypad.New(b)
	program := b.Program()
	if program == nil {
		program = []brain.Token{}
	}
	return Evaluation{
		Result:      brain.Value(b.Result()),
		Display:     pad.Display(),
		Description: pad.Description(),
		Partial:     b.IsPartialResult(),
		Program:     program,
		Variables:   brain.Values(b.Variables),
	}
}

// bindVariables binds each table in order, reporting a refused name through f.
func bindVariables(f *OutputFormatter, b *brain.Brain, tables ...map[string]float64) error {
	for _, vars := range tables {
		if err := b.BindVariables(vars); err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidVar, err)
		}
	}
	return nil
}

// loadProgramFile reads a program file. The returned error is an ExitError
// already reported through f.
func loadProgramFile(f *OutputFormatter, path string) (*ProgramFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("program file not found: %s", path))
	}
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("reading %s: %w", path, err))
	}

	pf, err := decodeProgram(data, filepath.Ext(path))
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeDecodeFailed, fmt.Errorf("decoding %s: %w", path, err))
	}
	return pf, nil
}

func decodeProgram(data []byte, ext string) (*ProgramFile, error) {
	var pf ProgramFile
	var err error
	if strings.EqualFold(ext, ".json") {
		err = json.Unmarshal(data, &pf)
	} else {
		err = yaml.Unmarshal(data, &pf)
	}
	if err != nil {
		return nil, err
	}
	return &pf, nil
}

// parseVarFlags turns NAME=VALUE flag values into bindings.
func parseVarFlags(values []string) (map[string]float64, error) {
	vars := make(map[string]float64, len(values))
	for _, kv := range values {
		name, raw, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--var %q: want NAME=VALUE", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("--var %q: %w", kv, err)
		}
		vars[name] = v
	}
	return vars, nil
}
