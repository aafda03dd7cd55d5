// Package config loads memory game rules from CUE files.
//
// A rule file is validated against an embedded schema (#Config) and then
// resolved onto memory.DefaultRules, so a file only needs the fields it
// changes:
//
//	tokens: ["🐶", "🐱", "🐭", "🐹"]
//	timeBase: 20
//	settle: "500ms"
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/petsy/internal/memory"
)

//go:embed schema.cue
var schemaCUE string

// Error codes for config failures.
const (
	ErrCodeRead       = "E201" // File could not be read
	ErrCodeParse      = "E202" // CUE syntax or build error
	ErrCodeSchema     = "E203" // Value violates #Config
	ErrCodeTokens     = "E204" // Empty or duplicate tokens
	ErrCodeDuration   = "E205" // Bad tick/settle duration
	ErrCodeTimeBudget = "E206" // timeFloor above timeBase
)

// Error is a config failure with an optional CUE source position.
type Error struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// file mirrors #Config. Pointers distinguish "absent" from zero.
type file struct {
	Tokens    []string `json:"tokens"`
	PairBase  *int     `json:"pairBase"`
	TimeBase  *int     `json:"timeBase"`
	TimeStep  *int     `json:"timeStep"`
	TimeFloor *int     `json:"timeFloor"`
	Tick      string   `json:"tick"`
	Settle    string   `json:"settle"`
}

// Default returns the built-in rules.
func Default() memory.Rules {
	return memory.DefaultRules()
}

// Load reads and resolves a rule file. An empty path returns Default().
func Load(path string) (memory.Rules, error) {
	if path == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return memory.Rules{}, &Error{Code: ErrCodeRead, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return Parse(src, path)
}

// Parse validates CUE source against #Config and resolves it onto the
// defaults. filename is used in error positions.
func Parse(src []byte, filename string) (memory.Rules, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return memory.Rules{}, fmt.Errorf("embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	data := ctx.CompileBytes(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return memory.Rules{}, cueError(ErrCodeParse, err)
	}

	unified := def.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return memory.Rules{}, cueError(ErrCodeSchema, err)
	}

	var f file
	if err := unified.Decode(&f); err != nil {
		return memory.Rules{}, cueError(ErrCodeSchema, err)
	}

	return resolve(f)
}

func resolve(f file) (memory.Rules, error) {
	r := Default()

	if f.Tokens != nil {
		tokens, err := NormalizeTokens(f.Tokens)
		if err != nil {
			return memory.Rules{}, err
		}
		r.Tokens = tokens
	}
	if f.PairBase != nil {
		r.PairBase = *f.PairBase
	}
	if f.TimeBase != nil {
		r.TimeBase = *f.TimeBase
	}
	if f.TimeStep != nil {
		r.TimeStep = *f.TimeStep
	}
	if f.TimeFloor != nil {
		r.TimeFloor = *f.TimeFloor
	}
	if r.TimeFloor > r.TimeBase {
		return memory.Rules{}, &Error{
			Code:    ErrCodeTimeBudget,
			Message: fmt.Sprintf("timeFloor %d exceeds timeBase %d", r.TimeFloor, r.TimeBase),
		}
	}

	var err error
	if f.Tick != "" {
		if r.Tick, err = parseDuration("tick", f.Tick); err != nil {
			return memory.Rules{}, err
		}
	}
	if f.Settle != "" {
		if r.Settle, err = parseDuration("settle", f.Settle); err != nil {
			return memory.Rules{}, err
		}
	}

	return r, nil
}

// NormalizeTokens trims and NFC-normalises tokens so that visually identical
// symbols compare equal, then rejects empty and duplicate entries.
func NormalizeTokens(raw []string) ([]memory.Token, error) {
	if len(raw) == 0 {
		return nil, &Error{Code: ErrCodeTokens, Message: "tokens must not be empty"}
	}
	seen := make(map[string]int, len(raw))
	out := make([]memory.Token, 0, len(raw))
	for i, s := range raw {
		t := norm.NFC.String(strings.TrimSpace(s))
		if t == "" {
			return nil, &Error{Code: ErrCodeTokens, Message: fmt.Sprintf("tokens[%d] is empty", i)}
		}
		if j, dup := seen[t]; dup {
			return nil, &Error{Code: ErrCodeTokens, Message: fmt.Sprintf("tokens[%d] duplicates tokens[%d] (%q)", i, j, t)}
		}
		seen[t] = i
		out = append(out, memory.Token(t))
	}
	return out, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &Error{Code: ErrCodeDuration, Message: fmt.Sprintf("%s: %v", field, err)}
	}
	if d <= 0 {
		return 0, &Error{Code: ErrCodeDuration, Message: fmt.Sprintf("%s must be positive, got %s", field, s)}
	}
	return d, nil
}

// cueError converts the first CUE error into an *Error with its position.
func cueError(code string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: code, Message: err.Error()}
	}
	first := errs[0]
	out := &Error{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
