package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// elmReport mirrors the subset of `elm make --report=json`'s error object
// this package cares about. The real compiler emits either a single
// "error" object (project-level, e.g. a missing elm.json) or a
// "compile-errors" object holding one entry per file with unresolved
// problems; both shapes are handled.
type elmReport struct {
	Type   string           `json:"type"`
	Errors []elmFileErrors  `json:"errors"`
	Path   string           `json:"path"`
	Title  string           `json:"title"`
	Message json.RawMessage `json:"message"`
}

type elmFileErrors struct {
	Path    string         `json:"path"`
	Problems []elmProblem `json:"problems"`
}

type elmProblem struct {
	Title   string      `json:"title"`
	Region  elmRegion   `json:"region"`
	Message json.RawMessage `json:"message"`
}

type elmRegion struct {
	Start elmPosition `json:"start"`
}

type elmPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// compile runs the real elm compiler against the materialized scratch
// directory and translates its JSON error report, if any, into
// Diagnostics. Following the teacher's detectGitInfo idiom, a missing
// binary or a non-JSON failure is reported as an error rather than treated
// as a compile failure — those are infrastructure problems, not candidate
// rejections.
func (g *Gate) compile(ctx context.Context, stageDir string) (*Result, error) {
	binPath, err := exec.LookPath(g.elmBinary)
	if err != nil {
		return nil, fmt.Errorf("gate: elm binary %q not found on PATH: %w", g.elmBinary, err)
	}

	cmd := exec.CommandContext(ctx, binPath, "make", "--report=json", "--output=/dev/null", "src/Main.elm")
	cmd.Dir = stageDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr == nil {
		return &Result{Accepted: true}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return nil, fmt.Errorf("gate: invoking %s: %w", g.elmBinary, runErr)
	}

	diags, parseErr := parseElmReport(stderr.Bytes())
	if parseErr != nil {
		return nil, fmt.Errorf("gate: elm make exited %v with unparseable report: %w", exitErr, parseErr)
	}

	return &Result{Accepted: false, Diagnostics: diags}, nil
}

func parseElmReport(raw []byte) ([]Diagnostic, error) {
	var report elmReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}

	if report.Type == "error" {
		return []Diagnostic{{File: report.Path, Message: report.Title}}, nil
	}

	var diags []Diagnostic
	for _, fe := range report.Errors {
		for _, p := range fe.Problems {
			diags = append(diags, Diagnostic{
				File:    fe.Path,
				Line:    p.Region.Start.Line,
				Column:  p.Region.Start.Column,
				Message: p.Title,
			})
		}
	}
	return diags, nil
}
