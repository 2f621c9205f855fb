package calculator

import (
	"calculator-brain/internal/brain"
	"calculator-brain/internal/plot"
	"calculator-brain/internal/session"
)

// CreateSessionRequest is the optional JSON body for POST /calculator/sessions.
type CreateSessionRequest struct {
	Variables map[string]float64 `json:"variables,omitempty"`
	Program   []brain.Token      `json:"program,omitempty"`
}

// OperandRequest is the JSON body for POST /calculator/sessions/{id}/operand.
// Exactly one of Value and Variable is set.
type OperandRequest struct {
	Value    *float64 `json:"value,omitempty"`
	Variable string   `json:"variable,omitempty"`
}

// OperationRequest is the JSON body for POST /calculator/sessions/{id}/operation.
type OperationRequest struct {
	Symbol string `json:"symbol"`
}

// ProgramRequest is the JSON body for PUT /calculator/sessions/{id}/program.
// Variables are bound before the program is replayed.
type ProgramRequest struct {
	Program   []brain.Token      `json:"program"`
	Variables map[string]float64 `json:"variables,omitempty"`
}

// ProgramResponse is the JSON response for GET /calculator/sessions/{id}/program.
type ProgramResponse struct {
	Program []brain.Token `json:"program"`
}

// VariableRequest is the JSON body for PUT /calculator/sessions/{id}/variables/{name}.
type VariableRequest struct {
	Value *float64 `json:"value"`
}

// PlotResponse is the JSON response for GET /calculator/sessions/{id}/plot.
type PlotResponse struct {
	Variable string       `json:"variable"`
	Points   []plot.Point `json:"points"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Program   []brain.Token      `json:"program"`
	Variables map[string]float64 `json:"variables,omitempty"`
}

// EvaluateStep records the engine state after one token of an evaluation.
type EvaluateStep struct {
	Token       brain.Token `json:"token"`
	Result      brain.Value `json:"result"`
	Description string      `json:"description"`
	Partial     bool        `json:"partial"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Result      brain.Value    `json:"result"`
	Description string         `json:"description"`
	Partial     bool           `json:"partial"`
	Steps       []EvaluateStep `json:"steps"`
}

// SymbolsResponse is the JSON response for GET /calculator/symbols.
type SymbolsResponse struct {
	Symbols []brain.SymbolInfo `json:"symbols"`
}

// StateResponse is the JSON response of every session endpoint.
type StateResponse = session.State
