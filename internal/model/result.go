package model

import "encoding/json"

// Row is one result row keyed by column name.
type Row map[string]any

// ExecutionResult is the outcome of running a filter query: either the
// materialized rows or the error that stopped execution.
type ExecutionResult struct {
	Columns []string
	Rows    []Row
	Err     error
}

// Failed reports whether execution failed.
func (r ExecutionResult) Failed() bool {
	return r.Err != nil
}

// Status is the envelope status field.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// FailureKind tells the HTTP boundary which class of failure produced an
// error envelope. It is not serialized.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureExtraction
	FailureExecution
	FailureInternal
)

func (k FailureKind) String() string {
	switch k {
	case FailureExtraction:
		return "extraction"
	case FailureExecution:
		return "execution"
	case FailureInternal:
		return "internal"
	default:
		return "none"
	}
}

// Envelope is the uniform response returned for every search.
type Envelope struct {
	Status      Status
	Message     string
	Data        []Row
	ParsedQuery ParsedQuery
	SQL         string // diagnostic echo of the compiled query
	Failure     FailureKind
}

type successEnvelope struct {
	Status      Status      `json:"status"`
	Data        []Row       `json:"data"`
	ParsedQuery ParsedQuery `json:"parsed_query"`
	SQL         string      `json:"sql"`
}

type errorEnvelope struct {
	Status      Status      `json:"status"`
	Message     string      `json:"message"`
	ParsedQuery ParsedQuery `json:"parsed_query"`
}

// MarshalJSON writes the success shape (data, sql) or the error shape
// (message) depending on Status.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Status == StatusSuccess {
		data := e.Data
		if data == nil {
			data = []Row{}
		}
		return json.Marshal(successEnvelope{
			Status:      e.Status,
			Data:        data,
			ParsedQuery: e.ParsedQuery,
			SQL:         e.SQL,
		})
	}
	return json.Marshal(errorEnvelope{
		Status:      e.Status,
		Message:     e.Message,
		ParsedQuery: e.ParsedQuery,
	})
}
