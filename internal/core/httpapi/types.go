package httpapi

import (
	"encoding/json"
	"time"

	"github.com/solatis/chancekeeper/internal/core/db"
	"github.com/solatis/chancekeeper/internal/naming"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeInvalidName    = "ERR_INVALID_NAME"
	codeInvalidJSON    = "ERR_INVALID_JSON"
	codeInvalidChance  = "ERR_INVALID_CHANCE"
	codeInvalidContext = "ERR_INVALID_CONTEXT"
	codeNotFound       = "ERR_NOT_FOUND"
	codeInternal       = "ERR_INTERNAL"
)

// ErrorResponse represents a structured API error.
type ErrorResponse struct {
	// Code is a stable, machine-readable identifier (e.g., ERR_NOT_FOUND).
	Code string `json:"code"`

	// Message is a human-readable description of the error.
	Message string `json:"message"`
}

// ChanceResponse is the chance resource returned by the control API.
type ChanceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`

	// Definition is the canonical JSON encoding of the chance.
	Definition json.RawMessage `json:"definition"`

	// Cost is the estimated evaluation cost summed over all modifiers.
	Cost int `json:"cost"`

	// Conditions lists the context keys the chance reads, sorted.
	Conditions []string `json:"conditions"`

	Depth     int       `json:"depth"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResponse wraps list endpoints.
type ListResponse struct {
	Data  []ChanceResponse `json:"data"`
	Total int              `json:"total"`
}

// FactorResponse is the outcome of evaluating a chance.
type FactorResponse struct {
	Chance  string  `json:"chance"`
	Factor  float64 `json:"factor"`
	Applied []bool  `json:"applied"`
}

func toChanceResponse(sc *db.StoredChance) (ChanceResponse, error) {
	definition, err := sc.Chance.MarshalJSON()
	if err != nil {
		return ChanceResponse{}, err
	}

	conditions := sc.Chance.ConditionNames()
	if conditions == nil {
		conditions = []string{}
	}

	return ChanceResponse{
		ID:          string(sc.ID),
		Name:        sc.Name,
		DisplayName: naming.Display(sc.Name),
		Definition:  definition,
		Cost:        sc.Cost,
		Conditions:  conditions,
		Depth:       sc.Chance.Depth(),
		CreatedAt:   sc.CreatedAt,
		UpdatedAt:   sc.UpdatedAt,
	}, nil
}
