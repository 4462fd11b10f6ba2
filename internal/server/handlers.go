package server

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/rgehrsitz/bia/internal/population"
)

type validateResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleValidate(ctx *fasthttp.RequestCtx) {
	var inputs domain.SimulationInputs
	if err := json.Unmarshal(ctx.PostBody(), &inputs); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.engine.ValidateInputs(inputs); err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, validateResponse{Valid: true})
}

// ProjectionRequest is the body of POST /v1/projection. When Population is
// omitted the server's sample is used.
type ProjectionRequest struct {
	Inputs     domain.SimulationInputs `json:"inputs"`
	Population []domain.Member         `json:"population,omitempty"`
}

// ProjectionResponse is the body of a successful projection.
type ProjectionResponse struct {
	RequestID  string                    `json:"request_id"`
	SampleSize int                       `json:"sample_size"`
	Results    []domain.SimulationResult `json:"results"`
	Summary    domain.ProjectionTotals   `json:"summary"`
}

func (s *Server) handleProjection(ctx *fasthttp.RequestCtx) {
	var req ProjectionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.engine.ValidateInputs(req.Inputs); err != nil {
		writeDomainError(ctx, err)
		return
	}

	sample := s.sample
	if req.Population != nil {
		if err := population.Validate(req.Population); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("invalid population: %v", err))
			return
		}
		sample = req.Population
	}

	storeCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	results, err := s.projector.RunProjection(storeCtx, req.Inputs, sample)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}

	totals, err := domain.Totals(results, req.Inputs.TargetPopulationSize)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, ProjectionResponse{
		RequestID:  requestID(ctx),
		SampleSize: len(sample),
		Results:    results,
		Summary:    totals,
	})
}
