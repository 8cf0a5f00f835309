package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder provides methods to send Problem Details responses.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
}

// NewResponder creates a new problem responder with optional base URI.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// DefaultResponder uses relative URIs for problem types.
var DefaultResponder = NewResponder("")

// Respond sends a ProblemDetail response with proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError converts a standard error to a ProblemDetail and responds.
// It checks if the error is already a ProblemDetail, otherwise wraps it.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	// Default to internal server error for unknown errors
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// ErrorMapper maps domain/application errors to ProblemDetail. The second
// return reports whether the mapper recognized the error.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder routes errors through an ordered mapper chain, so each
// bounded context contributes its own error-to-problem mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}
