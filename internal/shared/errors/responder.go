package errors

import (
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper maps an error to a problem. ok is false when the mapper does not recognise err.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// ChainedResponder writes problem responses, trying each mapper in order.
// Unmapped errors become ErrInternal and are logged; their text never reaches the client.
type ChainedResponder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewChainedResponder builds a responder. baseURI prefixes relative problem types.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{baseURI: strings.TrimRight(baseURI, "/"), mappers: mappers}
}

// WithLogger sets the logger used for unmapped errors. Defaults to slog.Default.
func (r *ChainedResponder) WithLogger(logger *slog.Logger) *ChainedResponder {
	r.logger = logger
	return r
}

// Respond writes problem with the problem+json content type.
func (r *ChainedResponder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err and responds.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if stderrors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	if err != nil {
		logger.LogAttrs(c.Request.Context(), slog.LevelError, "unhandled request error",
			slog.String("http.route", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}
	r.Respond(c, ErrInternal)
}
