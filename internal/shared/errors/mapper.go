package errors

import (
	stderrors "errors"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var kindProblems = []struct {
	kind    error
	problem ProblemDetail
}{
	{errkind.NotFound, ErrNotFound},
	{errkind.Unauthenticated, ErrUnauthorized},
	{errkind.Unauthorized, ErrForbidden},
	{errkind.DuplicateReview, ErrDuplicate},
	{errkind.DuplicateKey, ErrDuplicate},
	{errkind.InsufficientStock, ErrInsufficientStock},
	{errkind.InvalidTransition, ErrInvalidTransition},
	{errkind.Validation, ErrValidation},
}

// KindMapper translates the shared error taxonomy into problems. The first
// matching kind wins; Code comes from errkind so duplicate reviews and
// duplicate keys stay distinguishable.
func KindMapper(err error) (ProblemDetail, bool) {
	if err == nil {
		return ProblemDetail{}, false
	}
	for _, kp := range kindProblems {
		if stderrors.Is(err, kp.kind) {
			problem := kp.problem.WithDetail(err.Error())
			problem.Code = errkind.Code(err)
			return problem, true
		}
	}
	return ProblemDetail{}, false
}

// NewDomainResponder returns a responder wired with KindMapper ahead of extra.
func NewDomainResponder(baseURI string, extra ...ErrorMapper) *ChainedResponder {
	return NewChainedResponder(baseURI, append([]ErrorMapper{KindMapper}, extra...)...)
}
