package poldoserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/martagenovese/poldo/internal/domains/catalog/application"
	catalogports "github.com/martagenovese/poldo/internal/domains/catalog/ports"
	ordersapp "github.com/martagenovese/poldo/internal/domains/orders/application"
	orderdomain "github.com/martagenovese/poldo/internal/domains/orders/domain"
	ordersports "github.com/martagenovese/poldo/internal/domains/orders/ports"
	redemptionapp "github.com/martagenovese/poldo/internal/domains/redemption/application"
	redemptiondomain "github.com/martagenovese/poldo/internal/domains/redemption/domain"
	redemptionports "github.com/martagenovese/poldo/internal/domains/redemption/ports"
	shiftsapp "github.com/martagenovese/poldo/internal/domains/shifts/application"
	shiftports "github.com/martagenovese/poldo/internal/domains/shifts/ports"
	apierrors "github.com/martagenovese/poldo/internal/shared/errors"
	"github.com/martagenovese/poldo/internal/shared/retry"
)

// responder maps domain and application errors to RFC 7807 problems. Mapper
// order matters only for the unavailability check, which must run before the
// per-context fallbacks.
var responder = apierrors.NewChainedResponder("",
	unavailableErrorMapper,
	shiftErrorMapper,
	catalogErrorMapper,
	orderErrorMapper,
	redemptionErrorMapper,
)

// respondServiceError translates any service error into a problem response.
func respondServiceError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

// respondError handles transport-level failures such as malformed JSON or
// unparseable path parameters.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	apierrors.Respond(c, problem)
}

func unavailableErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, retry.ErrUnavailable) {
		return apierrors.ErrUnavailable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func shiftErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, shiftports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, shiftports.ErrDuplicate):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, shiftsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func catalogErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrDuplicate),
		errors.Is(err, catalogports.ErrInsufficient):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func orderErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, orderdomain.ErrLineNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrDuplicateOrder),
		errors.Is(err, orderdomain.ErrInvalidTransition):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrShiftClosed),
		errors.Is(err, orderdomain.ErrEmptyOrder),
		errors.Is(err, orderdomain.ErrOrderLocked):
		return apierrors.ErrPreconditionFailed.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrProductUnavailable):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func redemptionErrorMapper(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, redemptionports.ErrNotFound),
		errors.Is(err, redemptionports.ErrOrderNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, redemptionapp.ErrTokenAlreadyIssued),
		errors.Is(err, redemptiondomain.ErrAlreadyRedeemed):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, redemptionapp.ErrOrderNotConfirmed):
		return apierrors.ErrPreconditionFailed.WithDetail(err.Error()), true
	case errors.Is(err, redemptiondomain.ErrInvalidToken),
		errors.Is(err, redemptiondomain.ErrMissingActor):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
