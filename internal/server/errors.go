package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assetdomain "github.com/smallbiznis/mspdesk/internal/asset/domain"
	assetassociationdomain "github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	assethistorydomain "github.com/smallbiznis/mspdesk/internal/assethistory/domain"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
	billingplandomain "github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	creditdomain "github.com/smallbiznis/mspdesk/internal/credit/domain"
	servicecatalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	usagedomain "github.com/smallbiznis/mspdesk/internal/usage/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		isTenantError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictErrorMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, companydomain.ErrInvalidName),
		errors.Is(err, companydomain.ErrInvalidID),
		errors.Is(err, assettypedomain.ErrInvalidName),
		errors.Is(err, assettypedomain.ErrInvalidID),
		errors.Is(err, assetdomain.ErrInvalidID),
		errors.Is(err, assetdomain.ErrInvalidName),
		errors.Is(err, assetdomain.ErrInvalidAssetTag),
		errors.Is(err, assetdomain.ErrCompanyRequired),
		errors.Is(err, assetdomain.ErrTypeRequired),
		errors.Is(err, assetdomain.ErrInvalidMaintenanceType),
		errors.Is(err, assetdomain.ErrInvalidFrequency),
		errors.Is(err, assetassociationdomain.ErrInvalidID),
		errors.Is(err, assetassociationdomain.ErrInvalidEntityType),
		errors.Is(err, assethistorydomain.ErrInvalidAsset),
		errors.Is(err, servicecatalogdomain.ErrInvalidID),
		errors.Is(err, servicecatalogdomain.ErrInvalidName),
		errors.Is(err, servicecatalogdomain.ErrServiceTypeRequired),
		errors.Is(err, servicecatalogdomain.ErrServiceTypeExclusive),
		errors.Is(err, servicecatalogdomain.ErrInvalidBillingMethod),
		errors.Is(err, servicecatalogdomain.ErrUnitOfMeasureRequired),
		errors.Is(err, servicecatalogdomain.ErrInvalidRate),
		errors.Is(err, billingplandomain.ErrInvalidID),
		errors.Is(err, billingplandomain.ErrInvalidName),
		errors.Is(err, billingplandomain.ErrInvalidPlanType),
		errors.Is(err, billingplandomain.ErrInvalidQuantity),
		errors.Is(err, billingplandomain.ErrInvalidRate),
		errors.Is(err, usagedomain.ErrInvalidID),
		errors.Is(err, usagedomain.ErrInvalidQuantity),
		errors.Is(err, usagedomain.ErrInvalidUsageDate),
		errors.Is(err, usagedomain.ErrPlanNotEligible),
		errors.Is(err, creditdomain.ErrInvalidID),
		errors.Is(err, creditdomain.ErrInvalidAmount),
		errors.Is(err, creditdomain.ErrExpirationInPast):
		return true
	default:
		return false
	}
}

func isTenantError(err error) bool {
	switch {
	case errors.Is(err, companydomain.ErrInvalidTenant),
		errors.Is(err, assettypedomain.ErrInvalidTenant),
		errors.Is(err, assetdomain.ErrInvalidTenant),
		errors.Is(err, assetassociationdomain.ErrInvalidTenant),
		errors.Is(err, assethistorydomain.ErrInvalidTenant),
		errors.Is(err, servicecatalogdomain.ErrInvalidTenant),
		errors.Is(err, billingplandomain.ErrInvalidTenant),
		errors.Is(err, usagedomain.ErrInvalidTenant),
		errors.Is(err, creditdomain.ErrInvalidTenant):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, assettypedomain.ErrTypeInUse),
		errors.Is(err, servicecatalogdomain.ErrServiceInUse),
		errors.Is(err, billingplandomain.ErrServiceAlreadyOnPlan),
		errors.Is(err, billingplandomain.ErrPlanHasServices),
		errors.Is(err, billingplandomain.ErrPlanInUseByCompanies),
		errors.Is(err, creditdomain.ErrInsufficientCredit),
		errors.Is(err, creditdomain.ErrInvalidStatusTransition):
		return true
	default:
		return false
	}
}

func conflictErrorMessage(err error) string {
	if err == nil {
		return "conflict"
	}
	return err.Error()
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, assettypedomain.ErrNotFound),
		errors.Is(err, assetdomain.ErrNotFound),
		errors.Is(err, assetdomain.ErrCompanyNotFound),
		errors.Is(err, assetdomain.ErrTypeNotFound),
		errors.Is(err, assetdomain.ErrScheduleNotFound),
		errors.Is(err, assetassociationdomain.ErrNotFound),
		errors.Is(err, servicecatalogdomain.ErrNotFound),
		errors.Is(err, billingplandomain.ErrNotFound),
		errors.Is(err, billingplandomain.ErrServiceNotFound),
		errors.Is(err, billingplandomain.ErrCompanyNotFound),
		errors.Is(err, billingplandomain.ErrLinkNotFound),
		errors.Is(err, billingplandomain.ErrAssignmentNotFound),
		errors.Is(err, usagedomain.ErrNotFound),
		errors.Is(err, usagedomain.ErrCompanyNotFound),
		errors.Is(err, usagedomain.ErrServiceNotFound),
		errors.Is(err, creditdomain.ErrCompanyNotFound),
		errors.Is(err, creditdomain.ErrCreditNotFound),
		errors.Is(err, creditdomain.ErrReportNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
