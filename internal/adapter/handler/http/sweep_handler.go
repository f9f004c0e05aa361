package http

import (
	"errors"
	"net/http"

	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/usecase"
	apperrors "github.com/Aguti1902/agutidesigns-ai-sub001/pkg/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SweepHandler struct {
	logger       *zap.Logger
	sweepService *usecase.SweepService
}

func NewSweepHandler(logger *zap.Logger, sweepService *usecase.SweepService) *SweepHandler {
	return &SweepHandler{
		logger:       logger,
		sweepService: sweepService,
	}
}

type SweepRequest struct {
	CustomerID    string `json:"customerId"`
	UserID        string `json:"userId"`
	RefundAll     bool   `json:"refundAll"`
	AllowFallback bool   `json:"allowFallback"`
}

// Run executes the cleanup/refund sweep for the resolved customer.
func (h *SweepHandler) Run(c echo.Context) error {
	var req SweepRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}

	report, err := h.sweepService.Run(c.Request().Context(), &usecase.SweepRequest{
		CustomerID:    req.CustomerID,
		UserID:        req.UserID,
		RefundAll:     req.RefundAll,
		AllowFallback: req.AllowFallback,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrFallbackNotAllowed):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "No customer or user supplied; set allowFallback to sweep the first matching profile",
				"code":  "FALLBACK_NOT_ALLOWED",
			})
		case errors.Is(err, domainErrors.ErrProfileNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "No profile found",
				"code":  "PROFILE_NOT_FOUND",
			})
		case errors.Is(err, domainErrors.ErrNoCustomerReference):
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Profile has no billing customer reference",
				"code":  "NO_CUSTOMER_REFERENCE",
			})
		case errors.Is(err, domainErrors.ErrNoActiveSubscription):
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Customer has no active subscription",
				"code":  "NO_ACTIVE_SUBSCRIPTION",
			})
		default:
			h.logger.Error("Cleanup sweep failed", zap.Error(err))

			status := http.StatusInternalServerError
			code := apperrors.ErrInternal
			var appErr *apperrors.AppError
			if apperrors.As(err, &appErr) {
				status = apperrors.ToHTTPStatus(appErr.Code())
				code = appErr.Code()
			}
			return c.JSON(status, echo.Map{
				"error": err.Error(),
				"code":  code,
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"customerId":     report.CustomerID,
		"subscriptionId": report.SubscriptionID,
		"totalItems":     report.TotalItems,
		"removedItems":   report.RemovedItems,
		"refunds":        report.Refunds,
		"usageReset":     report.UsageReset,
	})
}
