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

type CustomerHandler struct {
	logger      *zap.Logger
	infoService *usecase.CustomerInfoService
}

func NewCustomerHandler(logger *zap.Logger, infoService *usecase.CustomerInfoService) *CustomerHandler {
	return &CustomerHandler{
		logger:      logger,
		infoService: infoService,
	}
}

// GetBillingInfo returns the subscriber's profile, active subscription and
// the merged open/paid invoice list.
func (h *CustomerHandler) GetBillingInfo(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "userId is required",
		})
	}

	info, err := h.infoService.GetBillingInfo(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "No profile found for user",
				"code":  "PROFILE_NOT_FOUND",
			})
		}
		h.logger.Error("Failed to load billing info",
			zap.String("user_id", userID),
			zap.Error(err))

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

	return c.JSON(http.StatusOK, info)
}
