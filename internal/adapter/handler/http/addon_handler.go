package http

import (
	"errors"
	"net/http"

	domainErrors "github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/errors"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AddonHandler struct {
	logger       *zap.Logger
	addonService *usecase.AddonService
}

func NewAddonHandler(logger *zap.Logger, addonService *usecase.AddonService) *AddonHandler {
	return &AddonHandler{
		logger:       logger,
		addonService: addonService,
	}
}

type AddonRequest struct {
	UserID  string `json:"userId" validate:"required"`
	PriceID string `json:"priceId" validate:"required"`
	// Action defaults to add; "remove" deletes the matching line item.
	Action string `json:"action" validate:"omitempty,oneof=add remove"`
}

// Mutate adds or removes an add-on line item on the user's subscription.
func (h *AddonHandler) Mutate(c echo.Context) error {
	var req AddonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	ctx := c.Request().Context()

	if req.Action == "remove" {
		if err := h.addonService.Remove(ctx, req.UserID, req.PriceID); err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"removed": true,
		})
	}

	item, err := h.addonService.Add(ctx, req.UserID, req.PriceID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"itemId":  item.ID,
	})
}

func (h *AddonHandler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domainErrors.ErrProfileNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "No profile found for user",
			"code":  "PROFILE_NOT_FOUND",
		})
	case errors.Is(err, domainErrors.ErrNoActiveSubscription):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "User has no active subscription",
			"code":  "NO_ACTIVE_SUBSCRIPTION",
		})
	case errors.Is(err, domainErrors.ErrAddonNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Add-on not found on subscription",
			"code":  "ADDON_NOT_FOUND",
		})
	default:
		h.logger.Error("Add-on mutation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
}
