package http

import (
	"net/http"

	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/adapter/messaging"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ConnectionHandler struct {
	logger *zap.Logger
	bridge *messaging.EvolutionClient
}

func NewConnectionHandler(logger *zap.Logger, bridge *messaging.EvolutionClient) *ConnectionHandler {
	return &ConnectionHandler{
		logger: logger,
		bridge: bridge,
	}
}

// GetStatus probes the bridge connection state for an instance. Internal
// failure is downgraded to a disconnected answer with HTTP 200 so that UI
// polling does not treat a transient bridge outage as fatal.
func (h *ConnectionHandler) GetStatus(c echo.Context) error {
	instance := c.Param("instance")

	state, err := h.bridge.GetConnectionState(c.Request().Context(), instance)
	if err != nil {
		h.logger.Warn("Bridge status probe failed",
			zap.String("instance", instance),
			zap.Error(err))
		return c.JSON(http.StatusOK, echo.Map{
			"success":   false,
			"connected": false,
			"state":     "disconnected",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"connected": state.Connected(),
		"state":     state.State,
	})
}

// Connect asks the bridge to open the instance session. Failure is
// downgraded the same way as the status probe.
func (h *ConnectionHandler) Connect(c echo.Context) error {
	instance := c.Param("instance")

	result, err := h.bridge.Connect(c.Request().Context(), instance)
	if err != nil {
		h.logger.Warn("Bridge connect failed",
			zap.String("instance", instance),
			zap.Error(err))
		return c.JSON(http.StatusOK, echo.Map{
			"success":   false,
			"connected": false,
			"state":     "disconnected",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"pairingCode": result.PairingCode,
		"qrCode":      result.QRCode,
	})
}

// Disconnect asks the bridge to close the instance session.
func (h *ConnectionHandler) Disconnect(c echo.Context) error {
	instance := c.Param("instance")

	if err := h.bridge.Logout(c.Request().Context(), instance); err != nil {
		h.logger.Error("Bridge logout failed",
			zap.String("instance", instance),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
	})
}
