package handlers

import (
	"net/http"
	"trip-wizard-service/internal/ports"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	Orders ports.OrderRepository
}

// Latest returns the newest draft order created for a wizard kind.
func (h *OrderHandler) Latest(c *gin.Context) {
	kind, ok := wizardKind(c)
	if !ok {
		return
	}

	draft, err := h.Orders.LatestDraft(c.Request.Context(), kind)
	if err != nil {
		logrus.WithField("wizard", kind).WithError(err).Error("latest draft lookup failed")
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if draft == nil {
		writeError(c, http.StatusNotFound, "no draft order")
		return
	}
	c.JSON(http.StatusOK, draft)
}
