package handlers

import (
	"errors"
	"net/http"
	"strings"
	"trip-wizard-service/internal/api/dto"
	"trip-wizard-service/internal/ports"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Queries shorter than this return no predictions without a provider call.
const minQueryLen = 2

type PlaceHandler struct {
	Geocoder ports.Geocoder
}

func (h *PlaceHandler) Predict(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len([]rune(q)) < minQueryLen {
		c.JSON(http.StatusOK, dto.PredictResponse{Predictions: []ports.PlacePrediction{}})
		return
	}

	preds, err := h.Geocoder.Predict(c.Request.Context(), q)
	if err != nil {
		logrus.WithField("query", q).WithError(err).Error("place prediction failed")
		writeError(c, http.StatusBadGateway, "geocoder unavailable")
		return
	}
	if preds == nil {
		preds = []ports.PlacePrediction{}
	}
	c.JSON(http.StatusOK, dto.PredictResponse{Predictions: preds})
}

func (h *PlaceHandler) Resolve(c *gin.Context) {
	place, err := h.Geocoder.Resolve(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ports.ErrPlaceNotFound):
		writeError(c, http.StatusNotFound, "place not found")
		return
	case err != nil:
		logrus.WithField("place_id", c.Param("id")).WithError(err).Error("place resolve failed")
		writeError(c, http.StatusBadGateway, "geocoder unavailable")
		return
	}
	c.JSON(http.StatusOK, place)
}
