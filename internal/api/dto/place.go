package dto

import "trip-wizard-service/internal/ports"

type PredictResponse struct {
	Predictions []ports.PlacePrediction `json:"predictions"`
}
