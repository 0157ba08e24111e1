package api

import (
	"net/http"
	"trip-wizard-service/internal/api/handlers"
	"trip-wizard-service/internal/ports"
	"trip-wizard-service/internal/services"

	"github.com/gin-gonic/gin"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	wizards *services.WizardRegistry,
	submission *services.OrderSubmission,
	geocoder ports.Geocoder,
	orders ports.OrderRepository,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())

	wizard := &handlers.WizardHandler{Wizards: wizards, Submission: submission}
	places := &handlers.PlaceHandler{Geocoder: geocoder}
	drafts := &handlers.OrderHandler{Orders: orders}

	r.GET("/health", handlers.Health)

	w := r.Group("/wizards/:kind")
	{
		w.GET("", wizard.State)
		w.POST("/mount", wizard.Mount)
		w.PATCH("", wizard.Edit)
		w.POST("/next", wizard.Next)
		w.POST("/previous", wizard.Previous)
		w.POST("/goto", wizard.GoTo)
		w.POST("/addresses/save", wizard.SaveAddresses)
		w.PUT("/schedule/time", wizard.SetTime)
		w.POST("/schedule/days/:day/toggle", wizard.ToggleDay)
		w.GET("/validation", wizard.Validation)
		w.GET("/containers", wizard.Containers)
		w.GET("/route.geojson", wizard.RouteGeoJSON)
		w.GET("/quote", wizard.Quote)
		w.POST("/complete", wizard.Complete)
	}

	r.GET("/places/predict", places.Predict)
	r.GET("/places/:id", places.Resolve)

	r.GET("/orders/:kind/latest", drafts.Latest)

	return r
}
