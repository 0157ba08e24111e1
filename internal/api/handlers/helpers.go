package handlers

import (
	"net/http"
	"trip-wizard-service/internal/domain"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// wizardKind parses the :kind path parameter, answering 400 on failure.
func wizardKind(c *gin.Context) (domain.WizardKind, bool) {
	kind, err := domain.ParseWizardKind(c.Param("kind"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	return kind, true
}
