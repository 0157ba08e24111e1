package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"trip-wizard-service/internal/api/dto"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WizardHandler struct {
	Wizards    *services.WizardRegistry
	Submission *services.OrderSubmission
}

func stateOf(w *services.WizardController) dto.WizardStateResponse {
	return dto.WizardStateResponse{Session: w.Snapshot(), Visited: w.Visited()}
}

func (h *WizardHandler) controller(c *gin.Context) (domain.WizardKind, *services.WizardController, bool) {
	kind, ok := wizardKind(c)
	if !ok {
		return "", nil, false
	}

	w, err := h.Wizards.Get(kind)
	if err != nil {
		writeError(c, http.StatusNotFound, err.Error())
		return "", nil, false
	}
	return kind, w, true
}

// bindPatch decodes an optional session patch body and checks it.
func bindPatch(c *gin.Context) (domain.SessionPatch, bool) {
	var patch domain.SessionPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return patch, false
	}

	// Pages move only through next/previous/goto.
	patch.CurrentPage = nil

	if err := checkPatch(&patch); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return patch, false
	}
	return patch, true
}

// checkPatch rejects shapes no page could produce and fills missing point
// ids. Incomplete data is fine here; page validation reports it.
func checkPatch(patch *domain.SessionPatch) error {
	if ad := patch.AddressData; ad != nil {
		if err := domain.CheckRoleLimits(ad.Addresses); err != nil {
			return err
		}
		ad.Addresses = domain.EnsureIDs(ad.Addresses)
	}

	if sd := patch.ScheduleData; sd != nil {
		if err := sd.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(c *gin.Context, res domain.ValidationResult) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
		Error:  "validation failed",
		Errors: res.Errors,
	})
}

func (h *WizardHandler) State(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(w))
}

// Mount re-runs the resume logic: stale sessions are dropped and a live one
// restarts on the addresses page.
func (h *WizardHandler) Mount(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}
	w.Mount(c.Request.Context())
	c.JSON(http.StatusOK, stateOf(w))
}

// Edit stores a field change without leaving the page.
func (h *WizardHandler) Edit(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	w.Edit(c.Request.Context(), patch)
	c.JSON(http.StatusOK, stateOf(w))
}

// Next validates the current page with the patch applied, then advances.
func (h *WizardHandler) Next(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	if res := services.ValidatePage(w.Snapshot().Merge(patch)); !res.IsValid {
		invalid(c, res)
		return
	}

	if _, moved := w.NextPage(c.Request.Context(), patch); !moved {
		writeError(c, http.StatusConflict, "already on the last page")
		return
	}
	c.JSON(http.StatusOK, stateOf(w))
}

func (h *WizardHandler) Previous(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}

	if _, moved := w.PreviousPage(c.Request.Context()); !moved {
		writeError(c, http.StatusConflict, "already on the first page")
		return
	}
	c.JSON(http.StatusOK, stateOf(w))
}

// GoTo jumps to an already visited page, as the progress indicator does.
func (h *WizardHandler) GoTo(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}

	var req dto.GoToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "page is required")
		return
	}
	if !req.Page.Valid() {
		writeError(c, http.StatusBadRequest, fmt.Sprintf("unknown page %q", req.Page))
		return
	}
	if !w.CanJumpTo(req.Page) {
		writeError(c, http.StatusConflict, "page not reached yet")
		return
	}

	if err := w.GoToPage(c.Request.Context(), req.Page); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, stateOf(w))
}

// SaveAddresses is the address page's save action: it validates, submits
// a draft order and moves on to the schedule page.
func (h *WizardHandler) SaveAddresses(c *gin.Context) {
	kind, w, ok := h.controller(c)
	if !ok {
		return
	}

	var body domain.AddressData
	err := c.ShouldBindJSON(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	hasBody := err == nil

	snap := w.Snapshot()
	if snap.CurrentPage != domain.PageAddresses {
		writeError(c, http.StatusConflict, "addresses can only be saved from the addresses page")
		return
	}

	var addr domain.AddressData
	switch {
	case hasBody:
		addr = body
	case snap.AddressData != nil:
		addr = *snap.AddressData
	}
	if err := domain.CheckRoleLimits(addr.Addresses); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	addr.Addresses = domain.EnsureIDs(addr.Addresses)

	ctx := c.Request.Context()
	draft, res, err := h.Submission.Submit(ctx, kind, addr, snap.ScheduleData)
	switch {
	case errors.Is(err, services.ErrOrderRejected):
		writeError(c, http.StatusConflict, "order was rejected")
		return
	case err != nil:
		logrus.WithField("wizard", kind).WithError(err).Error("order submission failed")
		writeError(c, http.StatusBadGateway, "order service unavailable")
		return
	case !res.IsValid:
		invalid(c, res)
		return
	}

	w.NextPage(ctx, domain.SessionPatch{AddressData: &addr})
	c.JSON(http.StatusCreated, dto.SaveAddressesResponse{Order: draft, State: stateOf(w)})
}

// SetTime sets or clears one container time of the schedule.
func (h *WizardHandler) SetTime(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}

	var req dto.SetTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bucket and index are required")
		return
	}

	if _, err := w.SetTime(c.Request.Context(), req.Bucket, *req.Index, req.Time); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, stateOf(w))
}

// ToggleDay selects or deselects the :day weekday.
func (h *WizardHandler) ToggleDay(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}

	day := domain.Weekday(c.Param("day"))
	if _, err := w.ToggleDay(c.Request.Context(), day); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, stateOf(w))
}

func (h *WizardHandler) Validation(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.ValidateCurrentPage())
}

// Containers returns the derived route plan, or one bucket of it when
// ?bucket= is given.
func (h *WizardHandler) Containers(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}

	plan := w.RoutePlan()
	if b := c.Query("bucket"); b != "" {
		list, found := plan.Buckets[domain.TimeBucket(b)]
		if !found {
			writeError(c, http.StatusNotFound, fmt.Sprintf("bucket %q is not active", b))
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *WizardHandler) RouteGeoJSON(c *gin.Context) {
	kind, w, ok := h.controller(c)
	if !ok {
		return
	}

	direction := domain.OneWay
	if sd := w.Snapshot().ScheduleData; sd != nil {
		direction = sd.Switches.Direction
	}

	b, err := services.RouteGeoJSON(w.AddressSet(), direction)
	if err != nil {
		logrus.WithField("wizard", kind).WithError(err).Error("route geojson failed")
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}

func (h *WizardHandler) Quote(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.Quote())
}

// Complete finishes the wizard and deletes its stored session.
func (h *WizardHandler) Complete(c *gin.Context) {
	_, w, ok := h.controller(c)
	if !ok {
		return
	}
	w.Complete(c.Request.Context())
	c.Status(http.StatusNoContent)
}
