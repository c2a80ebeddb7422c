package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"deskhive/internal/properties/repository"
	"deskhive/internal/properties/service"
	apperrors "deskhive/pkg/errors"
	httputil "deskhive/pkg/http"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PropertyHandler struct {
	service service.PropertyService
	log     *logger.Logger
}

func NewPropertyHandler(service service.PropertyService, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var property model.Property
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &property); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, property); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	property, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PropertyHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	filter := repository.SearchFilter{
		OwnerID: query.Get("owner_id"),
		Status:  query.Get("status"),
	}

	properties, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, properties, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	property, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// Bookable answers whether a prospective interval passes the availability
// policy, without consulting existing bookings.
func (h *PropertyHandler) Bookable(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	checkIn, err := httputil.ExtractTime(r, "check_in_time")
	if err == nil && checkIn == nil {
		err = httputil.MissingParam("check_in_time")
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Bookable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	checkOut, err := httputil.ExtractTime(r, "check_out_time")
	if err == nil && checkOut == nil {
		err = httputil.MissingParam("check_out_time")
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Bookable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	seats := 1
	if s := r.URL.Query().Get("seats"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid seats parameter: "+s)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Bookable", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		seats = n
	}

	decision, err := h.service.IsBookable(r.Context(), id, *checkIn, *checkOut, seats)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Bookable", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, decision); err != nil {
		h.log.Error("failed to write success response", "handler", "Bookable", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/properties", h.Create)
	router.GET("/api/v1/properties", h.GetAll)
	router.GET("/api/v1/properties/id/:id", h.GetByID)
	router.PATCH("/api/v1/properties/id/:id", h.Update)
	router.DELETE("/api/v1/properties/id/:id", h.Delete)
	router.GET("/api/v1/properties/id/:id/bookable", h.Bookable)
}
