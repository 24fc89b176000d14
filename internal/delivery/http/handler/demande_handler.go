package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/usecase"
	"pharmalink/pkg/i18n"
	"pharmalink/pkg/response"
	"pharmalink/pkg/validator"
)

type DemandeHandler struct {
	demandeUsecase usecase.DemandeUsecase
	validator      *validator.CustomValidator
}

func NewDemandeHandler(demandeUsecase usecase.DemandeUsecase, validator *validator.CustomValidator) *DemandeHandler {
	return &DemandeHandler{
		demandeUsecase: demandeUsecase,
		validator:      validator,
	}
}

// writeDemandeError maps demande usecase errors to HTTP responses.
func writeDemandeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	l := lang(r)
	switch {
	case errors.Is(err, usecase.ErrDemandeNotFound):
		response.NotFound(w, i18n.T(l, i18n.MsgDemandeNotFound))
	case errors.Is(err, usecase.ErrDemandeAlreadyClaimed):
		response.Error(w, http.StatusConflict, i18n.T(l, i18n.MsgAlreadyClaimed), nil)
	case errors.Is(err, usecase.ErrDemandeAlreadyTreated):
		response.Error(w, http.StatusConflict, i18n.T(l, i18n.MsgAlreadyTreated), nil)
	case errors.Is(err, usecase.ErrMedicamentRequired):
		response.Error(w, http.StatusBadRequest, i18n.T(l, i18n.MsgMedicamentRequired), nil)
	case errors.Is(err, usecase.ErrNoValidPropositions):
		response.Error(w, http.StatusBadRequest, i18n.T(l, i18n.MsgNoValidPropositions), nil)
	case errors.Is(err, usecase.ErrInvalidStatus):
		response.Error(w, http.StatusBadRequest, i18n.T(l, i18n.MsgInvalidStatus), nil)
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, i18n.T(l, i18n.MsgInvalidToken))
	default:
		response.InternalServerError(w, i18n.T(l, fallback))
	}
}

// Create handles a client's new medication request
// @Summary Create demande
// @Tags Demandes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateDemandeRequest true "Demande"
// @Success 201 {object} response.Response
// @Router /demandes [post]
func (h *DemandeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDemandeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	demande, err := h.demandeUsecase.Create(r.Context(), &req)
	if err != nil {
		writeDemandeError(w, r, err, i18n.MsgDemandeCreateFailed)
		return
	}

	response.Success(w, http.StatusCreated, i18n.T(lang(r), i18n.MsgDemandeCreated), demande)
}

// List returns the demandes visible to the caller
// @Summary List demandes
// @Tags Demandes
// @Security BearerAuth
// @Produce json
// @Param status query string false "en_attente, en_cours or traite"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Response
// @Router /demandes [get]
func (h *DemandeHandler) List(w http.ResponseWriter, r *http.Request) {
	req := dto.ListDemandesRequest{Status: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.ValidationError(w, i18n.T(lang(r), i18n.MsgValidationFailed), map[string]string{"limit": "limit must be a number"})
			return
		}
		req.Limit = limit
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, i18n.T(lang(r), i18n.MsgValidationFailed), h.validator.FormatValidationErrors(err))
		return
	}

	demandes, err := h.demandeUsecase.List(r.Context(), &req)
	if err != nil {
		writeDemandeError(w, r, err, i18n.MsgDemandesLoadFailed)
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgDemandesLoaded), demandes)
}

// Stats returns per-status counts
// @Summary Demande stats
// @Tags Demandes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /demandes/stats [get]
func (h *DemandeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.demandeUsecase.Stats(r.Context())
	if err != nil {
		writeDemandeError(w, r, err, i18n.MsgDemandesLoadFailed)
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgDemandesLoaded), stats)
}

// Get returns one demande
// @Summary Get demande
// @Tags Demandes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Demande ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /demandes/{id} [get]
func (h *DemandeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	demande, err := h.demandeUsecase.Get(r.Context(), id)
	if err != nil {
		writeDemandeError(w, r, err, i18n.MsgDemandesLoadFailed)
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgDemandesLoaded), demande)
}

// Pickup claims a pending demande for the calling agent
// @Summary Pick up demande
// @Tags Demandes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Demande ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /demandes/{id}/pickup [post]
func (h *DemandeHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	demande, err := h.demandeUsecase.Pickup(r.Context(), id)
	if err != nil {
		writeDemandeError(w, r, err, i18n.MsgPickupFailed)
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgDemandePickedUp), demande)
}

// Complete records offers and marks the demande treated
// @Summary Send propositions
// @Tags Demandes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Demande ID"
// @Param request body dto.CompleteDemandeRequest true "Candidate offers"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /demandes/{id}/propositions [post]
func (h *DemandeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CompleteDemandeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.demandeUsecase.Complete(r.Context(), id, &req)
	if err != nil {
		writeDemandeError(w, r, err, i18n.MsgCompleteFailed)
		return
	}

	response.Success(w, http.StatusCreated, i18n.T(lang(r), i18n.MsgPropositionsSent), result)
}
