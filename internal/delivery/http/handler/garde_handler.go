package handler

import (
	"errors"
	"net/http"

	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/usecase"
	"pharmalink/pkg/i18n"
	"pharmalink/pkg/response"
	"pharmalink/pkg/validator"
)

type GardeHandler struct {
	gardeUsecase    usecase.GardeUsecase
	pharmacyUsecase usecase.PharmacyUsecase
	validator       *validator.CustomValidator
}

func NewGardeHandler(gardeUsecase usecase.GardeUsecase, pharmacyUsecase usecase.PharmacyUsecase, validator *validator.CustomValidator) *GardeHandler {
	return &GardeHandler{
		gardeUsecase:    gardeUsecase,
		pharmacyUsecase: pharmacyUsecase,
		validator:       validator,
	}
}

func writeGardeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	l := lang(r)
	switch {
	case errors.Is(err, usecase.ErrNoPharmaciesSelected):
		response.Error(w, http.StatusBadRequest, i18n.T(l, i18n.MsgNoPharmacySelected), nil)
	case errors.Is(err, usecase.ErrUnknownPharmacies):
		response.Error(w, http.StatusBadRequest, i18n.T(l, i18n.MsgUnknownPharmacies), nil)
	case errors.Is(err, usecase.ErrInvalidWeek):
		response.Error(w, http.StatusBadRequest, i18n.T(l, i18n.MsgInvalidWeek), nil)
	case errors.Is(err, usecase.ErrWeekAlreadyDefined):
		response.Error(w, http.StatusConflict, i18n.T(l, i18n.MsgWeekAlreadyDefined), nil)
	case errors.Is(err, usecase.ErrNoGardesForWeek):
		response.NotFound(w, i18n.T(l, i18n.MsgNoGardesForWeek))
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, i18n.T(l, i18n.MsgInvalidToken))
	default:
		response.InternalServerError(w, i18n.T(l, fallback))
	}
}

// ListToday returns the pharmacies on duty today
// @Summary Today's on-duty pharmacies
// @Tags Gardes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /gardes/today [get]
func (h *GardeHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	gardes, err := h.gardeUsecase.ListToday(r.Context())
	if err != nil {
		writeGardeError(w, r, err, i18n.MsgGardesLoadFailed)
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgGardesLoaded), gardes)
}

// ListWeek returns the on-duty pharmacies of the current or next week
// @Summary Week on-duty pharmacies
// @Tags Gardes
// @Security BearerAuth
// @Produce json
// @Param week query string false "current or next"
// @Success 200 {object} response.Response
// @Router /gardes/week [get]
func (h *GardeHandler) ListWeek(w http.ResponseWriter, r *http.Request) {
	gardes, err := h.gardeUsecase.ListWeek(r.Context(), r.URL.Query().Get("week"))
	if err != nil {
		writeGardeError(w, r, err, i18n.MsgGardesLoadFailed)
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgGardesLoaded), gardes)
}

// DefineWeek saves the week's on-duty pharmacies. Resend with replace=true
// after a 409 to overwrite.
// @Summary Define on-duty week
// @Tags Gardes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DefineWeekRequest true "Week batch"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /gardes/week [post]
func (h *GardeHandler) DefineWeek(w http.ResponseWriter, r *http.Request) {
	var req dto.DefineWeekRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	gardes, err := h.gardeUsecase.Define(r.Context(), &req)
	if err != nil {
		writeGardeError(w, r, err, i18n.MsgGardesDefineFailed)
		return
	}

	response.Success(w, http.StatusCreated, i18n.T(lang(r), i18n.MsgGardesDefined), gardes)
}

// DeleteCurrentWeek removes every on-duty row of the current week
// @Summary Delete current week
// @Tags Gardes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /gardes/week [delete]
func (h *GardeHandler) DeleteCurrentWeek(w http.ResponseWriter, r *http.Request) {
	result, err := h.gardeUsecase.DeleteCurrentWeek(r.Context())
	if err != nil {
		writeGardeError(w, r, err, i18n.MsgGardesDeleteFailed)
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgGardesDeleted), result)
}

// ListPharmacies returns the active registry for the on-duty picker
// @Summary Active pharmacies
// @Tags Pharmacies
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /pharmacies [get]
func (h *GardeHandler) ListPharmacies(w http.ResponseWriter, r *http.Request) {
	pharmacies, err := h.pharmacyUsecase.ListActive(r.Context())
	if err != nil {
		response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgPharmaciesLoaded), pharmacies)
}
