package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pharmalink/internal/usecase"
	"pharmalink/pkg/i18n"
	"pharmalink/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, i18n.T(lang(r), i18n.MsgInvalidID), nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, i18n.T(lang(r), i18n.MsgAuditLogNotFound))
			return
		}
		response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgAuditLogsLoaded), auditLog)
}

func (h *AuditLogHandler) GetMyAuditLogs(w http.ResponseWriter, r *http.Request) {
	auditLogs, err := h.auditLogUsecase.GetMyAuditLogs(r.Context())
	if err != nil {
		response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgAuditLogsLoaded), auditLogs)
}
