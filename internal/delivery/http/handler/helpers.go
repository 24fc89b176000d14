package handler

import (
	"encoding/json"
	"net/http"

	"pharmalink/pkg/i18n"
	"pharmalink/pkg/response"
	"pharmalink/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func lang(r *http.Request) string {
	return i18n.DetectLanguage(r.Header.Get("Accept-Language"))
}

// decodeAndValidate reads a JSON body into req and runs struct validation.
// It writes the error response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, i18n.T(lang(r), i18n.MsgInvalidBody), nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, i18n.T(lang(r), i18n.MsgValidationFailed), v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, i18n.T(lang(r), i18n.MsgInvalidID), nil)
		return uuid.Nil, false
	}
	return id, true
}
