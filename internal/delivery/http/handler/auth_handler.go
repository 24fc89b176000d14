package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/usecase"
	"pharmalink/pkg/i18n"
	"pharmalink/pkg/response"
	"pharmalink/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// SignUp handles account creation
// @Summary Sign up
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Sign up request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	profile, err := h.authUsecase.SignUp(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPhoneAlreadyExists):
			response.Error(w, http.StatusConflict, i18n.T(lang(r), i18n.MsgPhoneTaken), nil)
		default:
			response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		}
		return
	}

	response.Success(w, http.StatusCreated, i18n.T(lang(r), i18n.MsgSignedUp), profile)
}

// SignIn handles phone/password sign in
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Sign in request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.SignIn(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			response.Unauthorized(w, i18n.T(lang(r), i18n.MsgInvalidCredentials))
		default:
			response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		}
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgSignedIn), tokens)
}

// SignOut revokes the current session
// @Summary Sign out
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	// the refresh token is optional
	var req dto.SignOutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.authUsecase.SignOut(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, usecase.ErrUnauthenticated) {
			response.Unauthorized(w, i18n.T(lang(r), i18n.MsgInvalidToken))
			return
		}
		response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgSignedOut), nil)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrProfileNotFound):
			response.Unauthorized(w, i18n.T(lang(r), i18n.MsgInvalidToken))
		case errors.Is(err, usecase.ErrTokenRevoked):
			response.Unauthorized(w, i18n.T(lang(r), i18n.MsgTokenRevoked))
		default:
			response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		}
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgTokenRefreshed), tokens)
}

// Me returns the session together with the stored profile
// @Summary Current session
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, err := h.authUsecase.GetSession(r.Context())
	if err != nil {
		response.Unauthorized(w, i18n.T(lang(r), i18n.MsgInvalidToken))
		return
	}

	profile, err := h.authUsecase.RefreshProfile(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProfileNotFound):
			response.NotFound(w, i18n.T(lang(r), i18n.MsgProfileNotFound))
		default:
			response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		}
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgSessionLoaded), dto.MeResponse{
		Session: *session,
		Profile: profile,
	})
}

// CompleteProfile sets the display name chosen during onboarding
// @Summary Complete profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CompleteProfileRequest true "Profile"
// @Success 200 {object} response.Response
// @Router /profile [put]
func (h *AuthHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	profile, err := h.authUsecase.CompleteProfile(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProfileNotFound):
			response.NotFound(w, i18n.T(lang(r), i18n.MsgProfileNotFound))
		case errors.Is(err, usecase.ErrUnauthenticated):
			response.Unauthorized(w, i18n.T(lang(r), i18n.MsgInvalidToken))
		default:
			response.InternalServerError(w, i18n.T(lang(r), i18n.MsgInternal))
		}
		return
	}

	response.Success(w, http.StatusOK, i18n.T(lang(r), i18n.MsgProfileCompleted), profile)
}
