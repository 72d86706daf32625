package http

import (
	"encoding/json"
	"net/http"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	cookieDomain   string
	accessMaxAge   int
	refreshMaxAge  int
	cookieSameSite http.SameSite
}

func NewAuthHandler(authService ports.AuthService, cookieDomain string, accessMaxAge, refreshMaxAge int) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		cookieDomain:   cookieDomain,
		accessMaxAge:   accessMaxAge,
		refreshMaxAge:  refreshMaxAge,
		cookieSameSite: http.SameSiteStrictMode,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	UserName   string `json:"userName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (req *loginRequest) identifier() string {
	if req.Identifier != "" {
		return req.Identifier
	}
	if req.UserName != "" {
		return req.UserName
	}
	return req.Email
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrMissingCredentials)
		return
	}

	result, err := h.authService.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	// Tokens travel both as cookies and in the body; clients pick one.
	h.setTokenCookies(w, result.Tokens)
	respond(w, http.StatusOK, result, "login successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		h.expireTokenCookies(w)
		respondError(w, err)
		return
	}

	h.setTokenCookies(w, pair)
	respond(w, http.StatusOK, pair, "tokens refreshed")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}

	h.expireTokenCookies(w)
	respond(w, http.StatusOK, nil, "logged out")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrMissingCredentials)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, nil, "password changed")
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, pair *domain.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   h.accessMaxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   h.refreshMaxAge,
	})
}

func (h *AuthHandler) expireTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "accessToken", MaxAge: -1, Path: "/", Domain: h.cookieDomain})
	http.SetCookie(w, &http.Cookie{Name: "refreshToken", MaxAge: -1, Path: "/", Domain: h.cookieDomain})
}
