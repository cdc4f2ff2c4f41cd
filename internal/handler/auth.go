package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"taskmate/internal/httputil"
	"taskmate/internal/model"
	"taskmate/internal/service"
	"taskmate/internal/transport/http/middleware"
)

// AuthHandler handles signup, signin and logout.
type AuthHandler struct {
	users  *service.UserService
	tokens *service.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

// Signup handles POST /signup.
// Validation failures are aggregated into one response so the client sees
// every problem at once.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if errs := service.ValidateSignup(&req); len(errs) > 0 {
		httputil.WriteValidationErrors(w, errs)
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already registered")
		case errors.Is(err, model.ErrPhoneExists):
			httputil.WriteConflict(w, "Phone already registered")
		default:
			log.Printf("[Auth] Signup error: %v", err)
			httputil.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Signin handles POST /signin.
// The identifier may be an email or a phone number. When the body carries
// an fcmToken the device is registered for push notifications.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req model.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Identifier == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Identifier and password are required")
		return
	}

	user, err := h.users.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		log.Printf("[Auth] Signin error: %v", err)
		httputil.WriteInternalError(w, "Failed to sign in")
		return
	}

	token, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		log.Printf("[Auth] Token issue error: %v", err)
		httputil.WriteInternalError(w, "Failed to sign in")
		return
	}

	if req.FCMToken != "" {
		h.users.RegisterDeviceToken(r.Context(), user.ID, req.FCMToken, "")
	}

	httputil.WriteJSON(w, http.StatusOK, model.SigninResponse{
		User:  user,
		Token: token,
	})
}

// Logout handles POST /logout.
// Revokes exactly the token that authenticated this request and clears the
// user's device tokens so no further pushes reach logged-out devices.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}
	token, ok := middleware.GetToken(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	if err := h.tokens.Revoke(r.Context(), userID, token); err != nil {
		log.Printf("[Auth] Logout error: %v", err)
		httputil.WriteInternalError(w, "Failed to log out")
		return
	}

	if err := h.users.ClearDeviceTokens(r.Context(), userID); err != nil {
		log.Printf("[Auth] Clear device tokens error: %v", err)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
