package controllers

import (
	"net/http"

	"go-storefront/middleware"
	"go-storefront/services"
)

// UserController handles user-related requests
type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var reg services.Registration
	if !decodeJSON(w, r, &reg) {
		return
	}
	if _, err := uc.Users.Register(r.Context(), reg); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully. Please check your email to verify your account.",
	})
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Verification token missing")
		return
	}
	if _, err := uc.Users.Verify(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully. You can now log in."})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &creds) {
		return
	}
	token, err := uc.Users.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Could not parse user from context")
		return
	}
	user, err := uc.Users.Profile(r.Context(), *userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Could not parse user from context")
		return
	}
	var upd services.ProfileUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	user, err := uc.Users.UpdateProfile(r.Context(), *userID, upd)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
