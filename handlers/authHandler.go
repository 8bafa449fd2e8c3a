package handlers

import (
	"Appointo/middlewares"
	"Appointo/services"
	"Appointo/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	UserService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		UserService: userService,
	}
}

// Signup registers a patient and logs them in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in utils.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	session, err := h.UserService.Signup(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}

	utils.SetAuthCookies(c, session.AccessToken, session.RefreshToken)
	middlewares.RespondJSON(c, gin.H{
		"message": "User registered successfully",
		"user":    session.User,
	}, http.StatusCreated)
}

// Login authenticates the user and sets the token cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var in utils.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return
	}

	session, err := h.UserService.Login(c.Request.Context(), in)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}

	utils.SetAuthCookies(c, session.AccessToken, session.RefreshToken)
	middlewares.RespondJSON(c, gin.H{
		"message": "Login successful",
		"user":    session.User,
		"token":   session.AccessToken,
	}, http.StatusOK)
}

// Me returns the logged in user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.UserService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"name": user.Name, "email": user.Email}, http.StatusOK)
}

// RefreshToken issues a new access token from the refresh token cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(utils.RefreshTokenCookie)
	if err != nil || token == "" {
		middlewares.HttpError(c, "Refresh token is required", http.StatusUnauthorized, err)
		return
	}

	session, err := h.UserService.Refresh(c.Request.Context(), token)
	if err != nil {
		middlewares.RespondServiceError(c, err)
		return
	}

	utils.SetAccessCookie(c, session.AccessToken)
	middlewares.RespondJSON(c, gin.H{"message": "Token refreshed"}, http.StatusOK)
}

// Logout clears the token cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearAuthCookies(c)
	middlewares.RespondJSON(c, gin.H{"message": "Logged out"}, http.StatusOK)
}
