package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/middleware"
	"stockhub/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	users services.UserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users services.UserServicer) *AuthHandler {
	return &AuthHandler{users: users}
}

// SignUpRequest represents the sign-up request payload
type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=25"`
	LastName string `json:"lastName" binding:"required,max=25"`
	Username string `json:"username" binding:"required,min=3,max=25"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=22,password"`
	Role     string `json:"role" binding:"omitempty,max=25"`
}

// SignInRequest represents the sign-in request payload
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles user registration
// @Summary     Register a new user
// @Description Create an account and receive a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignUpRequest true "User registration data"
// @Success     201 {object} map[string]interface{} "Created user and token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email or username already taken"
// @Router      /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.users.CreateUser(services.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userJSON(user),
	})
}

// SignIn handles user login
// @Summary     Sign in
// @Description Verify credentials and receive a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignInRequest true "User credentials"
// @Success     200 {object} map[string]interface{} "User and token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.users.AttemptSignIn(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userJSON(user),
	})
}
