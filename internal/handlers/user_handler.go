package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/pagination"
	"stockhub/internal/services"
)

// UserHandler handles user management requests.
type UserHandler struct {
	users services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServicer) *UserHandler {
	return &UserHandler{users: users}
}

// UpdateUserRequest carries a partial profile update. Absent fields are
// left untouched; a present password is re-hashed before storage.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=25"`
	LastName *string `json:"lastName" binding:"omitempty,max=25"`
	Username *string `json:"username" binding:"omitempty,min=3,max=25"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8,max=22,password"`
	Role     *string `json:"role" binding:"omitempty,max=25"`
}

// ListUsers returns a paginated user listing
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Paginated users"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.users.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	users := make([]gin.H, 0, len(result.Data))
	for i := range result.Data {
		users = append(users, userJSON(&result.Data[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        users,
		"page":        result.Page,
		"page_size":   result.PageSize,
		"total_items": result.TotalItems,
		"total_pages": result.TotalPages,
	})
}

// CreateUser creates a user through the management surface
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SignUpRequest true "User data"
// @Success     201 {object} map[string]interface{} "Created user"
// @Failure     409 {object} ErrorResponse "Email or username already taken"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
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

	c.JSON(http.StatusCreated, gin.H{"user": userJSON(user)})
}

// GetUser returns one user by ID
// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} map[string]interface{} "User"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.users.GetUserByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// UpdateUser applies a partial update
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Email or username already taken"
// @Router      /users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.users.UpdateUser(id, services.UpdateUserInput{
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

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// DeleteUser removes a user
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.users.DeleteUser(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
