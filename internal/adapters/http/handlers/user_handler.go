package handlers

import (
	"errors"

	"palika-console/internal/core/services"
	"palika-console/internal/pkg/pagination"
	"palika-console/internal/pkg/response"
	"palika-console/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management requests (admin only)
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users. With page/limit query params the result is
// paginated; without them the full list comes back as a plain array.
// @Summary List users
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.UserContext(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	if params == nil {
		return response.Success(c, "", users)
	}
	return response.Success(c, "", pagination.NewResponse(users, params, total))
}

// Get returns one user
// @Summary Get user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}
	return response.Success(c, "", user)
}

// Create creates a user (admin only)
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body services.CreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	// 1. Parse request body
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// 2. Validate
	if errs := validation.UserSchema.Validate(validation.Values{
		"name":       input.Name,
		"email":      input.Email,
		"password":   input.Password,
		"role":       input.Role,
		"department": numField(input.DepartmentID),
	}); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	// 3. Create
	user, err := h.userService.CreateUser(c.UserContext(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailAlreadyUsed):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrUnknownDepartment):
			return response.BadRequest(c, "Department not found")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created", user)
}

// Update updates a user (admin only)
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body services.UpdateUserInput true "User data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate only the fields being changed; the id key marks this as
	// an edit so the password stays optional
	vals := validation.Values{"id": id}
	if input.Name != nil {
		vals["name"] = *input.Name
	}
	if input.Email != nil {
		vals["email"] = *input.Email
	}
	if input.Password != nil {
		vals["password"] = *input.Password
	}
	if input.Role != nil {
		vals["role"] = *input.Role
	}
	if input.DepartmentID != nil {
		vals["department"] = *input.DepartmentID
	}
	var partial validation.Schema
	for _, f := range validation.UserSchema.Fields {
		if _, ok := vals[f.Name]; ok {
			partial.Fields = append(partial.Fields, f)
		}
	}
	if errs := partial.Validate(vals); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	user, err := h.userService.UpdateUser(c.UserContext(), id, currentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.BadRequest(c, "You cannot change your own role")
		case errors.Is(err, services.ErrEmailAlreadyUsed):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrUnknownDepartment):
			return response.BadRequest(c, "Department not found")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated", user)
}

// Delete deletes a user (admin only). Self-deletion is rejected even
// though the console hides the button for the signed-in row.
// @Summary Delete user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.UserContext(), id, currentUserID(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrCannotDeleteSelf):
			return response.BadRequest(c, "You cannot delete your own account")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted", nil)
}
