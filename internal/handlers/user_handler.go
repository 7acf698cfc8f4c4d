package handlers

import (
	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *services.UserService
	auth        middleware.Authenticator
	validate    *Validator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, auth middleware.Authenticator, validate *Validator) *UserHandler {
	return &UserHandler{userService: userService, auth: auth, validate: validate}
}

// RegisterRoutes registers the user routes. All but /profile are admin only.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users", middleware.AuthRequired(h.auth))
	userRoutes.Get("/profile", h.HandleGetProfile)

	admin := middleware.RequireRoles(models.RoleAdmin)
	userRoutes.Get("/", admin, h.HandleListUsers)
	userRoutes.Get("/:id", admin, h.HandleGetUser)
	userRoutes.Post("/", admin, h.HandleCreateUser)
	userRoutes.Put("/:id", admin, h.HandleUpdateUser)
	userRoutes.Delete("/:id", admin, h.HandleDeleteUser)
}

func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, "Profile retrieved successfully", user)
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	var q services.ListQuery
	if err := h.validate.bindQuery(c, &q); err != nil {
		return err
	}
	users, err := h.userService.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return ok(c, "Users retrieved successfully", users)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, "User retrieved successfully", user)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Create(c.UserContext(), services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return created(c, "User created successfully", user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}
	in := services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		in.Role = &role
	}
	user, err := h.userService.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, "User updated successfully", user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, "User deleted successfully", nil)
}
