package handlers

import (
	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for stores.
type StoreHandler struct {
	storeService *services.StoreService
	auth         middleware.Authenticator
	validate     *Validator
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService, auth middleware.Authenticator, validate *Validator) *StoreHandler {
	return &StoreHandler{storeService: storeService, auth: auth, validate: validate}
}

// RegisterRoutes registers the store routes. Reads are public; a signed-in
// caller additionally sees their own rating.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	optional := middleware.OptionalAuth(h.auth)
	storeRoutes.Get("/", optional, h.HandleListStores)
	storeRoutes.Get("/:id", optional, h.HandleGetStore)

	admin := []fiber.Handler{middleware.AuthRequired(h.auth), middleware.RequireRoles(models.RoleAdmin)}
	storeRoutes.Post("/", append(admin, h.HandleCreateStore)...)
	storeRoutes.Put("/:id", append(admin, h.HandleUpdateStore)...)
	storeRoutes.Delete("/:id", append(admin, h.HandleDeleteStore)...)
}

func (h *StoreHandler) HandleListStores(c *fiber.Ctx) error {
	var q services.ListQuery
	if err := h.validate.bindQuery(c, &q); err != nil {
		return err
	}
	stores, err := h.storeService.List(c.UserContext(), q, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return ok(c, "Stores retrieved successfully", stores)
}

func (h *StoreHandler) HandleGetStore(c *fiber.Ctx) error {
	store, err := h.storeService.Get(c.UserContext(), c.Params("id"), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return ok(c, "Store retrieved successfully", store)
}

func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req createStoreRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}
	store, err := h.storeService.Create(c.UserContext(), services.StoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		return err
	}
	return created(c, "Store created successfully", store)
}

func (h *StoreHandler) HandleUpdateStore(c *fiber.Ctx) error {
	var req updateStoreRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}
	store, err := h.storeService.Update(c.UserContext(), c.Params("id"), services.UpdateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		return err
	}
	return ok(c, "Store updated successfully", store)
}

func (h *StoreHandler) HandleDeleteStore(c *fiber.Ctx) error {
	if err := h.storeService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, "Store deleted successfully", nil)
}
