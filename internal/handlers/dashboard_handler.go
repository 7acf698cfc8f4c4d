package handlers

import (
	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the admin and store-owner dashboards.
type DashboardHandler struct {
	dashboardService *services.DashboardService
	auth             middleware.Authenticator
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService, auth middleware.Authenticator) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, auth: auth}
}

func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	dashboardRoutes := router.Group("/dashboard", middleware.AuthRequired(h.auth))
	dashboardRoutes.Get("/admin-stats", middleware.RequireRoles(models.RoleAdmin), h.HandleAdminStats)
	dashboardRoutes.Get("/store-stats", middleware.RequireRoles(models.RoleStoreOwner), h.HandleStoreStats)
}

func (h *DashboardHandler) HandleAdminStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.AdminStats(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, "Admin statistics retrieved successfully", stats)
}

func (h *DashboardHandler) HandleStoreStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.StoreOwnerStats(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, "Store statistics retrieved successfully", stats)
}
