package handlers

import (
	"storerate/internal/middleware"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	ratingService *services.RatingService
	auth          middleware.Authenticator
	validate      *Validator
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *services.RatingService, auth middleware.Authenticator, validate *Validator) *RatingHandler {
	return &RatingHandler{ratingService: ratingService, auth: auth, validate: validate}
}

// RegisterRoutes registers the rating routes. All require authentication.
func (h *RatingHandler) RegisterRoutes(router fiber.Router) {
	ratingRoutes := router.Group("/ratings", middleware.AuthRequired(h.auth))
	ratingRoutes.Post("/", h.HandleSubmitRating)
	ratingRoutes.Get("/my-ratings", h.HandleMyRatings)
	ratingRoutes.Get("/store/:storeId", h.HandleStoreRatings)
	ratingRoutes.Put("/:id", h.HandleUpdateRating)
}

func (h *RatingHandler) HandleSubmitRating(c *fiber.Ctx) error {
	var req submitRatingRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}
	rating, err := h.ratingService.Submit(c.UserContext(), middleware.CurrentUser(c).ID, req.StoreID, req.Rating)
	if err != nil {
		return err
	}
	return created(c, "Rating submitted successfully", rating)
}

func (h *RatingHandler) HandleUpdateRating(c *fiber.Ctx) error {
	var req updateRatingRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}
	rating, err := h.ratingService.Update(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("id"), req.Rating)
	if err != nil {
		return err
	}
	return ok(c, "Rating updated successfully", rating)
}

func (h *RatingHandler) HandleMyRatings(c *fiber.Ctx) error {
	ratings, err := h.ratingService.ListMine(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, "Ratings retrieved successfully", ratings)
}

func (h *RatingHandler) HandleStoreRatings(c *fiber.Ctx) error {
	res, err := h.ratingService.ListForStore(c.UserContext(), middleware.CurrentUser(c), c.Params("storeId"))
	if err != nil {
		return err
	}
	return ok(c, "Store ratings retrieved successfully", res)
}
