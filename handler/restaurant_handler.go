package handler

import (
	"strings"

	"koya/service"
	"koya/utils"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	restaurantSvc *service.RestaurantService
	relationSvc   *service.RestaurantRelationService
	reviewSvc     *service.ReviewService
}

func NewRestaurantHandler(restaurantSvc *service.RestaurantService, relationSvc *service.RestaurantRelationService, reviewSvc *service.ReviewService) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantSvc: restaurantSvc,
		relationSvc:   relationSvc,
		reviewSvc:     reviewSvc,
	}
}

type createRestaurantRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Address     string   `json:"address" binding:"required,max=300"`
	City        string   `json:"city" binding:"required,max=100"`
	Province    string   `json:"province" binding:"max=100"`
	CuisineType string   `json:"cuisineType" binding:"max=100"`
	PriceRange  int      `json:"priceRange" binding:"required,min=1,max=4"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,url"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// SearchRestaurants GET /restaurants/search?q=
func (h *RestaurantHandler) SearchRestaurants(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	restaurants, err := h.restaurantSvc.SearchRestaurants(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"restaurants": restaurants})
}

// GetRestaurantBySlug GET /restaurants/slug/:slug
func (h *RestaurantHandler) GetRestaurantBySlug(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantSvc.GetRestaurantBySlug(userID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, restaurant)
}

// CreateRestaurant POST /restaurants
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	restaurant, err := h.restaurantSvc.CreateRestaurant(userID, service.CreateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		Province:    strings.TrimSpace(req.Province),
		CuisineType: strings.TrimSpace(req.CuisineType),
		PriceRange:  req.PriceRange,
		ImageURL:    req.ImageURL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, restaurant)
}

// GetRestaurantInfo GET /restaurants/:id
func (h *RestaurantHandler) GetRestaurantInfo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	info, err := h.restaurantSvc.GetRestaurantInfo(userID, restaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// ToggleRelation returns the handler for POST /restaurants/:id/{bookmark|favorite|visited}.
func (h *RestaurantHandler) ToggleRelation(kind service.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		restaurantID, ok := pathID(c, "id")
		if !ok {
			return
		}

		on, err := h.relationSvc.Toggle(kind, userID, restaurantID)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{kind.ResponseKey(): on})
	}
}

// ListRelationUsers returns the handler for GET /restaurants/:id/{bookmarks|favorites|visited}/list.
func (h *RestaurantHandler) ListRelationUsers(kind service.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		restaurantID, ok := pathID(c, "id")
		if !ok {
			return
		}

		users, err := h.relationSvc.ListUsers(kind, userID, restaurantID)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"users": users})
	}
}

// GetRestaurantReviews GET /restaurants/:id/reviews?cursor=
func (h *RestaurantHandler) GetRestaurantReviews(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cursor, ok := cursorParam(c)
	if !ok {
		return
	}

	page, err := h.reviewSvc.GetRestaurantReviews(userID, restaurantID, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page)
}
