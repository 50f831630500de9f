package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmstay-go/internal/review"
	"farmstay-go/pkg/logger"
	"farmstay-go/pkg/model"
)

// ReviewHandler handles review related HTTP requests
type ReviewHandler struct {
	reviewService *review.ReviewService
	log           *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *review.ReviewService, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		log:           log,
	}
}

// CreateReview posts a review for the caller and stamps the visit
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetInt("user_id") // Set by auth middleware
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req model.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.reviewService.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrFarmNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Farm not found"})
		case errors.Is(err, review.ErrDuplicateReview):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, review.ErrFutureDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("Failed to create review", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetReview returns a single review
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rv, err := h.reviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, review.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review"})
		return
	}
	c.JSON(http.StatusOK, rv)
}

// GetMyReviews lists the caller's reviews
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID := c.GetInt("user_id") // Set by auth middleware
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reviews, err := h.reviewService.ListByGuest(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DeleteReview deletes one of the caller's reviews and retracts its stamp
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetInt("user_id") // Set by auth middleware
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, review.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete another guest's review"})
		default:
			h.log.Error("Failed to delete review", "review_id", reviewID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
