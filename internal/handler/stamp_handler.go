package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"farmstay-go/internal/region"
	"farmstay-go/internal/stamp"
	"farmstay-go/pkg/logger"
)

// StampHandler serves the stamp collection and leaderboard
type StampHandler struct {
	catalog      *region.Catalog
	collections  *stamp.CollectionBuilder
	ranker       *stamp.Ranker
	backfiller   *stamp.Backfiller
	log          *logger.Logger
	defaultLimit int
	maxLimit     int
}

// NewStampHandler creates a new stamp handler
func NewStampHandler(catalog *region.Catalog, collections *stamp.CollectionBuilder, ranker *stamp.Ranker,
	backfiller *stamp.Backfiller, log *logger.Logger, defaultLimit, maxLimit int) *StampHandler {
	return &StampHandler{
		catalog:      catalog,
		collections:  collections,
		ranker:       ranker,
		backfiller:   backfiller,
		log:          log,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// GetPrefectures returns the active region catalog
func (h *StampHandler) GetPrefectures(c *gin.Context) {
	regions, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list prefectures", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prefectures"})
		return
	}
	c.JSON(http.StatusOK, regions)
}

// GetUserCollection returns the collection of the user in the path
func (h *StampHandler) GetUserCollection(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	h.collection(c, userID)
}

// GetMyCollection returns the caller's own collection
func (h *StampHandler) GetMyCollection(c *gin.Context) {
	userID := c.GetInt("user_id") // Set by auth middleware
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	h.collection(c, userID)
}

func (h *StampHandler) collection(c *gin.Context, userID int) {
	resp, err := h.collections.BuildCollection(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to build stamp collection", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stamp collection"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPrefectureDetail returns one region of a user's collection
func (h *StampHandler) GetPrefectureDetail(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	detail, err := h.collections.PrefectureDetail(c.Request.Context(), userID, c.Param("prefecture_code"))
	if err != nil {
		if errors.Is(err, stamp.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prefecture not visited or not found"})
			return
		}
		h.log.Error("Failed to fetch prefecture detail", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prefecture detail"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetRanking returns the leaderboard. The caller's entry comes from the
// token when present, otherwise from the current_user_id query parameter.
func (h *StampHandler) GetRanking(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	var me *int
	if id := c.GetInt("user_id"); id != 0 {
		me = &id
	} else if raw := c.Query("current_user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid current_user_id"})
			return
		}
		me = &id
	}

	resp, err := h.ranker.Rank(c.Request.Context(), limit, me)
	if err != nil {
		h.log.Error("Failed to compute ranking", "limit", limit, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ranking"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RunBackfill replays every review through the synchronizer and returns the report
func (h *StampHandler) RunBackfill(c *gin.Context) {
	report, err := h.backfiller.Run(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to start stamp backfill", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run backfill"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// pathID parses a positive integer path parameter, writing a 400 when it is not one
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
