package handlers

import (
	"net/http"

	"hideseek_webapp/internal/domain"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Size domain.GameSize `json:"size"`
}

// CreateGame starts a new session. Size fixes the hiding zone radius and the
// hiding period; both are read-only afterwards.
func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Size == "" {
		req.Size = domain.SizeMedium
	}
	if !req.Size.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be small, medium or large"})
		return
	}

	g, err := h.Games.CreateGame(c.Request.Context(), req.Size)
	if err != nil {
		rejectJSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// GetGame returns the latest committed snapshot.
func (h *Handler) GetGame(c *gin.Context) {
	g, err := h.Games.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rejectJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetGameByCode resolves a joinable game by its 4-digit code. Ended games are
// not joinable.
func (h *Handler) GetGameByCode(c *gin.Context) {
	g, err := h.Games.QueryByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		rejectJSON(c, err)
		return
	}
	if g.Status == domain.StatusEnded {
		c.JSON(http.StatusConflict, gin.H{"error": "game is not available"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// JoinGame assigns the caller a role: first joiner is the hider, everyone
// after a seeker. Idempotent for already-assigned identities.
func (h *Handler) JoinGame(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	role, g, err := h.Games.JoinGame(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role": role,
		"game": g,
	})
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation records the caller's latest position sample. The role is
// derived from the game record, not from the request.
func (h *Handler) UpdateLocation(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req locationRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	g, err := h.Games.UpdateLocation(c.Request.Context(), c.Param("id"), userID, domain.LatLng{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		rejectJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "version": g.Version})
}

// EndGame marks the session terminal. The core only accepts game over, it
// never originates it.
func (h *Handler) EndGame(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	gameID := c.Param("id")
	g, err := h.Games.Get(c.Request.Context(), gameID)
	if err != nil {
		rejectJSON(c, err)
		return
	}
	if _, member := g.RoleOf(userID); !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "join the game first"})
		return
	}

	g, err = h.Games.EndGame(c.Request.Context(), gameID)
	if err != nil {
		rejectJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
