package handlers

import (
	"net/http"

	"hideseek_webapp/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListDeck returns the shared deck (for the hand UI).
func (h *Handler) ListDeck(c *gin.Context) {
	deck, err := h.Games.Deck(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": deck})
}

// DrawCard uniformly picks one card. The game record is untouched; the card
// is held client-side until played.
func (h *Handler) DrawCard(c *gin.Context) {
	card, err := h.Games.DrawCard(c.Request.Context())
	if err != nil {
		rejectJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// PlayCard applies a previously drawn card to the game. Only the hider plays
// cards.
func (h *Handler) PlayCard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var card domain.Card
	if err := c.BindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	gameID := c.Param("id")
	g, err := h.Games.Get(c.Request.Context(), gameID)
	if err != nil {
		rejectJSON(c, err)
		return
	}
	if g.Hider != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the hider plays cards"})
		return
	}

	g, curse, err := h.Games.PlayCard(c.Request.Context(), gameID, card)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	resp := gin.H{"game": g}
	if curse != nil {
		resp["curse"] = curse
	}
	c.JSON(http.StatusOK, resp)
}
