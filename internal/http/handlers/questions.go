package handlers

import (
	"net/http"

	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/ws"

	"github.com/gin-gonic/gin"
)

type requestQuestionRequest struct {
	Category string `json:"category"`
}

// RequestQuestion poses a random question from a category to the hider.
// At most one challenge is in flight per game.
func (h *Handler) RequestQuestion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req requestQuestionRequest
	if err := c.BindJSON(&req); err != nil || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category required"})
		return
	}

	gameID := c.Param("id")
	g, err := h.Games.Get(c.Request.Context(), gameID)
	if err != nil {
		rejectJSON(c, err)
		return
	}
	if !g.HasSeeker(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only seekers request questions"})
		return
	}

	g, res, err := h.Games.RequestQuestion(c.Request.Context(), gameID, req.Category)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	// reveal categories expose the hider to everyone watching, not only the
	// seeker who asked
	if res.RevealsLocation && h.Hub != nil {
		h.Hub.Broadcast(gameID, ws.Message{Type: ws.MsgReveal, Payload: gin.H{
			"hiderLocation": g.HiderLocation,
			"seconds":       int(res.RevealFor.Seconds()),
		}})
	}

	c.JSON(http.StatusOK, gin.H{
		"game":             g,
		"question":         res.Question,
		"reveals_location": res.RevealsLocation,
		"reveal_seconds":   int(res.RevealFor.Seconds()),
	})
}

type answerQuestionRequest struct {
	Correct  bool   `json:"correct"`
	PhotoURL string `json:"photo_url"`
}

// AnswerQuestion resolves the pending challenge. Only the hider answers; a
// correct answer earns one coin, photo questions need uploaded evidence.
func (h *Handler) AnswerQuestion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req answerQuestionRequest
	if err := c.BindJSON(&req); err != nil {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "only the hider answers"})
		return
	}

	g, res, err := h.Games.AnswerQuestion(c.Request.Context(), gameID, req.Correct, req.PhotoURL)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":          g,
		"coins_awarded": res.CoinsAwarded,
		"message":       res.Message,
	})
}

// ExpireQuestion cancels a timed-out challenge. Expiry is an explicit command,
// never automatic.
func (h *Handler) ExpireQuestion(c *gin.Context) {
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

	g, res, err := h.Games.ExpireQuestion(c.Request.Context(), gameID)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":    g,
		"message": res.Message,
	})
}

// ListQuestions returns the whole bank; категории собираются на клиенте.
func (h *Handler) ListQuestions(c *gin.Context) {
	qs, err := h.Games.Questions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": qs})
}

// CreateQuestion adds a question to the bank (admin screen).
func (h *Handler) CreateQuestion(c *gin.Context) {
	var q domain.Question
	if err := c.BindJSON(&q); err != nil || q.Category == "" || q.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and question required"})
		return
	}

	if err := h.Questions.Create(c.Request.Context(), &q); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, q)
}

// DeleteQuestion removes a question from the bank (admin screen).
func (h *Handler) DeleteQuestion(c *gin.Context) {
	if err := h.Questions.Delete(c.Request.Context(), c.Param("qid")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
