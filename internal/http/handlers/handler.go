package handlers

import (
	"errors"
	"net/http"

	"hideseek_webapp/internal/repository"
	"hideseek_webapp/internal/service"
	"hideseek_webapp/internal/session"
	"hideseek_webapp/internal/store"
	"hideseek_webapp/internal/ws"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Games     *service.GameService
	Questions *repository.QuestionRepository // admin CRUD over the bank
	Uploads   service.UploadSink
	Hub       *ws.Hub // reveal frames go to the game's watchers
}

func NewHandler(games *service.GameService, questions *repository.QuestionRepository, uploads service.UploadSink) *Handler {
	return &Handler{
		Games:     games,
		Questions: questions,
		Uploads:   uploads,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (string, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	uid, ok := uidVal.(string)
	return uid, ok && uid != ""
}

// rejectJSON maps a session/store rejection to an inline error response.
// Rejections are recoverable and never kill the session.
func rejectJSON(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrQuestionAlreadyPending):
		c.JSON(http.StatusConflict, gin.H{"error": "please wait for the current question to be answered"})
	case errors.Is(err, session.ErrNoPendingQuestion):
		c.JSON(http.StatusConflict, gin.H{"error": "no question is pending"})
	case errors.Is(err, session.ErrPhotoRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "a photo is required for this answer"})
	case errors.Is(err, session.ErrNoQuestionsInCategory):
		c.JSON(http.StatusNotFound, gin.H{"error": "no questions in this category"})
	case errors.Is(err, session.ErrEmptyDeck):
		c.JSON(http.StatusNotFound, gin.H{"error": "no cards in deck"})
	case errors.Is(err, session.ErrInvalidCardType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card type"})
	case errors.Is(err, session.ErrGameEnded):
		c.JSON(http.StatusConflict, gin.H{"error": "game is not available"})
	case errors.Is(err, session.ErrUnknownRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "join the game first"})
	case errors.Is(err, session.ErrRoleConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "role assignment raced, try again"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "game changed concurrently, try again"})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
