package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// JoinQR renders the join link of a game as a PNG QR code, so players on the
// same couch can join by camera instead of typing the code.
func (h *Handler) JoinQR(c *gin.Context) {
	g, err := h.Games.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rejectJSON(c, err)
		return
	}

	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	joinURL := base + "/game?id=" + g.ID

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr encode failed"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
