package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"hideseek_webapp/internal/service"
)

func jwtRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		c.JSON(200, gin.H{"user_id": uid})
	})
	return r
}

func TestJWT_BearerHeader(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r := jwtRouter()

	token, err := service.GenerateJWT("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestJWT_TokenQueryParam(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r := jwtRouter()

	token, _ := service.GenerateJWT("user-1")

	req := httptest.NewRequest("GET", "/me?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestJWT_Rejections(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r := jwtRouter()

	cases := map[string]*http.Request{
		"no token":  httptest.NewRequest("GET", "/me", nil),
		"bad token": httptest.NewRequest("GET", "/me?token=garbage", nil),
	}
	for name, req := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d", name, w.Code)
		}
	}
}
