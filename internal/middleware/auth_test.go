package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mentormatch/internal/config"
	"mentormatch/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAuthTest() (*gin.Engine, *session.Manager) {
	config.GlobalConfig.JWT.Secret = "test_secret"
	config.GlobalConfig.JWT.Expire = 1

	gin.SetMode(gin.TestMode)
	sessions := session.NewManager(time.Hour)

	r := gin.New()
	r.Use(Auth(sessions))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})

	return r, sessions
}

func TestTokenRoundTrip(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "test_secret"
	config.GlobalConfig.JWT.Expire = 1

	token, err := GenerateToken("user-42")
	assert.NoError(t, err)

	userID, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestAuthWithBearerToken(t *testing.T) {
	r, _ := setupAuthTest()

	token, err := GenerateToken("user-1")
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthWithSessionCookie(t *testing.T) {
	r, sessions := setupAuthTest()

	sid, err := sessions.Create(t.Context(), "user-2")
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-2")
}

func TestAuthRejections(t *testing.T) {
	r, _ := setupAuthTest()

	tests := []struct {
		name    string
		prepare func(req *http.Request)
	}{
		{
			name:    "无任何凭证",
			prepare: func(req *http.Request) {},
		},
		{
			name: "错误的token格式",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Basic abc")
			},
		},
		{
			name: "伪造的token",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer not.a.token")
			},
		},
		{
			name: "无效的会话cookie",
			prepare: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
