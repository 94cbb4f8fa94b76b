package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serveWithRole(role string, set bool) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)

	if set {
		r.Use(func(c *gin.Context) {
			c.Set(ctxKeyUserID, "m1")
			c.Set(ctxKeyRole, role)
			c.Next()
		})
	}
	r.Use(RequireModerator())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	c.Request, _ = http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, c.Request)
	return w
}

func TestRequireModerator_Admin(t *testing.T) {
	if w := serveWithRole("ADMIN", true); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequireModerator_Operator(t *testing.T) {
	if w := serveWithRole("OPERATOR", true); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequireModerator_User(t *testing.T) {
	if w := serveWithRole("USER", true); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRequireModerator_NoRole(t *testing.T) {
	if w := serveWithRole("", false); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
