package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

func performWithClaims(t *testing.T, claims *models.JWTClaims, roles ...models.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}, RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRolesAllows(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: "u1", Role: models.RoleTutor}, models.RoleTutor, models.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesForbidsWrongRole(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}, models.RoleTutor)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesUnauthenticated(t *testing.T) {
	w := performWithClaims(t, nil, models.RoleTutor)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
