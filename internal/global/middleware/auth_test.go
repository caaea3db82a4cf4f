package middleware

import (
	"net/http"
	"testing"

	"competition-jury-system/internal/global/jwt"
	"competition-jury-system/internal/global/response"
	"competition-jury-system/internal/model"
	"competition-jury-system/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/me", Auth(), func(c *gin.Context) {
		claims, _ := jwt.GetUserPayload(c)
		response.Success(c, claims.ID)
	})
	r.GET("/score", Auth(model.CapScore), func(c *gin.Context) {
		response.Success(c)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func bearer(payload jwt.Payload) map[string]string {
	return map[string]string{"Authorization": "Bearer " + jwt.CreateToken(payload)}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	test.Setup(t)
	status, resp := test.Serve(t, newRouter(), http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	test.ErrorEqual(t, response.ErrTokenInvalid, resp)

	status, _ = test.Serve(t, newRouter(), http.MethodGet, "/me", map[string]string{"Authorization": "Bearer garbage"})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthChecksCapability(t *testing.T) {
	test.Setup(t)
	r := newRouter()

	status, resp := test.Serve(t, r, http.MethodGet, "/score", bearer(jwt.Payload{ID: 1, RoleID: int(model.RoleUser)}))
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, response.ErrUnauthorized.Code, resp.Code)

	status, resp = test.Serve(t, r, http.MethodGet, "/score", bearer(jwt.Payload{ID: 2, RoleID: int(model.RoleJury)}))
	require.Equal(t, http.StatusOK, status)
	test.NoError(t, resp)

	status, _ = test.Serve(t, r, http.MethodGet, "/score", bearer(jwt.Payload{ID: 3, RoleID: int(model.RoleModerator)}))
	require.Equal(t, http.StatusForbidden, status)
}

func TestAuthStoresPayload(t *testing.T) {
	test.Setup(t)
	status, resp := test.Serve(t, newRouter(), http.MethodGet, "/me", bearer(jwt.Payload{ID: 42, RoleID: int(model.RoleUser)}))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(42), resp.Data)
}

func TestRecoveryConvertsPanic(t *testing.T) {
	test.Setup(t)
	status, resp := test.Serve(t, newRouter(), http.MethodGet, "/panic", nil)
	require.Equal(t, http.StatusInternalServerError, status)
	test.ErrorEqual(t, response.ErrServerInternal, resp)
}
