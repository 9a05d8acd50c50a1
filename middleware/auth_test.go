package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	auth  *service.AuthService
	users *service.UserService
	res   *service.AuthResult
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	setGinTestMode()
	useFastPasswords(t)
	config.ResetRedisClientForTest()
	db := newInMemoryDB(t)
	auth := service.NewAuthService(db, time.Hour)
	res, err := auth.Register(context.Background(), service.RegisterInput{Name: "Dr. Test", Email: "doc@docflow.com", Password: "correct-horse"}, service.ClientInfo{IP: "127.0.0.1"})
	require.NoError(t, err)
	return authFixture{auth: auth, users: service.NewUserService(db), res: res}
}

func (f authFixture) router(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{ValidateLoginToken(f.auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetRole(c)
		tokenID, _ := GetTokenID(c)
		c.JSON(http.StatusOK, gin.H{"user": userID, "role": role, "token": tokenID})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestValidateLoginToken_MissingToken(t *testing.T) {
	f := newAuthFixture(t)
	w := serve(f.router(), http.MethodGet, "/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(f.router(), http.MethodGet, "/protected", map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateLoginToken_InvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	w := serve(f.router(), http.MethodGet, "/protected", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestValidateLoginToken_SetsIdentity(t *testing.T) {
	f := newAuthFixture(t)
	w := serve(f.router(), http.MethodGet, "/protected", map[string]string{"Authorization": "Bearer " + f.res.Token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), f.res.User.ID)
	assert.Contains(t, w.Body.String(), `"role":"doctor"`)
}

func TestValidateLoginToken_RevokedSession(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.users.RevokeSessions(context.Background(), f.res.User.ID))

	w := serve(f.router(), http.MethodGet, "/protected", map[string]string{"Authorization": "Bearer " + f.res.Token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateLoginToken_RedisHit(t *testing.T) {
	f := newAuthFixture(t)
	u, claims, err := f.auth.Authenticate(context.Background(), f.res.Token)
	require.NoError(t, err)

	mock := setupRedisMock(t)
	mock.ExpectGet("session:" + claims.ID).SetVal(u.ID)

	w := serve(f.router(), http.MethodGet, "/protected", map[string]string{"Authorization": "Bearer " + f.res.Token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	header := map[string]string{"Authorization": "Bearer " + f.res.Token}

	w := serve(f.router(RequireAdmin()), http.MethodGet, "/protected", header)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := model.RoleAdmin
	_, err := f.users.Update(context.Background(), f.res.User.ID, service.UserUpdate{Role: &admin})
	require.NoError(t, err)

	w = serve(f.router(RequireAdmin()), http.MethodGet, "/protected", header)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}
