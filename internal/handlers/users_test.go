package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/breadit/backend/internal/database/dbtest"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

func TestUpdateUsername(t *testing.T) {
	e := newTestEnv(t)
	alice := dbtest.CreateUser(t, e.db, "alice")
	bob := dbtest.CreateUser(t, e.db, "bob")

	w := e.do(http.MethodPatch, "/api/username", gin.H{"name": "alice_2"}, &alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.User
	require.NoError(t, e.db.First(&got, "id = ?", alice.ID).Error)
	assert.Equal(t, "alice_2", got.DisplayName())

	w = e.do(http.MethodPatch, "/api/username", gin.H{"name": "alice_2"}, &bob)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username is taken", errorOf(t, w))

	for _, name := range []string{"ab", "has space", "dash-ed"} {
		w = e.do(http.MethodPatch, "/api/username", gin.H{"name": name}, &bob)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, name)
	}

	w = e.do(http.MethodPatch, "/api/username", gin.H{"name": "carol"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe(t *testing.T) {
	e := newTestEnv(t)
	alice := dbtest.CreateUser(t, e.db, "alice")

	w := e.do(http.MethodGet, "/api/me", nil, &alice)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	assert.Equal(t, alice.ID, me.ID)
	assert.Equal(t, "alice@example.com", me.Email)

	w = e.do(http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ghost := models.User{ID: "ghost"}
	w = e.do(http.MethodGet, "/api/me", nil, &ghost)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
