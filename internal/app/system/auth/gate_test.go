package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeUsers map[primitive.ObjectID]models.User

func (f fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func newGate(users fakeUsers) *auth.Gate {
	return auth.NewGate(auth.NewTokens("test-secret-must-be-at-least-32-chars", time.Hour), users,
		auth.CookieConfig{Name: "token"}, zap.NewNop())
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.CurrentUser(r)
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(p.Email))
	})
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Message
}

func TestGate_NoToken(t *testing.T) {
	g := newGate(fakeUsers{})
	rec := httptest.NewRecorder()
	g.Protect(authz.AdminOnly)(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/api/admissions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to access this route", message(t, rec))
}

func TestGate_BearerAndCookie(t *testing.T) {
	u := models.User{ID: primitive.NewObjectID(), Email: "ed@college.edu", Role: models.RoleEditor, IsActive: true}
	g := newGate(fakeUsers{u.ID: u})
	tok, _, err := g.Tokens().Issue(u.ID.Hex())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	g.Authenticate(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ed@college.edu", rec.Body.String())

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	rec = httptest.NewRecorder()
	g.Authenticate(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_UnknownAndDeactivatedUser(t *testing.T) {
	inactive := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, IsActive: false}
	g := newGate(fakeUsers{inactive.ID: inactive})

	for _, tc := range []struct {
		id   primitive.ObjectID
		want string
	}{
		{primitive.NewObjectID(), "User not found"},
		{inactive.ID, "User account is deactivated"},
	} {
		tok, _, _ := g.Tokens().Issue(tc.id.Hex())
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		g.Authenticate(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, tc.want, message(t, rec))
	}
}

func TestGate_InvalidToken(t *testing.T) {
	g := newGate(fakeUsers{})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	g.Authenticate(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", message(t, rec))
}

func TestGate_RequireForbidsEditor(t *testing.T) {
	g := newGate(fakeUsers{})
	editor := &auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleEditor}
	admin := &auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin, Email: "admin@college.edu"}

	rec := httptest.NewRecorder()
	g.Require(authz.AdminOnly)(okHandler()).ServeHTTP(rec, auth.WithPrincipal(httptest.NewRequest("PUT", "/", nil), editor))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", message(t, rec))

	rec = httptest.NewRecorder()
	g.Require(authz.AdminOnly)(okHandler()).ServeHTTP(rec, auth.WithPrincipal(httptest.NewRequest("PUT", "/", nil), admin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_Cookies(t *testing.T) {
	g := newGate(fakeUsers{})
	rec := httptest.NewRecorder()
	g.SetCookie(rec, "abc", time.Now().Add(time.Hour))
	c := rec.Result().Cookies()
	require.Len(t, c, 1)
	assert.True(t, c[0].HttpOnly)
	assert.Equal(t, "abc", c[0].Value)

	rec = httptest.NewRecorder()
	g.ClearCookie(rec)
	c = rec.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "", c[0].Value)
	assert.Less(t, c[0].MaxAge, 0)
}
