package authorization

import (
	"MediCare/config/jwt"
	"MediCare/models"
	"MediCare/role"
	"MediCare/util"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func loaderFor(u *models.User) UserLoader {
	return func(ctx context.Context, id string) (*models.User, error) {
		if u == nil || u.ID.Hex() != id {
			return nil, util.NewNotFoundError(util.USER_NOT_FOUND)
		}
		return u, nil
	}
}

func newUser(r string) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: r, IsActive: true}
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractToken("Bearer abc"))
	assert.Equal(t, "abc", ExtractToken("abc"))
	assert.Equal(t, "", ExtractToken("Bearer"))
	assert.Equal(t, "", ExtractToken("   "))
}

func TestAuthenticate(t *testing.T) {
	jwt.Init("auth-test-secret", time.Hour)
	user := newUser(role.Patient)
	token, err := jwt.GenerateJWT(user.ID.Hex())
	require.NoError(t, err)
	ctx := context.Background()

	got, err := Authenticate(ctx, "Bearer "+token, loaderFor(user))
	require.NoError(t, err)
	assert.Equal(t, user, got)

	got, err = Authenticate(ctx, token, loaderFor(user))
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = Authenticate(ctx, "", loaderFor(user))
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = Authenticate(ctx, "Bearer garbage", loaderFor(user))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Authenticate(ctx, "Bearer "+token, loaderFor(nil))
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestAuthenticate_LoaderFailure(t *testing.T) {
	jwt.Init("auth-test-secret", time.Hour)
	token, err := jwt.GenerateJWT(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	boom := errors.New("connection refused")
	_, err = Authenticate(context.Background(), token, func(ctx context.Context, id string) (*models.User, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, http.StatusInternalServerError, util.StatusOf(err))
}

func TestAuthenticate_StaleToken(t *testing.T) {
	jwt.Init("auth-test-secret", time.Hour)
	user := newUser(role.Patient)
	token, err := jwt.GenerateJWT(user.ID.Hex())
	require.NoError(t, err)

	changed := time.Now().Add(2 * time.Second)
	user.PasswordChangedAt = &changed
	_, err = Authenticate(context.Background(), token, loaderFor(user))
	assert.ErrorIs(t, err, ErrStaleToken)

	earlier := time.Now().Add(-time.Minute)
	user.PasswordChangedAt = &earlier
	_, err = Authenticate(context.Background(), token, loaderFor(user))
	assert.NoError(t, err)
}

func TestJWTAuthAndRestrictTo(t *testing.T) {
	jwt.Init("auth-test-secret", time.Hour)
	admin := newUser(role.Admin)
	patient := newUser(role.Patient)
	users := map[string]*models.User{admin.ID.Hex(): admin, patient.ID.Hex(): patient}
	load := func(ctx context.Context, id string) (*models.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, util.NewNotFoundError(util.USER_NOT_FOUND)
	}

	r := gin.New()
	r.GET("/admin", JWTAuth(load), RestrictTo(role.Admin), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, util.SuccessResponse(u.Role))
	})

	call := func(header string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	adminToken, _ := jwt.GenerateJWT(admin.ID.Hex())
	patientToken, _ := jwt.GenerateJWT(patient.ID.Hex())

	assert.Equal(t, http.StatusOK, call("Bearer "+adminToken))
	assert.Equal(t, http.StatusForbidden, call("Bearer "+patientToken))
	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer nope"))
}

func TestOptionalAuth(t *testing.T) {
	jwt.Init("auth-test-secret", time.Hour)
	user := newUser(role.Patient)
	token, _ := jwt.GenerateJWT(user.ID.Hex())

	r := gin.New()
	r.GET("/book", OptionalAuth(loaderFor(user)), func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/book", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())
}

func TestAuthorize(t *testing.T) {
	assert.ErrorIs(t, Authorize(nil, role.Admin), ErrMissingToken)
	assert.NoError(t, Authorize(newUser(role.Doctor), role.Admin, role.Doctor))
	assert.ErrorIs(t, Authorize(newUser(role.Patient), role.Admin), ErrForbidden)
}
