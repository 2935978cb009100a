package authorization

import (
	"MediCare/config/jwt"
	"MediCare/models"
	"MediCare/util"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	UserKey   = "user"
	UserIDKey = "userId"
)

var (
	ErrMissingToken = util.NewUnauthorizedError(util.NO_TOKEN_PROVIDED)
	ErrInvalidToken = util.NewUnauthorizedError(util.INVALID_OR_EXPIRED_TOKEN)
	ErrUserGone     = util.NewUnauthorizedError(util.USER_NO_LONGER_EXISTS)
	ErrStaleToken   = util.NewUnauthorizedError(util.PASSWORD_CHANGED_RECENTLY)
	ErrForbidden    = util.NewForbiddenError(util.NO_PERMISSION)
)

// UserLoader resolves the id carried in a token. It returns util.NotFound kind
// errors when the account does not exist.
type UserLoader func(ctx context.Context, id string) (*models.User, error)

/*
* Accept "Bearer <token>" or the bare token
 */
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer") {
		parts := strings.Fields(header)
		if len(parts) < 2 {
			return ""
		}
		return parts[1]
	}
	return header
}

/*
* Verify the token and load the account behind it
* Reject tokens issued before the last password change
 */
func Authenticate(ctx context.Context, header string, load UserLoader) (*models.User, error) {
	token := ExtractToken(header)
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := jwt.ParseJWT(token)
	if err != nil {
		log.Debug().Err(err).Msg("token verification failed")
		return nil, ErrInvalidToken
	}
	user, err := load(ctx, claims.ID)
	if err != nil {
		if util.StatusOf(err) == http.StatusNotFound {
			log.Warn().Str("userId", claims.ID).Msg("token subject no longer exists")
			return nil, ErrUserGone
		}
		log.Error().Err(err).Str("userId", claims.ID).Msg("unable to load token subject")
		return nil, err
	}
	if user.ChangedPasswordAfter(claims.IssuedAtTime()) {
		log.Warn().Str("userId", claims.ID).Msg("token issued before password change")
		return nil, ErrStaleToken
	}
	return user, nil
}

func JWTAuth(load UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := Authenticate(c.Request.Context(), c.GetHeader("Authorization"), load)
		if err != nil {
			c.AbortWithStatusJSON(util.StatusOf(err), util.FailedResponse(err))
			return
		}
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID.Hex())
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and never rejects.
func OptionalAuth(load UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := Authenticate(c.Request.Context(), c.GetHeader("Authorization"), load); err == nil {
			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID.Hex())
		}
		c.Next()
	}
}

func Authorize(user *models.User, roles ...string) error {
	if user == nil {
		return ErrMissingToken
	}
	for _, r := range roles {
		if user.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := CurrentUser(c)
		if err := Authorize(user, roles...); err != nil {
			log.Warn().Str("path", c.FullPath()).Msg("role not permitted")
			c.AbortWithStatusJSON(util.StatusOf(err), util.FailedResponse(err))
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
