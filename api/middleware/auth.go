package middleware

import (
	"net/http"

	"github.com/minsukoh/vesture-backend/api/responses"
	"github.com/minsukoh/vesture-backend/api/validators"
	"github.com/minsukoh/vesture-backend/internal/users"
	pkgAuth "github.com/minsukoh/vesture-backend/pkg/auth"
	"github.com/minsukoh/vesture-backend/pkg/config"
	pkgerrors "github.com/minsukoh/vesture-backend/pkg/errors"
	"github.com/minsukoh/vesture-backend/pkg/logger"
)

// Auth validates a bearer JWT and seeds the request context with the caller's
// identity. When a directory is provided the token subject must still resolve
// to an active account.
func Auth(cfg config.JWTConfig, directory users.Directory, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.ExtractBearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			userID := claims.UserID.String()
			loginID := claims.LoginID

			if directory != nil {
				identity, err := directory.Resolve(r.Context(), claims.UserID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				loginID = identity.LoginID
			}

			ctx := WithUserID(r.Context(), userID)
			ctx = WithLoginID(ctx, loginID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":  userID,
					"login_id": loginID,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
