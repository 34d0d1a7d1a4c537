package middleware

import (
	"net/http"

	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/auth"
	"github.com/clockwise-hr/timeclock-backend-go/internal/domain/user"
	"github.com/clockwise-hr/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// Principal resolves the caller identity from the verified token claims. The
// zero value means no identity resolved; services turn that into
// ErrUnauthenticated.
func Principal(r *http.Request) user.Principal {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Principal{}
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return user.Principal{}
	}
	roleStr, _ := claims["role"].(string)

	return user.Principal{
		ID:   userID,
		Role: user.Role(roleStr),
	}
}
