package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

// CartSessionHeader carries the anonymous cart id between the storefront and the API.
const CartSessionHeader = "X-Cart-Session"

// CartSession binds each request to a cart. Requests without a session get a
// fresh one, echoed back so the client can keep using it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if session == "" {
				session = uuid.NewString()
			} else if !cart.ValidSessionID(session) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("invalid cart session id").
					WithDetails(map[string]string{"header": CartSessionHeader}))
				return
			}

			w.Header().Set(CartSessionHeader, session)

			ctx := WithCartSession(r.Context(), session)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, session)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
