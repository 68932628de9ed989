package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/response"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
)

// Header names used by the API key check.
const (
	APIKeyHeader    = "X-API-Key"
	TimeTokenHeader = "X-Time-Token"
)

// TimeTokenTTL is how long a generated time token is accepted.
const TimeTokenTTL = 5 * time.Minute

// timeTokenKey derives the fernet key from the API key.
func timeTokenKey(apiKey string) *fernet.Key {
	k := fernet.Key(sha256.Sum256([]byte(apiKey)))
	return &k
}

// GenerateTimeToken returns a fernet token for the current time, signed with
// a key derived from apiKey. Returns "" if the token cannot be created.
func GenerateTimeToken(apiKey string) string {
	msg := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	tok, err := fernet.EncryptAndSign(msg, timeTokenKey(apiKey))
	if err != nil {
		return ""
	}
	return string(tok)
}

// APIKeyMiddleware requires a matching X-API-Key header and a fresh
// X-Time-Token. The expected key is read from INTERNAL_API_KEY on each request.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")
		if expected == "" {
			response.RespondError(w, http.StatusInternalServerError, "internal server error", "Authentication not loaded")
			return
		}

		provided := r.Header.Get(APIKeyHeader)
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", apperrors.ErrMissingAPIKey.Error())
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", apperrors.ErrInvalidAPIKey.Error())
			return
		}

		token := r.Header.Get(TimeTokenHeader)
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}
		if fernet.VerifyAndDecrypt([]byte(token), TimeTokenTTL, []*fernet.Key{timeTokenKey(expected)}) == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}
