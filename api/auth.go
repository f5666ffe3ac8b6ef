package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userIDKey contextKey = "userID"

var errUnauthorized = errors.New("authentication required")

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// issueToken signs an HS256 access token whose subject is the user id.
func (app *application) issueToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(app.Config.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(app.Config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (app *application) parseToken(tokenStr string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(t *jwt.Token) (any, error) {
			return []byte(app.Config.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token: %v", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.New("invalid token subject")
	}
	return id, nil
}

// authenticate rejects requests without a valid bearer token and stores the
// caller's id in the request context.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			app.unauthorized(w, errUnauthorized)
			return
		}

		userID, err := app.parseToken(strings.TrimSpace(auth[7:]))
		if err != nil {
			app.Log.WithField("path", r.URL.Path).WithError(err).Debug("rejected token")
			app.unauthorized(w, errors.New("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	if werr := app.SendErrorJSON(w, http.StatusUnauthorized, err); werr != nil {
		app.Log.WithError(werr).Error("failed to write error response")
	}
}

func userFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// currentUser is only called behind authenticate.
func currentUser(r *http.Request) uuid.UUID {
	id, _ := userFromContext(r.Context())
	return id
}
