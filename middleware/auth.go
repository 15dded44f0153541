package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"electro_store/database"
	"electro_store/model"
	"electro_store/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
)

type Claims struct {
	UserID string     `json:"userId"`
	Role   model.Role `json:"role"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// GenerateJWT is used to generate the JWT token
func (t *TokenIssuer) GenerateJWT(userID string, role model.Role) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.expiry).Unix(),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		logrus.Errorf("GenerateJWT: failed to sign token err = %v", err)
		return "", err
	}
	return tokenString, nil
}

func (t *TokenIssuer) ParseJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// UserLookup resolves the account behind a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// puts the current user into the request context.
func AuthMiddleware(tokens *TokenIssuer, users UserLookup) func(http.Handler) http.Handler {
	return authMiddleware(tokens, users, false)
}

// QueryAuthMiddleware also accepts the token as ?token=, for websocket
// clients that cannot set headers.
func QueryAuthMiddleware(tokens *TokenIssuer, users UserLookup) func(http.Handler) http.Handler {
	return authMiddleware(tokens, users, true)
}

func authMiddleware(tokens *TokenIssuer, users UserLookup, allowQuery bool) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" && allowQuery {
				tokenString = r.URL.Query().Get("token")
			}
			if tokenString == "" {
				utils.RespondError(w, http.StatusUnauthorized, nil, "authorization token is required")
				return
			}

			claims, err := tokens.ParseJWT(tokenString)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, err, "invalid or expired token")
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if errors.Is(err, database.ErrNotFound) {
				utils.RespondError(w, http.StatusUnauthorized, err, "user no longer exists")
				return
			}
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, err, "failed to load user")
				return
			}
			if !user.CanSignIn() {
				utils.RespondError(w, http.StatusForbidden, nil, "account is inactive or blocked")
				return
			}

			handler.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
