package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

const tokenIssuer = "voidlight-table"

// viewClaims grant one view mode of the table.
type viewClaims struct {
	Mode string `json:"mode"`
	jwt.RegisteredClaims
}

// ViewTokens signs and checks the links that open the keeper or player
// view.
type ViewTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewViewTokens builds a signer. A zero ttl issues tokens that never
// expire.
func NewViewTokens(secret string, ttl time.Duration) (*ViewTokens, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("view secret is required")
	}
	return &ViewTokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for mode.
func (t *ViewTokens) Issue(mode domain.Mode) (string, error) {
	now := t.now()
	claims := viewClaims{
		Mode: mode.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign view token: %w", err)
	}
	return signed, nil
}

// Parse checks token and returns the mode it grants.
func (t *ViewTokens) Parse(token string) (domain.Mode, error) {
	var claims viewClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return domain.PlayerView, apperrors.Wrap(apperrors.CodeUnauthorized, "invalid view token", err)
	}
	if claims.Mode != domain.KeeperView.String() && claims.Mode != domain.PlayerView.String() {
		return domain.PlayerView, apperrors.New(apperrors.CodeUnauthorized, "unknown view mode")
	}
	return domain.ParseMode(claims.Mode), nil
}
