package http

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/authctx"
	"github.com/m-mizutani/goerr/v2"
)

const tokenIssuer = "siren"

// OfficialClaims is the JWT claim set issued to authority officials. The
// subject carries the official ID.
type OfficialClaims struct {
	jwt.RegisteredClaims
	Name         string `json:"name"`
	Organization string `json:"org"`
}

// TokenVerifier validates HS256 bearer tokens for the mutating endpoints.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

func (v *TokenVerifier) Verify(tokenString string) (authctx.Official, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OfficialClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, goerr.New("unexpected signing method",
				goerr.V("alg", token.Header["alg"]))
		}
		return v.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return authctx.Official{}, goerr.Wrap(err, "failed to parse token",
			goerr.T(errs.TagUnauthorized))
	}

	claims, ok := token.Claims.(*OfficialClaims)
	if !ok || !token.Valid {
		return authctx.Official{}, goerr.New("invalid token claims",
			goerr.T(errs.TagUnauthorized))
	}

	official := authctx.Official{
		ID:           types.OfficialID(claims.Subject),
		Name:         claims.Name,
		Organization: claims.Organization,
	}
	if err := official.ID.Validate(); err != nil {
		return authctx.Official{}, goerr.Wrap(err, "token has no subject",
			goerr.T(errs.TagUnauthorized))
	}
	return official, nil
}

// IssueToken signs a bearer token for the given official. Used by the
// token CLI command and by tests.
func IssueToken(secret []byte, official authctx.Official, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &OfficialClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   official.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:         official.Name,
		Organization: official.Organization,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign token")
	}
	return signed, nil
}
