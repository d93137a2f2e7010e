package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ShareClaims identify one share link: the link row id (jti) and the user
// whose interactions it exposes.
type ShareClaims struct {
	LinkID string
	UserID uint
}

func shareKey() []byte {
	if s := os.Getenv("SHARE_TOKEN_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(os.Getenv("JWT_SECRET"))
}

// SignShareToken issues the bearer token handed to a therapist. It expires
// with the link; revocation is enforced against the share_links row.
func SignShareToken(linkID string, userID uint, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"jti": linkID,
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(shareKey())
}

// VerifyShareToken checks signature and expiry and extracts the claims.
func VerifyShareToken(tokenStr string) (ShareClaims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return shareKey(), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return ShareClaims{}, errors.New("invalid token")
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ShareClaims{}, errors.New("invalid claims")
	}
	jti, _ := mapc["jti"].(string)
	sub, _ := mapc["sub"].(string)
	uid, err := strconv.ParseUint(sub, 10, 32)
	if jti == "" || err != nil {
		return ShareClaims{}, errors.New("invalid claims")
	}
	return ShareClaims{LinkID: jti, UserID: uint(uid)}, nil
}
