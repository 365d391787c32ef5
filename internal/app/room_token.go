package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// RoomTokenService mints and verifies the short-lived join tokens private
// rooms hand out. Tokens are signed HS256 with a server-side secret.
type RoomTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const DefaultRoomTokenTTL = 15 * time.Minute

func NewRoomTokenService(secret, issuer string, ttl time.Duration) *RoomTokenService {
	if ttl <= 0 {
		ttl = DefaultRoomTokenTTL
	}
	return &RoomTokenService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

// GenerateJoinToken issues a token admitting playerID into roomID.
func (s *RoomTokenService) GenerateJoinToken(playerID, roomID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("room token service is nil")
	}
	if playerID == "" {
		return "", fmt.Errorf("player id is required")
	}
	if roomID == "" {
		return "", fmt.Errorf("room id is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("room token config is incomplete")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  playerID,
		"room": roomID,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyJoinToken checks signature, expiry and room binding, returning the
// admitted player ID.
func (s *RoomTokenService) VerifyJoinToken(tokenString, roomID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("room token service is nil")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse join token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("join token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("join token claims are malformed")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return "", fmt.Errorf("join token issuer mismatch")
	}
	room, _ := claims["room"].(string)
	if room != roomID {
		return "", fmt.Errorf("join token is for room %s, not %s", room, roomID)
	}
	playerID, _ := claims["sub"].(string)
	if playerID == "" {
		return "", fmt.Errorf("join token has no subject")
	}
	return playerID, nil
}
