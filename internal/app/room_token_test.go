package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestRoomTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	svc := NewRoomTokenService(secret, "genso", 0)

	tokenString, err := svc.GenerateJoinToken("player-1", "room-9")
	if err != nil {
		t.Fatalf("generate join token error: %v", err)
	}

	playerID, err := svc.VerifyJoinToken(tokenString, "room-9")
	if err != nil {
		t.Fatalf("verify join token error: %v", err)
	}
	if playerID != "player-1" {
		t.Fatalf("subject = %s, want player-1", playerID)
	}

	claims := parseRoomClaims(t, tokenString, secret)
	if got, _ := claims["room"].(string); got != "room-9" {
		t.Fatalf("room = %s, want room-9", got)
	}
	if got, _ := claims["iss"].(string); got != "genso" {
		t.Fatalf("iss = %s, want genso", got)
	}
}

func TestRoomTokenRejectsWrongRoom(t *testing.T) {
	svc := NewRoomTokenService("secret", "genso", 0)

	tokenString, err := svc.GenerateJoinToken("player-1", "room-9")
	if err != nil {
		t.Fatalf("generate join token error: %v", err)
	}
	if _, err := svc.VerifyJoinToken(tokenString, "room-10"); err == nil {
		t.Fatal("expected error verifying against a different room")
	}
}

func TestRoomTokenRejectsWrongSecret(t *testing.T) {
	issuing := NewRoomTokenService("secret-a", "genso", 0)
	verifying := NewRoomTokenService("secret-b", "genso", 0)

	tokenString, err := issuing.GenerateJoinToken("player-1", "room-9")
	if err != nil {
		t.Fatalf("generate join token error: %v", err)
	}
	if _, err := verifying.VerifyJoinToken(tokenString, "room-9"); err == nil {
		t.Fatal("expected signature error with a different secret")
	}
}

func TestRoomTokenRejectsExpired(t *testing.T) {
	svc := NewRoomTokenService("secret", "genso", time.Nanosecond)

	tokenString, err := svc.GenerateJoinToken("player-1", "room-9")
	if err != nil {
		t.Fatalf("generate join token error: %v", err)
	}
	time.Sleep(time.Second)
	if _, err := svc.VerifyJoinToken(tokenString, "room-9"); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestRoomTokenRequiresConfig(t *testing.T) {
	svc := NewRoomTokenService("", "genso", 0)
	if _, err := svc.GenerateJoinToken("player-1", "room-9"); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewRoomTokenService("secret", "genso", 0).GenerateJoinToken("", "room-9"); err == nil {
		t.Fatal("expected error for empty player id")
	}
	if _, err := NewRoomTokenService("secret", "genso", 0).GenerateJoinToken("player-1", ""); err == nil {
		t.Fatal("expected error for empty room id")
	}
}

func parseRoomClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}
