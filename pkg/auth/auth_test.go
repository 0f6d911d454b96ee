package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
)

func setupAuthConfig(t *testing.T, clients []config.ClientConfig) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.Enabled = true
	cfg.Auth.Issuer = "water-levels-api"
	cfg.Auth.Clients = clients
	config.Set(cfg)

	if err := ReloadAuth(); err != nil {
		t.Fatalf("ReloadAuth failed: %v", err)
	}
}

func TestGenerateAndVerifyToken(t *testing.T) {
	setupAuthConfig(t, []config.ClientConfig{
		{
			ClientID:    "field-importer",
			ClientName:  "Field Data Importer",
			SecretKey:   "test-secret-key",
			Permissions: []string{"create:readings"},
			Active:      true,
		},
	})

	token, err := GenerateToken("field-importer", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT failed: %v", err)
	}
	if claims.ClientID != "field-importer" {
		t.Errorf("Expected client_id field-importer, got %s", claims.ClientID)
	}
	if claims.Issuer != "water-levels-api" {
		t.Errorf("Expected issuer water-levels-api, got %s", claims.Issuer)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	setupAuthConfig(t, []config.ClientConfig{
		{ClientID: "field-importer", SecretKey: "real-secret", Active: true},
	})

	claims := &Claims{
		ClientID: "field-importer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("Failed to sign forged token: %v", err)
	}

	if _, err := VerifyJWT(forged); err == nil {
		t.Error("Token signed with the wrong secret should be rejected")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	setupAuthConfig(t, []config.ClientConfig{
		{ClientID: "field-importer", SecretKey: "test-secret", Active: true},
	})

	token, err := GenerateToken("field-importer", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := VerifyJWT(token); err == nil {
		t.Error("Expired token should be rejected")
	}
}

func TestVerifyRejectsUnknownClient(t *testing.T) {
	setupAuthConfig(t, []config.ClientConfig{
		{ClientID: "field-importer", SecretKey: "test-secret", Active: true},
	})

	claims := &Claims{ClientID: "nobody"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("whatever"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := VerifyJWT(token); err == nil || !strings.Contains(err.Error(), "unknown client_id") {
		t.Errorf("Expected unknown client_id error, got %v", err)
	}
}

func TestInactiveClientNotLoaded(t *testing.T) {
	setupAuthConfig(t, []config.ClientConfig{
		{ClientID: "retired", SecretKey: "old-secret", Active: false},
	})

	if _, exists := GetClientSecretKey("retired"); exists {
		t.Error("Inactive clients should not be loaded")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		perms    []string
		required string
		want     bool
	}{
		{"exact match", []string{"create:readings"}, "create:readings", true},
		{"no match", []string{"create:readings"}, "update:wells", false},
		{"super admin", []string{"*:*"}, "update:wells", true},
		{"admin covers resource actions", []string{"admin:wells"}, "update:wells", true},
		{"resource wildcard", []string{"create:*"}, "create:readings", true},
		{"action wildcard", []string{"*:readings"}, "create:readings", true},
		{"wildcard wrong resource", []string{"*:readings"}, "update:wells", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasPermission(tc.perms, tc.required); got != tc.want {
				t.Errorf("HasPermission(%v, %q) = %v, want %v", tc.perms, tc.required, got, tc.want)
			}
		})
	}
}
