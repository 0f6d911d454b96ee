package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/config"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/utils"
)

// Write access uses HS256 tokens: every client in config carries its own
// shared secret. Read endpoints are public and never touch this package.
var (
	clientSecretKeys = make(map[string]string)
	clientConfigs    = make(map[string]config.ClientConfig)
	authMutex        sync.RWMutex
)

// InitAuth loads all active client secrets into memory
func InitAuth() error {
	authConfig := config.Get().Auth
	if !authConfig.Enabled {
		logger.Info().Msg("Auth disabled in config")
		return nil
	}

	authMutex.Lock()
	defer authMutex.Unlock()

	loadedCount := 0
	for _, clientConfig := range authConfig.Clients {
		if !clientConfig.Active {
			logger.Info().
				Str("client_id", clientConfig.ClientID).
				Str("client_name", clientConfig.ClientName).
				Msg("Skipping inactive client")
			continue
		}

		if clientConfig.SecretKey == "" {
			logger.Error().
				Str("client_id", clientConfig.ClientID).
				Str("client_name", clientConfig.ClientName).
				Msg("Client missing secret_key")
			return fmt.Errorf("client %s (%s) missing secret_key",
				clientConfig.ClientID, clientConfig.ClientName)
		}

		clientSecretKeys[clientConfig.ClientID] = clientConfig.SecretKey
		clientConfigs[clientConfig.ClientID] = clientConfig
		loadedCount++

		logger.Info().
			Str("client_id", clientConfig.ClientID).
			Str("client_name", clientConfig.ClientName).
			Strs("permissions", clientConfig.Permissions).
			Msg("Client auth loaded successfully")
	}

	logger.Info().
		Int("loaded_clients", loadedCount).
		Int("total_clients", len(authConfig.Clients)).
		Msg("Auth system initialized")

	return nil
}

// VerifyJWT verifies an HS256 token and returns its claims
func VerifyJWT(tokenString string) (*Claims, error) {
	// Parse token without verification first to get client_id
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %v", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	clientConfig, exists := GetClientInfo(claims.ClientID)
	if !exists {
		return nil, fmt.Errorf("unknown client_id: %s", claims.ClientID)
	}

	if !clientConfig.Active {
		return nil, fmt.Errorf("client %s (%s) is inactive",
			claims.ClientID, clientConfig.ClientName)
	}

	secretKey, exists := GetClientSecretKey(claims.ClientID)
	if !exists {
		return nil, fmt.Errorf("no secret loaded for client_id: %s", claims.ClientID)
	}

	// Verify signature with the client's shared secret
	token, err = jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v, expected: HS256",
				token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("token verification failed: %v", err)
	}

	verifiedClaims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return verifiedClaims, nil
}

// GenerateToken issues an HS256 token for a loaded client (used by the CLI)
func GenerateToken(clientID string, ttl time.Duration) (string, error) {
	secretKey, exists := GetClientSecretKey(clientID)
	if !exists {
		return "", fmt.Errorf("unknown client_id: %s", clientID)
	}

	now := utils.Now()
	claims := &Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Get().Auth.Issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, nil
}

// GetClientInfo returns the cached config for a client
func GetClientInfo(clientID string) (config.ClientConfig, bool) {
	authMutex.RLock()
	defer authMutex.RUnlock()

	clientConfig, exists := clientConfigs[clientID]
	return clientConfig, exists
}

// GetClientSecretKey returns the HMAC secret key for a client
func GetClientSecretKey(clientID string) (string, bool) {
	authMutex.RLock()
	defer authMutex.RUnlock()

	secretKey, exists := clientSecretKeys[clientID]
	return secretKey, exists
}

// AddClient adds a new client to the memory cache (called by CLI)
func AddClient(clientConfig config.ClientConfig) error {
	if clientConfig.SecretKey == "" {
		return fmt.Errorf("client %s missing secret_key", clientConfig.ClientID)
	}

	authMutex.Lock()
	defer authMutex.Unlock()

	clientSecretKeys[clientConfig.ClientID] = clientConfig.SecretKey
	clientConfigs[clientConfig.ClientID] = clientConfig

	logger.Info().
		Str("client_id", clientConfig.ClientID).
		Str("client_name", clientConfig.ClientName).
		Strs("permissions", clientConfig.Permissions).
		Msg("Client added to memory cache")

	return nil
}

// UpdateClient updates an existing client in the memory cache (called by CLI)
func UpdateClient(clientConfig config.ClientConfig) error {
	authMutex.Lock()
	defer authMutex.Unlock()

	_, exists := clientConfigs[clientConfig.ClientID]
	if !exists {
		return fmt.Errorf("client %s not found in cache", clientConfig.ClientID)
	}

	if clientConfig.SecretKey != "" {
		clientSecretKeys[clientConfig.ClientID] = clientConfig.SecretKey
	}
	clientConfigs[clientConfig.ClientID] = clientConfig

	logger.Info().
		Str("client_id", clientConfig.ClientID).
		Str("client_name", clientConfig.ClientName).
		Bool("active", clientConfig.Active).
		Msg("Client updated in memory cache")

	return nil
}

// RemoveClient removes a client from the memory cache (called by CLI)
func RemoveClient(clientID string) error {
	authMutex.Lock()
	defer authMutex.Unlock()

	clientConfig, exists := clientConfigs[clientID]
	if !exists {
		return fmt.Errorf("client %s not found in cache", clientID)
	}

	delete(clientSecretKeys, clientID)
	delete(clientConfigs, clientID)

	logger.Info().
		Str("client_id", clientID).
		Str("client_name", clientConfig.ClientName).
		Msg("Client removed from memory cache")

	return nil
}

// ReloadAuth reloads all clients from config
func ReloadAuth() error {
	logger.Info().Msg("Reloading authentication system from config")

	authMutex.Lock()
	clientSecretKeys = make(map[string]string)
	clientConfigs = make(map[string]config.ClientConfig)
	authMutex.Unlock()

	return InitAuth()
}
