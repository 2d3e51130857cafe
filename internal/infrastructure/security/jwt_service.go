package security

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/service"
)

// JWTConfig holds the signing configuration for the JWT service, populated
// from the jwt section of the application configuration.
type JWTConfig struct {
	Issuer                 string
	Audience               string
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	ResetLinkTTL           time.Duration
	PrivateKeyPEM          string
	PublicKeyPEM           string
	JWKSKeyID              string
	RefreshTokenByteLength int
}

type jwtService struct {
	config     JWTConfig
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewJWTService creates a TokenManagementService signing with RS256. When no
// key material is configured an ephemeral pair is generated; tokens then
// survive only the current process, which is acceptable for development and
// tests but not for production.
func NewJWTService(cfg JWTConfig) (service.TokenManagementService, error) {
	var privKey *rsa.PrivateKey
	var pubKey *rsa.PublicKey
	var err error

	if cfg.PrivateKeyPEM != "" {
		privKey, err = jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
	}
	if cfg.PublicKeyPEM != "" {
		pubKey, err = jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
	}

	if privKey == nil {
		ephemeral, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral RSA key: %w", err)
		}
		privKey = ephemeral
		pubKey = &ephemeral.PublicKey
	}
	if pubKey == nil {
		pubKey = &privKey.PublicKey
	}

	if cfg.RefreshTokenByteLength <= 0 {
		cfg.RefreshTokenByteLength = 32
	}

	return &jwtService{config: cfg, privateKey: privKey, publicKey: pubKey}, nil
}

func (s *jwtService) GenerateAccessToken(userID, email, role string, emailVerified bool) (string, *service.Claims, error) {
	now := time.Now()

	claims := &service.Claims{
		UserID:        userID,
		Email:         email,
		Role:          role,
		EmailVerified: emailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if s.config.JWKSKeyID != "" {
		token.Header["kid"] = s.config.JWKSKeyID
	}

	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, claims, nil
}

func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *jwtService) GenerateRefreshTokenValue() (string, error) {
	b := make([]byte, s.config.RefreshTokenByteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token entropy: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *jwtService) GenerateResetLinkToken(userID string) (string, *service.ResetLinkClaims, error) {
	now := time.Now()

	claims := &service.ResetLinkClaims{
		UserID:  userID,
		Purpose: service.ResetLinkPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.ResetLinkTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign reset link token: %w", err)
	}
	return signed, claims, nil
}

func (s *jwtService) ValidateResetLinkToken(tokenString string) (*service.ResetLinkClaims, error) {
	claims := &service.ResetLinkClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != service.ResetLinkPurpose {
		return nil, domainErrors.ErrInvalidToken
	}
	return claims, nil
}

// parse verifies signature, algorithm, issuer, audience and time claims.
func (s *jwtService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domainErrors.ErrExpiredToken
		}
		return domainErrors.ErrInvalidToken
	}
	if !token.Valid {
		return domainErrors.ErrInvalidToken
	}
	return nil
}

func (s *jwtService) GetAccessTokenExpiry() time.Duration  { return s.config.AccessTokenTTL }
func (s *jwtService) GetRefreshTokenExpiry() time.Duration { return s.config.RefreshTokenTTL }

// GetJWKS returns the RS256 public key in JWKS form for token consumers.
func (s *jwtService) GetJWKS() (map[string]interface{}, error) {
	if s.publicKey == nil {
		return nil, errors.New("public key not configured, cannot generate JWKS")
	}
	jwk := map[string]interface{}{
		"kty": "RSA",
		"kid": s.config.JWKSKeyID,
		"use": "sig",
		"alg": jwt.SigningMethodRS256.Alg(),
		"n":   base64.RawURLEncoding.EncodeToString(s.publicKey.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(s.publicKey.E)).Bytes()),
	}
	return map[string]interface{}{
		"keys": []map[string]interface{}{jwk},
	}, nil
}

var _ service.TokenManagementService = (*jwtService)(nil)
