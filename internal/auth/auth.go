package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingToken = errors.New("no token provided")
)

// subject claim key per role, as issued by the login service
var subjectKeys = map[models.Role]string{
	models.RoleMechanic: "mechanicId",
	models.RoleWorker:   "workerId",
	models.RoleUser:     "userId",
}

// Service verifies bearer tokens
type Service struct {
	jwtSecret []byte
	tokenExp  time.Duration
}

// NewService creates a new authentication service
func NewService(secret string, exp time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if exp <= 0 {
		exp = 24 * time.Hour
	}

	return &Service{
		jwtSecret: []byte(secret),
		tokenExp:  exp,
	}, nil
}

// GenerateToken signs a token for the given identity.
// Used by the simulator and tests; real tokens come from the OTP login service.
func (s *Service) GenerateToken(identity models.Claims) (string, error) {
	key, ok := subjectKeys[identity.Role]
	if !ok {
		return "", fmt.Errorf("unknown role %q", identity.Role)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		key:    identity.SubjectID,
		"role": string(identity.Role),
		"exp":  now.Add(s.tokenExp).Unix(),
		"iat":  now.Unix(),
	}
	if identity.MobileNumber != "" {
		claims["mobileNumber"] = identity.MobileNumber
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the decoded identity
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	role, subject, ok := resolveSubject(claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	out := &models.Claims{
		SubjectID: subject,
		Role:      role,
	}
	if mobile, ok := claims["mobileNumber"].(string); ok {
		out.MobileNumber = mobile
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.Exp = int64(exp)
	}
	return out, nil
}

// resolveSubject picks the role and id out of the claim set. An explicit
// role claim wins; older tokens only carry one of the id keys.
func resolveSubject(claims jwt.MapClaims) (models.Role, string, bool) {
	if roleStr, ok := claims["role"].(string); ok {
		role := models.Role(roleStr)
		key, known := subjectKeys[role]
		if !known {
			return "", "", false
		}
		id, _ := claims[key].(string)
		return role, id, id != ""
	}

	for _, role := range []models.Role{models.RoleMechanic, models.RoleWorker, models.RoleUser} {
		if id, ok := claims[subjectKeys[role]].(string); ok && id != "" {
			return role, id, true
		}
	}
	return "", "", false
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
