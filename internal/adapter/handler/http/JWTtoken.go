package http

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
)

// JWTTokenService signs the visitor cookie.
type JWTTokenService struct {
	secretKey []byte
	duration  time.Duration
	logger    ports.LoggerPort
	now       func() time.Time
}

func NewJWTTokenService(secretKey string, duration time.Duration, logger ports.LoggerPort) *JWTTokenService {
	return &JWTTokenService{
		secretKey: []byte(secretKey),
		duration:  duration,
		logger:    logger,
		now:       time.Now,
	}
}

func (j *JWTTokenService) IssueToken(claims *domain.VisitorClaims) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":      claims.VisitorID.String(),
		"user_id": claims.UserID,
		"role":    string(claims.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(j.duration).Unix(),
	})
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		j.logger.Error("Failed to sign jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "IssueToken",
		})
		return "", err
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of a visitor cookie.
func (j *JWTTokenService) VerifyToken(token string) (*domain.VisitorClaims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		j.logger.Debug("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to verify")
	}

	idStr, ok := claims["id"].(string)
	if !ok {
		return nil, errors.New("invalid id claims")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.New("invalid parse id")
	}

	userID, _ := claims["user_id"].(string)
	roleClaimed, _ := claims["role"].(string)

	role := domain.UserRole(roleClaimed)
	if role != "" && role != domain.Admin && role != domain.Customer {
		j.logger.Warn("Invalid role in token", map[string]interface{}{
			"role":   roleClaimed,
			"method": "VerifyToken",
		})
		return nil, errors.New("invalid role value")
	}

	return &domain.VisitorClaims{
		VisitorID: id,
		UserID:    userID,
		Role:      role,
	}, nil
}
