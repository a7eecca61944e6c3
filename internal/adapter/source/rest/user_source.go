package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-dashboard/internal/domain/user"
	apperrors "user-dashboard/pkg/errors"
	"user-dashboard/pkg/logger"
)

// maxBodyBytes caps the response body read from the user source.
const maxBodyBytes = 10 << 20

// userPayload is the wire shape of one listed user.
type userPayload struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Address struct {
		City string `json:"city"`
	} `json:"address"`
}

// UserSource lists users from a remote JSON endpoint.
type UserSource struct {
	client   *http.Client
	endpoint string
	log      *zap.Logger
	validate *validator.Validate
}

// NewUserSource creates a UserSource for endpoint. A nil client means a
// client without a timeout: the fetch waits for the transport to resolve.
func NewUserSource(client *http.Client, endpoint string, log *zap.Logger) *UserSource {
	if client == nil {
		client = &http.Client{}
	}
	return &UserSource{
		client:   client,
		endpoint: endpoint,
		log:      log,
		validate: validator.New(),
	}
}

// ListUsers issues a single GET with no parameters and decodes the
// response into users in response order.
func (s *UserSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	log := logger.WithContext(ctx, s.log)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("fetching users", zap.String("endpoint", s.endpoint))

	resp, err := s.client.Do(req)
	if err != nil {
		log.Warn("user source unreachable", zap.String("endpoint", s.endpoint), zap.Error(err))
		return nil, apperrors.NewNetworkError(s.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("user source returned non-success status",
			zap.String("endpoint", s.endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, apperrors.NewBadStatusError(s.endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewNetworkError(s.endpoint, err)
	}

	var payload []userPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn("failed to decode users", zap.Error(err))
		return nil, apperrors.NewMalformedPayloadError("response is not a JSON array of users", err)
	}
	if payload == nil {
		return nil, apperrors.NewMalformedPayloadError("response is not a JSON array of users", nil)
	}

	users := make([]domain.User, len(payload))
	for i, p := range payload {
		if err := s.validate.Struct(p); err != nil {
			log.Warn("invalid user record", zap.Int("index", i), zap.Error(err))
			return nil, apperrors.NewMalformedPayloadError(formatValidationError(i, err), nil)
		}
		users[i] = domain.User{
			ID:      p.ID,
			Name:    p.Name,
			Email:   p.Email,
			Company: domain.Company{Name: p.Company.Name},
			Address: domain.Address{City: p.Address.City},
		}
	}

	log.Debug("users fetched", zap.Int("count", len(users)))
	return users, nil
}

// formatValidationError converts validator.ValidationErrors into a human-readable message.
func formatValidationError(index int, err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Sprintf("record %d: %v", index, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return fmt.Sprintf("record %d: %s", index, strings.Join(messages, ", "))
}
