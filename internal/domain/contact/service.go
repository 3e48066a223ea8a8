package contact

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Validator checks struct tags; *validate.Validator satisfies it.
type Validator interface {
	Validate(i interface{}) error
}

type Service struct {
	repo      Repository
	validator Validator
	logger    zerolog.Logger
}

func NewService(repo Repository, validator Validator, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "contact").Logger(),
	}
}

// Submit stores a contact message. Every field is required and the email
// must be a valid address.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Message, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	m := &Message{Name: in.Name, Email: in.Email, Message: in.Message}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info().Str("contact_id", m.ID.String()).Msg("contact message received")
	return m, nil
}
