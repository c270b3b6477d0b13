package service

import (
	"context"
	"log/slog"

	"github.com/zeynale/menubot/core/logger"
	"github.com/zeynale/menubot/internal/models"
)

// UserRepo lists session records for the dashboard.
type UserRepo interface {
	ListAll(ctx context.Context) ([]models.UserState, error)
}

// TranscriptRepo reads per-user message logs.
type TranscriptRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]models.TranscriptEntry, error)
}

// UserWithTranscript is the dashboard projection of one user and their full
// message history in chronological order.
type UserWithTranscript struct {
	models.UserState
	Messages []models.TranscriptEntry `json:"messages"`
}

// UserService serves the dashboard's user listing.
type UserService struct {
	users      UserRepo
	transcript TranscriptRepo
}

func NewUserService(users UserRepo, transcript TranscriptRepo) *UserService {
	return &UserService{users: users, transcript: transcript}
}

// ListWithTranscripts returns every user newest first, each with their
// transcript attached.
func (s *UserService) ListWithTranscripts(ctx context.Context) ([]UserWithTranscript, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserWithTranscript, 0, len(users))
	for _, u := range users {
		msgs, err := s.transcript.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if msgs == nil {
			msgs = []models.TranscriptEntry{}
		}
		out = append(out, UserWithTranscript{UserState: u, Messages: msgs})
	}

	logger.Debug(ctx, "service.users", "list",
		slog.Int("users", len(out)),
	)
	return out, nil
}
