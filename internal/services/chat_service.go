package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

type chatService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChatService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ChatService {
	return &chatService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *chatService) ListThreads(ctx context.Context, userID uuid.UUID, page PageRequest) ([]*models.Chat, int64, error) {
	chats, total, err := s.repo.Chat().ListForUser(ctx, userID, repositories.ChatFilters{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, total, nil
}

func (s *chatService) Conversation(ctx context.Context, userID, otherID, providerID uuid.UUID) ([]*models.Chat, error) {
	chats, err := s.repo.Chat().ListConversation(ctx, userID, otherID, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return chats, nil
}

func (s *chatService) Send(ctx context.Context, principal Principal, req *ChatRequest) (*models.Chat, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}
	if req.Receiver == principal.UserID {
		return nil, fieldError("receiver", "You cannot message yourself.", "distinct")
	}

	if _, err := s.repo.User().GetByID(ctx, req.Receiver); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fieldError("receiver", "User not found.", "exists")
		}
		return nil, fmt.Errorf("failed to get receiver: %w", err)
	}
	provider, err := s.repo.Provider().GetByID(ctx, req.Provider)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fieldError("provider", "Provider not found.", "exists")
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	// one side of every thread is the provider's owner
	if provider.UserID != principal.UserID && provider.UserID != req.Receiver {
		return nil, fieldError("provider", "Messages must involve the provider's owner.", "participant")
	}

	chat := &models.Chat{
		SenderID:   principal.UserID,
		ReceiverID: req.Receiver,
		ProviderID: req.Provider,
		Message:    strings.TrimSpace(req.Message),
	}
	if err := s.repo.Chat().Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.logger.Info("Chat message sent", "chat_id", chat.ID, "provider_id", chat.ProviderID)
	return chat, nil
}

func (s *chatService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return translateRepoError(s.repo.Chat().MarkRead(ctx, id, userID), ErrChatNotFound, "mark message read")
}
