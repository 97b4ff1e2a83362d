package service

import (
	"context"
	"time"

	"gigpaisa/internal/dto"
	"gigpaisa/internal/models"
	"gigpaisa/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionService struct {
	repo   *repository.TransactionRepository
	logger *zap.Logger
}

func NewTransactionService(repo *repository.TransactionRepository, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		repo:   repo,
		logger: logger,
	}
}

// Confirm persists a user-approved draft as a transaction record.
func (s *TransactionService) Confirm(ctx context.Context, userID uuid.UUID, req *dto.ConfirmTransactionRequest) (*dto.TransactionResponse, error) {
	tx := &models.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
		Category:        req.Category,
		MerchantName:    sanitizeUTF8(req.MerchantName),
		Description:     sanitizeUTF8(req.Description),
		PaymentMethod:   req.PaymentMethod,
		Location:        sanitizeUTF8(req.Location),
		TransactionDate: req.TransactionDate,
		TransactionTime: req.TransactionTime,
		Confidence:      req.Confidence,
		CreatedAt:       time.Now(),
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to save transaction",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return toTransactionResponse(tx), nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.TransactionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.repo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, toTransactionResponse(tx))
	}
	return responses, nil
}

func toTransactionResponse(tx *models.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:              tx.ID.String(),
		Amount:          tx.Amount,
		TransactionType: tx.TransactionType,
		Category:        tx.Category,
		MerchantName:    tx.MerchantName,
		Description:     tx.Description,
		PaymentMethod:   tx.PaymentMethod,
		Location:        tx.Location,
		TransactionDate: tx.TransactionDate,
		TransactionTime: tx.TransactionTime,
		Confidence:      tx.Confidence,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}
}
