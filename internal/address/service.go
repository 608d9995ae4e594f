package address

import (
	"context"

	"dukani-be/internal/logger"
	"dukani-be/internal/order"
	"dukani-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]*Address, error)
	Get(ctx context.Context, addressID uuid.UUID) (*Address, error)
	Create(ctx context.Context, input CreateInput) (*Address, error)
	Update(ctx context.Context, input UpdateInput) (*Address, error)
	Delete(ctx context.Context, addressID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, addressID uuid.UUID) error

	// GetForUser resolves an address into an order's shipping shape.
	GetForUser(ctx context.Context, addressID string, userID uint) (*order.Address, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]*Address, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) Get(ctx context.Context, addressID uuid.UUID) (*Address, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID || !addr.IsActive {
		return nil, ErrAddressNotFound
	}

	return addr, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Address, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
	)

	addr := &Address{
		ID:         uuid.New(),
		UserID:     userID,
		FullName:   input.FullName,
		Phone:      input.Phone,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		Region:     input.Region,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsActive:   true,
		IsDefault:  input.SetAsDefault,
	}

	if input.SetAsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			log.Warn("failed to clear previous default", zap.Error(err))
		}
	}

	if err := s.repo.Create(ctx, addr); err != nil {
		log.Error("failed to create address", zap.Error(err))
		return nil, err
	}

	log.Info("address created", zap.String("address_id", addr.ID.String()))
	return addr, nil
}

// Update deactivates the old row and inserts a replacement. Orders keep
// pointing at the row they shipped to, so history stays intact.
func (s *service) Update(ctx context.Context, input UpdateInput) (*Address, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Address"),
		zap.String("method", "Update"),
		zap.Uint("user_id", userID),
	)

	oldID, err := uuid.Parse(input.AddressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}

	oldAddr, err := s.repo.GetByID(ctx, oldID)
	if err != nil || oldAddr.UserID != userID {
		return nil, ErrAddressNotFound
	}

	if err := s.repo.Deactivate(ctx, oldID); err != nil {
		return nil, err
	}

	newAddr := &Address{
		ID:         uuid.New(),
		UserID:     userID,
		FullName:   input.FullName,
		Phone:      input.Phone,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		Region:     input.Region,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsActive:   true,
		IsDefault:  input.SetAsDefault || oldAddr.IsDefault,
	}

	if newAddr.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			log.Warn("failed to clear previous default", zap.Error(err))
		}
	}

	if err := s.repo.Create(ctx, newAddr); err != nil {
		log.Error("failed to insert replacement address", zap.Error(err))
		return nil, err
	}

	log.Info("address updated",
		zap.String("old_id", oldID.String()),
		zap.String("new_id", newAddr.ID.String()),
	)
	return newAddr, nil
}

func (s *service) Delete(ctx context.Context, addressID uuid.UUID) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil || addr.UserID != userID {
		return ErrAddressNotFound
	}

	return s.repo.Deactivate(ctx, addressID)
}

func (s *service) SetDefaultAddress(ctx context.Context, addressID uuid.UUID) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	return s.repo.SetDefault(ctx, userID, addressID)
}

func (s *service) GetForUser(ctx context.Context, addressID string, userID uint) (*order.Address, error) {
	id, err := uuid.Parse(addressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}

	addr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID || !addr.IsActive {
		return nil, ErrAddressNotFound
	}

	return &order.Address{
		FullName:   addr.FullName,
		Phone:      addr.Phone,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		Region:     addr.Region,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}, nil
}
