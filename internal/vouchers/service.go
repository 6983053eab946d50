package vouchers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrVoucherNotFound = errors.New("voucher not found")

type Service interface {
	CreateVoucher(ctx context.Context, eventID uuid.UUID, req CreateVoucherRequest) (*Voucher, error)
	GetVoucher(ctx context.Context, code string) (*Voucher, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateVoucher(ctx context.Context, eventID uuid.UUID, req CreateVoucherRequest) (*Voucher, error) {
	voucher := &Voucher{
		EventID:    eventID,
		Code:       req.Code,
		SeatID:     req.SeatID,
		ValidUntil: req.ValidUntil,
		MaxUsages:  1,
	}
	if req.MaxUsages != nil {
		voucher.MaxUsages = *req.MaxUsages
	}
	if err := s.repo.Create(ctx, voucher); err != nil {
		return nil, fmt.Errorf("failed to create voucher: %w", err)
	}
	return voucher, nil
}

func (s *service) GetVoucher(ctx context.Context, code string) (*Voucher, error) {
	voucher, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("failed to load voucher: %w", err)
	}
	return voucher, nil
}
