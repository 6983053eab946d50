package vouchers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, voucher *Voucher) error
	GetByCode(ctx context.Context, code string) (*Voucher, error)

	// SeatIDsWithLiveVoucher returns the seats of an event reserved by a
	// live voucher at the given instant.
	SeatIDsWithLiveVoucher(ctx context.Context, eventID uuid.UUID, now time.Time) (map[uuid.UUID]struct{}, error)
	// HasLiveVoucherForSeat reports whether a single seat is reserved by a
	// live voucher.
	HasLiveVoucherForSeat(ctx context.Context, seatID uuid.UUID, now time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, voucher *Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	var voucher Voucher
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) SeatIDsWithLiveVoucher(ctx context.Context, eventID uuid.UUID, now time.Time) (map[uuid.UUID]struct{}, error) {
	var seatIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Voucher{}).
		Where("event_id = ? AND seat_id IS NOT NULL", eventID).
		Where("valid_until IS NULL OR valid_until > ?", now).
		Where("redeemed < max_usages").
		Pluck("seat_id", &seatIDs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *repository) HasLiveVoucherForSeat(ctx context.Context, seatID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Voucher{}).
		Where("seat_id = ?", seatID).
		Where("valid_until IS NULL OR valid_until > ?", now).
		Where("redeemed < max_usages").
		Count(&count).Error
	return count > 0, err
}
