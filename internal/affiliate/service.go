package affiliate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/casatienda/storefront-backend/pkg/enums"
	pkgerrors "github.com/casatienda/storefront-backend/pkg/errors"
	"github.com/casatienda/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferralDTO is the transport shape for an affiliate's own referrals.
type ReferralDTO struct {
	ID               uuid.UUID            `json:"id"`
	OrderID          uuid.UUID            `json:"order_id"`
	CommissionRate   decimal.Decimal      `json:"commission_rate"`
	CommissionAmount decimal.Decimal      `json:"commission_amount"`
	Status           enums.ReferralStatus `json:"status"`
	CreatedAt        time.Time            `json:"created_at"`
	OrderTotal       decimal.Decimal      `json:"order_total"`
	OrderDate        time.Time            `json:"order_date"`
}

// DashboardDTO aggregates what an affiliate sees on their earnings page.
type DashboardDTO struct {
	ReferralLink string        `json:"referral_link"`
	Stats        ReferrerStats `json:"stats"`
}

// AdminReferralPage is one cursor page of back-office referral rows.
type AdminReferralPage struct {
	Items      []AdminReferralRow `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// Service exposes the affiliate dashboard and the admin payout workflow.
type Service interface {
	Dashboard(ctx context.Context, userID uuid.UUID, baseURL string) (*DashboardDTO, error)
	MyReferrals(ctx context.Context, userID uuid.UUID) ([]ReferralDTO, error)
	AdminListReferrals(ctx context.Context, params pagination.Params) (*AdminReferralPage, error)
	AdminUpdateReferralStatus(ctx context.Context, id uuid.UUID, status string) error
}

type service struct {
	repo *Repository
}

// NewService constructs the affiliate service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("affiliate repository required")
	}
	return &service{repo: repo}, nil
}

// Dashboard returns the affiliate's referral link plus commission aggregates.
func (s *service) Dashboard(ctx context.Context, userID uuid.UUID, baseURL string) (*DashboardDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	stats, err := s.repo.StatsForReferrer(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load referral stats")
	}
	return &DashboardDTO{
		ReferralLink: fmt.Sprintf("%s/?ref=%s", baseURL, userID),
		Stats:        *stats,
	}, nil
}

// MyReferrals lists the referrals credited to the calling affiliate.
func (s *service) MyReferrals(ctx context.Context, userID uuid.UUID) ([]ReferralDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	referrals, err := s.repo.ListReferralsByReferrer(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list referrals")
	}

	dtos := make([]ReferralDTO, 0, len(referrals))
	for _, referral := range referrals {
		dtos = append(dtos, ReferralDTO{
			ID:               referral.ID,
			OrderID:          referral.OrderID,
			CommissionRate:   referral.CommissionRate,
			CommissionAmount: referral.CommissionAmount,
			Status:           referral.Status,
			CreatedAt:        referral.CreatedAt,
			OrderTotal:       referral.OrderTotal,
			OrderDate:        referral.OrderDate,
		})
	}
	return dtos, nil
}

// AdminListReferrals returns one page of joined referral rows for the back
// office, newest first.
func (s *service) AdminListReferrals(ctx context.Context, params pagination.Params) (*AdminReferralPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListAdminReferrals(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admin referrals")
	}

	page := &AdminReferralPage{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// AdminUpdateReferralStatus moves a referral through the payout workflow.
func (s *service) AdminUpdateReferralStatus(ctx context.Context, id uuid.UUID, status string) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "referral id required")
	}
	parsed, err := enums.ParseReferralStatus(status)
	if err != nil {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid referral status %q", status)
	}
	if err := s.repo.UpdateReferralStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "referral not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update referral status")
	}
	return nil
}
