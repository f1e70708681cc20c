package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/casatienda/storefront-backend/pkg/enums"
	pkgerrors "github.com/casatienda/storefront-backend/pkg/errors"
	"github.com/casatienda/storefront-backend/pkg/logger"
	"github.com/casatienda/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const notifyTimeout = 15 * time.Second

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service coordinates order submission and order reads.
type Service interface {
	SubmitOrder(ctx context.Context, input SubmitOrderInput) (*SubmitOrderResult, error)
	GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	products  ProductFinder
	users     UserFinder
	referrals ReferralRecorder
	rates     RateResolver
	notifier  Notifier
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
}

// NewService builds the order service with its transactional collaborators.
// The notifier is optional; every other dependency is required.
func NewService(
	repo Repository,
	tx txRunner,
	products ProductFinder,
	users UserFinder,
	referrals ReferralRecorder,
	rates RateResolver,
	notifier Notifier,
	logg *logger.Logger,
	orderMetrics *metrics.OrderMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	if referrals == nil {
		return nil, fmt.Errorf("referral recorder required")
	}
	if rates == nil {
		return nil, fmt.Errorf("rate resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		products:  products,
		users:     users,
		referrals: referrals,
		rates:     rates,
		notifier:  notifier,
		logg:      logg,
		metrics:   orderMetrics,
	}, nil
}

// SubmitOrder validates the cart against live prices, persists the order with
// frozen line items, records the affiliate commission when the buyer was
// referred, and commits all of it atomically. The WhatsApp alert fires after
// commit and never affects the result.
func (s *service) SubmitOrder(ctx context.Context, input SubmitOrderInput) (*SubmitOrderResult, error) {
	start := time.Now()

	if err := validateSubmitInput(input); err != nil {
		s.metrics.IncFailure("validation")
		return nil, err
	}

	var (
		created    *models.Order
		buyerEmail string
		referred   bool
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, cartItem := range input.Items {
			prod, err := s.products.FindProduct(ctx, tx, cartItem.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", cartItem.ProductID)
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			if !prod.IsActive {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", cartItem.ProductID)
			}

			total = total.Add(prod.Price)
			items = append(items, models.OrderItem{
				ProductID:       prod.ID,
				ProductName:     prod.Name,
				Quantity:        1,
				PriceAtPurchase: prod.Price,
			})
		}

		phone := strings.TrimSpace(input.Customer.Phone)
		order := &models.Order{
			UserID:          input.UserID,
			CustomerName:    strings.TrimSpace(input.Customer.Name),
			CustomerEmail:   strings.TrimSpace(input.Customer.Email),
			CustomerPhone:   &phone,
			ShippingAddress: input.Customer.Address,
			TotalAmount:     total,
			Status:          enums.OrderStatusPending,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
		}
		order.Items = items

		buyer, err := s.users.FindUser(ctx, tx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load buyer")
		}
		buyerEmail = buyer.Email

		if buyer.ReferredByUserID != nil {
			rate := s.rates.Resolve(ctx, tx)
			commission := total.Mul(rate).Round(2)
			referral := &models.AffiliateReferral{
				OrderID:          order.ID,
				ReferrerUserID:   *buyer.ReferredByUserID,
				ReferredUserID:   buyer.ID,
				CommissionRate:   rate,
				CommissionAmount: commission,
				Status:           enums.ReferralStatusPending,
			}
			if err := s.referrals.RecordReferral(ctx, tx, referral); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record referral")
			}
			referred = true
		}

		created = order
		return nil
	})
	if err != nil {
		s.metrics.IncFailure(failureReason(err))
		s.metrics.ObserveDuration("failure", time.Since(start))
		return nil, err
	}

	s.metrics.IncSuccess(referred)
	if referred {
		s.metrics.IncReferralCreated()
	}
	s.metrics.ObserveDuration("success", time.Since(start))

	s.dispatchNotification(ctx, created, buyerEmail)

	return &SubmitOrderResult{
		OrderID:     created.ID,
		TotalAmount: created.TotalAmount,
	}, nil
}

// GetOrder loads one order; customers can only read their own.
func (s *service) GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !isAdmin && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return FromModel(order), nil
}

// ListMyOrders returns the caller's orders, newest first.
func (s *service) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(items), nil
}

func (s *service) dispatchNotification(ctx context.Context, order *models.Order, buyerEmail string) {
	if s.notifier == nil {
		return
	}

	body := notificationBody(order, buyerEmail)
	notifyCtx := context.WithoutCancel(ctx)
	orderID := order.ID.String()

	go func() {
		sendCtx, cancel := context.WithTimeout(notifyCtx, notifyTimeout)
		defer cancel()

		if err := s.notifier.Send(sendCtx, body); err != nil {
			s.metrics.IncNotifyFailure()
			s.logg.Warn(s.logg.WithOrderID(notifyCtx, orderID), "order notification failed: "+err.Error())
		}
	}()
}

// notificationBody names the account that submitted the order separately from
// the customer snapshot, which is caller-supplied and need not match.
func notificationBody(order *models.Order, buyerEmail string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nuevo pedido %s\n", order.ID)
	fmt.Fprintf(&b, "Cliente: %s (%s)\n", order.CustomerName, order.CustomerEmail)
	if order.CustomerPhone != nil && *order.CustomerPhone != "" {
		fmt.Fprintf(&b, "Tel: %s\n", *order.CustomerPhone)
	}
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s (x%d $%s)\n", item.ProductName, item.Quantity, item.PriceAtPurchase.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s\n", order.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Pedido realizado por: %s (ID: %s)", buyerEmail, order.UserID)
	return b.String()
}

func validateSubmitInput(input SubmitOrderInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Customer.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.Customer.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart cannot be empty")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart contains an invalid product id")
		}
	}
	return nil
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeNotFound:
		return "product_missing"
	case pkgerrors.CodeUnauthorized, pkgerrors.CodeForbidden:
		return "auth"
	default:
		return "internal"
	}
}
