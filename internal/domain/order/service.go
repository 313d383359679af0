package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/infrastructure/metrics"
	"aistore-server/services/storefront-api/internal/utils/functional"
	"aistore-server/services/storefront-api/internal/utils/idgen"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// InvoiceRequest is the input for creating an order from the sales chat or
// the checkout page.
type InvoiceRequest struct {
	ProductID       string
	Quantity        int
	DiscountPercent int
	Customer        CustomerInfo
	PaymentMethod   string
}

// Service owns order creation and the owner approval workflow.
type Service struct {
	repo    Repository
	catalog *catalog.Service
	log     zerolog.Logger
}

func NewService(repo Repository, catalogService *catalog.Service, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalogService,
		log:     log.With().Str("component", "order-service").Logger(),
	}
}

// CreateInvoice validates the request against the catalog, caps the discount
// at the product maximum, and commits order, line item, customer contact and
// stock decrement as one transaction. The created order awaits owner
// approval.
func (s *Service) CreateInvoice(ctx context.Context, req InvoiceRequest) (*Order, error) {
	product, err := s.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if product.Stock < quantity {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict,
			fmt.Sprintf("insufficient stock for %s: %d requested, %d available", product.Name, quantity, product.Stock),
			nil, "4e8a2c6f-9b1d-4e3a-8c5f-7a9b1d3e5f0c")
	}
	if strings.TrimSpace(req.Customer.Name) == "" || strings.TrimSpace(req.Customer.Phone) == "" ||
		strings.TrimSpace(req.Customer.Address) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "customer name, phone and address are required", nil,
			"b3d5f7a9-1c2e-4b6d-8f0a-2c4e6f8a0b1d")
	}

	discount := CapDiscount(req.DiscountPercent, product.MaxDiscountPercent)
	total := product.Price * quantity
	discountAmount := DiscountAmount(total, discount)

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = PaymentCOD
	}

	now := time.Now()
	customer := req.Customer
	ord := &Order{
		ID: idgen.OrderID(),
		Items: []Item{{
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        quantity,
			OriginalPrice:   product.Price,
			FinalPrice:      DiscountedPrice(product.Price, discount),
			DiscountPercent: discount,
		}},
		TotalAmount:    total,
		DiscountAmount: discountAmount,
		FinalAmount:    total - discountAmount,
		Status:         StatusPendingApproval,
		Customer:       &customer,
		PaymentMethod:  paymentMethod,
		PaymentStatus:  "pending",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Commit(ctx, ord); err != nil {
		metrics.RecordOrder("failed")
		return nil, err
	}

	metrics.RecordOrder("created")
	s.log.Info().
		Str("order_id", ord.ID).
		Str("product_id", product.ID).
		Int("quantity", quantity).
		Int("discount_percent", discount).
		Int("final_amount", ord.FinalAmount).
		Msg("invoice created, awaiting owner approval")

	return ord, nil
}

// List returns all orders, newest first. Read failures surface as an empty
// list so the dashboard keeps rendering.
func (s *Service) List(ctx context.Context) []Order {
	orders, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list orders")
		return []Order{}
	}
	return orders
}

// GetByID returns a single order.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	ord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("order %s not found", id), nil,
			"9f1b3d5e-7a8c-4e0f-b2d4-6a8c0e2f4b6d")
	}
	return ord, nil
}

// Update applies a partial dashboard mutation.
func (s *Service) Update(ctx context.Context, id string, update Update) (*Order, error) {
	return s.repo.Update(ctx, id, update)
}

// PendingApprovals derives approval requests from orders that currently
// wait on an owner decision.
func (s *Service) PendingApprovals(ctx context.Context) []ApprovalRequest {
	awaiting := functional.Filter(s.List(ctx), func(ord Order) bool {
		return ord.Status == StatusPendingApproval || ord.Status == StatusShippingPending
	})
	return functional.Map(awaiting, func(ord Order) ApprovalRequest {
		approvalType := "deal"
		summary := fmt.Sprintf("New order: %s", itemNames(ord.Items))
		if ord.Status == StatusShippingPending {
			approvalType = "shipping"
			if ord.Customer != nil {
				summary = fmt.Sprintf("Shipping for %s to %s", ord.Customer.Name, ord.Customer.City)
			} else {
				summary = fmt.Sprintf("Shipping approval for order %s", ord.ID)
			}
		}

		discountPercent := 0
		if len(ord.Items) > 0 {
			discountPercent = ord.Items[0].DiscountPercent
		}

		return ApprovalRequest{
			ID:              fmt.Sprintf("APR-%s", ord.ID),
			OrderID:         ord.ID,
			Type:            approvalType,
			Summary:         summary,
			Items:           ord.Items,
			TotalAmount:     ord.FinalAmount,
			DiscountPercent: discountPercent,
			Customer:        ord.Customer,
			Status:          "pending",
			CreatedAt:       ord.CreatedAt,
		}
	})
}

// Decide resolves a pending approval. Approving a deal moves the order to
// info collection; approving shipping marks it shipped. Rejection records an
// optional counter offer.
func (s *Service) Decide(ctx context.Context, orderID, action, counterOffer, notes string) (*Order, error) {
	ord, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	update := Update{}
	switch action {
	case "approve":
		switch ord.Status {
		case StatusPendingApproval:
			status := StatusApproved
			update.Status = &status
		case StatusShippingPending:
			status := StatusShippingApproved
			update.Status = &status
		default:
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeConflict,
				fmt.Sprintf("order %s is not awaiting approval (status %s)", orderID, ord.Status), nil,
				"d7f9a1b3-5c6e-4d8f-a0b2-4c6e8f0a2b4d")
		}
	case "reject":
		status := StatusRejected
		update.Status = &status
	default:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, fmt.Sprintf("unknown approval action %q", action), nil,
			"1a3b5c7d-9e0f-4a2b-8c4d-6e8f0a2b4c6e")
	}

	if counterOffer != "" {
		update.CounterOffer = &counterOffer
	}
	if notes != "" {
		update.OwnerNotes = &notes
	}
	return s.repo.Update(ctx, orderID, update)
}

func itemNames(items []Item) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.ProductName)
	}
	return strings.Join(names, ", ")
}
