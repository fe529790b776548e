package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shalom/internal/config"
	"shalom/internal/domain"
	"shalom/internal/dto"
	"shalom/internal/model"
	"shalom/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoicePDFGenerator renders an invoice to disk and returns the path
// relative to the configured storage root.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(inv *model.Invoice, order *model.ServiceOrder, customer *model.Customer) (string, error)
}

// EmailJobEnqueuer pushes an invoice-email job onto the worker queue.
type EmailJobEnqueuer interface {
	EnqueueInvoiceEmail(ctx context.Context, invoiceID uuid.UUID) error
}

type BillingService interface {
	Issue(ctx context.Context, req dto.CreateInvoiceRequest, actorID uuid.UUID) (*model.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Statistics(ctx context.Context) (*dto.InvoiceStatsResponse, error)
}

type billingService struct {
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	cfg         *config.Config
	pdf         InvoicePDFGenerator // optional
	emails      EmailJobEnqueuer    // optional
}

func NewBillingService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	cfg *config.Config,
	pdf InvoicePDFGenerator,
	emails EmailJobEnqueuer,
) BillingService {
	return &billingService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		cfg:         cfg,
		pdf:         pdf,
		emails:      emails,
	}
}

// Issue creates an invoice for a COMPLETED order. The order's total becomes
// the subtotal; IVA is added on top at the configured rate. At most one
// invoice may exist per order, enforced both here and by a unique index.
func (s *billingService) Issue(ctx context.Context, req dto.CreateInvoiceRequest, actorID uuid.UUID) (*model.Invoice, error) {
	orderID, err := uuid.Parse(req.ServiceOrderID)
	if err != nil {
		return nil, domain.NewValidation("service_order_id", "id inválido")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if order.Status != model.OrderCompleted {
		return nil, domain.ErrOrderNotCompleted
	}

	if existing, err := s.invoiceRepo.FindByOrderID(ctx, orderID); err == nil && existing != nil {
		return nil, domain.ErrDuplicateInvoice
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		t, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, domain.NewValidation("due_date", "fecha inválida, formato esperado YYYY-MM-DD")
		}
		dueDate = &t
	}

	taxRate := s.cfg.TaxRate()
	subtotal := order.Total
	taxAmount := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)

	createdBy := actorID
	inv := &model.Invoice{
		InvoiceType:    req.InvoiceType,
		ServiceOrderID: orderID,
		CustomerID:     order.CustomerID,
		IssueDate:      time.Now(),
		DueDate:        dueDate,
		Status:         model.InvoiceIssued,
		Subtotal:       subtotal,
		TaxRate:        taxRate,
		TaxAmount:      taxAmount,
		Total:          subtotal.Add(taxAmount),
		Notes:          req.Notes,
		CreatedBy:      &createdBy,
	}

	txErr := s.invoiceRepo.Transact(ctx, func(tx *gorm.DB) error {
		seq, err := s.invoiceRepo.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = fmt.Sprintf("FC-%05d", seq)
		return s.invoiceRepo.CreateTx(tx, inv)
	})
	if txErr != nil {
		return nil, txErr
	}
	inv.ServiceOrder = order
	inv.Customer = order.Customer

	// PDF and email are best-effort: the invoice stands even if they fail.
	if s.pdf != nil {
		path, err := s.pdf.GenerateInvoicePDF(inv, order, order.Customer)
		if err != nil {
			log.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("invoice PDF generation failed")
		} else {
			inv.PDFPath = &path
			if err := s.invoiceRepo.Update(ctx, inv); err != nil {
				log.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("could not persist pdf path")
			}
		}
	}
	if s.emails != nil {
		if err := s.emails.EnqueueInvoiceEmail(ctx, inv.ID); err != nil {
			log.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("could not enqueue invoice email")
		}
	}

	log.Info().
		Str("invoice", inv.InvoiceNumber).
		Str("order", order.OrderNumber).
		Str("total", inv.Total.String()).
		Msg("invoice issued")
	return inv, nil
}

func (s *billingService) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *billingService) List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, InvoiceToResponse(&invoices[i]))
	}
	return &dto.InvoiceListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *billingService) MarkPaid(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceIssued {
		return nil, &domain.InvalidStateError{Entity: "factura", Current: inv.Status, Attempted: "cobrar"}
	}
	now := time.Now()
	inv.Status = model.InvoicePaid
	inv.PaidDate = &now
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Cancel voids an ISSUED invoice. PAID invoices cannot be cancelled; the
// correction path is a credit note, which this system does not model yet.
func (s *billingService) Cancel(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceIssued {
		return nil, &domain.InvalidStateError{Entity: "factura", Current: inv.Status, Attempted: "anular"}
	}
	inv.Status = model.InvoiceCancelled
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *billingService) Statistics(ctx context.Context) (*dto.InvoiceStatsResponse, error) {
	return s.invoiceRepo.Statistics(ctx)
}

func InvoiceToResponse(inv *model.Invoice) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		InvoiceType:    inv.InvoiceType,
		ServiceOrderID: inv.ServiceOrderID.String(),
		CustomerID:     inv.CustomerID.String(),
		IssueDate:      inv.IssueDate.Format("2006-01-02"),
		Status:         inv.Status,
		Subtotal:       inv.Subtotal,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		Notes:          inv.Notes,
	}
	if inv.ServiceOrder != nil {
		resp.OrderNumber = inv.ServiceOrder.OrderNumber
	}
	if inv.Customer != nil {
		resp.CustomerName = inv.Customer.FullName()
	}
	if inv.DueDate != nil {
		s := inv.DueDate.Format("2006-01-02")
		resp.DueDate = &s
	}
	if inv.PaidDate != nil {
		s := inv.PaidDate.Format("2006-01-02")
		resp.PaidDate = &s
	}
	if inv.PDFPath != nil {
		url := "/v1/facturas/" + inv.ID.String() + "/pdf"
		resp.PDFUrl = &url
	}
	return resp
}
