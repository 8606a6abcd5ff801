package checkout

import (
	"context"

	"github.com/pixelforge/gamestore-backend/internal/orders"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

// Mailer delivers order confirmations.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order orders.Order, invoice string) error
}

// LogMailer records confirmations as structured log lines instead of sending mail.
type LogMailer struct {
	Logger *logger.Logger
}

func (m LogMailer) SendOrderConfirmation(ctx context.Context, order orders.Order, invoice string) error {
	if m.Logger == nil {
		return nil
	}
	ctx = m.Logger.WithOrderID(ctx, order.ID)
	ctx = m.Logger.WithFields(ctx, map[string]any{
		"to":            order.CustomerEmail,
		"status":        order.Status,
		"total":         order.Total.StringFixed(2),
		"invoice_bytes": len(invoice),
		"has_key":       order.LicenseKey != "",
	})
	m.Logger.Info(ctx, "order confirmation email queued")
	return nil
}
