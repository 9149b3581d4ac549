package clients

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portsclients "github.com/openbooks/bookkeeping_backend/internal/core/ports/clients"
)

// MailgunNotifier emails a transaction statement to the counterparty after a
// cross-address transaction commits. Failures are reported to the caller for
// logging only; the financial write has already committed.
type MailgunNotifier struct {
	mg          *mailgun.MailgunImpl
	senderEmail string
}

// NewMailgunNotifier creates a mailgun-backed notifier.
func NewMailgunNotifier(domainName, apiKey, senderEmail string) *MailgunNotifier {
	return &MailgunNotifier{
		mg:          mailgun.NewMailgun(domainName, apiKey),
		senderEmail: senderEmail,
	}
}

var _ portsclients.Notifier = (*MailgunNotifier)(nil)

// NotifyTransaction implements portsclients.Notifier.
func (n *MailgunNotifier) NotifyTransaction(ctx context.Context, counterparty domain.Address, txn domain.Transaction) error {
	if counterparty.Email == "" {
		// No statement recipient on file; nothing to send.
		return nil
	}

	subject := fmt.Sprintf("Transaction statement: %s %d", txn.TxnType, txn.TSN)
	var body strings.Builder
	fmt.Fprintf(&body, "A transaction has been recorded against your account.\n\n")
	fmt.Fprintf(&body, "Type:      %s\n", txn.TxnType)
	fmt.Fprintf(&body, "Number:    %d\n", txn.TSN)
	fmt.Fprintf(&body, "Date:      %s\n", txn.TransactionDate.Format(time.DateOnly))
	fmt.Fprintf(&body, "Narrative: %s\n", txn.Narrative)
	fmt.Fprintf(&body, "Total:     %s\n", txn.DebitTotal().StringFixed(2))

	message := n.mg.NewMessage(n.senderEmail, subject, body.String(), counterparty.Email)

	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, id, err := n.mg.Send(sendCtx, message)
	if err != nil {
		return fmt.Errorf("failed to send statement for transaction %s: %w", txn.TransactionID, err)
	}
	slog.Debug("Statement dispatched", slog.String("transaction_id", txn.TransactionID), slog.String("message_id", id))
	return nil
}

// NoopNotifier is used when no mail provider is configured.
type NoopNotifier struct{}

// NotifyTransaction implements portsclients.Notifier.
func (NoopNotifier) NotifyTransaction(ctx context.Context, counterparty domain.Address, txn domain.Transaction) error {
	return nil
}
