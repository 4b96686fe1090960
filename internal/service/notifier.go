package service

// Notification templates understood by the delivery worker.
const (
	TemplateTicketDelivery  = "ticket_delivery"
	TemplateRejectionNotice = "rejection_notice"
)

// Notifier hands a customer-facing message to the delivery pipeline. Sends
// are best-effort: a failed send is logged and counted, never surfaced to
// the state transition that triggered it.
type Notifier interface {
	Send(template, recipient string, payload map[string]any) error
}
