package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"dchanga/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationContributionReceived  NotificationType = "CONTRIBUTION_RECEIVED"
	NotificationContributionConfirmed NotificationType = "CONTRIBUTION_CONFIRMED"
	NotificationContributionFailed    NotificationType = "CONTRIBUTION_FAILED"
	NotificationReceiptReady          NotificationType = "RECEIPT_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string // Contributor email
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// Notifier delivers contribution lifecycle notifications.
type Notifier interface {
	NotifyContributionReceived(ctx context.Context, c *domain.Contribution) error
	NotifyContributionConfirmed(ctx context.Context, c *domain.Contribution) error
	NotifyContributionFailed(ctx context.Context, c *domain.Contribution) error
	NotifyReceiptReady(ctx context.Context, r *Receipt) error
}

// NotificationService writes notifications to the log.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyContributionReceived tells the contributor a QR payment is awaiting confirmation.
func (s *NotificationService) NotifyContributionReceived(ctx context.Context, c *domain.Contribution) error {
	return s.send(ctx, Notification{
		Type:        NotificationContributionReceived,
		RecipientID: c.ContributorEmail,
		Title:       "Contribution Received",
		Message:     fmt.Sprintf("Scan the code to complete your contribution of %s", c.Amount.StringFixed(2)),
		Data: map[string]interface{}{
			"transaction_id": c.TransactionID,
			"campaign_id":    c.CampaignID,
			"method":         c.Method,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyContributionConfirmed tells the contributor the payment settled.
func (s *NotificationService) NotifyContributionConfirmed(ctx context.Context, c *domain.Contribution) error {
	data := map[string]interface{}{
		"transaction_id": c.TransactionID,
		"campaign_id":    c.CampaignID,
		"amount":         c.Amount.String(),
	}
	if c.LedgerTransactionID != "" {
		data["ledger_transaction_id"] = c.LedgerTransactionID
	}
	return s.send(ctx, Notification{
		Type:        NotificationContributionConfirmed,
		RecipientID: c.ContributorEmail,
		Title:       "Contribution Confirmed",
		Message:     fmt.Sprintf("Your contribution of %s was confirmed. Thank you!", c.Amount.StringFixed(2)),
		Data:        data,
		CreatedAt:   time.Now(),
	})
}

// NotifyContributionFailed tells the contributor the payment did not go through.
func (s *NotificationService) NotifyContributionFailed(ctx context.Context, c *domain.Contribution) error {
	return s.send(ctx, Notification{
		Type:        NotificationContributionFailed,
		RecipientID: c.ContributorEmail,
		Title:       "Contribution Failed",
		Message:     fmt.Sprintf("Your contribution of %s failed: %s", c.Amount.StringFixed(2), c.FailureReason),
		Data: map[string]interface{}{
			"transaction_id": c.TransactionID,
			"campaign_id":    c.CampaignID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyReceiptReady tells the contributor a receipt is available.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, r *Receipt) error {
	return s.send(ctx, Notification{
		Type:        NotificationReceiptReady,
		RecipientID: r.ContributorEmail,
		Title:       "Receipt Ready",
		Message:     fmt.Sprintf("Your receipt for %s is ready", r.Amount.StringFixed(2)),
		Data: map[string]interface{}{
			"receipt_id":     r.ID,
			"transaction_id": r.TransactionID,
		},
		CreatedAt: time.Now(),
	})
}

// send logs a notification.
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	if notification.RecipientID == "" {
		return nil
	}

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)
	return nil
}
