package service

import (
	"context"
	"fmt"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid-backed EmailService. With an empty API
// key every send becomes a logged no-op, which keeps local development and
// tests free of external calls.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	if s.apiKey == "" {
		logger.Debug("Email sending disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, ownerName, renterName, equipmentName, startDate, endDate string) error {
	body := fmt.Sprintf("Hello %s,\n\n%s requested to rent your %s from %s to %s.\n\nLog in to GearUp to approve or reject the request.\n\nThe GearUp Team",
		ownerName, renterName, equipmentName, startDate, endDate)
	return s.send(ownerEmail, ownerName, "New Rental Request", body)
}

func (s *emailService) SendBookingDecisionNotification(ctx context.Context, renterEmail, renterName, equipmentName string, decision domain.BookingStatus) error {
	var subject, verdict string
	if decision == domain.BookingStatusConfirmed {
		subject = "Rental Request Confirmed"
		verdict = "confirmed"
	} else {
		subject = "Rental Request Rejected"
		verdict = "rejected"
	}
	body := fmt.Sprintf("Hello %s,\n\nYour rental request for %s was %s.\n\nThe GearUp Team",
		renterName, equipmentName, verdict)
	return s.send(renterEmail, renterName, subject, body)
}

func (s *emailService) SendListingModerationNotification(ctx context.Context, ownerEmail, ownerName, listingName string, approved bool) error {
	var subject, body string
	if approved {
		subject = "Listing Approved"
		body = fmt.Sprintf("Hello %s,\n\nYour listing %s was approved and is now live on GearUp.\n\nThe GearUp Team", ownerName, listingName)
	} else {
		subject = "Listing Rejected"
		body = fmt.Sprintf("Hello %s,\n\nYour listing %s was rejected by a moderator and has been removed.\n\nThe GearUp Team", ownerName, listingName)
	}
	return s.send(ownerEmail, ownerName, subject, body)
}
