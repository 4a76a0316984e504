package service

import (
	"context"
	"fmt"
	"log"

	"inkwell/internal/repository"
)

// Mailer is the outbound mail transport used by the newsletter service.
type Mailer interface {
	SendWelcome(ctx context.Context, to string) error
	// Ready reports whether the relay is currently reachable. Recomputed on
	// demand, not frozen at boot.
	Ready(ctx context.Context) bool
}

// NewsletterService handles subscriptions and the welcome mail.
type NewsletterService interface {
	// Subscribe upserts the address. The welcome mail is best effort: a send
	// failure is logged and reported via mailSent, never fails the subscription.
	Subscribe(ctx context.Context, email string) (created bool, mailSent bool, err error)
	SMTPReady(ctx context.Context) bool
}

type newsletterService struct {
	subscribers repository.NewsletterRepository
	mailer      Mailer
}

// NewNewsletterService creates a new newsletter service.
func NewNewsletterService(subscribers repository.NewsletterRepository, mailer Mailer) NewsletterService {
	return &newsletterService{subscribers: subscribers, mailer: mailer}
}

func (s *newsletterService) Subscribe(ctx context.Context, email string) (bool, bool, error) {
	email = normalizeEmail(email)

	created, err := s.subscribers.Subscribe(ctx, email)
	if err != nil {
		return false, false, fmt.Errorf("subscribe: %w", err)
	}

	if err := s.mailer.SendWelcome(ctx, email); err != nil {
		log.Printf("newsletter: welcome email to %s failed: %v", email, err)
		return created, false, nil
	}
	return created, true, nil
}

func (s *newsletterService) SMTPReady(ctx context.Context) bool {
	return s.mailer.Ready(ctx)
}
