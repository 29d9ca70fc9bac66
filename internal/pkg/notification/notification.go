package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
	"github.com/startstack/startstack/internal/pkg/constants"
	"github.com/startstack/startstack/internal/pkg/env"
	"github.com/startstack/startstack/internal/pkg/mail"
	"github.com/startstack/startstack/internal/pkg/newsletter"
)

// Notifier bundles the out-of-band side effects of a completed checkout: the
// magic-link sign-in mail and the newsletter audience membership.
type Notifier struct {
	db         *gorm.DB
	newsletter *newsletter.Client
	baseURL    string
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:         db,
		newsletter: newsletter.NewClientFromEnv(),
		baseURL:    env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080"),
	}
}

// SendMagicLink issues a fresh sign-in token for the user with this email and
// mails the link. The user row must already exist; the checkout completion
// transaction creates it before this runs.
func (n *Notifier) SendMagicLink(email string) error {
	var user models.User
	err := n.db.Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no user for %s", email)
	}
	if err != nil {
		return err
	}

	if err := user.GenerateMagicLinkToken(); err != nil {
		return err
	}
	if err := n.db.Model(&user).Updates(map[string]interface{}{
		"magic_link_token":   user.MagicLinkToken,
		"magic_link_sent_at": user.MagicLinkSentAt,
	}).Error; err != nil {
		return err
	}

	link := fmt.Sprintf("%s%s?token=%s", n.baseURL, constants.MagicLinkRoute, user.MagicLinkToken)
	return mail.SendMagicLinkMail(user.Email, link)
}

// SubscribeContact adds the email to the newsletter audience.
func (n *Notifier) SubscribeContact(email string) error {
	if !n.newsletter.Enabled() {
		log.Printf("[notification] newsletter not configured, skipping subscribe for %s", email)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return n.newsletter.Subscribe(ctx, email)
}

// UnsubscribeContact removes the email from the newsletter audience.
func (n *Notifier) UnsubscribeContact(email string) error {
	if !n.newsletter.Enabled() {
		log.Printf("[notification] newsletter not configured, skipping unsubscribe for %s", email)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return n.newsletter.Unsubscribe(ctx, email)
}
