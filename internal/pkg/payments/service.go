package payments

import (
	"log"
	"time"

	"gorm.io/gorm"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 3 * time.Second
)

// Config carries the knobs and collaborators the service needs beyond the
// repository and gateway. Zero-value collaborators are allowed; the service
// skips the corresponding side effects.
type Config struct {
	// BaseURL is the externally reachable application URL used to build the
	// checkout return URL.
	BaseURL             string
	AllowPromotionCodes bool
	Notifier            Notifier
	Analytics           Analytics
}

// Service implements the webhook reconciliation core and the checkout
// orchestration on top of a Repository and a Gateway.
//
// Webhook delivery order across related resource types is not guaranteed: a
// price.created can arrive before its product exists locally, an invoice
// before the completion transaction has created the customer row. Handlers
// that depend on another row use a bounded fixed-backoff retry loop and drop
// the update when retries are exhausted; the idempotent upserts mean a later
// delivery for the same resource repairs state.
type Service struct {
	repo Repository
	gw   Gateway
	cfg  Config

	maxRetries int
	backoff    time.Duration
	sleep      func(time.Duration)
}

// NewService creates a payments service from injected collaborators.
func NewService(repo Repository, gw Gateway, cfg Config) *Service {
	return &Service{
		repo:       repo,
		gw:         gw,
		cfg:        cfg,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		sleep:      time.Sleep,
	}
}

// NewServiceFromDB creates a payments service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gw Gateway, cfg Config) *Service {
	return NewService(NewRepository(db), gw, cfg)
}

// withRetries runs attempt up to maxRetries+1 times, sleeping a fixed backoff
// between attempts. attempt reports whether the dependency it needs was
// present; any error aborts immediately. Exhaustion is reported to the caller
// so it can log the dropped update.
func (s *Service) withRetries(what string, attempt func() (done bool, err error)) (exhausted bool, err error) {
	for retry := 0; ; retry++ {
		done, err := attempt()
		if err != nil {
			return false, err
		}
		if done {
			return false, nil
		}
		if retry >= s.maxRetries {
			log.Printf("[payments][%s] dependency still missing, max retries reached (retries=%d)", what, retry)
			return true, nil
		}
		log.Printf("[payments][%s] dependency missing, retrying in %s (retry=%d max=%d)", what, s.backoff, retry, s.maxRetries)
		s.sleep(s.backoff)
	}
}

func (s *Service) capture(event string, properties map[string]interface{}) {
	if s.cfg.Analytics == nil {
		return
	}
	// analytics never block or fail the caller
	go s.cfg.Analytics.Capture(event, properties)
}
