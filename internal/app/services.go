package app

import (
	"github.com/quoteverse/core/internal/config"
	"github.com/quoteverse/core/internal/modules/admin/trigger"
	"github.com/quoteverse/core/internal/modules/digest/content"
	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	"github.com/quoteverse/core/internal/modules/digest/recipient"
	"github.com/quoteverse/core/internal/modules/subscription/subscriber"
	"github.com/quoteverse/core/internal/modules/subscription/token"
	"github.com/quoteverse/core/internal/pkg/bark"
	"github.com/quoteverse/core/internal/pkg/mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services is the wired domain layer shared by the server and digestctl.
type Services struct {
	Mailer      *mail.Sender
	Subscribers *subscriber.Service
	SubStore    *subscriber.GormStore
	Recipients  *recipient.Filter
	Digest      *dispatch.Engine
	DigestStore *dispatch.GormStore
	Trigger     *trigger.Trigger
	Alerts      *bark.Service
}

// NewServices wires every store and service against db. A nil locker
// disables the run lock.
func NewServices(cfg *config.AppConfig, db *gorm.DB, locker dispatch.Locker, logger *zap.Logger) *Services {
	mailer := mail.New(mail.BuildConfig(cfg.Mail))

	subStore := subscriber.NewGormStore(db)
	issuer := token.NewIssuer(token.NewGormStore(db), token.WithTTL(cfg.Subscription.TokenTTL))
	subSvc := subscriber.NewService(subStore, issuer, mailer,
		subscriber.WithLogger(logger),
		subscriber.WithSite(cfg.Site.Name, cfg.Site.URL),
	)

	recipients := recipient.NewFilter(recipient.NewGormStore(db))
	digestStore := dispatch.NewGormStore(db)
	engine := dispatch.NewEngine(
		content.NewAssembler(content.NewGormStore(db)),
		recipients,
		digestStore,
		mailer,
		dispatch.WithLogger(logger),
		dispatch.WithLocker(locker, cfg.Digest.LockTTL),
		dispatch.WithBatchSize(cfg.Digest.BatchSize),
		dispatch.WithWindowDays(cfg.Digest.WindowDays),
		dispatch.WithSiteName(cfg.Site.Name),
	)

	return &Services{
		Mailer:      mailer,
		Subscribers: subSvc,
		SubStore:    subStore,
		Recipients:  recipients,
		Digest:      engine,
		DigestStore: digestStore,
		Trigger:     trigger.New(engine, subStore, trigger.WithLogger(logger)),
		Alerts:      bark.New(cfg.Alert.BarkKey, cfg.Alert.BarkServer, cfg.Site.Name),
	}
}
