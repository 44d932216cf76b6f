package services

import (
	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/repository"
	"github.com/snapstack/snapstack/services/attachments"
	"github.com/snapstack/snapstack/services/auth"
	"github.com/snapstack/snapstack/services/command"
	"github.com/snapstack/snapstack/services/events"
	"github.com/snapstack/snapstack/services/mailer"
	"github.com/snapstack/snapstack/services/storage"
)

type Services struct {
	StorageService     interfaces.StorageService
	MailerService      interfaces.MailerService
	EventPublisher     interfaces.EventPublisher
	CommandParser      *command.Parser
	CommandExecutor    *command.Executor
	Notifier           *command.Notifier
	AttachmentResolver *attachments.Resolver
	AuthService        *auth.Service
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	storageService := storage.NewR2StorageService(
		cfg.StorageConfig.AccountID,
		cfg.StorageConfig.AccessKeyID,
		cfg.StorageConfig.AccessKeySecret,
		cfg.StorageConfig.PhotoBucket,
		cfg.StorageConfig.CDNDomain,
	)

	mailerService := mailer.NewMailgunService(log, cfg.MailgunConfig)

	publisherConfig := &events.PublisherConfig{
		MaxRetries:          events.DefaultMaxRetries,
		PublishTimeout:      events.DefaultPublishTimeout,
		ReconnectBackoff:    events.DefaultReconnectBackoff,
		MaxReconnectBackoff: events.DefaultMaxReconnectBackoff,
	}
	publisher, err := events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log, publisherConfig)
	if err != nil {
		return nil, err
	}

	executor := command.NewExecutor(
		repos.PostRepository,
		repos.CollectionRepository,
		repos.PostCollectionRepository,
		storageService,
		publisher,
		log,
	)

	services := Services{
		StorageService:     storageService,
		MailerService:      mailerService,
		EventPublisher:     publisher,
		CommandParser:      command.NewParser(command.DefaultParserConfig()),
		CommandExecutor:    executor,
		Notifier:           command.NewNotifier(mailerService, log),
		AttachmentResolver: attachments.NewResolver(storageService, log),
		AuthService:        auth.NewService(cfg.SessionConfig, repos.UserRepository, log),
	}

	return &services, nil
}
