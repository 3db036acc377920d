package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GopinathBalasubramanian/eduactivity/internal/cache"
	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

// ServiceManagerConfig holds the collaborators shared by the services
type ServiceManagerConfig struct {
	Tokens      TokenConfig
	Mailer      Mailer
	FrontendURL string

	// Publisher may be nil, in which case no domain events are emitted
	Publisher events.EventPublisher
	// Cache may be backed by a nil redis client; lookups then always miss
	Cache *cache.CacheManager
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	userService         UserService
	providerService     ProviderService
	catalogService      CatalogService
	bookingService      BookingService
	reviewService       ReviewService
	categoryService     CategoryService
	notificationService NotificationService
	chatService         ChatService
	subscriptionService SubscriptionService
	searchAlertService  SearchAlertService
	adminService        AdminService
	dashboardService    DashboardService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	if config.Cache == nil {
		config.Cache = cache.NewCacheManager(nil)
	}
	if config.Mailer == nil {
		config.Mailer = NewLogMailer(logger)
	}
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.config.Tokens.Secret == "" {
		return fmt.Errorf("failed to initialize services: token secret is empty")
	}

	sm.logger.Info("Initializing service manager")

	tokens := NewTokenManager(sm.config.Tokens)
	publisher := sm.config.Publisher

	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator, tokens, sm.config.Mailer, sm.config.FrontendURL)
	sm.providerService = NewProviderService(sm.repo, sm.logger, sm.validator)
	sm.catalogService = NewCatalogService(sm.repo, sm.logger, sm.validator)
	sm.bookingService = NewBookingService(sm.repo, sm.logger, sm.validator, publisher)
	sm.reviewService = NewReviewService(sm.repo, sm.logger, sm.validator, publisher)
	sm.categoryService = NewCategoryService(sm.repo, sm.config.Cache, sm.logger, sm.validator)
	sm.notificationService = NewNotificationService(sm.repo, sm.logger)
	sm.chatService = NewChatService(sm.repo, sm.logger, sm.validator)
	sm.subscriptionService = NewSubscriptionService(sm.repo, sm.logger, sm.validator)
	sm.searchAlertService = NewSearchAlertService(sm.repo, sm.logger, sm.validator)
	sm.adminService = NewAdminService(sm.repo, sm.config.Cache, publisher, sm.logger)
	sm.dashboardService = NewDashboardService(sm.repo, sm.config.Cache, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully",
		"events_enabled", publisher != nil,
		"cache_enabled", sm.config.Cache.Enabled())

	return nil
}

// get guards every accessor; using services before Initialize is a programming error
func (sm *serviceManager) get(name string, svc interface{}) {
	if !sm.initialized {
		panic("service manager not initialized")
	}
	if svc == nil {
		panic(name + " service not initialized")
	}
}

// Service getters
func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("user", sm.userService)
	return sm.userService
}

func (sm *serviceManager) Provider() ProviderService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("provider", sm.providerService)
	return sm.providerService
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("catalog", sm.catalogService)
	return sm.catalogService
}

func (sm *serviceManager) Booking() BookingService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("booking", sm.bookingService)
	return sm.bookingService
}

func (sm *serviceManager) Review() ReviewService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("review", sm.reviewService)
	return sm.reviewService
}

func (sm *serviceManager) Category() CategoryService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("category", sm.categoryService)
	return sm.categoryService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("notification", sm.notificationService)
	return sm.notificationService
}

func (sm *serviceManager) Chat() ChatService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("chat", sm.chatService)
	return sm.chatService
}

func (sm *serviceManager) Subscription() SubscriptionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("subscription", sm.subscriptionService)
	return sm.subscriptionService
}

func (sm *serviceManager) SearchAlert() SearchAlertService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("search alert", sm.searchAlertService)
	return sm.searchAlertService
}

func (sm *serviceManager) Admin() AdminService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("admin", sm.adminService)
	return sm.adminService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("dashboard", sm.dashboardService)
	return sm.dashboardService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	if sm.config.Cache.Enabled() {
		if err := sm.config.Cache.HealthCheck(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	// the event bus and repository are owned and closed by the caller
	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
