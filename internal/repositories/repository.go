package repositories

import "context"

// Repository aggregates every entity repository behind one handle
type Repository interface {
	// Accounts
	User() UserRepository

	// Provider domain
	Provider() ProviderRepository
	Service() ServiceRepository
	Pricing() PricingRepository
	Booking() BookingRepository
	Subscription() SubscriptionRepository

	// Community
	Review() ReviewRepository
	Category() CategoryRepository
	Notification() NotificationRepository
	Chat() ChatRepository
	SearchAlert() SearchAlertRepository

	// Admin dashboard
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
