package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GopinathBalasubramanian/eduactivity/internal/cache"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

// ===== REVIEWS =====

type ReviewPostgreSQL struct {
	db *gorm.DB
}

func NewReviewPostgreSQL(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewPostgreSQL{db: db}
}

func (r *ReviewPostgreSQL) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error; err != nil {
		return handleDBError(err, "create review")
	}
	return nil
}

func (r *ReviewPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&review, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get review by id")
	}
	return &review, nil
}

func (r *ReviewPostgreSQL) ListByProvider(ctx context.Context, providerID uuid.UUID, filters repositories.ReviewFilters) ([]*models.Review, int64, error) {
	var reviews []*models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("provider_id = ?", providerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count reviews")
	}

	query = ApplyPagination(query.Preload("User").Order("created_at DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, handleDBError(err, "list reviews")
	}
	return reviews, total, nil
}

func (r *ReviewPostgreSQL) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error; err != nil {
		return handleDBError(err, "update review")
	}
	return nil
}

func (r *ReviewPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	return requireAffected(result, "delete review")
}

// ===== CATEGORIES =====

// CategoryPostgreSQL caches reads in redis and drops the cache on every write
type CategoryPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCategoryPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CategoryRepository {
	return &CategoryPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, category *models.Category) error {
	if err := c.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return handleDBError(err, "create category")
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager)
	return nil
}

func (c *CategoryPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category

	err := c.cacheManager.Category.CacheOrExecute(ctx, cache.CategoryKey(id), &category, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		var dbCategory models.Category
		if err := c.db.WithContext(ctx).First(&dbCategory, "id = ?", id).Error; err != nil {
			return nil, handleDBError(err, "get category by id")
		}
		return &dbCategory, nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category

	err := c.cacheManager.Category.CacheOrExecute(ctx, cache.CategoryListKey, &categories, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		var dbCategories []*models.Category
		if err := c.db.WithContext(ctx).Order("name ASC").Find(&dbCategories).Error; err != nil {
			return nil, handleDBError(err, "list categories")
		}
		return dbCategories, nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *CategoryPostgreSQL) Update(ctx context.Context, category *models.Category) error {
	if err := c.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error; err != nil {
		return handleDBError(err, "update category")
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager)
	return nil
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := c.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if err := requireAffected(result, "delete category"); err != nil {
		return err
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager)
	return nil
}

// ===== NOTIFICATIONS =====

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Omit(clause.Associations).Create(notification).Error; err != nil {
		return handleDBError(err, "create notification")
	}
	return nil
}

func (n *NotificationPostgreSQL) ListByUser(ctx context.Context, userID uuid.UUID, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := n.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if filters.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count notifications")
	}

	query = ApplyPagination(query.Order("created_at DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, handleDBError(err, "list notifications")
	}
	return notifications, total, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	result := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return requireAffected(result, "mark notification read")
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, handleDBError(result.Error, "mark all notifications read")
	}
	return result.RowsAffected, nil
}

func (n *NotificationPostgreSQL) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count unread notifications")
	}
	return count, nil
}

// ===== CHATS =====

type ChatPostgreSQL struct {
	db *gorm.DB
}

func NewChatPostgreSQL(db *gorm.DB) repositories.ChatRepository {
	return &ChatPostgreSQL{db: db}
}

func (c *ChatPostgreSQL) Create(ctx context.Context, chat *models.Chat) error {
	if err := c.db.WithContext(ctx).Omit(clause.Associations).Create(chat).Error; err != nil {
		return handleDBError(err, "create chat")
	}
	return nil
}

func (c *ChatPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := c.db.WithContext(ctx).First(&chat, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get chat by id")
	}
	return &chat, nil
}

func (c *ChatPostgreSQL) ListForUser(ctx context.Context, userID uuid.UUID, filters repositories.ChatFilters) ([]*models.Chat, int64, error) {
	var chats []*models.Chat
	var total int64

	query := c.db.WithContext(ctx).Model(&models.Chat{}).
		Where("(sender_id = ? OR receiver_id = ?)", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count chats")
	}

	query = ApplyPagination(query.Order("created_at DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&chats).Error; err != nil {
		return nil, 0, handleDBError(err, "list chats")
	}
	return chats, total, nil
}

func (c *ChatPostgreSQL) ListConversation(ctx context.Context, userID, otherID, providerID uuid.UUID) ([]*models.Chat, error) {
	var chats []*models.Chat
	if err := c.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&chats).Error; err != nil {
		return nil, handleDBError(err, "list conversation")
	}
	return chats, nil
}

func (c *ChatPostgreSQL) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	result := c.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true)
	return requireAffected(result, "mark chat read")
}

// ===== SEARCH ALERTS =====

type SearchAlertPostgreSQL struct {
	db *gorm.DB
}

func NewSearchAlertPostgreSQL(db *gorm.DB) repositories.SearchAlertRepository {
	return &SearchAlertPostgreSQL{db: db}
}

func (s *SearchAlertPostgreSQL) Create(ctx context.Context, alert *models.SearchAlert) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(alert).Error; err != nil {
		return handleDBError(err, "create search alert")
	}
	return nil
}

func (s *SearchAlertPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.SearchAlert, error) {
	var alert models.SearchAlert
	if err := s.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get search alert by id")
	}
	return &alert, nil
}

func (s *SearchAlertPostgreSQL) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SearchAlert, error) {
	var alerts []*models.SearchAlert
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, handleDBError(err, "list search alerts")
	}
	return alerts, nil
}

func (s *SearchAlertPostgreSQL) Update(ctx context.Context, alert *models.SearchAlert) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(alert).Error; err != nil {
		return handleDBError(err, "update search alert")
	}
	return nil
}

func (s *SearchAlertPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.SearchAlert{}, "id = ?", id)
	return requireAffected(result, "delete search alert")
}
