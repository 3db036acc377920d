package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/GopinathBalasubramanian/eduactivity/internal/cache"
	"github.com/GopinathBalasubramanian/eduactivity/internal/events"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

const exportTimeLayout = "2006-01-02 15:04"

type adminService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAdminService(repo repositories.Repository, cm *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger) AdminService {
	return &adminService{
		repo:      repo,
		cache:     cm,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, _, err := s.repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *adminService) ListProviders(ctx context.Context) ([]*models.ProviderAdminItem, error) {
	items, err := s.repo.Provider().ListForAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return items, nil
}

func (s *adminService) ApproveProvider(ctx context.Context, principal Principal, id uuid.UUID) (*models.Provider, error) {
	provider, err := s.setApproval(ctx, principal, id, true)
	if err != nil {
		return nil, err
	}

	events.PublishSafe(ctx, s.publisher, s.logger, events.ProviderApproved, events.ProviderApprovedData{
		ProviderID: provider.ID,
		UserID:     provider.UserID,
		Name:       provider.Name,
	})
	return provider, nil
}

func (s *adminService) RejectProvider(ctx context.Context, principal Principal, id uuid.UUID) (*models.Provider, error) {
	return s.setApproval(ctx, principal, id, false)
}

func (s *adminService) setApproval(ctx context.Context, principal Principal, id uuid.UUID, approved bool) (*models.Provider, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.repo.Provider().SetApproval(ctx, id, approved); err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "set provider approval")
	}
	provider, err := s.repo.Provider().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrProviderNotFound, "get provider")
	}

	cache.InvalidateStatsCache(ctx, s.cache)
	s.logger.Info("Provider approval changed",
		"provider_id", id,
		"approved", approved,
		"admin_id", principal.UserID)
	return provider, nil
}

// ===== SPREADSHEET EXPORT =====

func (s *adminService) ExportUsers(ctx context.Context) ([]byte, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{
			u.ID.String(),
			u.Email,
			u.FirstName,
			u.LastName,
			string(u.Role),
			u.IsVerified,
			u.IsActive,
			formatOptionalTime(u.LastLogin),
			u.CreatedAt.Format(exportTimeLayout),
		})
	}

	header := []interface{}{"ID", "Email", "First name", "Last name", "User type", "Verified", "Active", "Last login", "Date joined"}
	return writeWorkbook("Users", header, rows)
}

func (s *adminService) ExportProviders(ctx context.Context) ([]byte, error) {
	items, err := s.ListProviders(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, p := range items {
		subcategory := ""
		if p.Subcategory != nil {
			subcategory = *p.Subcategory
		}
		rows = append(rows, []interface{}{
			p.ID.String(),
			p.Name,
			p.UserName,
			p.UserEmail,
			p.Category,
			subcategory,
			p.Address,
			p.IsApproved,
			string(p.SubscriptionStatus),
			p.ProfileViews,
			p.ServicesCount,
			p.CreatedAt.Format(exportTimeLayout),
		})
	}

	header := []interface{}{"ID", "Name", "Owner", "Owner email", "Category", "Subcategory", "Address", "Approved", "Subscription", "Profile views", "Services", "Created"}
	return writeWorkbook("Providers", header, rows)
}

// writeWorkbook renders one sheet with a header row and returns the xlsx bytes
func writeWorkbook(sheet string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, bold)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}
