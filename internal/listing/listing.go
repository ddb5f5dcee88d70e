// Package listing builds the filtered, paginated public job list with a
// short-lived cache in front. The cache is purely a performance layer: every
// code path is correct with it disabled, and entries expire by TTL only.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jobportal/jobportal/internal/models"
	"gorm.io/gorm"
)

// PageSize is the fixed number of listings per page.
const PageSize = 10

// Filters are the supported public listing filters.
type Filters struct {
	Keyword        string `form:"keyword"`
	Location       string `form:"location"`
	JobType        string `form:"job_type"`
	Salary         string `form:"salary"`
	DatePostedDays int    `form:"date_posted"` // 0 means any time
}

// CacheKey derives a stable cache key from the filters and page. Parameters
// are sorted by name so the key is independent of how the caller ordered
// them.
func (f Filters) CacheKey(page int) string {
	params := []string{fmt.Sprintf("page:%d", page)}
	if f.Keyword != "" {
		params = append(params, "keyword:"+f.Keyword)
	}
	if f.Location != "" {
		params = append(params, "location:"+f.Location)
	}
	if f.JobType != "" {
		params = append(params, "job_type:"+f.JobType)
	}
	if f.Salary != "" {
		params = append(params, "salary:"+f.Salary)
	}
	if f.DatePostedDays > 0 {
		params = append(params, fmt.Sprintf("date_posted:%d", f.DatePostedDays))
	}
	sort.Strings(params)
	return "job_list_" + strings.Join(params, "_")
}

// JobSummary is the listing row shape cached and returned to clients.
type JobSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	JobType   string    `json:"job_type"`
	Salary    string    `json:"salary"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one page of listing results.
type Page struct {
	Jobs       []JobSummary `json:"jobs"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

// ParsePage interprets a raw page query parameter. Anything that is not a
// positive integer reads as page 1; out-of-range values are clamped against
// the total later, once it is known.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// totalPages computes the page count for a result set, never less than 1 so
// an empty listing still renders page 1 of 1.
func totalPages(total int64) int {
	n := int((total + PageSize - 1) / PageSize)
	if n < 1 {
		return 1
	}
	return n
}

// clampPage pins a requested page into [1, last].
func clampPage(page, last int) int {
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

// Service answers public listing queries over approved jobs.
type Service struct {
	db     *gorm.DB
	cache  *Cache // nil disables caching
	logger *slog.Logger
}

// NewService creates a listing Service. cache may be nil.
func NewService(db *gorm.DB, cache *Cache, logger *slog.Logger) *Service {
	return &Service{db: db, cache: cache, logger: logger}
}

// List returns one page of public listings matching the filters. Cache hits
// skip the database entirely; cache failures fall through to the query.
func (s *Service) List(ctx context.Context, f Filters, page int) (*Page, error) {
	page = clampPage(page, 1<<30)

	key := f.CacheKey(page)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	query := s.db.WithContext(ctx).Model(&models.Job{}).
		Where("is_active = ? AND is_approved = ?", true, true)

	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		query = query.Where("title ILIKE ? OR company ILIKE ? OR description ILIKE ?", kw, kw, kw)
	}
	if f.Location != "" {
		query = query.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.JobType != "" {
		query = query.Where("job_type = ?", f.JobType)
	}
	if f.Salary != "" {
		query = query.Where("salary = ?", f.Salary)
	}
	if f.DatePostedDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -f.DatePostedDays)
		query = query.Where("created_at >= ?", cutoff)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}

	last := totalPages(total)
	page = clampPage(page, last)

	var rows []models.Job
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}

	result := &Page{
		Jobs:       make([]JobSummary, 0, len(rows)),
		Total:      total,
		Page:       page,
		TotalPages: last,
	}
	for _, j := range rows {
		result.Jobs = append(result.Jobs, JobSummary{
			ID:        j.ID,
			Title:     j.Title,
			Company:   j.Company,
			Location:  j.Location,
			JobType:   j.JobType,
			Salary:    j.Salary,
			CreatedAt: j.CreatedAt,
		})
	}

	s.storePage(ctx, key, f.CacheKey(page), result)

	return result, nil
}

// storePage caches the page under the clamped key and, when the caller asked
// for an out-of-range page, under the requested key as well, so the next
// identical request hits without being clamped again.
func (s *Service) storePage(ctx context.Context, requestedKey, clampedKey string, result *Page) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, clampedKey, result); err != nil {
		s.logger.Warn("failed to cache listing page", "key", clampedKey, "error", err.Error())
	}
	if requestedKey == clampedKey {
		return
	}
	if err := s.cache.Set(ctx, requestedKey, result); err != nil {
		s.logger.Warn("failed to cache listing page", "key", requestedKey, "error", err.Error())
	}
}
