package services

import (
	"context"
	"fmt"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/cache"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/ledger"
	portsrepo "github.com/opencashbook/cashbook_backend/internal/core/ports/repositories"
	portssvc "github.com/opencashbook/cashbook_backend/internal/core/ports/services"
	"github.com/opencashbook/cashbook_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ReportService assembles date-bucketed cash book reports behind a
// read-through cache keyed by the full parameter tuple. Mutating record
// operations purge the cache through InvalidateReports.
type ReportService struct {
	repo  portsrepo.RecordRepository
	cache *cache.TTL[*dto.CashBookReport]
}

var _ portssvc.ReportService = (*ReportService)(nil)
var _ portssvc.ReportInvalidator = (*ReportService)(nil)

// NewReportService creates a new ReportService with the given cache TTL.
func NewReportService(repo portsrepo.RecordRepository, cacheTTL time.Duration) *ReportService {
	return &ReportService{
		repo:  repo,
		cache: cache.NewTTL[*dto.CashBookReport](cacheTTL),
	}
}

// InvalidateReports drops every cached report.
func (s *ReportService) InvalidateReports() {
	s.cache.Purge()
}

// CashBook builds the report for the requested filter and page. The page's
// first bucket opens at the true closing balance of every record before the
// page, so per-page results match one pass over the unsplit set.
func (s *ReportService) CashBook(ctx context.Context, req dto.CashBookReportRequest) (*dto.CashBookReport, error) {
	key := reportCacheKey(req)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	filter, err := filterFromReportRequest(req)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load records for report: %w", err)
	}
	ordered := ledger.Sort(records)

	start, end := pageBounds(len(ordered), req.Page, req.PageSize)
	carriedIn := decimal.Zero
	if start > 0 {
		carriedIn = ledger.ClosingBalanceAt(ordered, start-1)
	}
	page := ordered[start:end]
	buckets := ledger.BuildDateBuckets(page, carriedIn)

	shape := req.Shape
	if shape == "" {
		shape = dto.ShapeFlat
	}

	report := &dto.CashBookReport{
		Buckets:        make([]dto.DateBucketResponse, 0, len(buckets)),
		OpeningBalance: carriedIn,
		ClosingBalance: carriedIn,
		Page:           req.Page,
		PageSize:       req.PageSize,
		TotalRecords:   len(ordered),
	}
	receipts, payments := ledger.Totals(page)
	report.TotalReceipts = receipts
	report.TotalPayments = payments
	for i := range buckets {
		report.Buckets = append(report.Buckets, dto.ToDateBucketResponse(&buckets[i], shape))
	}
	if len(buckets) > 0 {
		report.ClosingBalance = buckets[len(buckets)-1].ClosingBalance
	}

	s.cache.Set(key, report)
	return report, nil
}

// pageBounds slices [start, end) for 1-based pages; PageSize 0 means the
// whole set.
func pageBounds(total, page, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 0, total
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

func reportCacheKey(req dto.CashBookReportRequest) string {
	return fmt.Sprintf("cashbook|%s|%s|%s|%s|%s|%d|%d|%s",
		req.Segment, req.FiscalYear, req.Category, req.DateFrom, req.DateTo, req.Page, req.PageSize, req.Shape)
}

func filterFromReportRequest(req dto.CashBookReportRequest) (portsrepo.RecordFilter, error) {
	filter := portsrepo.RecordFilter{}
	segment, err := dto.ParseSegmentFilter(req.Segment)
	if err != nil {
		return filter, err
	}
	filter.Segment = segment
	if req.FiscalYear != "" {
		fy := req.FiscalYear
		filter.FiscalYear = &fy
	}
	if req.Category != "" {
		category := req.Category
		filter.Category = &category
	}
	if req.DateFrom != "" {
		from, err := domain.ParseCashDate(req.DateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := domain.ParseCashDate(req.DateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}
