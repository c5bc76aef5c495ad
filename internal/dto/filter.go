package dto

import (
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/ports/repositories"
)

// ListRecordsRequest carries the record listing / bulk delete filter.
type ListRecordsRequest struct {
	Segment    string `form:"segment" binding:"omitempty,oneof=a b both A B"`
	FiscalYear string `form:"fiscalYear"`
	Category   string `form:"category"`
	Kind       string `form:"kind" binding:"omitempty,oneof=RECEIPT PAYMENT"`
	DateFrom   string `form:"dateFrom" binding:"omitempty,cashdate"`
	DateTo     string `form:"dateTo" binding:"omitempty,cashdate"`
	Search     string `form:"search"`
}

// ToFilter translates the request into a repository filter.
func (r ListRecordsRequest) ToFilter() (repositories.RecordFilter, error) {
	filter := repositories.RecordFilter{}

	segment, err := ParseSegmentFilter(r.Segment)
	if err != nil {
		return filter, err
	}
	filter.Segment = segment

	if r.FiscalYear != "" {
		fy := r.FiscalYear
		filter.FiscalYear = &fy
	}
	if r.Category != "" {
		category := r.Category
		filter.Category = &category
	}
	if r.Kind != "" {
		kind, err := domain.ParseRecordKind(r.Kind)
		if err != nil {
			return filter, err
		}
		filter.Kind = &kind
	}
	if r.DateFrom != "" {
		from, err := domain.ParseCashDate(r.DateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if r.DateTo != "" {
		to, err := domain.ParseCashDate(r.DateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}
	if r.Search != "" {
		search := r.Search
		filter.Search = &search
	}
	return filter, nil
}
