package diavgeia

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/models"
)

// Cache is the read-through decision cache: cached rows are preferred,
// the registry is consulted on miss or explicit refresh, and everything
// the registry returns is upserted locally. There is no eviction and no
// TTL; staleness is caller-controlled via the refresh flag.
type Cache struct {
	db       *gorm.DB
	registry Registry
}

func NewCache(db *gorm.DB, registry Registry) *Cache {
	return &Cache{db: db, registry: registry}
}

// GetByADA returns the decision for an ADA. A cached row is returned
// unmodified unless it is missing or refresh is requested, in which case
// the registry is consulted and the result stored before returning.
func (c *Cache) GetByADA(ctx context.Context, ada string, refresh bool) (*models.Decision, error) {
	if ada == "" {
		return nil, apperrors.Validation("ADA is required")
	}

	var decision models.Decision
	err := c.db.Where("ada = ?", ada).First(&decision).Error
	if err == nil && !refresh {
		return &decision, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payload, err := c.registry.GetDecision(ctx, ada)
	if err != nil {
		return nil, mapRegistryError(err)
	}
	return c.Upsert(payload)
}

// Fetch always consults the registry and caches the result. A registry
// 404 leaves the cache untouched.
func (c *Cache) Fetch(ctx context.Context, ada string) (*models.Decision, error) {
	if ada == "" {
		return nil, apperrors.Validation("ADA is required")
	}

	payload, err := c.registry.GetDecision(ctx, ada)
	if err != nil {
		return nil, mapRegistryError(err)
	}
	return c.Upsert(payload)
}

// CachedSearchResult is the cache-mode search response: local rows plus
// pagination info computed independently of the page slice.
type CachedSearchResult struct {
	Decisions []models.Decision `json:"decisions"`
	Info      PageInfo          `json:"info"`
}

// SearchCache queries the local cache only. Filters are conjunctive,
// ordering is issue date descending then last-updated descending, and
// pagination is 0-based with the page size capped at 100.
func (c *Cache) SearchCache(params SearchParams) (*CachedSearchResult, error) {
	page := params.Page
	if page < 0 {
		page = 0
	}
	size := params.Size
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	query := c.db.Model(&models.Decision{})
	if params.Q != "" {
		like := "%" + params.Q + "%"
		query = query.Where("subject LIKE ? OR ada LIKE ? OR protocol_number LIKE ?", like, like, like)
	}
	if params.Org != "" {
		query = query.Where("organization_id LIKE ?", "%"+params.Org+"%")
	}
	if params.Type != "" {
		query = query.Where("decision_type_id = ?", params.Type)
	}
	if params.FromDate != "" {
		query = query.Where("issue_date >= ?", params.FromDate)
	}
	if params.ToDate != "" {
		query = query.Where("issue_date <= ?", params.ToDate)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var decisions []models.Decision
	err := query.
		Order("issue_date DESC").
		Order("updated_at DESC").
		Limit(size).
		Offset(page * size).
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}
	if decisions == nil {
		decisions = []models.Decision{}
	}

	return &CachedSearchResult{
		Decisions: decisions,
		Info: PageInfo{
			Page:   page,
			Size:   size,
			Total:  total,
			Source: "cache",
		},
	}, nil
}

// SearchRemote delegates the full filter set to the registry and upserts
// every returned decision before handing the response back. A per-record
// cache write failure is logged and skipped; it never aborts the search.
func (c *Cache) SearchRemote(ctx context.Context, params SearchParams) (*SearchResult, error) {
	result, err := c.registry.Search(ctx, params)
	if err != nil {
		return nil, mapRegistryError(err)
	}

	for i := range result.Decisions {
		if _, err := c.Upsert(&result.Decisions[i]); err != nil {
			log.Printf("Failed to cache decision %s: %v", result.Decisions[i].ADA, err)
		}
	}

	return result, nil
}

// Upsert is the only write path into the decisions table. An existing row
// for the ADA has all mutable fields replaced and updated_at /
// last_fetched_at refreshed; a new row gets all three timestamps set to
// now. Blob fields default to empty JSON structures, never null.
func (c *Cache) Upsert(payload *DecisionPayload) (*models.Decision, error) {
	if payload == nil || payload.ADA == "" {
		return nil, apperrors.Validation("ADA is required")
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"subject":               payload.Subject,
		"protocol_number":       payload.ProtocolNumber,
		"decision_type_id":      payload.DecisionTypeID,
		"organization_id":       payload.OrganizationID,
		"organization_label":    payload.OrganizationLabel,
		"issue_date":            string(payload.IssueDate),
		"document_url":          payload.DocumentURL,
		"status":                payload.Status,
		"submitter_uid":         payload.SubmitterUID,
		"unit_uid":              payload.UnitUID,
		"thematic_category_ids": rawOrDefault(payload.ThematicCategoryIDs, "[]"),
		"attachments":           rawOrDefault(payload.Attachments, "[]"),
		"extra_field_values":    rawOrDefault(payload.ExtraFieldValues, "{}"),
		"private_data":          rawOrDefault(payload.PrivateData, "{}"),
		"updated_at":            now,
		"last_fetched_at":       now,
	}

	var existing models.Decision
	err := c.db.Where("ada = ?", payload.ADA).First(&existing).Error
	if err == nil {
		if err := c.db.Model(&existing).Updates(fields).Error; err != nil {
			return nil, err
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		decision := models.Decision{
			ADA:                 payload.ADA,
			Subject:             payload.Subject,
			ProtocolNumber:      payload.ProtocolNumber,
			DecisionTypeID:      payload.DecisionTypeID,
			OrganizationID:      payload.OrganizationID,
			OrganizationLabel:   payload.OrganizationLabel,
			IssueDate:           string(payload.IssueDate),
			DocumentURL:         payload.DocumentURL,
			Status:              payload.Status,
			SubmitterUID:        payload.SubmitterUID,
			UnitUID:             payload.UnitUID,
			ThematicCategoryIDs: rawOrDefault(payload.ThematicCategoryIDs, "[]"),
			Attachments:         rawOrDefault(payload.Attachments, "[]"),
			ExtraFieldValues:    rawOrDefault(payload.ExtraFieldValues, "{}"),
			PrivateData:         rawOrDefault(payload.PrivateData, "{}"),
			CreatedAt:           now,
			UpdatedAt:           now,
			LastFetchedAt:       now,
		}
		if err := c.db.Create(&decision).Error; err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}

	var stored models.Decision
	if err := c.db.Where("ada = ?", payload.ADA).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Stats summarizes the cache for the dashboard.
type Stats struct {
	TotalCached     int64 `json:"totalCached"`
	LinkedToCases   int64 `json:"linkedToCases"`
	RecentDecisions int64 `json:"recentDecisions"`
}

func (c *Cache) Stats() (*Stats, error) {
	var stats Stats
	if err := c.db.Model(&models.Decision{}).Count(&stats.TotalCached).Error; err != nil {
		return nil, err
	}
	if err := c.db.Model(&models.CaseDecisionLink{}).
		Distinct("decision_ada").
		Count(&stats.LinkedToCases).Error; err != nil {
		return nil, err
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	if err := c.db.Model(&models.Decision{}).
		Where("issue_date >= ?", cutoff).
		Count(&stats.RecentDecisions).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func rawOrDefault(raw []byte, def string) string {
	s := string(raw)
	if s == "" || s == "null" {
		return def
	}
	return s
}

func mapRegistryError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("%s", err.Error())
	}
	return apperrors.Upstream(err.Error(), err)
}
