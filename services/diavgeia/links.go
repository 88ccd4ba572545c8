package diavgeia

import (
	"errors"

	"gorm.io/gorm"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/models"
)

// LinkService manages case–decision links. A decision must already be in
// the local cache before a link referencing it may be created.
type LinkService struct {
	db *gorm.DB
}

func NewLinkService(db *gorm.DB) *LinkService {
	return &LinkService{db: db}
}

// Create links a cached decision to a case.
func (s *LinkService) Create(caseID uint, decisionADA, notes string) (*models.CaseDecisionLink, error) {
	if err := s.requireCase(caseID); err != nil {
		return nil, err
	}
	if decisionADA == "" {
		return nil, apperrors.Validation("decision_ada is required")
	}

	var decision models.Decision
	err := s.db.Where("ada = ?", decisionADA).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Validation("Decision must be fetched/cached before linking")
	}
	if err != nil {
		return nil, err
	}

	var existing models.CaseDecisionLink
	err = s.db.Where("case_id = ? AND decision_ada = ?", caseID, decisionADA).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("This decision is already linked to this case")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	link := models.CaseDecisionLink{
		CaseID:      caseID,
		DecisionADA: decisionADA,
		Notes:       notes,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// LinkedDecision pairs a link row with the cached decision it points at.
type LinkedDecision struct {
	models.CaseDecisionLink
	Decision models.Decision `json:"decision"`
}

// ListForCase returns the decisions linked to a case, most recently
// issued first.
func (s *LinkService) ListForCase(caseID uint) ([]LinkedDecision, error) {
	if err := s.requireCase(caseID); err != nil {
		return nil, err
	}

	var links []models.CaseDecisionLink
	err := s.db.Model(&models.CaseDecisionLink{}).
		Select("case_diavgeia_links.*").
		Joins("JOIN diavgeia_decisions d ON d.ada = case_diavgeia_links.decision_ada").
		Where("case_diavgeia_links.case_id = ?", caseID).
		Order("d.issue_date DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	result := make([]LinkedDecision, 0, len(links))
	for _, link := range links {
		var decision models.Decision
		if err := s.db.Where("ada = ?", link.DecisionADA).First(&decision).Error; err != nil {
			return nil, err
		}
		result = append(result, LinkedDecision{CaseDecisionLink: link, Decision: decision})
	}
	return result, nil
}

// Delete removes a link from a case.
func (s *LinkService) Delete(caseID, linkID uint) error {
	if err := s.requireCase(caseID); err != nil {
		return err
	}

	var link models.CaseDecisionLink
	err := s.db.Where("id = ? AND case_id = ?", linkID, caseID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Link not found")
	}
	if err != nil {
		return err
	}

	return s.db.Delete(&link).Error
}

func (s *LinkService) requireCase(caseID uint) error {
	var c models.Case
	err := s.db.First(&c, caseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Case not found")
	}
	return err
}
