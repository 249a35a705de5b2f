package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/repository"

	"github.com/go-playground/validator/v10"
)

// Import rejection messages
const (
	importMissingFields = "Record is missing required fields."
	importInvalidEmail  = "Record has an invalid email address."
	importDuplicate     = "Duplicate record detected."
)

// ValidationError carries a client-facing message for a rejected HCP payload
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// HcpInput is the JSON body accepted by the HCP endpoints and the importer
type HcpInput struct {
	Name      string  `json:"name"`
	AreaTag   string  `json:"areaTag"`
	Specialty string  `json:"specialty"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// hcpRecord is a normalized HcpInput
type hcpRecord struct {
	Name      string `validate:"required,max=255"`
	AreaTag   string `validate:"max=255"`
	Specialty string `validate:"required,max=255"`
	Phone     string `validate:"max=50"`
	Email     string `validate:"omitempty,email,max=255"`
}

// ImportError describes one rejected import record by its position in the payload
type ImportError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportResult tallies a batch import
type ImportResult struct {
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Rejected int           `json:"rejected"`
	Total    int           `json:"total"`
	Errors   []ImportError `json:"errors"`
}

type HcpService struct {
	hcpRepo   *repository.HcpRepository
	auditRepo *repository.AuditRepository
	validate  *validator.Validate
}

func NewHcpService(hcpRepo *repository.HcpRepository, auditRepo *repository.AuditRepository) *HcpService {
	return &HcpService{
		hcpRepo:   hcpRepo,
		auditRepo: auditRepo,
		validate:  validator.New(),
	}
}

// GetAllHcps lists every HCP ordered by name
func (s *HcpService) GetAllHcps(ctx context.Context) ([]models.Hcp, error) {
	return s.hcpRepo.GetAllHcps(ctx)
}

// GetHcpByID retrieves a single HCP
func (s *HcpService) GetHcpByID(ctx context.Context, id uint) (*models.Hcp, error) {
	return s.hcpRepo.GetHcpByID(ctx, id)
}

// CreateHcp validates and stores a new HCP
func (s *HcpService) CreateHcp(ctx context.Context, input HcpInput, userID uint) (*models.Hcp, error) {
	record := normalizeHcp(input)
	if err := s.validateRecord(record); err != nil {
		return nil, err
	}

	taken, err := s.hcpRepo.NameTaken(ctx, record.Name, record.AreaTag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check hcp uniqueness: %w", err)
	}
	if taken {
		return nil, repository.ErrDuplicateHcp
	}

	hcp := &models.Hcp{}
	record.applyTo(hcp)
	if err := s.hcpRepo.CreateHcp(ctx, hcp); err != nil {
		if errors.Is(err, repository.ErrDuplicateHcp) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create hcp: %w", err)
	}

	details := fmt.Sprintf("Created HCP: %s (area: %s)", hcp.Name, hcp.AreaTag)
	_ = s.auditRepo.CreateAuditLog(ctx, &userID, repository.AuditHcpCreate, details)

	return hcp, nil
}

// UpdateHcp replaces the fields of an existing HCP
func (s *HcpService) UpdateHcp(ctx context.Context, id uint, input HcpInput, userID uint) (*models.Hcp, error) {
	hcp, err := s.hcpRepo.GetHcpByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record := normalizeHcp(input)
	if err := s.validateRecord(record); err != nil {
		return nil, err
	}

	taken, err := s.hcpRepo.NameTaken(ctx, record.Name, record.AreaTag, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check hcp uniqueness: %w", err)
	}
	if taken {
		return nil, repository.ErrDuplicateHcp
	}

	record.applyTo(hcp)
	if err := s.hcpRepo.UpdateHcp(ctx, hcp); err != nil {
		if errors.Is(err, repository.ErrDuplicateHcp) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update hcp: %w", err)
	}

	details := fmt.Sprintf("Updated HCP: %s (ID: %d)", hcp.Name, hcp.ID)
	_ = s.auditRepo.CreateAuditLog(ctx, &userID, repository.AuditHcpUpdate, details)

	return hcp, nil
}

// DeleteHcp removes an HCP
func (s *HcpService) DeleteHcp(ctx context.Context, id uint, userID uint) error {
	hcp, err := s.hcpRepo.GetHcpByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hcpRepo.DeleteHcp(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHcpNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete hcp: %w", err)
	}

	details := fmt.Sprintf("Deleted HCP: %s (ID: %d)", hcp.Name, id)
	_ = s.auditRepo.CreateAuditLog(ctx, &userID, repository.AuditHcpDelete, details)

	return nil
}

// ImportHcps upserts a batch of records one at a time. A record matching an existing HCP
// by email, phone or (name, areaTag) updates it; anything else is created. Invalid and
// conflicting records are rejected individually; any other storage error aborts the batch.
// A nil entry stands for a payload element that could not be decoded.
func (s *HcpService) ImportHcps(ctx context.Context, inputs []*HcpInput, userID uint) (*ImportResult, error) {
	result := &ImportResult{
		Total:  len(inputs),
		Errors: []ImportError{},
	}

	reject := func(index int, message string) {
		result.Rejected++
		result.Errors = append(result.Errors, ImportError{Index: index, Message: message})
	}

	for index, input := range inputs {
		if input == nil {
			reject(index, importMissingFields)
			continue
		}

		record := normalizeHcp(*input)
		if record.Phone == "" && record.Email == "" {
			reject(index, importMissingFields)
			continue
		}
		if err := s.validateRecord(record); err != nil {
			reject(index, importMessage(err))
			continue
		}

		hcp := &models.Hcp{}
		record.applyTo(hcp)

		existing, err := s.hcpRepo.FindMatchingHcp(ctx, hcp)
		if err != nil {
			return nil, fmt.Errorf("failed to look up hcp at index %d: %w", index, err)
		}

		if existing != nil {
			record.applyTo(existing)
			err = s.hcpRepo.UpdateHcp(ctx, existing)
		} else {
			err = s.hcpRepo.CreateHcp(ctx, hcp)
		}

		switch {
		case errors.Is(err, repository.ErrDuplicateHcp):
			reject(index, importDuplicate)
		case err != nil:
			return nil, fmt.Errorf("failed to import hcp at index %d: %w", index, err)
		case existing != nil:
			result.Updated++
		default:
			result.Created++
		}
	}

	details := fmt.Sprintf("Imported HCPs: %d created, %d updated, %d rejected", result.Created, result.Updated, result.Rejected)
	_ = s.auditRepo.CreateAuditLog(ctx, &userID, repository.AuditHcpImport, details)

	return result, nil
}

func (s *HcpService) validateRecord(record hcpRecord) error {
	err := s.validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Message: fmt.Sprintf("%s is required.", jsonField(fe.Field()))}
	case "email":
		return &ValidationError{Message: "email must be a valid email address."}
	case "max":
		return &ValidationError{Message: fmt.Sprintf("%s must be at most %s characters.", jsonField(fe.Field()), fe.Param())}
	default:
		return &ValidationError{Message: fmt.Sprintf("%s is invalid.", jsonField(fe.Field()))}
	}
}

func importMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) && strings.HasPrefix(verr.Message, "email") {
		return importInvalidEmail
	}
	return importMissingFields
}

func jsonField(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// normalizeHcp trims every field, lower-cases the email and drops blank contact details
func normalizeHcp(input HcpInput) hcpRecord {
	record := hcpRecord{
		Name:      strings.TrimSpace(input.Name),
		AreaTag:   strings.TrimSpace(input.AreaTag),
		Specialty: strings.TrimSpace(input.Specialty),
	}
	if input.Phone != nil {
		record.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		record.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	return record
}

func (r hcpRecord) applyTo(hcp *models.Hcp) {
	hcp.Name = r.Name
	hcp.AreaTag = r.AreaTag
	hcp.Specialty = r.Specialty
	hcp.Phone = optionalString(r.Phone)
	hcp.Email = optionalString(r.Email)
}
