package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/school-directory/internal/events"
	"github.com/SAP-F-2025/school-directory/internal/imagestore"
	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/repositories"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

type schoolService struct {
	repo      repositories.Repository
	images    imagestore.ImageStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	cleanupImageOnFailure bool
}

func NewSchoolService(
	repo repositories.Repository,
	images imagestore.ImageStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	config ServiceConfig,
) SchoolService {
	return &schoolService{
		repo:                  repo,
		images:                images,
		publisher:             publisher,
		logger:                logger,
		validator:             validator,
		cleanupImageOnFailure: config.CleanupImageOnFailure,
	}
}

// ===== SUBMISSION PIPELINE =====

func (s *schoolService) Create(ctx context.Context, req *CreateSchoolRequest) (uint, error) {
	submission := normalizeSubmission(req)

	if errs := s.validator.GetBusinessValidator().ValidateSchoolCreate(submission); len(errs) > 0 {
		verr := classifyValidationErrors(errs)
		s.logger.Debug("School submission rejected", "kind", verr.Kind, "errors", errs.Error())
		return 0, verr
	}

	contact, _ := validator.ParseContact(submission.Contact)

	reference, err := s.images.Store(ctx, submission.Image.Content, submission.Image.Filename)
	if err != nil {
		s.logger.Error("Failed to store school image", "error", err, "filename", submission.Image.Filename)
		return 0, NewPersistenceError(ImageUploadFailed, err)
	}

	school := &models.School{
		Name:    submission.Name,
		Address: submission.Address,
		City:    submission.City,
		State:   submission.State,
		Contact: contact,
		Image:   reference,
		EmailID: submission.EmailID,
	}

	// No transaction spans the image write and the insert; a failed insert
	// leaves the stored image behind unless cleanup is enabled.
	if err := s.repo.School().Create(ctx, school); err != nil {
		s.logger.Error("Failed to insert school", "error", err, "image", reference)
		s.removeOrphanImage(ctx, reference)
		return 0, NewPersistenceError(StoreWriteFailed, err)
	}

	s.logger.Info("School created", "school_id", school.ID, "image", reference)
	s.publishCreated(ctx, school)

	return school.ID, nil
}

// ===== LISTING =====

func (s *schoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.repo.School().List(ctx)
	if err != nil {
		s.logger.Error("Failed to list schools", "error", err)
		return nil, NewPersistenceError(StoreReadFailed, err)
	}
	if schools == nil {
		schools = []models.School{}
	}
	return schools, nil
}

// ===== HELPERS =====

func normalizeSubmission(req *CreateSchoolRequest) *CreateSchoolRequest {
	if req == nil {
		return &CreateSchoolRequest{}
	}
	out := *req
	out.Name = strings.TrimSpace(out.Name)
	out.Address = strings.TrimSpace(out.Address)
	out.City = strings.TrimSpace(out.City)
	out.State = strings.TrimSpace(out.State)
	out.Contact = strings.TrimSpace(out.Contact)
	out.EmailID = strings.TrimSpace(out.EmailID)
	return &out
}

func (s *schoolService) removeOrphanImage(ctx context.Context, reference string) {
	if !s.cleanupImageOnFailure {
		return
	}
	remover, ok := s.images.(imagestore.Remover)
	if !ok {
		s.logger.Warn("Image store cannot remove images, leaving orphan", "image", reference)
		return
	}
	if err := remover.Remove(ctx, reference); err != nil {
		s.logger.Error("Failed to remove orphan image", "error", err, "image", reference)
	}
}

func (s *schoolService) publishCreated(ctx context.Context, school *models.School) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewSchoolCreatedEvent(school)); err != nil {
		s.logger.Error("Failed to publish school created event", "error", err, "school_id", school.ID)
	}
}
