package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/repository"
	"github.com/Jigden18/portal-backend/internal/storage"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
	"github.com/Jigden18/portal-backend/pkg/logger"
)

const maxResumeBytes = 5 << 20

// ApplicationService handles the application lifecycle: seekers apply
// with a resume, organizations review and schedule interviews. Status
// changes are pushed into the org<->seeker conversation as
// status_update messages.
type ApplicationService struct {
	apps      repository.ApplicationRepository
	vacancies repository.VacancyRepository
	orgs      repository.OrganizationRepository
	profiles  repository.ProfileRepository
	chat      *ChatService
	store     storage.ObjectStore
	log       *logger.Logger
}

func NewApplicationService(
	apps repository.ApplicationRepository,
	vacancies repository.VacancyRepository,
	orgs repository.OrganizationRepository,
	profiles repository.ProfileRepository,
	chatService *ChatService,
	store storage.ObjectStore,
	log *logger.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:      apps,
		vacancies: vacancies,
		orgs:      orgs,
		profiles:  profiles,
		chat:      chatService,
		store:     store,
		log:       log,
	}
}

type StatusUpdateInput struct {
	Status        string
	Message       string
	InterviewDate *time.Time
	InterviewTime string
}

// Apply submits the caller's application to an open vacancy. The resume
// must be a PDF; one application per job and seeker.
func (s *ApplicationService) Apply(ctx context.Context, userID, jobID int64, resume *FileUpload, message string) (job.Application, error) {
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return job.Application{}, err
	}
	vacancy, err := s.vacancies.GetByID(ctx, jobID)
	if err != nil {
		return job.Application{}, err
	}
	if vacancy.Status != job.StatusOpen {
		return job.Application{}, portal_errors.ErrInvalidState
	}
	if resume == nil || len(resume.Data) == 0 || int64(len(resume.Data)) > maxResumeBytes {
		return job.Application{}, portal_errors.ErrValidation
	}
	if resume.ContentType != "application/pdf" {
		return job.Application{}, portal_errors.ErrValidation
	}

	key := storage.ObjectKey("resumes", resume.Filename)
	pdfURL, err := s.store.Put(ctx, key, resume.ContentType, resume.Data)
	if err != nil {
		return job.Application{}, err
	}

	app := job.Application{
		JobID:       jobID,
		JobseekerID: prof.ID,
		PDFPath:     pdfURL,
		Status:      job.ApplicationSubmitted,
		Message:     toNullString(message),
	}
	if err := s.apps.Create(ctx, &app); err != nil {
		return job.Application{}, err
	}
	app.Job = &vacancy
	return app, nil
}

// ListApplicants lists a vacancy's applications for its owning
// organization.
func (s *ApplicationService) ListApplicants(ctx context.Context, userID, jobID int64) ([]job.Application, error) {
	if _, err := s.ownedVacancy(ctx, userID, jobID); err != nil {
		return nil, err
	}
	return s.apps.ListByJob(ctx, jobID)
}

func (s *ApplicationService) ListMyApplications(ctx context.Context, userID int64) ([]job.Application, error) {
	prof, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.apps.ListByJobseeker(ctx, prof.ID)
}

func (s *ApplicationService) GetApplication(ctx context.Context, userID, applicationID int64) (job.Application, error) {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return job.Application{}, err
	}
	orgUserID, seekerUserID, err := s.participants(ctx, app)
	if err != nil {
		return job.Application{}, err
	}
	if userID != orgUserID && userID != seekerUserID {
		return job.Application{}, portal_errors.ErrUnauthorized
	}
	return app, nil
}

// UpdateStatus moves an application through its review states and posts
// the change into the org<->seeker conversation. Scheduling an
// interview requires both date and time.
func (s *ApplicationService) UpdateStatus(ctx context.Context, userID, applicationID int64, in StatusUpdateInput) (job.Application, error) {
	if !job.ValidApplicationStatus(in.Status) {
		return job.Application{}, portal_errors.ErrValidation
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return job.Application{}, err
	}
	orgUserID, seekerUserID, err := s.participants(ctx, app)
	if err != nil {
		return job.Application{}, err
	}
	if userID != orgUserID {
		return job.Application{}, portal_errors.ErrUnauthorized
	}

	app.Status = in.Status
	app.Message = toNullString(in.Message)

	note := in.Message
	if in.Status == job.ApplicationInterview {
		if in.InterviewDate == nil || in.InterviewTime == "" {
			return job.Application{}, portal_errors.ErrValidation
		}
		app.InterviewDate = sql.NullTime{Time: *in.InterviewDate, Valid: true}
		app.InterviewTime = toNullString(in.InterviewTime)
		if note == "" {
			note = fmt.Sprintf("Interview scheduled for %s at %s", in.InterviewDate.Format("2006-01-02"), in.InterviewTime)
			app.Message = toNullString(note)
		}
	}

	if err := s.apps.Update(ctx, app); err != nil {
		return job.Application{}, err
	}

	s.postStatusMessage(ctx, orgUserID, seekerUserID,
		fmt.Sprintf("Your application for **%s** has been updated to **%s**.", app.Job.Position, app.Status))
	if note != "" {
		s.postStatusMessage(ctx, orgUserID, seekerUserID, note)
	}
	return app, nil
}

// NotifyDueInterviews posts a reminder into each conversation whose
// application has an interview scheduled for today. Run once a day by
// the reminder ticker.
func (s *ApplicationService) NotifyDueInterviews(ctx context.Context) error {
	due, err := s.apps.ListDueInterviews(ctx, time.Now())
	if err != nil {
		return err
	}
	for i := range due {
		app := due[i]
		orgUserID, seekerUserID, err := s.participants(ctx, app)
		if err != nil {
			s.log.Warnf("interview reminder for application %d: %v", app.ID, err)
			continue
		}
		position := ""
		if app.Job != nil {
			position = app.Job.Position
		}
		s.postStatusMessage(ctx, orgUserID, seekerUserID,
			fmt.Sprintf("Reminder: interview for **%s** is today at %s.", position, nullStr(app.InterviewTime)))
	}
	return nil
}

// postStatusMessage writes an automated status_update message from the
// organization's user into the pair's conversation, creating it when
// absent. Failures are logged, not propagated: chat is a side channel
// for application state.
func (s *ApplicationService) postStatusMessage(ctx context.Context, orgUserID, seekerUserID int64, body string) {
	conv, err := s.chat.Resolve(ctx, orgUserID, seekerUserID)
	if err != nil {
		s.log.Warnf("resolve status conversation (%d,%d): %v", orgUserID, seekerUserID, err)
		return
	}
	if _, err := s.chat.SendMessage(ctx, orgUserID, SendMessageInput{
		ConversationID: conv.ID,
		Body:           body,
		Kind:           chat.KindStatusUpdate,
	}); err != nil {
		s.log.Warnf("post status message to conversation %d: %v", conv.ID, err)
	}
}

func (s *ApplicationService) participants(ctx context.Context, app job.Application) (orgUserID, seekerUserID int64, err error) {
	if app.Job == nil {
		return 0, 0, portal_errors.ErrNotFound
	}
	org, err := s.orgs.GetByID(ctx, app.Job.OrganizationID)
	if err != nil {
		return 0, 0, err
	}
	seeker, err := s.profiles.GetByID(ctx, app.JobseekerID)
	if err != nil {
		return 0, 0, err
	}
	return org.UserID, seeker.UserID, nil
}

func (s *ApplicationService) ownedVacancy(ctx context.Context, userID, jobID int64) (job.Vacancy, error) {
	org, err := s.orgs.GetByUserID(ctx, userID)
	if err != nil {
		return job.Vacancy{}, err
	}
	v, err := s.vacancies.GetByID(ctx, jobID)
	if err != nil {
		return job.Vacancy{}, err
	}
	if v.OrganizationID != org.ID {
		return job.Vacancy{}, portal_errors.ErrUnauthorized
	}
	return v, nil
}
