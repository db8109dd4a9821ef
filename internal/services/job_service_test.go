package services

import (
	"context"
	"testing"

	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/domain/user"
	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobFixture struct {
	vacancies *fakeVacancyRepo
	orgs      *fakeOrgRepo
	profiles  *fakeProfileRepo
	svc       *JobService

	orgUserID    int64
	otherOrgUser int64
	seekerUserID int64
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	ctx := context.Background()
	f := &jobFixture{
		vacancies: newFakeVacancyRepo(),
		orgs:      newFakeOrgRepo(),
		profiles:  newFakeProfileRepo(),
	}
	bookmarks := newFakeBookmarkRepo(f.vacancies)
	prefs := newFakePreferenceRepo()
	f.svc = NewJobService(f.vacancies, bookmarks, prefs, f.orgs, f.profiles)

	f.orgUserID, f.otherOrgUser, f.seekerUserID = 1, 2, 3
	require.NoError(t, f.orgs.Upsert(ctx, &user.Organization{UserID: f.orgUserID, Name: "Acme"}))
	require.NoError(t, f.orgs.Upsert(ctx, &user.Organization{UserID: f.otherOrgUser, Name: "Globex"}))
	require.NoError(t, f.profiles.Upsert(ctx, &user.Profile{UserID: f.seekerUserID, FullName: "Alice"}))
	return f
}

func TestJobService_CreateVacancy(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a position", func(t *testing.T) {
		f := newJobFixture(t)
		_, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{})
		assert.ErrorIs(t, err, portal_errors.ErrValidation)
	})

	t.Run("requires an organization", func(t *testing.T) {
		f := newJobFixture(t)
		_, err := f.svc.CreateVacancy(ctx, f.seekerUserID, VacancyInput{Position: "Backend Engineer"})
		assert.ErrorIs(t, err, portal_errors.ErrNotFound)
	})

	t.Run("infers the field from the title", func(t *testing.T) {
		f := newJobFixture(t)
		v, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{Position: "Senior Software Developer"})
		require.NoError(t, err)
		assert.Equal(t, "Programmer", v.Field.String)
		assert.Equal(t, job.StatusOpen, v.Status)
	})

	t.Run("explicit field wins", func(t *testing.T) {
		f := newJobFixture(t)
		v, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{Position: "Developer Advocate", Field: "Content Writer"})
		require.NoError(t, err)
		assert.Equal(t, "Content Writer", v.Field.String)
	})
}

func TestJobService_VacancyOwnership(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	v, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{Position: "Designer"})
	require.NoError(t, err)

	_, err = f.svc.UpdateVacancy(ctx, f.otherOrgUser, v.ID, VacancyInput{Position: "Hijacked"})
	assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)

	_, err = f.svc.ToggleVacancyStatus(ctx, f.otherOrgUser, v.ID)
	assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)

	updated, err := f.svc.UpdateVacancy(ctx, f.orgUserID, v.ID, VacancyInput{Location: "Remote"})
	require.NoError(t, err)
	assert.Equal(t, "Designer", updated.Position)
	assert.Equal(t, "Remote", updated.Location.String)
}

func TestJobService_ToggleVacancyStatus(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	v, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{Position: "Designer"})
	require.NoError(t, err)

	v, err = f.svc.ToggleVacancyStatus(ctx, f.orgUserID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusClosed, v.Status)

	v, err = f.svc.ToggleVacancyStatus(ctx, f.orgUserID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusOpen, v.Status)
}

func TestJobService_SearchVacancies(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	open, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{Position: "Backend Engineer"})
	require.NoError(t, err)
	closed, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{Position: "Backend Intern"})
	require.NoError(t, err)
	_, err = f.svc.ToggleVacancyStatus(ctx, f.orgUserID, closed.ID)
	require.NoError(t, err)

	results, total, err := f.svc.SearchVacancies(ctx, repository.VacancySearchFilter{Keyword: "backend"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, open.ID, results[0].ID)
}

func TestJobService_Bookmarks(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	v, err := f.svc.CreateVacancy(ctx, f.orgUserID, VacancyInput{Position: "Designer"})
	require.NoError(t, err)

	t.Run("toggling flips the state", func(t *testing.T) {
		on, err := f.svc.ToggleBookmark(ctx, f.seekerUserID, v.ID)
		require.NoError(t, err)
		assert.True(t, on)

		jobs, err := f.svc.ListBookmarkedJobs(ctx, f.seekerUserID)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, v.ID, jobs[0].ID)

		on, err = f.svc.ToggleBookmark(ctx, f.seekerUserID, v.ID)
		require.NoError(t, err)
		assert.False(t, on)

		jobs, err = f.svc.ListBookmarkedJobs(ctx, f.seekerUserID)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("unknown job rejected", func(t *testing.T) {
		_, err := f.svc.ToggleBookmark(ctx, f.seekerUserID, 404)
		assert.ErrorIs(t, err, portal_errors.ErrNotFound)
	})
}

func TestJobService_Preferences(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)

	err := f.svc.SetPreferences(ctx, f.seekerUserID, nil)
	assert.ErrorIs(t, err, portal_errors.ErrValidation)

	require.NoError(t, f.svc.SetPreferences(ctx, f.seekerUserID, []int64{1, 2}))
	prefs, err := f.svc.ListPreferences(ctx, f.seekerUserID)
	require.NoError(t, err)
	assert.Len(t, prefs, 2)

	require.NoError(t, f.svc.SetPreferences(ctx, f.seekerUserID, []int64{3}))
	prefs, err = f.svc.ListPreferences(ctx, f.seekerUserID)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.EqualValues(t, 3, prefs[0].CategoryID)
}
