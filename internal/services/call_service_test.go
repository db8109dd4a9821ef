package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/Jigden18/portal-backend/config"
	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/domain/user"
	"github.com/Jigden18/portal-backend/internal/events"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callFixture struct {
	convs    *fakeConversationRepo
	messages *fakeMessageRepo
	apps     *fakeApplicationRepo
	orgs     *fakeOrgRepo
	profiles *fakeProfileRepo
	pub      *fakePublisher
	svc      *CallService
}

func newCallFixture(t *testing.T) *callFixture {
	t.Helper()
	convs := newFakeConversationRepo()
	messages := newFakeMessageRepo(convs)
	apps := newFakeApplicationRepo()
	orgs := newFakeOrgRepo()
	profiles := newFakeProfileRepo()
	pub := &fakePublisher{}
	cfg := &config.Config{MediaSecret: "media-secret", RTCTokenExpirySec: 3600}
	svc := NewCallService(convs, messages, apps, orgs, profiles, NewNotifier(pub, testLogger()), cfg)
	return &callFixture{convs: convs, messages: messages, apps: apps, orgs: orgs, profiles: profiles, pub: pub, svc: svc}
}

func TestCallService_StartCall(t *testing.T) {
	ctx := context.Background()

	t.Run("non participant rejected", func(t *testing.T) {
		f := newCallFixture(t)
		conv, err := f.convs.FindOrCreate(ctx, 1, 2)
		require.NoError(t, err)

		_, err = f.svc.StartCall(ctx, 3, conv.ID)
		assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)
	})

	t.Run("rings the counter-party and records the call", func(t *testing.T) {
		f := newCallFixture(t)
		conv, err := f.convs.FindOrCreate(ctx, 1, 2)
		require.NoError(t, err)

		session, err := f.svc.StartCall(ctx, 1, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("call_conv_%d", conv.ID), session.ChannelName)
		assert.NotEmpty(t, session.Token)
		assert.EqualValues(t, 1, session.UID)
		assert.EqualValues(t, 2, session.ReceiverID)

		msgs, err := f.messages.ListVisible(ctx, conv.ID, chat.SideOne)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, chat.KindVideoCallStart, msgs[0].Kind)

		evs := waitForEvents(t, f.pub, 1)
		assert.Equal(t, events.UserChannel(2), evs[0].Channel)
		assert.Equal(t, events.EventIncomingCall, evs[0].Event.Type)
		payload, ok := evs[0].Event.Payload.(IncomingCallPayload)
		require.True(t, ok)
		assert.EqualValues(t, 1, payload.FromUserID)
		assert.EqualValues(t, 2, payload.ToUserID)
		assert.Equal(t, session.ChannelName, payload.ChannelName)
	})
}

func TestCallService_EndCall(t *testing.T) {
	ctx := context.Background()
	f := newCallFixture(t)
	conv, err := f.convs.FindOrCreate(ctx, 1, 2)
	require.NoError(t, err)

	require.NoError(t, f.svc.EndCall(ctx, 2, conv.ID))

	msgs, err := f.messages.ListVisible(ctx, conv.ID, chat.SideOne)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.KindVideoCallEnd, msgs[0].Kind)
	assert.EqualValues(t, 2, msgs[0].SenderID)

	err = f.svc.EndCall(ctx, 3, conv.ID)
	assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)
}

func TestCallService_GetInterview(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, f *callFixture, status string, date sql.NullTime) job.Application {
		t.Helper()
		require.NoError(t, f.orgs.Upsert(ctx, &user.Organization{UserID: 10, Name: "Acme"}))
		org, err := f.orgs.GetByUserID(ctx, 10)
		require.NoError(t, err)
		require.NoError(t, f.profiles.Upsert(ctx, &user.Profile{UserID: 20, FullName: "Alice"}))
		prof, err := f.profiles.GetByUserID(ctx, 20)
		require.NoError(t, err)

		app := job.Application{
			JobID:         1,
			JobseekerID:   prof.ID,
			PDFPath:       "resumes/alice.pdf",
			Status:        status,
			InterviewDate: date,
			InterviewTime: sql.NullString{String: "10:00", Valid: true},
			Job:           &job.Vacancy{ID: 1, OrganizationID: org.ID, Position: "Backend Engineer"},
		}
		require.NoError(t, f.apps.Create(ctx, &app))
		return app
	}

	today := sql.NullTime{Time: time.Now(), Valid: true}

	t.Run("both participants may join on the day", func(t *testing.T) {
		f := newCallFixture(t)
		app := setup(t, f, job.ApplicationInterview, today)

		for _, uid := range []int64{10, 20} {
			session, err := f.svc.GetInterview(ctx, uid, app.ID)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("interview_%d", app.ID), session.ChannelName)
			assert.Equal(t, "Backend Engineer", session.JobTitle)
			assert.NotEmpty(t, session.Token)
		}
	})

	t.Run("outsider rejected", func(t *testing.T) {
		f := newCallFixture(t)
		app := setup(t, f, job.ApplicationInterview, today)

		_, err := f.svc.GetInterview(ctx, 99, app.ID)
		assert.ErrorIs(t, err, portal_errors.ErrUnauthorized)
	})

	t.Run("not scheduled", func(t *testing.T) {
		f := newCallFixture(t)
		app := setup(t, f, job.ApplicationUnderReview, today)

		_, err := f.svc.GetInterview(ctx, 10, app.ID)
		assert.ErrorIs(t, err, portal_errors.ErrNotFound)
	})

	t.Run("interview day not yet reached", func(t *testing.T) {
		f := newCallFixture(t)
		future := sql.NullTime{Time: time.Now().Add(72 * time.Hour), Valid: true}
		app := setup(t, f, job.ApplicationInterview, future)

		_, err := f.svc.GetInterview(ctx, 10, app.ID)
		assert.ErrorIs(t, err, portal_errors.ErrInvalidState)
	})

	t.Run("unknown application", func(t *testing.T) {
		f := newCallFixture(t)
		_, err := f.svc.GetInterview(ctx, 10, 404)
		assert.ErrorIs(t, err, portal_errors.ErrNotFound)
	})
}
