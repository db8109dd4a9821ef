package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Jigden18/portal-backend/config"
	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/events"
	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// CallService issues RTC tokens for ad-hoc conversation calls and
// scheduled interview rooms, and records call lifecycle messages in the
// conversation stream.
type CallService struct {
	convRepo    repository.ConversationRepository
	messageRepo repository.MessageRepository
	appRepo     repository.ApplicationRepository
	orgRepo     repository.OrganizationRepository
	profileRepo repository.ProfileRepository
	notifier    *Notifier
	mediaSecret []byte
	tokenTTL    time.Duration
}

func NewCallService(
	convRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	appRepo repository.ApplicationRepository,
	orgRepo repository.OrganizationRepository,
	profileRepo repository.ProfileRepository,
	notifier *Notifier,
	cfg *config.Config,
) *CallService {
	return &CallService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		appRepo:     appRepo,
		orgRepo:     orgRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		mediaSecret: []byte(cfg.MediaSecret),
		tokenTTL:    time.Duration(cfg.RTCTokenExpirySec) * time.Second,
	}
}

type CallSession struct {
	ChannelName string `json:"channel_name"`
	Token       string `json:"token"`
	UID         int64  `json:"uid"`
	ReceiverID  int64  `json:"receiver_id,omitempty"`
	ExpiresIn   int64  `json:"expires_in"`
}

type InterviewSession struct {
	JobTitle      string     `json:"job_title"`
	InterviewDate *time.Time `json:"interview_date"`
	InterviewTime string     `json:"interview_time"`
	ChannelName   string     `json:"channel_name"`
	Token         string     `json:"token"`
	UID           int64      `json:"uid"`
	ExpiresIn     int64      `json:"expires_in"`
}

// IncomingCallPayload is broadcast on the callee's user channel.
type IncomingCallPayload struct {
	FromUserID  int64  `json:"from_user_id"`
	ToUserID    int64  `json:"to_user_id"`
	ChannelName string `json:"channel_name"`
	Token       string `json:"token"`
	UID         int64  `json:"uid"`
}

type rtcClaims struct {
	Channel string `json:"chan"`
	UID     int64  `json:"uid"`
	jwt.RegisteredClaims
}

// StartCall opens a call on a conversation: issues the caller's RTC
// token, records a video_call_start message and rings the counter-party
// on their private user channel.
func (s *CallService) StartCall(ctx context.Context, userID, conversationID int64) (CallSession, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return CallSession{}, err
	}
	if !conv.HasParticipant(userID) {
		return CallSession{}, portal_errors.ErrUnauthorized
	}
	receiverID := conv.OtherParticipant(userID)

	channel := fmt.Sprintf("call_conv_%d", conv.ID)
	token, err := s.buildRTCToken(channel, userID)
	if err != nil {
		return CallSession{}, err
	}

	if err := s.recordCallMessage(ctx, conv.ID, userID, chat.KindVideoCallStart, "Video call started"); err != nil {
		return CallSession{}, err
	}

	s.notifier.Notify(events.UserChannel(receiverID), events.EventIncomingCall, userID, IncomingCallPayload{
		FromUserID:  userID,
		ToUserID:    receiverID,
		ChannelName: channel,
		Token:       token,
		UID:         userID,
	})

	return CallSession{
		ChannelName: channel,
		Token:       token,
		UID:         userID,
		ReceiverID:  receiverID,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

// EndCall records a video_call_end message in the conversation.
func (s *CallService) EndCall(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return portal_errors.ErrUnauthorized
	}
	return s.recordCallMessage(ctx, conv.ID, userID, chat.KindVideoCallEnd, "Video call ended")
}

// GetInterview issues the interview-room token for an application. Only
// the hiring organization's user and the applicant may join, the
// application must be scheduled, and the interview day must have
// arrived.
func (s *CallService) GetInterview(ctx context.Context, userID, applicationID int64) (InterviewSession, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return InterviewSession{}, err
	}
	if app.Job == nil {
		return InterviewSession{}, portal_errors.ErrNotFound
	}

	org, err := s.orgRepo.GetByID(ctx, app.Job.OrganizationID)
	if err != nil {
		return InterviewSession{}, err
	}
	seeker, err := s.profileRepo.GetByID(ctx, app.JobseekerID)
	if err != nil {
		return InterviewSession{}, err
	}
	if userID != org.UserID && userID != seeker.UserID {
		return InterviewSession{}, portal_errors.ErrUnauthorized
	}

	if app.Status != job.ApplicationInterview || !app.InterviewDate.Valid {
		return InterviewSession{}, portal_errors.ErrNotFound
	}
	today := time.Now().Truncate(24 * time.Hour)
	if today.Before(app.InterviewDate.Time.Truncate(24 * time.Hour)) {
		return InterviewSession{}, portal_errors.ErrInvalidState
	}

	channel := fmt.Sprintf("interview_%d", app.ID)
	token, err := s.buildRTCToken(channel, userID)
	if err != nil {
		return InterviewSession{}, err
	}

	return InterviewSession{
		JobTitle:      app.Job.Position,
		InterviewDate: nullTimePtr(app.InterviewDate),
		InterviewTime: nullStr(app.InterviewTime),
		ChannelName:   channel,
		Token:         token,
		UID:           userID,
		ExpiresIn:     int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *CallService) recordCallMessage(ctx context.Context, conversationID, senderID int64, kind chat.MessageKind, body string) error {
	msg := chat.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           sql.NullString{String: body, Valid: true},
		Kind:           kind,
	}
	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return err
	}
	return s.convRepo.Touch(ctx, conversationID)
}

func (s *CallService) buildRTCToken(channel string, uid int64) (string, error) {
	now := time.Now()
	claims := rtcClaims{
		Channel: channel,
		UID:     uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", uid),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.mediaSecret)
}
