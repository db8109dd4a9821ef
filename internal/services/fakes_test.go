package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/Jigden18/portal-backend/internal/domain/chat"
	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/domain/user"
	"github.com/Jigden18/portal-backend/internal/repository"
	"github.com/Jigden18/portal-backend/pkg/events"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
	"github.com/Jigden18/portal-backend/pkg/logger"

	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the row-level semantics of the
// SQL implementations (canonical pair uniqueness, per-side flags, atomic
// tombstoning) so service behavior can be exercised without a database.

type fakeConversationRepo struct {
	mu     sync.Mutex
	nextID int64
	convs  map[int64]*chat.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{convs: map[int64]*chat.Conversation{}}
}

func (r *fakeConversationRepo) FindOrCreate(ctx context.Context, user1ID, user2ID int64) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.convs {
		if c.User1ID == user1ID && c.User2ID == user2ID {
			return *c, nil
		}
	}
	r.nextID++
	now := time.Now()
	c := &chat.Conversation{
		ID:        r.nextID,
		User1ID:   user1ID,
		User2ID:   user2ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.convs[c.ID] = c
	return *c, nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id int64) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return chat.Conversation{}, portal_errors.ErrNotFound
	}
	return *c, nil
}

func (r *fakeConversationRepo) ListForUser(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Conversation
	for _, c := range r.convs {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) Touch(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return portal_errors.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (r *fakeConversationRepo) SetArchived(ctx context.Context, id int64, side chat.Side, archived bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return portal_errors.ErrNotFound
	}
	if side == chat.SideOne {
		c.ArchivedByUser1 = archived
	} else {
		c.ArchivedByUser2 = archived
	}
	return nil
}

func (r *fakeConversationRepo) SetLastRead(ctx context.Context, id int64, side chat.Side, at sql.NullTime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return portal_errors.ErrNotFound
	}
	if side == chat.SideOne {
		c.User1LastReadAt = at
	} else {
		c.User2LastReadAt = at
	}
	return nil
}

type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID int64
	msgs   []*chat.Message
	convs  *fakeConversationRepo
}

func newFakeMessageRepo(convs *fakeConversationRepo) *fakeMessageRepo {
	return &fakeMessageRepo{convs: convs}
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	stored := *m
	r.msgs = append(r.msgs, &stored)
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id int64) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == id && !m.DeletedAt.Valid {
			return *m, nil
		}
	}
	return chat.Message{}, portal_errors.ErrNotFound
}

func (r *fakeMessageRepo) ListVisible(ctx context.Context, conversationID int64, side chat.Side) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.VisibleTo(side) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkReadBatch(ctx context.Context, conversationID int64, side chat.Side, viewerID int64, at time.Time) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var transitioned []chat.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.UnreadFor(side, viewerID) {
			m.ReadAt = sql.NullTime{Time: at, Valid: true}
			transitioned = append(transitioned, *m)
		}
	}
	return transitioned, nil
}

func (r *fakeMessageRepo) SetDeletedFor(ctx context.Context, messageID int64, side chat.Side) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == messageID {
			if side == chat.SideOne {
				m.DeletedByUser1 = true
			} else {
				m.DeletedByUser2 = true
			}
			return nil
		}
	}
	return portal_errors.ErrNotFound
}

func (r *fakeMessageRepo) SetDeletedForConversation(ctx context.Context, conversationID int64, side chat.Side) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			if side == chat.SideOne {
				m.DeletedByUser1 = true
			} else {
				m.DeletedByUser2 = true
			}
		}
	}
	return nil
}

func (r *fakeMessageRepo) Tombstone(ctx context.Context, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == messageID && !m.DeletedAt.Valid {
			if m.ReadAt.Valid {
				return portal_errors.ErrInvalidState
			}
			m.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
			return nil
		}
	}
	return portal_errors.ErrNotFound
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, conversationID int64, side chat.Side, viewerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.UnreadFor(side, viewerID) {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	convs, err := r.convs.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, c := range convs {
		n, err := r.CountUnread(ctx, c.ID, c.SideOf(userID), userID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (r *fakeMessageRepo) LatestVisible(ctx context.Context, conversationID int64, side chat.Side) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.msgs) - 1; i >= 0; i-- {
		m := r.msgs[i]
		if m.ConversationID == conversationID && m.VisibleTo(side) {
			return *m, nil
		}
	}
	return chat.Message{}, portal_errors.ErrNotFound
}

func (r *fakeMessageRepo) HasVisible(ctx context.Context, conversationID int64, side chat.Side) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.VisibleTo(side) {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]user.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return portal_errors.ErrAlreadyExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, portal_errors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, portal_errors.ErrNotFound
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	nextID   int64
	profiles map[int64]user.Profile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[int64]user.Profile{}}
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, p *user.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[p.UserID]; ok {
		p.ID = existing.ID
	} else {
		r.nextID++
		p.ID = r.nextID
	}
	r.profiles[p.UserID] = *p
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id int64) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return user.Profile{}, portal_errors.ErrNotFound
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID int64) (user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return user.Profile{}, portal_errors.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) SearchByName(ctx context.Context, words []string, limit int) ([]user.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.Profile
	for _, p := range r.profiles {
		if matchesAllWords(p.FullName, words) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeOrgRepo struct {
	mu     sync.Mutex
	nextID int64
	orgs   map[int64]user.Organization // keyed by user id
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: map[int64]user.Organization{}}
}

func (r *fakeOrgRepo) Upsert(ctx context.Context, o *user.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.orgs[o.UserID]; ok {
		o.ID = existing.ID
	} else {
		r.nextID++
		o.ID = r.nextID
	}
	r.orgs[o.UserID] = *o
	return nil
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id int64) (user.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orgs {
		if o.ID == id {
			return o, nil
		}
	}
	return user.Organization{}, portal_errors.ErrNotFound
}

func (r *fakeOrgRepo) GetByUserID(ctx context.Context, userID int64) (user.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orgs[userID]
	if !ok {
		return user.Organization{}, portal_errors.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrgRepo) SearchByName(ctx context.Context, words []string, limit int) ([]user.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.Organization
	for _, o := range r.orgs {
		if matchesAllWords(o.Name, words) {
			out = append(out, o)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func matchesAllWords(name string, words []string) bool {
	lower := strings.ToLower(name)
	for _, w := range words {
		if !strings.Contains(lower, strings.ToLower(w)) {
			return false
		}
	}
	return true
}

type fakeApplicationRepo struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]job.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[int64]job.Application{}}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, a *job.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == a.JobID && existing.JobseekerID == a.JobseekerID {
			return portal_errors.ErrAlreadyExists
		}
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	r.apps[a.ID] = *a
	return nil
}

func (r *fakeApplicationRepo) Update(ctx context.Context, a job.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[a.ID]; !ok {
		return portal_errors.ErrNotFound
	}
	r.apps[a.ID] = a
	return nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id int64) (job.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return job.Application{}, portal_errors.ErrNotFound
	}
	return a, nil
}

func (r *fakeApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]job.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Application
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByJobseeker(ctx context.Context, profileID int64) ([]job.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Application
	for _, a := range r.apps {
		if a.JobseekerID == profileID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListDueInterviews(ctx context.Context, day time.Time) ([]job.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := day.Date()
	var out []job.Application
	for _, a := range r.apps {
		if a.Status != job.ApplicationInterview || !a.InterviewDate.Valid {
			continue
		}
		iy, im, id := a.InterviewDate.Time.Date()
		if iy == y && im == m && id == d {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeVacancyRepo struct {
	mu        sync.Mutex
	nextID    int64
	vacancies map[int64]job.Vacancy
	cats      []job.Category
}

func newFakeVacancyRepo() *fakeVacancyRepo {
	return &fakeVacancyRepo{vacancies: map[int64]job.Vacancy{}}
}

func (r *fakeVacancyRepo) Create(ctx context.Context, v *job.Vacancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	v.ID = r.nextID
	v.CreatedAt = time.Now()
	r.vacancies[v.ID] = *v
	return nil
}

func (r *fakeVacancyRepo) Update(ctx context.Context, v job.Vacancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vacancies[v.ID]; !ok {
		return portal_errors.ErrNotFound
	}
	r.vacancies[v.ID] = v
	return nil
}

func (r *fakeVacancyRepo) GetByID(ctx context.Context, id int64) (job.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vacancies[id]
	if !ok {
		return job.Vacancy{}, portal_errors.ErrNotFound
	}
	return v, nil
}

func (r *fakeVacancyRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]job.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Vacancy
	for _, v := range r.vacancies {
		if v.OrganizationID == organizationID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVacancyRepo) Search(ctx context.Context, f repository.VacancySearchFilter) ([]job.Vacancy, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Vacancy
	for _, v := range r.vacancies {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Keyword != "" && !strings.Contains(strings.ToLower(v.Position), strings.ToLower(f.Keyword)) {
			continue
		}
		out = append(out, v)
	}
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *fakeVacancyRepo) ListCategories(ctx context.Context) ([]job.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]job.Category(nil), r.cats...), nil
}

type fakeBookmarkRepo struct {
	mu    sync.Mutex
	marks map[[2]int64]bool
	jobs  *fakeVacancyRepo
}

func newFakeBookmarkRepo(jobs *fakeVacancyRepo) *fakeBookmarkRepo {
	return &fakeBookmarkRepo{marks: map[[2]int64]bool{}, jobs: jobs}
}

func (r *fakeBookmarkRepo) Toggle(ctx context.Context, profileID, jobID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{profileID, jobID}
	r.marks[key] = !r.marks[key]
	return r.marks[key], nil
}

func (r *fakeBookmarkRepo) ListJobs(ctx context.Context, profileID int64) ([]job.Vacancy, error) {
	r.mu.Lock()
	marked := make([]int64, 0, len(r.marks))
	for key, on := range r.marks {
		if on && key[0] == profileID {
			marked = append(marked, key[1])
		}
	}
	r.mu.Unlock()
	var out []job.Vacancy
	for _, id := range marked {
		v, err := r.jobs.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type fakePreferenceRepo struct {
	mu    sync.Mutex
	prefs map[int64][]int64
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: map[int64][]int64{}}
}

func (r *fakePreferenceRepo) Replace(ctx context.Context, profileID int64, categoryIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[profileID] = append([]int64(nil), categoryIDs...)
	return nil
}

func (r *fakePreferenceRepo) ListByProfile(ctx context.Context, profileID int64) ([]job.Preference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Preference
	for _, catID := range r.prefs[profileID] {
		out = append(out, job.Preference{ProfileID: profileID, CategoryID: catID})
	}
	return out, nil
}

// fakeObjectStore keeps uploads in a map and returns deterministic URLs.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (s *fakeObjectStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return s.FileURL(key), nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeObjectStore) FileURL(key string) string {
	return "https://files.test/" + key
}

// fakePublisher records every published event so tests can assert on
// realtime traffic. Notify publishes from a goroutine, so assertions go
// through waitForEvents.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Channel string
	Event   events.Event
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Channel: channel, Event: ev})
	return nil
}

func (p *fakePublisher) snapshot() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func testLogger() *logger.Logger {
	return logger.New(logger.DevelopmentMode)
}
