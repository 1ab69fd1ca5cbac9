package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedding/guesthub/internal/model"
	"wedding/guesthub/internal/repository"
	"wedding/guesthub/internal/service"
	"wedding/guesthub/internal/testutil"
)

type fixture struct {
	db       *gorm.DB
	guests   repository.GuestRepository
	profiles repository.ProfileRepository
	links    repository.LinkRepository
	svc      service.GuestService
}

func newFixture(t *testing.T, lister repository.AccountLister) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		guests:   repository.NewPGGuestRepository(db),
		profiles: repository.NewPGProfileRepository(db),
		links:    repository.NewPGLinkRepository(db),
	}
	f.svc = service.NewGuestService(f.guests, f.profiles, f.links, lister, zap.NewNop())
	return f
}

func (f *fixture) importGuests(t *testing.T, inputs ...service.GuestInput) []model.Guest {
	t.Helper()
	guests, err := f.svc.ImportGuests(context.Background(), inputs)
	require.NoError(t, err)
	return guests
}

var johnSmith = service.GuestInput{Name: "John Smith", Email: "john.smith@example.com", Mobile: "0412345678"}

func TestMatchGuestOnSignup_ExactEmailThenClaimed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.importGuests(t, johnSmith)

	first := f.svc.ClaimGuestOnSignup(ctx, model.AccountIdentity{
		AccountID: "acct-1", Email: "john.smith@example.com", FirstName: "John", LastName: "Smith",
	})
	assert.True(t, first.Matched)
	assert.Equal(t, service.MatchTypeExactEmail, first.MatchType)
	assert.Equal(t, service.ConfidenceHigh, first.Confidence)
	assert.Equal(t, "John Smith", first.GuestName)

	second := f.svc.ClaimGuestOnSignup(ctx, model.AccountIdentity{
		AccountID: "acct-2", Email: "john.smith@example.com", FirstName: "John", LastName: "Smith",
	})
	assert.Equal(t, service.MatchResult{Matched: false}, second)
}

func TestMatchGuestOnSignup_ExactPhone(t *testing.T) {
	f := newFixture(t, nil)
	f.importGuests(t, johnSmith)

	got := f.svc.MatchGuestOnSignup(context.Background(), "someone@else.com", "Jack", "Jones", "+61412345678")
	assert.True(t, got.Matched)
	assert.Equal(t, service.MatchTypeExactPhone, got.MatchType)
	assert.Equal(t, service.ConfidenceHigh, got.Confidence)
}

func TestMatchGuestOnSignup_FuzzyNameBelowThreshold(t *testing.T) {
	f := newFixture(t, nil)
	f.importGuests(t, johnSmith)

	got := f.svc.MatchGuestOnSignup(context.Background(), "jon@example.com", "Jon", "Smyth", "")
	assert.Equal(t, service.MatchResult{Matched: false}, got)
}

func TestMatchGuestOnSignup_FuzzyName(t *testing.T) {
	f := newFixture(t, nil)
	f.importGuests(t, service.GuestInput{Name: "Timothy Smith"})

	got := f.svc.MatchGuestOnSignup(context.Background(), "", "Tim", "Smith", "")
	assert.True(t, got.Matched)
	assert.Equal(t, service.MatchTypeFuzzyName, got.MatchType)
	assert.Equal(t, service.ConfidenceMedium, got.Confidence)
	assert.Equal(t, model.RSVPStatusPending, got.RSVPStatus)
}

func TestMatchGuestOnSignup_EmailBeatsBetterNameMatch(t *testing.T) {
	f := newFixture(t, nil)
	guests := f.importGuests(t,
		service.GuestInput{Name: "Sarah Connor"},
		service.GuestInput{Name: "S. C.", Email: "sarah@example.com"},
	)

	got := f.svc.MatchGuestOnSignup(context.Background(), "sarah@example.com", "Sarah", "Connor", "")
	assert.True(t, got.Matched)
	assert.Equal(t, service.MatchTypeExactEmail, got.MatchType)
	assert.Equal(t, guests[1].ID, got.GuestID)
}

func TestMatchGuestOnSignup_AmbiguousEmailFallsThrough(t *testing.T) {
	f := newFixture(t, nil)
	guests := f.importGuests(t,
		service.GuestInput{Name: "Family Household", Email: "family@example.com"},
		service.GuestInput{Name: "Maria Garcia", Email: "family@example.com"},
	)

	got := f.svc.MatchGuestOnSignup(context.Background(), "family@example.com", "Maria", "Garcia", "")
	assert.True(t, got.Matched)
	assert.Equal(t, service.MatchTypeFuzzyName, got.MatchType)
	assert.Equal(t, guests[1].ID, got.GuestID)
}

func TestMatchGuestOnSignup_NeverReturnsClaimedGuests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	guests := f.importGuests(t, johnSmith)
	require.True(t, f.svc.LinkUserToGuest(ctx, "acct-owner", guests[0].ID))

	got := f.svc.MatchGuestOnSignup(ctx, johnSmith.Email, "John", "Smith", johnSmith.Mobile)
	assert.False(t, got.Matched)
}

func TestLinkUserToGuest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	guests := f.importGuests(t, johnSmith)
	_, err := f.svc.SubmitRSVP(ctx, "nobody", model.RSVPStatusAttending)
	require.ErrorIs(t, err, service.ErrGuestNotLinked)

	assert.True(t, f.svc.LinkUserToGuest(ctx, "acct-9", guests[0].ID))

	got, err := f.guests.GetByID(ctx, guests[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.LinkedAccountID)
	assert.Equal(t, "acct-9", *got.LinkedAccountID)
	assert.Equal(t, model.RSVPStatusPending, got.RSVPStatus)

	profile, err := f.profiles.GetByID(ctx, "acct-9")
	require.NoError(t, err)
	require.NotNil(t, profile.GuestID)
	assert.Equal(t, guests[0].ID, *profile.GuestID)

	assert.False(t, f.svc.LinkUserToGuest(ctx, "acct-10", guests[0].ID), "a guest is claimed once")
	assert.False(t, f.svc.LinkUserToGuest(ctx, "acct-10", uuid.New()), "unknown guest")
}

func TestAdminLinkUserToGuest_WritesHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	guests := f.importGuests(t, johnSmith)

	assert.True(t, f.svc.AdminLinkUserToGuest(ctx, "acct-5", guests[0].ID, "admin-1"))

	history, err := f.svc.ListLinkHistory(ctx, guests[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.LinkTypeManualAdmin, history[0].LinkType)
	assert.Equal(t, "acct-5", history[0].AccountID)
	assert.Equal(t, "admin-1", history[0].CreatedBy)

	assert.False(t, f.svc.AdminLinkUserToGuest(ctx, "acct-6", guests[0].ID, "admin-1"))

	_, err = f.svc.ListLinkHistory(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrGuestNotFound)
}

func TestClaimGuestOnSignup_AlreadyLinkedAccountGetsItsGuest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	guests := f.importGuests(t, johnSmith)
	require.True(t, f.svc.AdminLinkUserToGuest(ctx, "acct-1", guests[0].ID, "admin-1"))

	got := f.svc.ClaimGuestOnSignup(ctx, model.AccountIdentity{AccountID: "acct-1", Email: "other@example.com"})
	assert.True(t, got.Matched)
	assert.Equal(t, service.MatchTypeManual, got.MatchType)
	assert.Equal(t, guests[0].ID, got.GuestID)
}

func TestClaimGuestOnSignup_RecordsAutomaticLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	guests := f.importGuests(t, johnSmith)

	got := f.svc.ClaimGuestOnSignup(ctx, model.AccountIdentity{AccountID: "acct-1", Mobile: "+61 412 345 678"})
	require.True(t, got.Matched)

	history, err := f.svc.ListLinkHistory(ctx, guests[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.LinkTypeExactPhone, history[0].LinkType)
	assert.Equal(t, model.CreatedBySystem, history[0].CreatedBy)

	again := f.svc.ClaimGuestOnSignup(ctx, model.AccountIdentity{AccountID: "acct-1", Mobile: "+61 412 345 678"})
	assert.Equal(t, service.MatchTypeExactPhone, again.MatchType)
	assert.Equal(t, service.ConfidenceHigh, again.Confidence)
}

func TestSubmitRSVP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	guests := f.importGuests(t, johnSmith)
	require.True(t, f.svc.LinkUserToGuest(ctx, "acct-1", guests[0].ID))

	_, err := f.svc.SubmitRSVP(ctx, "acct-1", model.RSVPStatusPending)
	assert.ErrorIs(t, err, service.ErrInvalidRSVPStatus)

	updated, err := f.svc.SubmitRSVP(ctx, "acct-1", model.RSVPStatusAttending)
	require.NoError(t, err)
	assert.Equal(t, model.RSVPStatusAttending, updated.RSVPStatus)
	assert.NotNil(t, updated.RSVPRespondedAt)

	linked, err := f.svc.GetLinkedGuest(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, model.RSVPStatusAttending, linked.RSVPStatus)
}

func TestImportGuestsRejectsNamelessRows(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.ImportGuests(context.Background(), []service.GuestInput{{Name: "Ok"}, {Email: "x@example.com"}})
	assert.ErrorIs(t, err, service.ErrInvalidGuest)

	unmatched, err := f.svc.ListUnmatchedGuests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unmatched)
}

type stubLister struct {
	accounts []model.AccountIdentity
	err      error
}

func (s stubLister) ListAccounts(context.Context) ([]model.AccountIdentity, error) {
	return s.accounts, s.err
}

func TestListUnlinkedUsers_PrivilegedListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, stubLister{accounts: []model.AccountIdentity{
		{AccountID: "acct-1", Email: "a@example.com"},
		{AccountID: "acct-2", Email: "b@example.com"},
	}})
	guests := f.importGuests(t, johnSmith)
	require.True(t, f.svc.LinkUserToGuest(ctx, "acct-1", guests[0].ID))

	users, err := f.svc.ListUnlinkedUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "acct-2", users[0].AccountID)
}

func TestListUnlinkedUsers_FallsBackToProfiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, stubLister{err: repository.ErrListingUnavailable})
	require.NoError(t, f.profiles.Upsert(ctx, &model.Profile{ID: "acct-3", FirstName: "Ann"}))
	require.NoError(t, f.profiles.Upsert(ctx, &model.Profile{ID: "acct-4", FirstName: "Ben"}))
	guests := f.importGuests(t, johnSmith)
	require.True(t, f.svc.LinkUserToGuest(ctx, "acct-4", guests[0].ID))

	users, err := f.svc.ListUnlinkedUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "acct-3", users[0].AccountID)
	assert.Equal(t, "Ann", users[0].FirstName)
}

func TestListUnlinkedUsers_ProviderErrorPropagates(t *testing.T) {
	f := newFixture(t, stubLister{err: errors.New("connection reset")})
	_, err := f.svc.ListUnlinkedUsers(context.Background())
	assert.Error(t, err)
}

type mockGuestRepository struct {
	mock.Mock
}

func (m *mockGuestRepository) CreateBatch(ctx context.Context, guests []model.Guest) error {
	return m.Called(ctx, guests).Error(0)
}

func (m *mockGuestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Guest, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*model.Guest)
	return g, args.Error(1)
}

func (m *mockGuestRepository) GetByLinkedAccount(ctx context.Context, accountID string) (*model.Guest, error) {
	args := m.Called(ctx, accountID)
	g, _ := args.Get(0).(*model.Guest)
	return g, args.Error(1)
}

func (m *mockGuestRepository) ListUnclaimed(ctx context.Context) ([]model.Guest, error) {
	args := m.Called(ctx)
	g, _ := args.Get(0).([]model.Guest)
	return g, args.Error(1)
}

func (m *mockGuestRepository) ListUnclaimedByEmail(ctx context.Context, email string) ([]model.Guest, error) {
	args := m.Called(ctx, email)
	g, _ := args.Get(0).([]model.Guest)
	return g, args.Error(1)
}

func (m *mockGuestRepository) ListLinkedAccountIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockGuestRepository) UpdateRSVP(ctx context.Context, id uuid.UUID, status model.RSVPStatus, respondedAt time.Time) error {
	return m.Called(ctx, id, status, respondedAt).Error(0)
}

func TestMatchGuestOnSignup_LookupFailureIsNoMatch(t *testing.T) {
	ctx := context.Background()
	guests := new(mockGuestRepository)
	guests.On("ListUnclaimedByEmail", mock.Anything, "john.smith@example.com").
		Return(nil, errors.New("connection refused"))
	guests.On("ListUnclaimed", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := service.NewGuestService(guests, nil, nil, nil, zap.NewNop())

	got := svc.MatchGuestOnSignup(ctx, "john.smith@example.com", "John", "Smith", "0412345678")
	assert.Equal(t, service.MatchResult{Matched: false}, got)

	got = svc.MatchGuestOnSignup(ctx, "", "John", "Smith", "0412345678")
	assert.Equal(t, service.MatchResult{Matched: false}, got)
	guests.AssertExpectations(t)
}
