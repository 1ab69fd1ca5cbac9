package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedding/guesthub/internal/model"
	"wedding/guesthub/internal/repository"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

type MatchType string

const (
	MatchTypeExactEmail MatchType = "exact_email"
	MatchTypeExactPhone MatchType = "exact_phone"
	MatchTypeFuzzyName  MatchType = "fuzzy_name"
	MatchTypeManual     MatchType = "manual"
)

// MatchResult is the outcome of one matching attempt. Only Matched is set
// when nothing matched.
type MatchResult struct {
	Matched         bool             `json:"matched"`
	GuestID         uuid.UUID        `json:"guest_id,omitzero"`
	GuestName       string           `json:"guest_name,omitempty"`
	Confidence      Confidence       `json:"confidence,omitempty"`
	MatchType       MatchType        `json:"match_type,omitempty"`
	RSVPStatus      model.RSVPStatus `json:"rsvp_status,omitempty"`
	RSVPRespondedAt *time.Time       `json:"rsvp_responded_at,omitempty"`
}

var noMatch = MatchResult{Matched: false}

func matchedResult(g *model.Guest, matchType MatchType, confidence Confidence) MatchResult {
	return MatchResult{
		Matched:         true,
		GuestID:         g.ID,
		GuestName:       g.Name,
		Confidence:      confidence,
		MatchType:       matchType,
		RSVPStatus:      g.RSVPStatus,
		RSVPRespondedAt: g.RSVPRespondedAt,
	}
}

// GuestInput is one row of a guest-list import.
type GuestInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

type GuestService interface {
	// MatchGuestOnSignup runs the email, phone, name cascade against unclaimed
	// guests. Lookup failures are logged and reported as no match.
	MatchGuestOnSignup(ctx context.Context, email, firstName, lastName, mobile string) MatchResult
	// ClaimGuestOnSignup matches and links in one step. An account that is
	// already linked gets its existing guest back.
	ClaimGuestOnSignup(ctx context.Context, identity model.AccountIdentity) MatchResult
	LinkUserToGuest(ctx context.Context, accountID string, guestID uuid.UUID) bool
	AdminLinkUserToGuest(ctx context.Context, userID string, guestID uuid.UUID, createdBy string) bool

	ListUnmatchedGuests(ctx context.Context) ([]model.Guest, error)
	ListUnlinkedUsers(ctx context.Context) ([]model.AccountIdentity, error)
	ImportGuests(ctx context.Context, inputs []GuestInput) ([]model.Guest, error)
	GetLinkedGuest(ctx context.Context, accountID string) (*model.Guest, error)
	SubmitRSVP(ctx context.Context, accountID string, status model.RSVPStatus) (*model.Guest, error)
	ListLinkHistory(ctx context.Context, guestID uuid.UUID) ([]model.GuestLink, error)
}

type guestService struct {
	guestRepo     repository.GuestRepository
	profileRepo   repository.ProfileRepository
	linkRepo      repository.LinkRepository
	accountLister repository.AccountLister
	logger        *zap.Logger
	now           func() time.Time
}

// NewGuestService wires the matcher. accountLister is the privileged account
// source and may be nil; the profiles table is used in its place.
func NewGuestService(
	guestRepo repository.GuestRepository,
	profileRepo repository.ProfileRepository,
	linkRepo repository.LinkRepository,
	accountLister repository.AccountLister,
	logger *zap.Logger,
) GuestService {
	return &guestService{
		guestRepo:     guestRepo,
		profileRepo:   profileRepo,
		linkRepo:      linkRepo,
		accountLister: accountLister,
		logger:        logger.Named("guests"),
		now:           time.Now,
	}
}

func (s *guestService) MatchGuestOnSignup(ctx context.Context, email, firstName, lastName, mobile string) MatchResult {
	log := s.logger.With(zap.String("email", email))

	// 1. Exact email, only when unambiguous
	if email != "" {
		guests, err := s.guestRepo.ListUnclaimedByEmail(ctx, email)
		if err != nil {
			log.Warn("email lookup failed, treating as no match", zap.Error(err))
			return noMatch
		}
		if len(guests) == 1 {
			return matchedResult(&guests[0], MatchTypeExactEmail, ConfidenceHigh)
		}
	}

	fullName := strings.TrimSpace(firstName + " " + lastName)
	if mobile == "" && fullName == "" {
		return noMatch
	}

	unclaimed, err := s.guestRepo.ListUnclaimed(ctx)
	if err != nil {
		log.Warn("guest scan failed, treating as no match", zap.Error(err))
		return noMatch
	}

	// 2. Phone suffix
	if mobile != "" {
		if g := findByPhone(mobile, unclaimed); g != nil {
			return matchedResult(g, MatchTypeExactPhone, ConfidenceHigh)
		}
	}

	// 3. Fuzzy name
	if g := findByName(fullName, unclaimed); g != nil {
		return matchedResult(g, MatchTypeFuzzyName, ConfidenceMedium)
	}

	return noMatch
}

func (s *guestService) ClaimGuestOnSignup(ctx context.Context, identity model.AccountIdentity) MatchResult {
	log := s.logger.With(zap.String("account_id", identity.AccountID))

	if existing, ok := s.linkedResult(ctx, identity.AccountID); ok {
		return existing
	}

	result := s.MatchGuestOnSignup(ctx, identity.Email, identity.FirstName, identity.LastName, identity.Mobile)
	if !result.Matched {
		return noMatch
	}

	audit := &model.GuestLink{
		LinkType:   model.LinkType(result.MatchType),
		Confidence: string(result.Confidence),
		CreatedBy:  model.CreatedBySystem,
	}
	if err := s.link(ctx, identity.AccountID, result.GuestID, audit); err != nil {
		log.Warn("claim after match failed",
			zap.Stringer("guest_id", result.GuestID), zap.Error(err))
		return noMatch
	}

	// The claim reset the RSVP to pending.
	result.RSVPStatus = model.RSVPStatusPending
	log.Info("guest claimed on signup",
		zap.Stringer("guest_id", result.GuestID),
		zap.String("match_type", string(result.MatchType)))
	return result
}

// linkedResult reports the guest an account already holds, labelled with the
// way it was linked.
func (s *guestService) linkedResult(ctx context.Context, accountID string) (MatchResult, bool) {
	guest, err := s.guestRepo.GetByLinkedAccount(ctx, accountID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("linked guest lookup failed", zap.String("account_id", accountID), zap.Error(err))
		}
		return MatchResult{}, false
	}

	matchType, confidence := MatchTypeManual, ConfidenceHigh
	history, err := s.linkRepo.ListHistory(ctx, guest.ID)
	if err == nil {
		for _, h := range history {
			if h.AccountID != accountID {
				continue
			}
			if h.LinkType != model.LinkTypeManualAdmin {
				matchType = MatchType(h.LinkType)
				confidence = Confidence(h.Confidence)
			}
			break
		}
	}
	return matchedResult(guest, matchType, confidence), true
}

func (s *guestService) LinkUserToGuest(ctx context.Context, accountID string, guestID uuid.UUID) bool {
	if err := s.link(ctx, accountID, guestID, nil); err != nil {
		s.logger.Error("link user to guest failed",
			zap.String("account_id", accountID), zap.Stringer("guest_id", guestID), zap.Error(err))
		return false
	}
	return true
}

func (s *guestService) AdminLinkUserToGuest(ctx context.Context, userID string, guestID uuid.UUID, createdBy string) bool {
	audit := &model.GuestLink{
		LinkType:   model.LinkTypeManualAdmin,
		Confidence: string(ConfidenceHigh),
		CreatedBy:  createdBy,
	}
	if err := s.link(ctx, userID, guestID, audit); err != nil {
		s.logger.Error("admin link failed",
			zap.String("account_id", userID), zap.Stringer("guest_id", guestID),
			zap.String("created_by", createdBy), zap.Error(err))
		return false
	}
	s.logger.Info("admin linked guest",
		zap.String("account_id", userID), zap.Stringer("guest_id", guestID), zap.String("created_by", createdBy))
	return true
}

func (s *guestService) link(ctx context.Context, accountID string, guestID uuid.UUID, audit *model.GuestLink) error {
	if strings.TrimSpace(accountID) == "" || guestID == uuid.Nil {
		return ErrInvalidIdentity
	}

	err := s.linkRepo.Link(ctx, guestID, accountID, audit)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrGuestNotFound
	case errors.Is(err, repository.ErrGuestClaimed):
		return ErrGuestAlreadyClaimed
	case errors.Is(err, repository.ErrAccountAlreadyLinked):
		return ErrAccountAlreadyLinked
	default:
		return fmt.Errorf("link guest: %w", err)
	}
}

func (s *guestService) ListUnmatchedGuests(ctx context.Context) ([]model.Guest, error) {
	guests, err := s.guestRepo.ListUnclaimed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unclaimed guests: %w", err)
	}
	return guests, nil
}

func (s *guestService) ListUnlinkedUsers(ctx context.Context) ([]model.AccountIdentity, error) {
	accounts, err := s.listAccounts(ctx)
	if err != nil {
		return nil, err
	}

	linkedIDs, err := s.guestRepo.ListLinkedAccountIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list linked accounts: %w", err)
	}
	linked := make(map[string]struct{}, len(linkedIDs))
	for _, id := range linkedIDs {
		linked[id] = struct{}{}
	}

	unlinked := make([]model.AccountIdentity, 0, len(accounts))
	for _, a := range accounts {
		if _, ok := linked[a.AccountID]; !ok {
			unlinked = append(unlinked, a)
		}
	}
	return unlinked, nil
}

// listAccounts prefers the privileged provider listing and falls back to the
// profiles table only when that tier reports itself unavailable.
func (s *guestService) listAccounts(ctx context.Context) ([]model.AccountIdentity, error) {
	if s.accountLister != nil {
		accounts, err := s.accountLister.ListAccounts(ctx)
		if err == nil {
			return accounts, nil
		}
		if !errors.Is(err, repository.ErrListingUnavailable) {
			return nil, fmt.Errorf("list provider accounts: %w", err)
		}
		s.logger.Info("privileged account listing unavailable, scanning profiles", zap.Error(err))
	}

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	accounts := make([]model.AccountIdentity, 0, len(profiles))
	for i := range profiles {
		accounts = append(accounts, profiles[i].Identity())
	}
	return accounts, nil
}

func (s *guestService) ImportGuests(ctx context.Context, inputs []GuestInput) ([]model.Guest, error) {
	base := s.now()
	guests := make([]model.Guest, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: row %d has no name", ErrInvalidGuest, i+1)
		}
		guests = append(guests, model.Guest{
			Name:       name,
			Email:      strings.TrimSpace(in.Email),
			Mobile:     strings.TrimSpace(in.Mobile),
			RSVPStatus: model.RSVPStatusPending,
			// Import order becomes fetch order.
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		})
	}

	if err := s.guestRepo.CreateBatch(ctx, guests); err != nil {
		return nil, fmt.Errorf("import guests: %w", err)
	}
	s.logger.Info("guest list imported", zap.Int("count", len(guests)))
	return guests, nil
}

func (s *guestService) GetLinkedGuest(ctx context.Context, accountID string) (*model.Guest, error) {
	guest, err := s.guestRepo.GetByLinkedAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotLinked
		}
		return nil, fmt.Errorf("find linked guest: %w", err)
	}
	return guest, nil
}

func (s *guestService) SubmitRSVP(ctx context.Context, accountID string, status model.RSVPStatus) (*model.Guest, error) {
	switch status {
	case model.RSVPStatusAttending, model.RSVPStatusDeclined, model.RSVPStatusMaybe:
	default:
		return nil, ErrInvalidRSVPStatus
	}

	guest, err := s.GetLinkedGuest(ctx, accountID)
	if err != nil {
		return nil, err
	}

	respondedAt := s.now()
	if err := s.guestRepo.UpdateRSVP(ctx, guest.ID, status, respondedAt); err != nil {
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	guest.RSVPStatus = status
	guest.RSVPRespondedAt = &respondedAt
	return guest, nil
}

func (s *guestService) ListLinkHistory(ctx context.Context, guestID uuid.UUID) ([]model.GuestLink, error) {
	if _, err := s.guestRepo.GetByID(ctx, guestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("find guest: %w", err)
	}
	links, err := s.linkRepo.ListHistory(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("list link history: %w", err)
	}
	return links, nil
}

var _ GuestService = (*guestService)(nil)
