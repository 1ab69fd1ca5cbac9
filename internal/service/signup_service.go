package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"wedding/guesthub/internal/model"
	"wedding/guesthub/internal/repository"
)

const signupKeyPrefix = "signup_match:"

type SignupService interface {
	// CompleteSignup records the account's profile and claims its guest entry.
	// Repeated calls for the same account return the cached outcome.
	CompleteSignup(ctx context.Context, identity model.AccountIdentity) (MatchResult, error)
	// Forget drops the cached outcome, e.g. after an administrator links the account.
	Forget(ctx context.Context, accountID string) error
}

type signupService struct {
	profileRepo  repository.ProfileRepository
	guestService GuestService
	stateStore   repository.StateStore
	matchedTTL   time.Duration
	unmatchedTTL time.Duration
	logger       *zap.Logger
}

// NewSignupService caches matched outcomes for matchedTTL and unmatched ones
// for the shorter unmatchedTTL, so a retry after an outage can still match.
func NewSignupService(
	profileRepo repository.ProfileRepository,
	guestService GuestService,
	stateStore repository.StateStore,
	matchedTTL, unmatchedTTL time.Duration,
	logger *zap.Logger,
) SignupService {
	return &signupService{
		profileRepo:  profileRepo,
		guestService: guestService,
		stateStore:   stateStore,
		matchedTTL:   matchedTTL,
		unmatchedTTL: unmatchedTTL,
		logger:       logger.Named("signup"),
	}
}

func normalizeIdentity(identity model.AccountIdentity) (model.AccountIdentity, error) {
	identity.AccountID = strings.TrimSpace(identity.AccountID)
	identity.Email = strings.TrimSpace(identity.Email)
	identity.FirstName = strings.TrimSpace(identity.FirstName)
	identity.LastName = strings.TrimSpace(identity.LastName)
	identity.Mobile = strings.TrimSpace(identity.Mobile)

	if identity.AccountID == "" {
		return identity, fmt.Errorf("%w: account id is required", ErrInvalidIdentity)
	}
	if identity.Email == "" && identity.FirstName == "" && identity.LastName == "" && identity.Mobile == "" {
		return identity, fmt.Errorf("%w: email, name or mobile is required", ErrInvalidIdentity)
	}
	return identity, nil
}

func (s *signupService) CompleteSignup(ctx context.Context, identity model.AccountIdentity) (MatchResult, error) {
	// 1. Validate
	identity, err := normalizeIdentity(identity)
	if err != nil {
		return MatchResult{}, err
	}
	log := s.logger.With(zap.String("account_id", identity.AccountID))

	// 2. Persist identity attributes
	profile := &model.Profile{
		ID:        identity.AccountID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Mobile:    identity.Mobile,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return MatchResult{}, fmt.Errorf("save profile: %w", err)
	}

	// 3. Repeat delivery
	key := signupKeyPrefix + identity.AccountID
	if cached, ok := s.cached(ctx, key); ok {
		log.Debug("returning cached signup outcome", zap.Bool("matched", cached.Matched))
		return cached, nil
	}

	// 4. Match and claim
	result := s.guestService.ClaimGuestOnSignup(ctx, identity)

	ttl := s.unmatchedTTL
	if result.Matched {
		ttl = s.matchedTTL
	}
	if ttl > 0 {
		data, _ := json.Marshal(result)
		if err := s.stateStore.Set(ctx, key, data, ttl); err != nil {
			log.Warn("cache signup outcome failed", zap.Error(err))
		}
	}
	return result, nil
}

func (s *signupService) cached(ctx context.Context, key string) (MatchResult, bool) {
	data, err := s.stateStore.Get(ctx, key)
	if err != nil {
		s.logger.Warn("read cached signup outcome failed", zap.String("key", key), zap.Error(err))
		return MatchResult{}, false
	}
	if data == nil {
		return MatchResult{}, false
	}
	var result MatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return MatchResult{}, false
	}
	return result, true
}

func (s *signupService) Forget(ctx context.Context, accountID string) error {
	return s.stateStore.Delete(ctx, signupKeyPrefix+accountID)
}

var _ SignupService = (*signupService)(nil)
