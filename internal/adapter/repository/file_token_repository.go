package repository

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"kudos/internal/domain/entity"
	"kudos/internal/domain/repository"
	"kudos/internal/infrastructure/filestore"
	"kudos/pkg/errors"
	"kudos/pkg/logger"
)

const tokensDir = "tokens"

type fileTokenRepository struct {
	store *filestore.Store
}

func NewFileTokenRepository(store *filestore.Store) repository.TokenRepository {
	return &fileTokenRepository{
		store: store,
	}
}

func tokenPath(token string) string {
	return filepath.Join(tokensDir, token+".json")
}

// Token values double as filenames, so anything that is not the canonical
// UUID form they are minted in is rejected before a path is built. This is
// the same discipline review ids get from utils.IsValidReviewID.
func validTokenValue(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

func (r *fileTokenRepository) Create(ctx context.Context, token *entity.VerificationToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	unlock := r.store.Lock("token:" + token.Token)
	defer unlock()

	if err := r.store.WriteJSON(tokenPath(token.Token), token); err != nil {
		return errors.Internal("Failed to create verification token", err)
	}

	return nil
}

func (r *fileTokenRepository) GetByToken(ctx context.Context, value string) (*entity.VerificationToken, error) {
	if !validTokenValue(value) {
		return nil, errors.TokenNotFound("Verification token not found")
	}

	return r.read(value)
}

func (r *fileTokenRepository) Update(ctx context.Context, token *entity.VerificationToken) error {
	unlock := r.store.Lock("token:" + token.Token)
	defer unlock()

	if err := r.store.WriteJSON(tokenPath(token.Token), token); err != nil {
		return errors.Internal("Failed to update verification token", err)
	}

	return nil
}

// Mutate holds the per-token lock across the whole read-modify-write cycle,
// so a token's state transitions happen at most once no matter how many
// callers race on it.
func (r *fileTokenRepository) Mutate(ctx context.Context, value string, fn func(*entity.VerificationToken) error) (*entity.VerificationToken, error) {
	if !validTokenValue(value) {
		return nil, errors.TokenNotFound("Verification token not found")
	}

	unlock := r.store.Lock("token:" + value)
	defer unlock()

	token, err := r.read(value)
	if err != nil {
		return nil, err
	}

	if err := fn(token); err != nil {
		return nil, err
	}

	if err := r.store.WriteJSON(tokenPath(value), token); err != nil {
		return nil, errors.Internal("Failed to update verification token", err)
	}

	return token, nil
}

func (r *fileTokenRepository) read(value string) (*entity.VerificationToken, error) {
	var token entity.VerificationToken
	if err := r.store.ReadJSON(tokenPath(value), &token); err != nil {
		if filestore.IsNotExist(err) {
			return nil, errors.TokenNotFound("Verification token not found")
		}
		return nil, errors.Internal("Failed to read verification token", err)
	}

	return &token, nil
}

// DeleteUnusedByReviewID removes every unredeemed token issued for the given
// review, so a re-sent verification email leaves only one live token behind.
func (r *fileTokenRepository) DeleteUnusedByReviewID(ctx context.Context, reviewID string) (int, error) {
	tokens, err := r.loadAll()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, token := range tokens {
		if token.ReviewID != reviewID || token.Used {
			continue
		}
		if err := r.store.Remove(tokenPath(token.Token)); err != nil {
			return deleted, errors.Internal("Failed to delete verification token", err)
		}
		deleted++
	}

	return deleted, nil
}

// DeleteExpired removes tokens whose expiry lies before the cutoff, redeemed
// or not. Used tokens past their window carry no audit value here; review
// metadata keeps the verification timestamp.
func (r *fileTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	tokens, err := r.loadAll()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, token := range tokens {
		if !token.ExpiresAt.Before(cutoff) {
			continue
		}
		if err := r.store.Remove(tokenPath(token.Token)); err != nil {
			return deleted, errors.Internal("Failed to delete verification token", err)
		}
		deleted++
	}

	return deleted, nil
}

func (r *fileTokenRepository) loadAll() ([]*entity.VerificationToken, error) {
	values, err := r.store.ListDocuments(tokensDir)
	if err != nil {
		return nil, errors.Internal("Failed to list verification tokens", err)
	}

	tokens := make([]*entity.VerificationToken, 0, len(values))
	for _, value := range values {
		var token entity.VerificationToken
		if err := r.store.ReadJSON(tokenPath(value), &token); err != nil {
			if filestore.IsNotExist(err) {
				continue
			}
			logger.Warn("Skipping unreadable token file %s: %v", value, err)
			continue
		}
		tokens = append(tokens, &token)
	}

	return tokens, nil
}
