package scheduler

import (
	"context"
	"fmt"
	"log"

	"centavo/internal/domain/session"
)

// TokenPurgeJob flags expired refresh tokens as revoked. The rows stay
// in place as an audit trail; the flag just takes them out of play.
type TokenPurgeJob struct {
	sessions *session.Service
}

// NewTokenPurgeJob creates a new token purge job.
func NewTokenPurgeJob(sessions *session.Service) *TokenPurgeJob {
	return &TokenPurgeJob{sessions: sessions}
}

// Execute runs the purge.
func (j *TokenPurgeJob) Execute(ctx context.Context) error {
	count, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("token purge failed: %w", err)
	}

	log.Printf("Token purge completed: %d expired tokens revoked", count)
	return nil
}

// Name identifies the job.
func (j *TokenPurgeJob) Name() string {
	return "token-purge"
}

// Description returns a human-readable description of the job.
func (j *TokenPurgeJob) Description() string {
	return "Revoke expired refresh tokens"
}
