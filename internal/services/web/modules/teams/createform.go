package teams

import (
	"context"
	"errors"
	"fmt"
	"log"

	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/teamdesk/internal/services/web/platform/formtoken"
	"github.com/louisbranch/teamdesk/internal/services/web/storage"
)

const (
	createFormName     = "create_team"
	duplicateSubmitKey = "teams.notice.duplicate_submission"
	formExpiredKey     = "teams.notice.form_expired"
	formTokenField     = "form_token"
	teamNameField      = "name"
	inviteEmailField   = "email"
)

var (
	errDuplicateSubmission = apperrors.EK(apperrors.KindConflict, duplicateSubmitKey, "form already submitted")
	errInvalidSubmission   = apperrors.EK(apperrors.KindInvalidInput, formExpiredKey, "form token rejected")
)

// submissionGuard hands out single-use create-team tokens and rejects a
// token whose id was already consumed. A nil guard accepts every submission.
type submissionGuard struct {
	issuer *formtoken.Issuer
	ledger storage.SubmissionLedger
}

func newSubmissionGuard(issuer *formtoken.Issuer, ledger storage.SubmissionLedger) *submissionGuard {
	if issuer == nil || ledger == nil {
		return nil
	}
	return &submissionGuard{issuer: issuer, ledger: ledger}
}

// Issue returns a token for one create-team submission by subject.
func (g *submissionGuard) Issue(subject string) (string, error) {
	if g == nil {
		return "", nil
	}
	token, err := g.issuer.Issue(subject, createFormName)
	if err != nil {
		return "", fmt.Errorf("issue create form token: %w", err)
	}
	return token, nil
}

// Consume verifies token for subject and marks it used.
func (g *submissionGuard) Consume(ctx context.Context, token string, subject string) error {
	if g == nil {
		return nil
	}
	claims, err := g.issuer.Verify(token, subject, createFormName)
	if err != nil {
		if !errors.Is(err, formtoken.ErrExpired) {
			log.Printf("teams: create form token rejected subject=%s err=%v", subject, err)
		}
		return errInvalidSubmission
	}
	fresh, err := g.ledger.ConsumeSubmission(ctx, claims.ID, claims.ExpiresAt)
	if err != nil {
		return fmt.Errorf("consume create form token: %w", err)
	}
	if !fresh {
		return errDuplicateSubmission
	}
	return nil
}
