package store

import (
	"context"

	"agora/internal/petition/models"
)

// Store is the persistence contract for petitions, endorsements, and
// moderation comments.
//
// Error Contract:
// - Return sentinel.ErrNotFound (wrapped) when the requested entity does not exist
// - Return wrapped errors with context for infrastructure failures
type Store interface {
	// Insert persists a new petition in the pending-moderation state and
	// returns its assigned ID.
	Insert(ctx context.Context, p models.NewPetition) (int64, error)

	// ModerationFacts returns the jurisdiction and current status of a
	// petition.
	ModerationFacts(ctx context.Context, petitionID int64) (models.ModerationFacts, error)

	// UpdateStatusWithComment sets the status and appends the moderation
	// comment in a single transaction. Either both take effect or neither.
	UpdateStatusWithComment(ctx context.Context, petitionID int64, status models.Status, adminID int64, comment string) error

	// RecipientEmails returns the petitioner plus all distinct endorsers of a
	// petition.
	RecipientEmails(ctx context.Context, petitionID int64) ([]string, error)

	// PetitionExists reports whether a petition exists.
	PetitionExists(ctx context.Context, petitionID int64) (bool, error)

	// EndorsementExists reports whether (petitionID, userEmail) is endorsed.
	EndorsementExists(ctx context.Context, petitionID int64, userEmail string) (bool, error)

	// InsertEndorsement records an endorsement. Returns false when the pair
	// already existed (conflict-safe insert).
	InsertEndorsement(ctx context.Context, petitionID int64, userEmail string) (bool, error)

	// DeleteEndorsement withdraws an endorsement. Returns false when the pair
	// did not exist.
	DeleteEndorsement(ctx context.Context, petitionID int64, userEmail string) (bool, error)

	// ListCity returns the public listing for a city: moderated petitions of
	// one kind with endorsement counts.
	ListCity(ctx context.Context, region, city string, isInitiative bool) ([]models.Summary, error)

	// ListModeration returns every petition in a city regardless of status or
	// kind.
	ListModeration(ctx context.Context, region, city string) ([]models.ModeratorSummary, error)

	// ListByPetitioner returns the submitter's own petitions.
	ListByPetitioner(ctx context.Context, petitionerEmail string) ([]models.Summary, error)

	// Detail returns the full petition record with its endorsement count.
	Detail(ctx context.Context, petitionID int64) (*models.Detail, error)

	// Comments returns the moderation comments of a petition, oldest first.
	Comments(ctx context.Context, petitionID int64) ([]models.Comment, error)
}
