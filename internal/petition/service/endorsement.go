package service

import (
	"context"

	dErrors "agora/pkg/domain-errors"
	"agora/pkg/email"
)

// ToggleEndorsement flips a user's endorsement of a petition. Two
// consecutive toggles by the same user restore the original state. The
// returned bool is the resulting state: true means the user now endorses the
// petition.
//
// Concurrent toggles on the same pair are resolved by the store's unique
// constraint: a lost insert race means the pair exists, a lost delete race
// means it does not. Either way the returned state reflects the winner.
func (s *Service) ToggleEndorsement(ctx context.Context, petitionID int64, userEmail string) (bool, error) {
	if !email.Valid(userEmail) {
		return false, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	userEmail = email.Normalize(userEmail)

	exists, err := s.store.PetitionExists(ctx, petitionID)
	if err != nil {
		return false, translateStoreError(err, "check petition")
	}
	if !exists {
		return false, dErrors.New(dErrors.CodeNotFound, "petition not found")
	}

	endorsed, err := s.store.EndorsementExists(ctx, petitionID, userEmail)
	if err != nil {
		return false, translateStoreError(err, "check endorsement")
	}

	if endorsed {
		if _, err := s.store.DeleteEndorsement(ctx, petitionID, userEmail); err != nil {
			return false, translateStoreError(err, "withdraw endorsement")
		}
		s.metrics.RecordToggle("withdrawn")
		return false, nil
	}

	if _, err := s.store.InsertEndorsement(ctx, petitionID, userEmail); err != nil {
		return false, translateStoreError(err, "add endorsement")
	}
	s.metrics.RecordToggle("endorsed")
	return true, nil
}

// EndorsementExists reports whether the user currently endorses the
// petition. Pure read, no side effects.
func (s *Service) EndorsementExists(ctx context.Context, petitionID int64, userEmail string) (bool, error) {
	if !email.Valid(userEmail) {
		return false, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	endorsed, err := s.store.EndorsementExists(ctx, petitionID, email.Normalize(userEmail))
	if err != nil {
		return false, translateStoreError(err, "check endorsement")
	}
	return endorsed, nil
}
