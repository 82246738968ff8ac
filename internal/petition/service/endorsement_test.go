package service

import (
	"agora/internal/petition/models"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/sentinel"
)

func (s *ServiceSuite) TestToggleEndorsement() {
	id := s.seed(models.Petition{
		Header: "bike lanes", Region: "north", CityName: "springfield",
		Status: models.StatusInReview, PetitionerEmail: "alice@example.com",
	})

	s.Run("first toggle endorses", func() {
		endorsed, err := s.service.ToggleEndorsement(s.ctx, id, "bob@example.com")
		s.Require().NoError(err)
		s.True(endorsed)

		exists, err := s.service.EndorsementExists(s.ctx, id, "bob@example.com")
		s.Require().NoError(err)
		s.True(exists)
	})

	s.Run("second toggle withdraws", func() {
		endorsed, err := s.service.ToggleEndorsement(s.ctx, id, "bob@example.com")
		s.Require().NoError(err)
		s.False(endorsed)

		exists, err := s.service.EndorsementExists(s.ctx, id, "bob@example.com")
		s.Require().NoError(err)
		s.False(exists)
	})

	s.Run("email casing does not split the endorsement", func() {
		endorsed, err := s.service.ToggleEndorsement(s.ctx, id, "Carol@Example.COM")
		s.Require().NoError(err)
		s.True(endorsed)

		endorsed, err = s.service.ToggleEndorsement(s.ctx, id, "carol@example.com")
		s.Require().NoError(err)
		s.False(endorsed)
	})

	s.Run("unknown petition returns not found", func() {
		_, err := s.service.ToggleEndorsement(s.ctx, 9999, "bob@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid email is rejected", func() {
		_, err := s.service.ToggleEndorsement(s.ctx, id, "not-an-email")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("store failure surfaces as unavailable", func() {
		s.store.FailNext(sentinel.ErrUnavailable)
		_, err := s.service.ToggleEndorsement(s.ctx, id, "dave@example.com")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestEndorsementExists() {
	id := s.seed(models.Petition{
		Header: "street lights", Region: "north", CityName: "springfield",
		Status: models.StatusInProgress, PetitionerEmail: "alice@example.com",
	})
	s.store.SeedEndorsement(id, "bob@example.com")

	s.Run("reports current state without side effects", func() {
		exists, err := s.service.EndorsementExists(s.ctx, id, "bob@example.com")
		s.Require().NoError(err)
		s.True(exists)

		exists, err = s.service.EndorsementExists(s.ctx, id, "bob@example.com")
		s.Require().NoError(err)
		s.True(exists)
	})

	s.Run("invalid email is rejected", func() {
		_, err := s.service.EndorsementExists(s.ctx, id, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
