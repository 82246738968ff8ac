package service

import (
	"errors"

	"agora/internal/petition/models"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/sentinel"
)

func (s *ServiceSuite) seedForModeration(status models.Status) int64 {
	return s.seed(models.Petition{
		Header:          "noise complaint",
		Region:          "north",
		CityName:        "springfield",
		Status:          status,
		PetitionerEmail: "alice@example.com",
	})
}

func (s *ServiceSuite) transitionReq(petitionID int64, to models.Status) models.TransitionRequest {
	return models.TransitionRequest{
		PetitionID:  petitionID,
		AdminID:     42,
		AdminRegion: "north",
		AdminCity:   "springfield",
		NewStatus:   to,
		Comment:     "moderator note",
	}
}

func (s *ServiceSuite) TestTransition_ChecksPrecedeMutation() {
	s.Run("unknown petition returns not found", func() {
		_, err := s.service.Transition(s.ctx, s.transitionReq(9999, models.StatusInReview))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("moderator outside jurisdiction is forbidden and nothing changes", func() {
		id := s.seedForModeration(models.StatusPendingModeration)
		req := s.transitionReq(id, models.StatusInReview)
		req.AdminCity = "shelbyville"

		_, err := s.service.Transition(s.ctx, req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		facts, err := s.store.ModerationFacts(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(models.StatusPendingModeration, facts.Status)
		s.Zero(s.store.CommentCount(id))
		s.Empty(s.notifier.Events())
	})

	s.Run("disallowed transition is rejected and nothing changes", func() {
		for from, to := range map[models.Status]models.Status{
			models.StatusPendingModeration: models.StatusResolved,
			models.StatusInReview:          models.StatusPendingModeration,
			models.StatusResolved:          models.StatusInReview,
			models.StatusRejected:          models.StatusInProgress,
		} {
			id := s.seedForModeration(from)
			_, err := s.service.Transition(s.ctx, s.transitionReq(id, to))
			s.Require().Error(err, "expected %s -> %s to be rejected", from, to)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

			facts, err := s.store.ModerationFacts(s.ctx, id)
			s.Require().NoError(err)
			s.Equal(from, facts.Status)
			s.Zero(s.store.CommentCount(id))
		}
		s.Empty(s.notifier.Events())
	})
}

func (s *ServiceSuite) TestTransition_CommitsStatusAndComment() {
	id := s.seedForModeration(models.StatusPendingModeration)
	s.store.SeedEndorsement(id, "BOB@example.com")
	s.store.SeedEndorsement(id, "carol@example.com")
	// Duplicate of the petitioner under different casing; must collapse.
	s.store.SeedEndorsement(id, "Alice@Example.com")

	recipients, err := s.service.Transition(s.ctx, s.transitionReq(id, models.StatusInReview))
	s.Require().NoError(err)

	facts, err := s.store.ModerationFacts(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, facts.Status)
	s.Equal(1, s.store.CommentCount(id))

	s.ElementsMatch([]string{"alice@example.com", "bob@example.com", "carol@example.com"}, recipients)

	events := s.notifier.Events()
	s.Require().Len(events, 1)
	s.Equal(id, events[0].PetitionID)
	s.Equal(string(models.StatusPendingModeration), events[0].OldStatus)
	s.Equal(string(models.StatusInReview), events[0].NewStatus)
	s.ElementsMatch(recipients, events[0].Recipients)
}

func (s *ServiceSuite) TestTransition_StoreFailures() {
	s.Run("update failure surfaces as unavailable", func() {
		id := s.seedForModeration(models.StatusPendingModeration)
		s.store.FailNext(sentinel.ErrUnavailable)

		_, err := s.service.Transition(s.ctx, s.transitionReq(id, models.StatusInReview))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Empty(s.notifier.Events())
	})

	s.Run("recipient failure does not undo a committed transition", func() {
		id := s.seedForModeration(models.StatusPendingModeration)
		s.store.SeedEndorsement(id, "bob@example.com")
		s.store.FailRecipients(errors.New("read replica down"))
		defer s.store.FailRecipients(nil)

		recipients, err := s.service.Transition(s.ctx, s.transitionReq(id, models.StatusInReview))
		s.Require().NoError(err)
		s.Empty(recipients)

		facts, err := s.store.ModerationFacts(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(models.StatusInReview, facts.Status)
		s.Equal(1, s.store.CommentCount(id))

		events := s.notifier.Events()
		s.Require().Len(events, 1)
		s.Empty(events[0].Recipients)
	})
}
