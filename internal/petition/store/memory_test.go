package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agora/internal/petition/models"
	"agora/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestInsertAndFacts() {
	id, err := s.store.Insert(s.ctx, models.NewPetition{
		Header: "potholes", Region: "north", CityName: "springfield",
		PetitionerEmail: "alice@example.com", Category: "roads", Description: "fix them",
	})
	s.Require().NoError(err)

	facts, err := s.store.ModerationFacts(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("north", facts.Region)
	s.Equal("springfield", facts.CityName)
	s.Equal(models.StatusPendingModeration, facts.Status)

	_, err = s.store.ModerationFacts(s.ctx, 9999)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestUpdateStatusWithComment() {
	id := s.store.Seed(models.Petition{
		Header: "potholes", Region: "north", CityName: "springfield",
		PetitionerEmail: "alice@example.com", SubmissionTime: time.Now(),
	})

	s.Require().NoError(s.store.UpdateStatusWithComment(s.ctx, id, models.StatusInReview, 7, "looks real"))

	facts, err := s.store.ModerationFacts(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, facts.Status)

	comments, err := s.store.Comments(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(comments, 1)
	s.Equal("looks real", comments[0].Text)

	err = s.store.UpdateStatusWithComment(s.ctx, 9999, models.StatusInReview, 7, "nope")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestRecipientEmails() {
	id := s.store.Seed(models.Petition{
		Header: "potholes", Region: "north", CityName: "springfield",
		PetitionerEmail: "alice@example.com", SubmissionTime: time.Now(),
	})
	s.store.SeedEndorsement(id, "carol@example.com")
	s.store.SeedEndorsement(id, "bob@example.com")
	// Endorsement by the petitioner must not duplicate the address.
	s.store.SeedEndorsement(id, "alice@example.com")

	emails, err := s.store.RecipientEmails(s.ctx, id)
	s.Require().NoError(err)
	s.Equal([]string{"alice@example.com", "bob@example.com", "carol@example.com"}, emails)
}

func (s *MemoryStoreSuite) TestEndorsementLifecycle() {
	id := s.store.Seed(models.Petition{
		Header: "potholes", Region: "north", CityName: "springfield",
		PetitionerEmail: "alice@example.com", SubmissionTime: time.Now(),
	})

	inserted, err := s.store.InsertEndorsement(s.ctx, id, "bob@example.com")
	s.Require().NoError(err)
	s.True(inserted)

	// A second insert of the same pair is a no-op, like ON CONFLICT DO NOTHING.
	inserted, err = s.store.InsertEndorsement(s.ctx, id, "bob@example.com")
	s.Require().NoError(err)
	s.False(inserted)

	exists, err := s.store.EndorsementExists(s.ctx, id, "bob@example.com")
	s.Require().NoError(err)
	s.True(exists)

	deleted, err := s.store.DeleteEndorsement(s.ctx, id, "bob@example.com")
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.DeleteEndorsement(s.ctx, id, "bob@example.com")
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *MemoryStoreSuite) TestListingsOrderNewestFirst() {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.store.Seed(models.Petition{
		ID: 1, Header: "oldest", IsInitiative: true, Region: "north", CityName: "springfield",
		Status: models.StatusInReview, PetitionerEmail: "a@example.com", SubmissionTime: base,
	})
	s.store.Seed(models.Petition{
		ID: 2, Header: "newest", IsInitiative: true, Region: "north", CityName: "springfield",
		Status: models.StatusInReview, PetitionerEmail: "a@example.com", SubmissionTime: base.Add(time.Hour),
	})
	// Same timestamp as oldest; higher id wins the tie.
	s.store.Seed(models.Petition{
		ID: 3, Header: "tied", IsInitiative: true, Region: "north", CityName: "springfield",
		Status: models.StatusInReview, PetitionerEmail: "a@example.com", SubmissionTime: base,
	})

	out, err := s.store.ListCity(s.ctx, "north", "springfield", true)
	s.Require().NoError(err)
	s.Require().Len(out, 3)
	s.Equal("newest", out[0].Header)
	s.Equal("tied", out[1].Header)
	s.Equal("oldest", out[2].Header)
}

func (s *MemoryStoreSuite) TestFailureHooks() {
	s.store.FailNext(sentinel.ErrUnavailable)
	_, err := s.store.Insert(s.ctx, models.NewPetition{Header: "x"})
	s.Require().ErrorIs(err, sentinel.ErrUnavailable)

	// The hook is one-shot.
	_, err = s.store.Insert(s.ctx, models.NewPetition{Header: "x"})
	s.Require().NoError(err)
}
