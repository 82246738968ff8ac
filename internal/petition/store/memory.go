package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"agora/internal/petition/models"
	"agora/pkg/platform/sentinel"
)

// InMemoryStore keeps petitions in memory for tests and development. It
// mirrors the PostgresStore error contract.
type InMemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	petitions    map[int64]*models.Petition
	endorsements map[int64]map[string]struct{}
	comments     map[int64][]storedComment

	// failNext forces the next mutating call to fail, letting tests exercise
	// the unavailability paths. failRecipients does the same for the
	// recipient read alone.
	failNext       error
	failRecipients error
}

type storedComment struct {
	adminID int64
	text    string
	at      time.Time
}

// NewMemory constructs an empty in-memory petition store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		nextID:       1,
		petitions:    make(map[int64]*models.Petition),
		endorsements: make(map[int64]map[string]struct{}),
		comments:     make(map[int64][]storedComment),
	}
}

// FailNext makes the next store call return err, then clears itself.
func (s *InMemoryStore) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// FailRecipients makes subsequent RecipientEmails calls return err.
func (s *InMemoryStore) FailRecipients(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRecipients = err
}

func (s *InMemoryStore) takeFailure() error {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	return nil
}

func (s *InMemoryStore) Insert(_ context.Context, p models.NewPetition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return 0, err
	}

	id := s.nextID
	s.nextID++
	s.petitions[id] = &models.Petition{
		ID:              id,
		IsInitiative:    p.IsInitiative,
		Category:        p.Category,
		Description:     p.Description,
		PetitionerEmail: p.PetitionerEmail,
		Address:         p.Address,
		Header:          p.Header,
		Region:          p.Region,
		CityName:        p.CityName,
		Status:          models.StatusPendingModeration,
		SubmissionTime:  time.Now(),
	}
	s.endorsements[id] = make(map[string]struct{})
	return id, nil
}

// Seed inserts a fully-specified petition, bypassing submission defaults.
// Test helper.
func (s *InMemoryStore) Seed(p models.Petition) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	if p.Status == "" {
		p.Status = models.StatusPendingModeration
	}
	s.petitions[p.ID] = &p
	if s.endorsements[p.ID] == nil {
		s.endorsements[p.ID] = make(map[string]struct{})
	}
	return p.ID
}

// SeedEndorsement records an endorsement directly. Test helper.
func (s *InMemoryStore) SeedEndorsement(petitionID int64, userEmail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endorsements[petitionID] == nil {
		s.endorsements[petitionID] = make(map[string]struct{})
	}
	s.endorsements[petitionID][userEmail] = struct{}{}
}

func (s *InMemoryStore) ModerationFacts(_ context.Context, petitionID int64) (models.ModerationFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.petitions[petitionID]
	if !ok {
		return models.ModerationFacts{}, fmt.Errorf("petition %d: %w", petitionID, sentinel.ErrNotFound)
	}
	return models.ModerationFacts{Region: p.Region, CityName: p.CityName, Status: p.Status}, nil
}

func (s *InMemoryStore) UpdateStatusWithComment(_ context.Context, petitionID int64, status models.Status, adminID int64, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}

	p, ok := s.petitions[petitionID]
	if !ok {
		return fmt.Errorf("petition %d: %w", petitionID, sentinel.ErrNotFound)
	}
	p.Status = status
	s.comments[petitionID] = append(s.comments[petitionID], storedComment{
		adminID: adminID,
		text:    comment,
		at:      time.Now(),
	})
	return nil
}

func (s *InMemoryStore) RecipientEmails(_ context.Context, petitionID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failRecipients != nil {
		return nil, s.failRecipients
	}
	p, ok := s.petitions[petitionID]
	if !ok {
		return nil, fmt.Errorf("petition %d: %w", petitionID, sentinel.ErrNotFound)
	}

	seen := map[string]struct{}{p.PetitionerEmail: {}}
	emails := []string{p.PetitionerEmail}
	endorsers := make([]string, 0, len(s.endorsements[petitionID]))
	for email := range s.endorsements[petitionID] {
		endorsers = append(endorsers, email)
	}
	sort.Strings(endorsers)
	for _, email := range endorsers {
		if _, ok := seen[email]; !ok {
			seen[email] = struct{}{}
			emails = append(emails, email)
		}
	}
	return emails, nil
}

func (s *InMemoryStore) PetitionExists(_ context.Context, petitionID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.petitions[petitionID]
	return ok, nil
}

func (s *InMemoryStore) EndorsementExists(_ context.Context, petitionID int64, userEmail string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.endorsements[petitionID][userEmail]
	return ok, nil
}

func (s *InMemoryStore) InsertEndorsement(_ context.Context, petitionID int64, userEmail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return false, err
	}
	if s.endorsements[petitionID] == nil {
		s.endorsements[petitionID] = make(map[string]struct{})
	}
	if _, ok := s.endorsements[petitionID][userEmail]; ok {
		return false, nil
	}
	s.endorsements[petitionID][userEmail] = struct{}{}
	return true, nil
}

func (s *InMemoryStore) DeleteEndorsement(_ context.Context, petitionID int64, userEmail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return false, err
	}
	if _, ok := s.endorsements[petitionID][userEmail]; !ok {
		return false, nil
	}
	delete(s.endorsements[petitionID], userEmail)
	return true, nil
}

func (s *InMemoryStore) ListCity(_ context.Context, region, city string, isInitiative bool) ([]models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Summary
	for _, p := range s.petitions {
		if p.Region != region || p.CityName != city {
			continue
		}
		if p.Status == models.StatusPendingModeration || p.IsInitiative != isInitiative {
			continue
		}
		out = append(out, s.summaryLocked(p))
	}
	sortSummaries(out)
	return out, nil
}

func (s *InMemoryStore) ListModeration(_ context.Context, region, city string) ([]models.ModeratorSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ModeratorSummary
	for _, p := range s.petitions {
		if p.Region != region || p.CityName != city {
			continue
		}
		out = append(out, models.ModeratorSummary{
			Summary:      s.summaryLocked(p),
			IsInitiative: p.IsInitiative,
			Kind:         models.KindLabel(p.IsInitiative),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmissionTime.Equal(out[j].SubmissionTime) {
			return out[i].SubmissionTime.After(out[j].SubmissionTime)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) ListByPetitioner(_ context.Context, petitionerEmail string) ([]models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Summary
	for _, p := range s.petitions {
		if p.PetitionerEmail == petitionerEmail {
			out = append(out, s.summaryLocked(p))
		}
	}
	sortSummaries(out)
	return out, nil
}

func (s *InMemoryStore) Detail(_ context.Context, petitionID int64) (*models.Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.petitions[petitionID]
	if !ok {
		return nil, fmt.Errorf("petition %d: %w", petitionID, sentinel.ErrNotFound)
	}
	return &models.Detail{
		Petition:     *p,
		Endorsements: len(s.endorsements[petitionID]),
	}, nil
}

func (s *InMemoryStore) Comments(_ context.Context, petitionID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments[petitionID] {
		out = append(out, models.Comment{SubmissionTime: c.at, Text: c.text})
	}
	return out, nil
}

// CommentCount reports how many moderation comments a petition has. Test
// helper.
func (s *InMemoryStore) CommentCount(petitionID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments[petitionID])
}

func (s *InMemoryStore) summaryLocked(p *models.Petition) models.Summary {
	return models.Summary{
		ID:             p.ID,
		Header:         p.Header,
		Status:         p.Status,
		Address:        p.Address,
		SubmissionTime: p.SubmissionTime,
		Endorsements:   len(s.endorsements[p.ID]),
	}
}

func sortSummaries(out []models.Summary) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmissionTime.Equal(out[j].SubmissionTime) {
			return out[i].SubmissionTime.After(out[j].SubmissionTime)
		}
		return out[i].ID > out[j].ID
	})
}
