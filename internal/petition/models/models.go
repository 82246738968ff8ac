package models

import "time"

// Kind labels derived from the is_initiative flag. Presentation-only; never
// stored.
const (
	KindInitiative = "initiative"
	KindComplaint  = "complaint"
)

// KindLabel maps the is_initiative flag to its display label.
func KindLabel(isInitiative bool) string {
	if isInitiative {
		return KindInitiative
	}
	return KindComplaint
}

// Petition is a citizen-submitted complaint or initiative. Region and
// CityName are immutable after submission; the jurisdiction check depends on
// that.
type Petition struct {
	ID              int64
	IsInitiative    bool
	Category        string
	Description     string
	PetitionerEmail string
	Address         string
	Header          string
	Region          string
	CityName        string
	Status          Status
	SubmissionTime  time.Time
}

// NewPetition carries the fields a citizen submits.
type NewPetition struct {
	IsInitiative    bool
	Category        string
	Description     string
	PetitionerEmail string
	Address         string
	Header          string
	Region          string
	CityName        string
}

// TransitionRequest is a moderator's request to move a petition to a new
// status. AdminRegion/AdminCity come from the moderator's token, never the
// request body.
type TransitionRequest struct {
	PetitionID  int64
	AdminID     int64
	AdminRegion string
	AdminCity   string
	NewStatus   Status
	Comment     string
}

// ModerationFacts are the petition fields the status workflow reads before
// mutating anything.
type ModerationFacts struct {
	Region   string
	CityName string
	Status   Status
}

// Summary is a listing row: header-level petition info plus its endorsement
// count.
type Summary struct {
	ID             int64
	Header         string
	Status         Status
	Address        string
	SubmissionTime time.Time
	Endorsements   int
}

// ModeratorSummary extends Summary with the derived kind label for
// moderator listings.
type ModeratorSummary struct {
	Summary
	IsInitiative bool
	Kind         string
}

// Comment is a moderation comment shown alongside a petition.
type Comment struct {
	SubmissionTime time.Time
	Text           string
}

// Detail is the full petition record returned by the detail endpoint.
type Detail struct {
	Petition
	Endorsements int
	Comments     []Comment
}
