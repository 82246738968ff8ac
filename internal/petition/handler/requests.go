package handler

import (
	"time"

	"agora/internal/petition/models"
)

// SubmitRequest is the citizen submission payload.
type SubmitRequest struct {
	IsInitiative    bool   `json:"is_initiative"`
	Category        string `json:"category"`
	Description     string `json:"petition_description"`
	PetitionerEmail string `json:"petitioner_email"`
	Address         string `json:"address"`
	Header          string `json:"header"`
	Region          string `json:"region"`
	CityName        string `json:"city_name"`
}

// ToModel converts the payload into the domain submission type.
func (r SubmitRequest) ToModel() models.NewPetition {
	return models.NewPetition{
		IsInitiative:    r.IsInitiative,
		Category:        r.Category,
		Description:     r.Description,
		PetitionerEmail: r.PetitionerEmail,
		Address:         r.Address,
		Header:          r.Header,
		Region:          r.Region,
		CityName:        r.CityName,
	}
}

// TransitionRequest is the moderator payload; identity and jurisdiction come
// from the token, not the body.
type TransitionRequest struct {
	NewStatus string `json:"new_status"`
	Comment   string `json:"comment"`
}

// EndorsementRequest toggles an endorsement.
type EndorsementRequest struct {
	UserEmail string `json:"user_email"`
}

// SummaryResponse is one listing row.
type SummaryResponse struct {
	ID             int64     `json:"id"`
	Header         string    `json:"header"`
	Status         string    `json:"status"`
	Address        string    `json:"address"`
	SubmissionTime time.Time `json:"submission_time"`
	Endorsements   int       `json:"endorsements"`
}

// ModeratorSummaryResponse adds the derived kind label.
type ModeratorSummaryResponse struct {
	SummaryResponse
	Kind string `json:"type"`
}

// CommentResponse is one moderation comment.
type CommentResponse struct {
	SubmissionTime time.Time `json:"submission_time"`
	Text           string    `json:"text"`
}

// DetailResponse is the full petition record.
type DetailResponse struct {
	ID              int64             `json:"id"`
	Header          string            `json:"header"`
	IsInitiative    bool              `json:"is_initiative"`
	Kind            string            `json:"type"`
	Category        string            `json:"category"`
	Description     string            `json:"description"`
	Status          string            `json:"status"`
	PetitionerEmail string            `json:"petitioner_email"`
	Address         string            `json:"address"`
	Region          string            `json:"region"`
	CityName        string            `json:"city_name"`
	SubmissionTime  time.Time         `json:"submission_time"`
	Endorsements    int               `json:"endorsements"`
	Comments        []CommentResponse `json:"comments"`
}

func fromSummary(m models.Summary) SummaryResponse {
	return SummaryResponse{
		ID:             m.ID,
		Header:         m.Header,
		Status:         string(m.Status),
		Address:        m.Address,
		SubmissionTime: m.SubmissionTime,
		Endorsements:   m.Endorsements,
	}
}

func fromSummaries(in []models.Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(in))
	for _, m := range in {
		out = append(out, fromSummary(m))
	}
	return out
}

func fromModeratorSummaries(in []models.ModeratorSummary) []ModeratorSummaryResponse {
	out := make([]ModeratorSummaryResponse, 0, len(in))
	for _, m := range in {
		out = append(out, ModeratorSummaryResponse{
			SummaryResponse: fromSummary(m.Summary),
			Kind:            m.Kind,
		})
	}
	return out
}

func fromDetail(d *models.Detail) DetailResponse {
	comments := make([]CommentResponse, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, CommentResponse{SubmissionTime: c.SubmissionTime, Text: c.Text})
	}
	return DetailResponse{
		ID:              d.ID,
		Header:          d.Header,
		IsInitiative:    d.IsInitiative,
		Kind:            models.KindLabel(d.IsInitiative),
		Category:        d.Category,
		Description:     d.Description,
		Status:          string(d.Status),
		PetitionerEmail: d.PetitionerEmail,
		Address:         d.Address,
		Region:          d.Region,
		CityName:        d.CityName,
		SubmissionTime:  d.SubmissionTime,
		Endorsements:    d.Endorsements,
		Comments:        comments,
	}
}
