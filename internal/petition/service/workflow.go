package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"agora/internal/notification"
	"agora/internal/petition/models"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/sentinel"
	pkgstrings "agora/pkg/platform/strings"
	"agora/pkg/requestcontext"
)

// Transition moves a petition to a new status on behalf of a moderator.
//
// Order of operations: the jurisdiction and state-machine checks strictly
// precede any mutation. The status update + comment insert form one atomic
// unit; the recipient computation runs concurrently with it. Once the update
// commits, the transition is authoritative; a recipient query failure
// degrades to an empty recipient list rather than un-reporting the change.
func (s *Service) Transition(ctx context.Context, req models.TransitionRequest) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "petition.Transition")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.transitionTimeout)
	defer cancel()

	start := time.Now()

	facts, err := s.store.ModerationFacts(ctx, req.PetitionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordTransition("not_found", time.Since(start))
			return nil, dErrors.Wrap(dErrors.CodeNotFound, "petition not found", err)
		}
		s.metrics.RecordTransition("unavailable", time.Since(start))
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "store unreachable", err)
	}

	if facts.Region != req.AdminRegion || facts.CityName != req.AdminCity {
		s.metrics.RecordTransition("forbidden", time.Since(start))
		return nil, dErrors.New(dErrors.CodeForbidden, "moderator has no authority over this city")
	}

	if !facts.Status.CanTransitionTo(req.NewStatus) {
		s.metrics.RecordTransition("invalid_state", time.Since(start))
		return nil, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("cannot move petition from %s to %s", facts.Status, req.NewStatus))
	}

	// Fan out: the atomic update and the recipient read are independent.
	// A failed update cancels the sibling through the shared context.
	var (
		recipients []string
		recErr     error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.store.UpdateStatusWithComment(gctx, req.PetitionID, req.NewStatus, req.AdminID, req.Comment)
	})
	g.Go(func() error {
		recipients, recErr = s.store.RecipientEmails(gctx, req.PetitionID)
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordTransition("not_found", time.Since(start))
			return nil, dErrors.Wrap(dErrors.CodeNotFound, "petition not found", err)
		}
		s.metrics.RecordTransition("unavailable", time.Since(start))
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "status transition failed", err)
	}
	if recErr != nil {
		// The update committed; the notification set is lost, not the change.
		s.logger.WarnContext(ctx, "recipient computation failed after committed transition",
			"petition_id", req.PetitionID,
			"request_id", requestcontext.RequestID(ctx),
			"error", recErr,
		)
		recipients = nil
	}

	recipients = pkgstrings.DedupeAndTrimLower(recipients)

	s.notifier.Emit(ctx, notification.Event{
		PetitionID: req.PetitionID,
		OldStatus:  string(facts.Status),
		NewStatus:  string(req.NewStatus),
		Recipients: recipients,
	})

	s.metrics.RecordTransition("committed", time.Since(start))
	s.logger.InfoContext(ctx, "petition status transitioned",
		"petition_id", req.PetitionID,
		"admin_id", req.AdminID,
		"from", facts.Status,
		"to", req.NewStatus,
		"recipient_count", len(recipients),
		"request_id", requestcontext.RequestID(ctx),
	)
	return recipients, nil
}
