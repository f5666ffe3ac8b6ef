package planner

import (
	"context"
	"strings"

	"event-planner/data/models"
	"event-planner/data/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IsPollVisibleToUser decides whether a poll shows up for a user at all.
// Hosts and co-hosts see every poll. For ALL_ATTENDEES any attendee record
// counts, whatever its status.
func IsPollVisibleToUser(p models.VoterPermission, isHostOrCoHost bool, attendeeStatus *models.AttendeeStatus) bool {
	if isHostOrCoHost {
		return true
	}
	switch p {
	case models.VoterHostsOnly:
		return false
	case models.VoterAcceptedAttendees:
		return attendeeStatus != nil && *attendeeStatus == models.AttendeeAccepted
	}
	return attendeeStatus != nil
}

// CanSeeResultCounts decides whether per-option vote counts are disclosed.
func CanSeeResultCounts(v models.ResultVisibility, isHostOrCoHost, hasVoted, isClosed bool) bool {
	switch v {
	case models.ResultsVisibleToHostsOnly:
		return isHostOrCoHost
	case models.ResultsVisibleAfterVoting:
		return hasVoted
	case models.ResultsHiddenUntilClosed:
		return isClosed
	}
	return true
}

// CheckVotingEligibility returns nil when the user may vote, or a Forbidden
// error carrying the reason. Hosts and co-hosts are always eligible.
func CheckVotingEligibility(p models.VoterPermission, isHostOrCoHost bool, attendeeStatus *models.AttendeeStatus) error {
	if isHostOrCoHost {
		return nil
	}
	switch p {
	case models.VoterHostsOnly:
		return newError(Forbidden, "only hosts can vote in this poll")
	case models.VoterAcceptedAttendees:
		if attendeeStatus == nil || *attendeeStatus != models.AttendeeAccepted {
			return newError(Forbidden, "only accepted attendees can vote in this poll")
		}
		return nil
	}
	if attendeeStatus == nil {
		return newError(Forbidden, "only attendees can vote in this poll")
	}
	return nil
}

// PollSettingsInput leaves unset fields at their defaults.
type PollSettingsInput struct {
	AllowMultipleSelections *bool                    `json:"allowMultipleSelections"`
	VoterPermission         *models.VoterPermission  `json:"voterPermission" validate:"omitempty,oneof=ALL_ATTENDEES ACCEPTED_ATTENDEES HOSTS_ONLY"`
	ResultVisibility        *models.ResultVisibility `json:"resultVisibility" validate:"omitempty,oneof=VISIBLE_TO_ALL VISIBLE_TO_HOSTS_ONLY VISIBLE_AFTER_VOTING HIDDEN_UNTIL_CLOSED"`
}

type CreatePollInput struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description *string            `json:"description"`
	Options     []string           `json:"options" validate:"required,min=1,dive,required"`
	Settings    *PollSettingsInput `json:"settings"`
}

// UpdatePollInput carries the poll fields that may change after creation.
// Settings are fixed once the poll exists, so there is no field for them.
type UpdatePollInput struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description"`
	Status      *models.PollStatus `json:"status" validate:"omitempty,oneof=OPEN CLOSED"`
}

type OptionView struct {
	ID    uuid.UUID `json:"id"`
	Text  string    `json:"text"`
	Order int       `json:"order"`
	// Count is nil when results are hidden from the viewer, which is not the
	// same as zero votes.
	Count *int `json:"count,omitempty"`
}

type PollView struct {
	models.Poll
	Settings       models.PollSettings `json:"settings"`
	Options        []OptionView        `json:"options"`
	MySelections   []uuid.UUID         `json:"mySelections"`
	HasVoted       bool                `json:"hasVoted"`
	ResultsVisible bool                `json:"resultsVisible"`
}

func resolveSettings(in *PollSettingsInput) (models.PollSettings, error) {
	s := models.DefaultPollSettings()
	if in == nil {
		return s, nil
	}
	if in.AllowMultipleSelections != nil {
		s.AllowMultipleSelections = *in.AllowMultipleSelections
	}
	if in.VoterPermission != nil {
		if !in.VoterPermission.Valid() {
			return s, newError(Validation, "invalid voterPermission %q", *in.VoterPermission)
		}
		s.VoterPermission = *in.VoterPermission
	}
	if in.ResultVisibility != nil {
		if !in.ResultVisibility.Valid() {
			return s, newError(Validation, "invalid resultVisibility %q", *in.ResultVisibility)
		}
		s.ResultVisibility = *in.ResultVisibility
	}
	return s, nil
}

// CreatePoll creates an OPEN poll with its options in the given order.
func (s *Service) CreatePoll(ctx context.Context, eventID, actor uuid.UUID, in CreatePollInput) (PollView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return PollView{}, newError(Validation, "title is required")
	}
	if len(in.Options) == 0 {
		return PollView{}, newError(Validation, "at least one option is required")
	}
	settings, err := resolveSettings(in.Settings)
	if err != nil {
		return PollView{}, err
	}

	p := models.Poll{
		ID:          uuid.New(),
		EventID:     eventID,
		CreatorID:   actor,
		Title:       title,
		Description: in.Description,
		Status:      models.PollOpen,
		CreatedAt:   s.clock(),
	}
	options := make([]models.PollOption, len(in.Options))
	for i, text := range in.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return PollView{}, newError(Validation, "option %d is empty", i+1)
		}
		options[i] = models.PollOption{ID: uuid.New(), PollID: p.ID, Text: text, Order: i}
	}

	var view PollView
	err = s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		st, err := authorize(ctx, repo, eventID, actor, ActCreatePoll)
		if err != nil {
			return err
		}
		if err := repo.CreatePoll(ctx, p, settings, options); err != nil {
			return err
		}
		view, err = buildPollView(ctx, repo, p, st, actor)
		return err
	})
	if err != nil {
		return PollView{}, err
	}

	s.log.WithFields(logrus.Fields{"event": eventID, "poll": p.ID, "by": actor}).Info("poll created")
	return view, nil
}

// loadPoll fetches a poll and checks it belongs to eventID.
func loadPoll(ctx context.Context, repo repository.DBRepo, eventID, pollID uuid.UUID) (models.Poll, error) {
	p, err := repo.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, notFound(err, errPollNotFound)
	}
	if p.EventID != eventID {
		return models.Poll{}, errPollNotFound
	}
	return p, nil
}

// UpdatePoll changes title, description or status. Closing and re-opening
// are both manual.
func (s *Service) UpdatePoll(ctx context.Context, eventID, pollID, actor uuid.UUID, in UpdatePollInput) (PollView, error) {
	var view PollView
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		st, err := authorize(ctx, repo, eventID, actor, ActUpdatePoll)
		if err != nil {
			return err
		}
		p, err := loadPoll(ctx, repo, eventID, pollID)
		if err != nil {
			return err
		}

		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" {
				return newError(Validation, "title cannot be empty")
			}
			p.Title = title
		}
		if in.Description != nil {
			p.Description = in.Description
			if *in.Description == "" {
				p.Description = nil
			}
		}
		if in.Status != nil {
			if !in.Status.Valid() {
				return newError(Validation, "invalid status %q", *in.Status)
			}
			p.Status = *in.Status
		}

		if err := repo.UpdatePoll(ctx, p); err != nil {
			return notFound(err, errPollNotFound)
		}
		view, err = buildPollView(ctx, repo, p, st, actor)
		return err
	})
	if err != nil {
		return PollView{}, err
	}
	return view, nil
}

// ListPolls returns the event's polls the actor may see, newest first.
func (s *Service) ListPolls(ctx context.Context, eventID, actor uuid.UUID) ([]PollView, error) {
	st, err := authorize(ctx, s.repo, eventID, actor, ActListPolls)
	if err != nil {
		return nil, err
	}

	polls, err := s.repo.ListPolls(ctx, eventID)
	if err != nil {
		return nil, err
	}

	views := make([]PollView, 0, len(polls))
	for _, p := range polls {
		settings, err := s.repo.GetPollSettings(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if !IsPollVisibleToUser(settings.VoterPermission, st.IsHostOrCoHost(), st.AttendeeStatus()) {
			continue
		}
		v, err := buildPollView(ctx, s.repo, p, st, actor)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// GetPoll returns one poll. A poll hidden from the actor is reported as not
// found.
func (s *Service) GetPoll(ctx context.Context, eventID, pollID, actor uuid.UUID) (PollView, error) {
	st, err := authorize(ctx, s.repo, eventID, actor, ActViewPoll)
	if err != nil {
		return PollView{}, err
	}
	p, err := loadPoll(ctx, s.repo, eventID, pollID)
	if err != nil {
		return PollView{}, err
	}

	v, err := buildPollView(ctx, s.repo, p, st, actor)
	if err != nil {
		return PollView{}, err
	}
	if !IsPollVisibleToUser(v.Settings.VoterPermission, st.IsHostOrCoHost(), st.AttendeeStatus()) {
		return PollView{}, errPollNotFound
	}
	return v, nil
}

func buildPollView(ctx context.Context, repo repository.DBRepo, p models.Poll, st Standing, userID uuid.UUID) (PollView, error) {
	settings, err := repo.GetPollSettings(ctx, p.ID)
	if err != nil {
		return PollView{}, err
	}
	options, err := repo.ListPollOptions(ctx, p.ID)
	if err != nil {
		return PollView{}, err
	}
	selections, err := repo.ListUserSelections(ctx, p.ID, userID)
	if err != nil {
		return PollView{}, err
	}

	v := PollView{
		Poll:         p,
		Settings:     settings,
		Options:      make([]OptionView, len(options)),
		MySelections: selections,
		HasVoted:     len(selections) > 0,
	}
	v.ResultsVisible = CanSeeResultCounts(settings.ResultVisibility, st.IsHostOrCoHost(), v.HasVoted, p.Status != models.PollOpen)

	for i, o := range options {
		v.Options[i] = OptionView{ID: o.ID, Text: o.Text, Order: o.Order}
		if v.ResultsVisible {
			count := o.Responses
			v.Options[i].Count = &count
		}
	}
	return v, nil
}

// Vote records the actor's selection on a poll. Single-selection polls
// replace the previous response; multiple-selection polls drop deselected
// options and add new ones, leaving options selected both times untouched.
func (s *Service) Vote(ctx context.Context, eventID, pollID, actor uuid.UUID, optionIDs []uuid.UUID) error {
	if len(optionIDs) == 0 {
		return newError(Validation, "at least one option must be selected")
	}

	selected := make([]uuid.UUID, 0, len(optionIDs))
	seen := map[uuid.UUID]bool{}
	for _, id := range optionIDs {
		if !seen[id] {
			seen[id] = true
			selected = append(selected, id)
		}
	}

	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		st, err := authorize(ctx, repo, eventID, actor, ActVote)
		if err != nil {
			return err
		}
		p, err := loadPoll(ctx, repo, eventID, pollID)
		if err != nil {
			return err
		}
		settings, err := repo.GetPollSettings(ctx, pollID)
		if err != nil {
			return err
		}

		if p.Status != models.PollOpen {
			return newError(InvalidState, "poll is closed")
		}
		if err := CheckVotingEligibility(settings.VoterPermission, st.IsHostOrCoHost(), st.AttendeeStatus()); err != nil {
			return err
		}

		options, err := repo.ListPollOptions(ctx, pollID)
		if err != nil {
			return err
		}
		valid := make(map[uuid.UUID]bool, len(options))
		for _, o := range options {
			valid[o.ID] = true
		}
		for _, id := range selected {
			if !valid[id] {
				return newError(Validation, "option %s does not belong to this poll", id)
			}
		}
		if !settings.AllowMultipleSelections && len(selected) != 1 {
			return newError(Validation, "multiple selections not allowed")
		}

		if !settings.AllowMultipleSelections {
			if err := repo.DeleteResponses(ctx, pollID, actor, nil); err != nil {
				return err
			}
			return repo.InsertResponse(ctx, s.response(pollID, selected[0], actor))
		}

		if err := repo.DeleteResponses(ctx, pollID, actor, selected); err != nil {
			return err
		}
		for _, id := range selected {
			if err := repo.UpsertResponse(ctx, s.response(pollID, id, actor)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"poll": pollID, "user": actor, "options": len(selected)}).Debug("vote recorded")
	return nil
}

func (s *Service) response(pollID, optionID, userID uuid.UUID) models.PollResponse {
	return models.PollResponse{
		ID:           uuid.New(),
		PollID:       pollID,
		PollOptionID: optionID,
		UserID:       userID,
		CreatedAt:    s.clock(),
	}
}
