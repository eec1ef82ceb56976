package bracket

import (
	"fmt"
	"time"
)

type SettingsStatus string

const (
	SettingsActive    SettingsStatus = "active"
	SettingsCompleted SettingsStatus = "completed"
)

const DefaultMinSubmissions = 3

// Settings schedules an automatic tournament start for one destination.
type Settings struct {
	ID                 string         `json:"id"`
	Destination        string         `json:"destination"`
	SubmissionDeadline time.Time      `json:"submissionDeadline"`
	AutoStartTime      time.Time      `json:"autoStartTime"`
	CreatorID          string         `json:"creatorId"`
	MinSubmissions     int            `json:"minSubmissions"`
	CreatedAt          time.Time      `json:"createdAt"`
	Status             SettingsStatus `json:"status"`
}

func (s *Settings) Validate() error {
	switch {
	case s.Destination == "":
		return fmt.Errorf("%w: destination is required", ErrValidation)
	case s.CreatorID == "":
		return fmt.Errorf("%w: creatorId is required", ErrValidation)
	case s.SubmissionDeadline.IsZero() || s.AutoStartTime.IsZero():
		return fmt.Errorf("%w: submissionDeadline and autoStartTime are required", ErrValidation)
	case !s.AutoStartTime.After(s.SubmissionDeadline):
		return fmt.Errorf("%w: autoStartTime (%s) must be after submissionDeadline (%s)", ErrValidation,
			s.AutoStartTime.Format(time.RFC3339), s.SubmissionDeadline.Format(time.RFC3339))
	case s.MinSubmissions < 1:
		return fmt.Errorf("%w: minSubmissions must be at least 1", ErrValidation)
	}
	return nil
}

// Due reports whether the auto-start time has been reached.
func (s *Settings) Due(now time.Time) bool {
	return !now.Before(s.AutoStartTime)
}

// SettingsView is an active settings record with its countdown worked out.
type SettingsView struct {
	Settings
	ShouldAutoStart    bool  `json:"shouldAutoStart"`
	TimeUntilAutoStart int64 `json:"timeUntilAutoStart"`
}

func (s Settings) View(now time.Time) SettingsView {
	view := SettingsView{Settings: s, ShouldAutoStart: s.Due(now)}
	if !view.ShouldAutoStart {
		view.TimeUntilAutoStart = s.AutoStartTime.Sub(now).Milliseconds()
	}
	return view
}
