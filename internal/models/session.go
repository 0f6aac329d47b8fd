package models

import "time"

// Charging session statuses.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusExpired   = "expired"
)

// ChargingSession is the explicit record of one Occupied interval on a
// station. Deadline caps how long the rider can hold the station before
// the session is reclaimed.
type ChargingSession struct {
	ID        int64      `db:"id" json:"id"`
	Code      string     `db:"code" json:"code"`
	StationID int64      `db:"station_id" json:"stationId"`
	UserID    int64      `db:"user_id" json:"userId"`
	Status    string     `db:"status" json:"status"`
	StartedAt time.Time  `db:"started_at" json:"startedAt"`
	Deadline  time.Time  `db:"deadline" json:"deadline"`
	EndedAt   *time.Time `db:"ended_at" json:"endedAt,omitempty"`
	Minutes   int        `db:"minutes" json:"minutes"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// Overdue reports whether the session outlived its deadline.
func (s *ChargingSession) Overdue(now time.Time) bool {
	return s.Status == SessionStatusActive && now.After(s.Deadline)
}
