package models

import "time"

// Connector types supported by listed stations.
const (
	ConnectorType1   = "Type 1"
	ConnectorType2   = "Type 2"
	ConnectorCCS     = "CCS"
	ConnectorCHAdeMO = "CHAdeMO"
)

// Current types supported by listed stations.
const (
	CurrentACMono = "AC monofase"
	CurrentACTri  = "AC trifase"
	CurrentDC     = "DC"
)

// ValidConnectorType reports whether s is a known connector type.
func ValidConnectorType(s string) bool {
	switch s {
	case ConnectorType1, ConnectorType2, ConnectorCCS, ConnectorCHAdeMO:
		return true
	}
	return false
}

// ValidCurrentType reports whether s is a known current type.
func ValidCurrentType(s string) bool {
	switch s {
	case CurrentACMono, CurrentACTri, CurrentDC:
		return true
	}
	return false
}

// Station is a charging point listed by its owner. Available flips false
// while a charging session occupies it; Visible is the owner's listing
// toggle; Rating is the arithmetic mean of review ratings, 0 when empty.
type Station struct {
	ID             int64     `db:"id" json:"id"`
	OwnerID        int64     `db:"owner_id" json:"ownerId"`
	OwnerName      string    `db:"owner_name" json:"ownerName"`
	Location       string    `db:"location" json:"location"`
	Latitude       float64   `db:"latitude" json:"latitude"`
	Longitude      float64   `db:"longitude" json:"longitude"`
	PowerKW        float64   `db:"power_kw" json:"power"`
	ConnectorType  string    `db:"connector_type" json:"connectorType"`
	CurrentType    string    `db:"current_type" json:"currentType"`
	AdditionalInfo string    `db:"additional_info" json:"additionalInfo"`
	Available      bool      `db:"available" json:"available"`
	Visible        bool      `db:"visible" json:"visible"`
	Rating         float64   `db:"rating" json:"rating"`
	Reviews        []Review  `json:"reviews"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Review is appended by a non-owner rider; reviews are never edited or
// removed. ReviewerName is joined for display and empty when the account
// was deleted.
type Review struct {
	ID           int64     `db:"id" json:"id"`
	StationID    int64     `db:"station_id" json:"stationId"`
	ReviewerID   int64     `db:"user_id" json:"reviewerId"`
	ReviewerName string    `db:"reviewer_name" json:"reviewerName"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      string    `db:"comment" json:"comment"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
