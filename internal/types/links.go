package types

// Link maps a short code to its target URL. RecordID is a UUIDv7 string, so
// links sort by creation time.
type Link struct {
	RecordID  string `json:"record_id" db:"record_id"`
	ShortCode string `json:"short_code" db:"short_code"`
	Target    string `json:"target" db:"target"`
}

// LinkForCreate is the body accepted when creating a link.
type LinkForCreate struct {
	Target string `json:"target"`
}
