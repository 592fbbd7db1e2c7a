package models

import "time"

// The sync path and the cache treat metric payloads as opaque JSON.
// The types below exist for the presentation layer, which decodes a
// payload only when it needs to render it.

// UsageStats is the scalar usage summary payload.
type UsageStats struct {
	TotalQueries   int64   `json:"totalQueries"`
	TotalDocuments int64   `json:"totalDocuments"`
	StorageUsedMB  float64 `json:"storageUsedMb"`
	StorageLimitMB float64 `json:"storageLimitMb"`
	CreditsUsed    float64 `json:"creditsUsed"`
	CreditsLimit   float64 `json:"creditsLimit"`
	ActiveUsers    int     `json:"activeUsers"`
}

// CreditPoint is one sample in the credit consumption series.
type CreditPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Credits   float64   `json:"credits"`
}

// QueryBucket is one category in the query distribution payload.
type QueryBucket struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DocumentEntry is one document in the top documents payload.
type DocumentEntry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	QueryCount int64     `json:"queryCount"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ActivityEntry is one row in the activity log payload.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
}
