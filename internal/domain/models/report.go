package models

import "time"

// GeneratedReport is the archive entry stored after each successful PDF
// composition, one per artifact.
type GeneratedReport struct {
	RecordID     string    `bson:"record_id" json:"record_id"`
	RecordNumber int64     `bson:"record_number" json:"record_number"`
	Period       string    `bson:"period" json:"period"`
	Filename     string    `bson:"filename" json:"filename"`
	Pages        int       `bson:"pages" json:"pages"`
	SizeBytes    int       `bson:"size_bytes" json:"size_bytes"`
	GeneratedBy  string    `bson:"generated_by" json:"generated_by"`
	GeneratedAt  time.Time `bson:"generated_at" json:"generated_at"`
}
