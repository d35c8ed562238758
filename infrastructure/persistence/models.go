package persistence

import "time"

// RunModel represents one stored reconciliation run.
type RunModel struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	Callers         string    `gorm:"column:callers;type:text"`
	TotalCallers    int       `gorm:"column:total_callers"`
	LocusCount      int       `gorm:"column:locus_count"`
	CommonCoreCount int       `gorm:"column:common_core_count"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (RunModel) TableName() string {
	return "cgc_runs"
}

// LocusModel represents a merged locus of a run.
type LocusModel struct {
	ID                   int64              `gorm:"primaryKey;autoIncrement"`
	RunID                int64              `gorm:"column:run_id;index"`
	Seq                  int                `gorm:"column:seq"`
	Contig               string             `gorm:"column:contig;index;size:255"`
	Strand               string             `gorm:"column:strand;size:1"`
	StartPos             int                `gorm:"column:start_pos"`
	EndPos               int                `gorm:"column:end_pos"`
	StopPos              int                `gorm:"column:stop_pos"`
	AgreementCount       int                `gorm:"column:agreement_count"`
	Score                float64            `gorm:"column:score"`
	CommonCore           bool               `gorm:"column:common_core;index;default:false"`
	RepresentativeCaller string             `gorm:"column:representative_caller;size:255"`
	Callers              string             `gorm:"column:callers;type:text"`
	Members              []LocusMemberModel `gorm:"foreignKey:LocusID"`
}

// TableName returns the table name.
func (LocusModel) TableName() string {
	return "cgc_loci"
}

// LocusMemberModel represents one caller's call within a locus.
type LocusMemberModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	LocusID  int64  `gorm:"column:locus_id;index"`
	Caller   string `gorm:"column:caller;size:255"`
	Contig   string `gorm:"column:contig;size:255"`
	Strand   string `gorm:"column:strand;size:1"`
	StartPos int    `gorm:"column:start_pos"`
	EndPos   int    `gorm:"column:end_pos"`
	Label    string `gorm:"column:label;size:255"`
	Product  string `gorm:"column:product;type:text"`
}

// TableName returns the table name.
func (LocusMemberModel) TableName() string {
	return "cgc_locus_members"
}
