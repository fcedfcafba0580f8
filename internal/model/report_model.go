package model

import (
	"time"

	"gorm.io/datatypes"
)

// Report ids are assigned by the repository (lowest free id), never by a sequence.
type Report struct {
	Id         int            `gorm:"primaryKey;autoIncrement:false"`
	SessionId  string         `gorm:"type:varchar(64);index"`
	Idea       string         `gorm:"type:text;not null"`
	UserId     string         `gorm:"type:varchar(128);index"`
	ResultJson datatypes.JSON `gorm:"not null"`
	ReportMd   string         `gorm:"type:text;not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (Report) TableName() string {
	return "reports"
}
