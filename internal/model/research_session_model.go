package model

import (
	"time"

	"gorm.io/datatypes"
)

type ResearchSession struct {
	SessionId   string `gorm:"type:varchar(64);primaryKey"`
	UserId      string `gorm:"type:varchar(128);index"`
	Query       string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(16);not null;index"`
	CurrentStep string `gorm:"type:varchar(255)"`
	Stage       string `gorm:"type:varchar(32)"`
	Logs        datatypes.JSON
	Checkpoint  datatypes.JSON
	ResultId    *int
	Error       string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ResearchSession) TableName() string {
	return "research_sessions"
}
