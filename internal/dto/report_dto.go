package dto

import (
	"encoding/json"
	"time"
)

type ReportResponse struct {
	Id         int             `json:"id"`
	SessionId  string          `json:"sessionId,omitempty"`
	Idea       string          `json:"idea"`
	UserId     string          `json:"userId"`
	ResultJson json.RawMessage `json:"result_json"`
	ReportMd   string          `json:"report_md"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ListReportsRequest struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}
