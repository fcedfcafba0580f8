package mapper

import (
	"encoding/json"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ResearchSessionMapper struct{}

func NewResearchSessionMapper() *ResearchSessionMapper {
	return &ResearchSessionMapper{}
}

func (m *ResearchSessionMapper) ToEntity(s *model.ResearchSession) *entity.ResearchSession {
	if s == nil {
		return nil
	}

	logs := make([]string, 0)
	if len(s.Logs) > 0 {
		_ = json.Unmarshal(s.Logs, &logs)
	}

	var checkpoint json.RawMessage
	if len(s.Checkpoint) > 0 && string(s.Checkpoint) != "null" {
		checkpoint = json.RawMessage(s.Checkpoint)
	}

	return &entity.ResearchSession{
		SessionId:   s.SessionId,
		UserId:      s.UserId,
		Query:       s.Query,
		Status:      entity.SessionStatus(s.Status),
		CurrentStep: s.CurrentStep,
		Stage:       s.Stage,
		Logs:        logs,
		Checkpoint:  checkpoint,
		ResultId:    s.ResultId,
		Error:       s.Error,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *ResearchSessionMapper) ToModel(s *entity.ResearchSession) *model.ResearchSession {
	if s == nil {
		return nil
	}

	logs := s.Logs
	if logs == nil {
		logs = []string{}
	}
	logsJson, _ := json.Marshal(logs)

	return &model.ResearchSession{
		SessionId:   s.SessionId,
		UserId:      s.UserId,
		Query:       s.Query,
		Status:      string(s.Status),
		CurrentStep: s.CurrentStep,
		Stage:       s.Stage,
		Logs:        datatypes.JSON(logsJson),
		Checkpoint:  datatypes.JSON(s.Checkpoint),
		ResultId:    s.ResultId,
		Error:       s.Error,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type ReportMapper struct{}

func NewReportMapper() *ReportMapper {
	return &ReportMapper{}
}

func (m *ReportMapper) ToEntity(r *model.Report) *entity.Report {
	if r == nil {
		return nil
	}
	return &entity.Report{
		Id:         r.Id,
		SessionId:  r.SessionId,
		Idea:       r.Idea,
		UserId:     r.UserId,
		ResultJson: json.RawMessage(r.ResultJson),
		ReportMd:   r.ReportMd,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *ReportMapper) ToModel(r *entity.Report) *model.Report {
	if r == nil {
		return nil
	}
	resultJson := r.ResultJson
	if len(resultJson) == 0 {
		resultJson = json.RawMessage("{}")
	}
	return &model.Report{
		Id:         r.Id,
		SessionId:  r.SessionId,
		Idea:       r.Idea,
		UserId:     r.UserId,
		ResultJson: datatypes.JSON(resultJson),
		ReportMd:   r.ReportMd,
		CreatedAt:  r.CreatedAt,
	}
}

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	metadata := make(map[string]interface{})
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &metadata)
	}

	return &entity.DocumentChunk{
		Id:        c.Id,
		UserId:    c.UserId,
		Content:   c.Content,
		Metadata:  metadata,
		Embedding: c.Embedding.Slice(),
		CreatedAt: c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	metadataJson, _ := json.Marshal(c.Metadata)

	return &model.DocumentChunk{
		Id:        c.Id,
		UserId:    c.UserId,
		Content:   c.Content,
		Metadata:  datatypes.JSON(metadataJson),
		Embedding: pgvector.NewVector(c.Embedding),
		CreatedAt: c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModels(chunks []*entity.DocumentChunk) []*model.DocumentChunk {
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
