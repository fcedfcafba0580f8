package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/unitofwork"
	"inzite-research-be/pkg/events"
	"inzite-research-be/pkg/rag"
	"inzite-research-be/pkg/research/report"
	"inzite-research-be/pkg/research/state"

	"golang.org/x/sync/errgroup"
)

const workflowModule = "Workflow"

type IntentParser interface {
	Parse(ctx context.Context, query string) *state.IntentMetadata
}

type TaskPlanner interface {
	Plan(ctx context.Context, intent *state.IntentMetadata) *state.Plan
}

type AgentRunner interface {
	Run(ctx context.Context, selected []state.AgentName, input string) []state.AgentOutput
}

type VectorStore interface {
	AddDocuments(ctx context.Context, docs []rag.Document, userId string) (int, error)
	Search(ctx context.Context, query string, k int, userId string) []rag.Document
	Rerank(ctx context.Context, query string, docs []rag.Document) []rag.Document
}

type Summarizer interface {
	Summarize(ctx context.Context, docs []rag.Document) string
}

type StrategyEngine interface {
	Synthesize(ctx context.Context, query string, contexts []string) *state.StrategyDocument
}

// ProgressNotifier receives every status change of a session.
type ProgressNotifier interface {
	Publish(ctx context.Context, msg dto.ProgressMessage)
}

// Pipeline holds the nodes the workflow drives. Every node absorbs its own
// external failures and returns degraded output.
type Pipeline struct {
	Intent     IntentParser
	Planner    TaskPlanner
	Agents     AgentRunner
	Store      VectorStore
	Summarizer Summarizer
	Strategy   StrategyEngine
}

type WorkflowConfig struct {
	// StageDelay paces external API usage and lets pollers observe each stage.
	StageDelay time.Duration
	RetrievalK int
}

type IWorkflowService interface {
	// Execute runs one session to a terminal status, resuming from its checkpoint when it has one.
	Execute(ctx context.Context, msg dto.PublishResearchMessage) error
	// Resume continues every session left processing by a previous process and waits for them.
	Resume(ctx context.Context) (int, error)
}

type workflowService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   Pipeline
	events     events.Publisher
	progress   ProgressNotifier
	logger     logger.ILogger
	cfg        WorkflowConfig

	inflight sync.Map
}

func NewWorkflowService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline Pipeline,
	eventPublisher events.Publisher,
	progress ProgressNotifier,
	log logger.ILogger,
	cfg WorkflowConfig,
) IWorkflowService {
	if cfg.RetrievalK <= 0 {
		cfg.RetrievalK = 20
	}
	return &workflowService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		events:     eventPublisher,
		progress:   progress,
		logger:     log,
		cfg:        cfg,
	}
}

func (w *workflowService) Execute(ctx context.Context, msg dto.PublishResearchMessage) error {
	if _, busy := w.inflight.LoadOrStore(msg.SessionId, struct{}{}); busy {
		w.logger.Warn(workflowModule, "Session already running, trigger ignored", map[string]interface{}{"session_id": msg.SessionId})
		return nil
	}
	defer w.inflight.Delete(msg.SessionId)

	session, err := w.loadOrCreate(ctx, msg)
	if err != nil {
		return err
	}
	if session.Status.IsTerminal() {
		w.logger.Info(workflowModule, "Session already finished", map[string]interface{}{"session_id": session.SessionId, "status": string(session.Status)})
		return nil
	}

	if strings.TrimSpace(session.Query) == "" {
		w.fail(ctx, session, state.StageInitializing, ErrInvalidQuery)
		return ErrInvalidQuery
	}

	st := state.PipelineState{UserInput: session.Query, UserId: session.UserId}
	from := state.StageInitializing

	if len(session.Checkpoint) > 0 {
		cp, err := state.UnmarshalCheckpoint(session.Checkpoint)
		if err != nil {
			w.logger.Warn(workflowModule, "Unreadable checkpoint, restarting session", map[string]interface{}{"session_id": session.SessionId, "error": err.Error()})
		} else if next, ok := cp.Stage.Next(); ok {
			st = cp.State
			from = next
			w.logger.Info(workflowModule, "Resuming session", map[string]interface{}{"session_id": session.SessionId, "from": string(from)})
		}
	}

	if from == state.StageInitializing {
		w.emit(ctx, events.NewResearchStarted(session.SessionId, session.UserId, session.Query))
	}

	return w.run(ctx, session, &st, from)
}

func (w *workflowService) loadOrCreate(ctx context.Context, msg dto.PublishResearchMessage) (*entity.ResearchSession, error) {
	repo := w.uowFactory.NewUnitOfWork(ctx).ResearchSessionRepository()

	session, err := repo.FindByID(ctx, msg.SessionId)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", msg.SessionId, err)
	}
	if session != nil {
		if session.Query == "" {
			session.Query = msg.Query
		}
		return session, nil
	}

	// The trigger caller normally creates the row. Create it for events sent without one.
	now := time.Now()
	session = &entity.ResearchSession{
		SessionId:   msg.SessionId,
		UserId:      msg.UserId,
		Query:       msg.Query,
		Status:      entity.SessionStatusProcessing,
		CurrentStep: state.StageInitializing.Label(),
		Stage:       string(state.StageInitializing),
		Logs:        []string{state.StageInitializing.Label()},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session %s: %w", msg.SessionId, err)
	}
	return session, nil
}

func (w *workflowService) run(ctx context.Context, session *entity.ResearchSession, st *state.PipelineState, from state.Stage) error {
	for stage := from; ; {
		if err := ctx.Err(); err != nil {
			// Left processing on purpose so Resume picks it up.
			return err
		}

		if stage == state.StageCompleted {
			return w.complete(ctx, session, st)
		}

		if err := w.enter(ctx, session, stage); err != nil {
			return w.abort(ctx, session, stage, err)
		}

		delta, err := w.executeStage(ctx, session, stage, st)
		if err != nil {
			return w.abort(ctx, session, stage, err)
		}
		if skipped := st.Merge(delta); len(skipped) > 0 {
			w.logger.Warn(workflowModule, "Stage tried to overwrite populated state", map[string]interface{}{
				"session_id": session.SessionId,
				"stage":      string(stage),
				"fields":     skipped,
			})
		}

		if err := w.checkpoint(ctx, session, stage, st); err != nil {
			return w.abort(ctx, session, stage, err)
		}

		next, ok := stage.Next()
		if !ok {
			return nil
		}
		stage = next
	}
}

// enter records the stage as the session's current step, then waits out the stage delay.
func (w *workflowService) enter(ctx context.Context, session *entity.ResearchSession, stage state.Stage) error {
	if session.Stage != string(stage) {
		session.Stage = string(stage)
		session.CurrentStep = stage.Label()
		session.Logs = append(session.Logs, stage.Label())
		if err := w.save(ctx, session); err != nil {
			return err
		}
	}

	if w.cfg.StageDelay > 0 && stage != state.StageInitializing {
		timer := time.NewTimer(w.cfg.StageDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

func (w *workflowService) checkpoint(ctx context.Context, session *entity.ResearchSession, stage state.Stage, st *state.PipelineState) error {
	raw, err := state.Checkpoint{Stage: stage, State: *st}.Marshal()
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	session.Checkpoint = raw
	return w.save(ctx, session)
}

func (w *workflowService) save(ctx context.Context, session *entity.ResearchSession) error {
	session.UpdatedAt = time.Now()
	if err := w.uowFactory.NewUnitOfWork(ctx).ResearchSessionRepository().Update(ctx, session); err != nil {
		if errors.Is(err, contract.ErrSessionNotActive) {
			return err
		}
		return fmt.Errorf("update session: %w", err)
	}

	w.notify(ctx, session)
	return nil
}

// executeStage runs one node. Only persistence errors and panics come back as errors.
func (w *workflowService) executeStage(ctx context.Context, session *entity.ResearchSession, stage state.Stage, st *state.PipelineState) (delta state.PipelineState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s panicked: %v", stage, r)
		}
	}()

	p := w.pipeline
	switch stage {
	case state.StageInitializing:

	case state.StageIntent:
		delta.Intent = p.Intent.Parse(ctx, st.UserInput)

	case state.StagePlanning:
		delta.Plan = p.Planner.Plan(ctx, st.Intent)

	case state.StageAgents:
		var selected []state.AgentName
		if st.Plan != nil {
			selected = st.Plan.SelectedAgents
		}
		outputs := p.Agents.Run(ctx, selected, st.UserInput)
		if outputs == nil {
			outputs = []state.AgentOutput{}
		}
		delta.AgentOutputs = outputs

	case state.StageIngestion:
		docs := IngestionDocuments(st.AgentOutputs)
		stored, err := p.Store.AddDocuments(ctx, docs, st.UserId)
		if err != nil {
			w.logger.Warn(workflowModule, "Ingestion failed, continuing", map[string]interface{}{"error": err.Error()})
		}
		w.logger.Info(workflowModule, "Raw documents ingested", map[string]interface{}{"documents": len(docs), "chunks": stored})
		delta.RawDocsCount = state.IntPtr(len(docs))

	case state.StageRetrieval:
		delta.RetrievedDocs = nonNil(p.Store.Search(ctx, st.UserInput, w.cfg.RetrievalK, st.UserId))

	case state.StageReranking:
		delta.RerankedDocs = nonNil(p.Store.Rerank(ctx, st.UserInput, st.RetrievedDocs))

	case state.StageSummarization:
		delta.Summary = state.StringPtr(p.Summarizer.Summarize(ctx, st.RerankedDocs))

	case state.StageStrategy:
		var contexts []string
		if st.Summary != nil {
			contexts = []string{*st.Summary}
		}
		delta.Strategy = p.Strategy.Synthesize(ctx, st.UserInput, contexts)

	case state.StageReportBuild:
		md, groups := report.Build(st)
		delta.FinalReport = state.StringPtr(md)
		delta.AgentGroups = groups

	case state.StagePersist:
		id, err := w.persistReport(ctx, session.SessionId, st)
		if err != nil {
			return delta, err
		}
		delta.ReportId = state.IntPtr(id)

	case state.StageRAGReingest:
		w.reingest(ctx, session.SessionId, st)

	default:
		return delta, fmt.Errorf("unknown stage %q", stage)
	}
	return delta, nil
}

// persistReport saves the report once per session. A run resumed after the insert but before
// its checkpoint gets the already saved id back.
func (w *workflowService) persistReport(ctx context.Context, sessionId string, st *state.PipelineState) (int, error) {
	repo := w.uowFactory.NewUnitOfWork(ctx).ReportRepository()
	if sessionId != "" {
		existing, err := repo.FindBySessionID(ctx, sessionId)
		if err != nil {
			return 0, fmt.Errorf("look up report for session: %w", err)
		}
		if existing != nil {
			w.logger.Info(workflowModule, "Report already saved for session", map[string]interface{}{"session_id": sessionId, "report_id": existing.Id})
			return existing.Id, nil
		}
	}

	resultJson, err := json.Marshal(st)
	if err != nil {
		return 0, fmt.Errorf("encode pipeline state: %w", err)
	}

	md := report.NoStrategy
	if st.FinalReport != nil {
		md = *st.FinalReport
	}

	r := &entity.Report{
		SessionId:  sessionId,
		Idea:       st.UserInput,
		UserId:     st.UserId,
		ResultJson: resultJson,
		ReportMd:   md,
		CreatedAt:  time.Now(),
	}
	if err := repo.CreateWithNextID(ctx, r); err != nil {
		return 0, fmt.Errorf("save report: %w", err)
	}

	w.logger.Info(workflowModule, "Report saved", map[string]interface{}{"report_id": r.Id})
	return r.Id, nil
}

// reingest indexes the finished report so chat can retrieve it later.
func (w *workflowService) reingest(ctx context.Context, sessionId string, st *state.PipelineState) {
	if st.FinalReport == nil {
		return
	}
	meta := map[string]interface{}{
		"source":     "report",
		"idea":       st.UserInput,
		"user_id":    st.UserId,
		"session_id": sessionId,
	}
	if st.ReportId != nil {
		meta["report_id"] = *st.ReportId
	}

	doc := rag.Document{Content: *st.FinalReport, Metadata: meta}
	if _, err := w.pipeline.Store.AddDocuments(ctx, []rag.Document{doc}, st.UserId); err != nil {
		w.logger.Warn(workflowModule, "Report re-ingestion failed", map[string]interface{}{"error": err.Error()})
	}
}

func (w *workflowService) complete(ctx context.Context, session *entity.ResearchSession, st *state.PipelineState) error {
	session.Status = entity.SessionStatusCompleted
	session.Stage = string(state.StageCompleted)
	session.CurrentStep = state.StageCompleted.Label()
	session.ResultId = st.ReportId
	session.Logs = append(session.Logs, state.StageCompleted.Label())

	if err := w.save(ctx, session); err != nil {
		return w.abort(ctx, session, state.StageCompleted, err)
	}

	reportId := -1
	if st.ReportId != nil {
		reportId = *st.ReportId
	}
	w.emit(ctx, events.NewResearchCompleted(session.SessionId, session.UserId, reportId))
	w.logger.Info(workflowModule, "Research completed", map[string]interface{}{"session_id": session.SessionId, "report_id": reportId})
	return nil
}

// abort ends the run after err. A session finished elsewhere is left alone and a cancelled
// context leaves it processing for Resume.
func (w *workflowService) abort(ctx context.Context, session *entity.ResearchSession, stage state.Stage, err error) error {
	switch {
	case errors.Is(err, contract.ErrSessionNotActive):
		w.logger.Warn(workflowModule, "Session finished by another writer", map[string]interface{}{"session_id": session.SessionId})
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	}

	w.fail(ctx, session, stage, err)
	return err
}

func (w *workflowService) fail(ctx context.Context, session *entity.ResearchSession, stage state.Stage, cause error) {
	w.logger.Error(workflowModule, "Research failed", map[string]interface{}{
		"session_id": session.SessionId,
		"stage":      string(stage),
		"error":      cause.Error(),
	})

	session.Status = entity.SessionStatusFailed
	session.Stage = string(state.StageFailed)
	session.CurrentStep = state.StageFailed.Label()
	session.Error = cause.Error()
	session.Logs = append(session.Logs, fmt.Sprintf("%s: %s", state.StageFailed.Label(), cause.Error()))

	if err := w.save(ctx, session); err != nil {
		w.logger.Error(workflowModule, "Could not record failure", map[string]interface{}{"session_id": session.SessionId, "error": err.Error()})
	}
	w.emit(ctx, events.NewResearchFailed(session.SessionId, session.UserId, cause.Error()))
}

func (w *workflowService) Resume(ctx context.Context) (int, error) {
	sessions, err := w.uowFactory.NewUnitOfWork(ctx).ResearchSessionRepository().FindAllProcessing(ctx)
	if err != nil {
		return 0, fmt.Errorf("list processing sessions: %w", err)
	}

	var g errgroup.Group
	for _, s := range sessions {
		msg := dto.PublishResearchMessage{Query: s.Query, SessionId: s.SessionId, UserId: s.UserId}
		g.Go(func() error {
			if err := w.Execute(ctx, msg); err != nil {
				w.logger.Error(workflowModule, "Resumed session failed", map[string]interface{}{"session_id": msg.SessionId, "error": err.Error()})
			}
			return nil
		})
	}
	_ = g.Wait()
	return len(sessions), nil
}

func (w *workflowService) notify(ctx context.Context, session *entity.ResearchSession) {
	if w.progress == nil {
		return
	}
	w.progress.Publish(ctx, dto.ProgressMessage{
		SessionId: session.SessionId,
		Status:    string(session.Status),
		Step:      session.CurrentStep,
		Stage:     session.Stage,
		ResultId:  session.ResultId,
	})
}

func (w *workflowService) emit(ctx context.Context, event events.Event) {
	if w.events == nil {
		return
	}
	if err := w.events.Publish(ctx, event); err != nil {
		w.logger.Warn(workflowModule, "Event publish failed", map[string]interface{}{"event": event.EventType(), "error": err.Error()})
	}
}

// IngestionDocuments turns agent outputs into documents for the vector store: the
// structured result of each agent plus every raw search snippet keyed by its URL.
func IngestionDocuments(outputs []state.AgentOutput) []rag.Document {
	var docs []rag.Document
	for _, out := range outputs {
		if out.Analysis != nil {
			if raw, err := json.Marshal(out.Analysis); err == nil {
				docs = append(docs, rag.Document{Content: string(raw), Metadata: map[string]interface{}{"source": "competitor-scout"}})
			}
		}
		var summary interface{}
		switch {
		case out.Trends != nil:
			summary = out.Trends
		case out.Papers != nil:
			summary = out.Papers
		}
		if summary != nil {
			if raw, err := json.Marshal(summary); err == nil {
				docs = append(docs, rag.Document{Content: string(raw), Metadata: map[string]interface{}{"source": "trend-or-paper"}})
			}
		}
		for _, r := range out.SearchResults {
			if strings.TrimSpace(r.Content) == "" {
				continue
			}
			docs = append(docs, rag.Document{Content: r.Content, Metadata: map[string]interface{}{"source": r.URL}})
		}
	}
	return docs
}

func nonNil(docs []rag.Document) []rag.Document {
	if docs == nil {
		return []rag.Document{}
	}
	return docs
}
