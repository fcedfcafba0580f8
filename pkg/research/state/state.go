package state

import (
	"encoding/json"

	"inzite-research-be/pkg/rag"
)

type IntentMetadata struct {
	Industry         string   `json:"industry"`
	TargetAudience   string   `json:"target_audience"`
	ProblemStatement string   `json:"problem_statement"`
	IntentType       string   `json:"intent_type"`
	ComplexityLevel  string   `json:"complexity_level"`
	AgentTriggers    []string `json:"agent_triggers"`
	BusinessModel    string   `json:"business_model,omitempty"`
	TechKeywords     []string `json:"tech_keywords,omitempty"`
	CompetitorNames  []string `json:"competitor_names,omitempty"`
	SolutionSummary  string   `json:"solution_summary,omitempty"`
	DataNeeds        []string `json:"data_needs,omitempty"`
	RawQuery         string   `json:"raw_query,omitempty"`
	// Source is "llm" or "rules".
	Source string `json:"source"`
}

type Plan struct {
	PlanSteps      []string    `json:"plan_steps"`
	SelectedAgents []AgentName `json:"selected_agents"`
	Fallback       bool        `json:"fallback,omitempty"`
}

type MarketOpportunity struct {
	Opportunity string   `json:"opportunity"`
	Impact      string   `json:"impact"`
	Evidence    []string `json:"evidence,omitempty"`
}

type Recommendation struct {
	Area     string `json:"area"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
	Owner    string `json:"owner"`
}

type KPI struct {
	Name      string `json:"name"`
	Target    string `json:"target"`
	Rationale string `json:"rationale"`
}

// Roadmap maps phase name to steps, in the order the phases were written.
type Roadmap = OrderedMap[[]string]

type StrategyDocument struct {
	ExecutiveSummary         string              `json:"executive_summary"`
	KeyFindings              []string            `json:"key_findings"`
	MarketOpportunities      []MarketOpportunity `json:"market_opportunities"`
	RisksAndChallenges       []string            `json:"risks_and_challenges"`
	StrategicRecommendations []Recommendation    `json:"strategic_recommendations"`
	SuggestedKPIs            []KPI               `json:"suggested_kpis"`
	Roadmap                  Roadmap             `json:"roadmap"`
	Fallback                 bool                `json:"fallback,omitempty"`
}

// AgentGroups maps a display heading to the raw agent output.
type AgentGroups = OrderedMap[AgentOutput]

// PipelineState accumulates every stage's output for one workflow run. Fields are only ever
// added; Merge refuses to overwrite a populated field.
type PipelineState struct {
	UserInput     string            `json:"user_input"`
	UserId        string            `json:"user_id,omitempty"`
	Intent        *IntentMetadata   `json:"intent,omitempty"`
	Plan          *Plan             `json:"plan,omitempty"`
	AgentOutputs  []AgentOutput     `json:"agent_outputs"`
	RetrievedDocs []rag.Document    `json:"retrieved_docs"`
	RerankedDocs  []rag.Document    `json:"reranked_docs"`
	Summary       *string           `json:"summary,omitempty"`
	Strategy      *StrategyDocument `json:"strategy,omitempty"`
	FinalReport   *string           `json:"final_report,omitempty"`
	AgentGroups   AgentGroups       `json:"agent_groups,omitempty"`
	RawDocsCount  *int              `json:"raw_docs_count,omitempty"`
	ReportId      *int              `json:"report_id,omitempty"`
}

// Merge copies every field set in delta into s unless s already has it. It returns the
// names of fields that were left untouched because they were already populated.
func (s *PipelineState) Merge(delta PipelineState) []string {
	var skipped []string
	keep := func(name string, isSet, incoming bool) bool {
		if !incoming {
			return false
		}
		if isSet {
			skipped = append(skipped, name)
			return false
		}
		return true
	}

	if keep("user_input", s.UserInput != "", delta.UserInput != "") {
		s.UserInput = delta.UserInput
	}
	if keep("user_id", s.UserId != "", delta.UserId != "") {
		s.UserId = delta.UserId
	}
	if keep("intent", s.Intent != nil, delta.Intent != nil) {
		s.Intent = delta.Intent
	}
	if keep("plan", s.Plan != nil, delta.Plan != nil) {
		s.Plan = delta.Plan
	}
	if keep("agent_outputs", s.AgentOutputs != nil, delta.AgentOutputs != nil) {
		s.AgentOutputs = delta.AgentOutputs
	}
	if keep("retrieved_docs", s.RetrievedDocs != nil, delta.RetrievedDocs != nil) {
		s.RetrievedDocs = delta.RetrievedDocs
	}
	if keep("reranked_docs", s.RerankedDocs != nil, delta.RerankedDocs != nil) {
		s.RerankedDocs = delta.RerankedDocs
	}
	if keep("summary", s.Summary != nil, delta.Summary != nil) {
		s.Summary = delta.Summary
	}
	if keep("strategy", s.Strategy != nil, delta.Strategy != nil) {
		s.Strategy = delta.Strategy
	}
	if keep("final_report", s.FinalReport != nil, delta.FinalReport != nil) {
		s.FinalReport = delta.FinalReport
	}
	if keep("agent_groups", s.AgentGroups != nil, delta.AgentGroups != nil) {
		s.AgentGroups = delta.AgentGroups
	}
	if keep("raw_docs_count", s.RawDocsCount != nil, delta.RawDocsCount != nil) {
		s.RawDocsCount = delta.RawDocsCount
	}
	if keep("report_id", s.ReportId != nil, delta.ReportId != nil) {
		s.ReportId = delta.ReportId
	}
	return skipped
}

// Checkpoint is what the orchestrator persists after each completed stage.
type Checkpoint struct {
	Stage Stage         `json:"stage"`
	State PipelineState `json:"state"`
}

func (c Checkpoint) Marshal() (json.RawMessage, error) {
	return json.Marshal(c)
}

func UnmarshalCheckpoint(raw json.RawMessage) (*Checkpoint, error) {
	var c Checkpoint
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// StringPtr and IntPtr help build deltas.
func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }
