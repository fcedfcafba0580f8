package state

type Stage string

const (
	StageInitializing  Stage = "initializing"
	StageIntent        Stage = "intent"
	StagePlanning      Stage = "planning"
	StageAgents        Stage = "agents"
	StageIngestion     Stage = "ingestion"
	StageRetrieval     Stage = "retrieval"
	StageReranking     Stage = "reranking"
	StageSummarization Stage = "summarization"
	StageStrategy      Stage = "strategy"
	StageReportBuild   Stage = "report-build"
	StagePersist       Stage = "persist"
	StageRAGReingest   Stage = "rag-reingest"
	StageCompleted     Stage = "completed"
	StageFailed        Stage = "failed"
)

var stageOrder = []Stage{
	StageInitializing,
	StageIntent,
	StagePlanning,
	StageAgents,
	StageIngestion,
	StageRetrieval,
	StageReranking,
	StageSummarization,
	StageStrategy,
	StageReportBuild,
	StagePersist,
	StageRAGReingest,
	StageCompleted,
}

var stageLabels = map[Stage]string{
	StageInitializing:  "Initializing Research Workflow...",
	StageIntent:        "Analyzing Intent...",
	StagePlanning:      "Planning Research Agents...",
	StageAgents:        "Running Autonomous Agents...",
	StageIngestion:     "Ingesting Research Data...",
	StageRetrieval:     "Retrieving Relevant Context...",
	StageReranking:     "Reranking Documents...",
	StageSummarization: "Summarizing Findings...",
	StageStrategy:      "Formulating Strategy...",
	StageReportBuild:   "Finalizing Report...",
	StagePersist:       "Saving Report...",
	StageRAGReingest:   "Indexing Report for Chat...",
	StageCompleted:     "Research Completed",
	StageFailed:        "Research Failed",
}

// Stages returns every non-terminal-failure stage in execution order.
func Stages() []Stage {
	return append([]Stage(nil), stageOrder...)
}

// Label is the human readable step shown to polling clients.
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// Next returns the stage after s. Completed, failed and unknown stages have no successor.
func (s Stage) Next() (Stage, bool) {
	for i, st := range stageOrder {
		if st == s && i+1 < len(stageOrder) {
			return stageOrder[i+1], true
		}
	}
	return "", false
}
