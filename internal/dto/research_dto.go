package dto

type StartResearchRequest struct {
	Query     string `json:"query" validate:"required"`
	UserId    string `json:"user_id"`
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
}

type StartResearchResponse struct {
	SessionId   string `json:"session_id"`
	Status      string `json:"status"`
	CurrentStep string `json:"current_step"`
}

type ResearchStatusResponse struct {
	SessionId   string   `json:"sessionId"`
	Status      string   `json:"status"`
	CurrentStep string   `json:"currentStep"`
	Stage       string   `json:"stage"`
	ResultId    *int     `json:"resultId"`
	Error       string   `json:"error,omitempty"`
	Logs        []string `json:"logs"`
}

// PublishResearchMessage is the trigger event carried on the workflow topic.
type PublishResearchMessage struct {
	Query     string `json:"query"`
	SessionId string `json:"sessionId"`
	UserId    string `json:"userId,omitempty"`
}

// ProgressMessage is pushed to websocket subscribers after every stage.
type ProgressMessage struct {
	SessionId string `json:"session_id"`
	Status    string `json:"status"`
	Step      string `json:"step"`
	Stage     string `json:"stage"`
	ResultId  *int   `json:"result_id,omitempty"`
}
