package dto

// OpenFileRequest asks the desktop agent to open a CAD file. FilePath is only
// meaningful on the workstation running the agent.
type OpenFileRequest struct {
	FilePath  string `json:"filePath" validate:"required"`
	MachineID uint   `json:"machineId"`
}

type AgentStatusResponse struct {
	Connected bool        `json:"connected"`
	Agent     interface{} `json:"agent,omitempty"`
	URL       string      `json:"url,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type AgentRegisterRequest struct {
	AgentID  string `json:"agentId" validate:"required"`
	Hostname string `json:"hostname"`
}

type AgentHeartbeatRequest struct {
	AgentID string `json:"agentId" validate:"required"`
}
