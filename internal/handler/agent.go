package handler

import (
	"net/http"

	"stockatelier/internal/agent"
	"stockatelier/internal/apierror"
	"stockatelier/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AgentHandler bridges "open in CAD" requests to the desktop agent. The
// guarantee is strictly best-effort: one call, one answer, no retries.
type AgentHandler struct {
	client   *agent.Client
	registry *agent.Registry
	opener   *agent.LocalOpener
	agentURL string
}

func NewAgentHandler(client *agent.Client, registry *agent.Registry, opener *agent.LocalOpener, agentURL string) *AgentHandler {
	return &AgentHandler{client: client, registry: registry, opener: opener, agentURL: agentURL}
}

func (h *AgentHandler) Status(c *gin.Context) {
	info, err := h.client.Status(c.Request.Context())
	if err != nil {
		log.Debug().Err(err).Msg("agent status probe failed")
		c.JSON(http.StatusOK, dto.AgentStatusResponse{
			Connected: false,
			Error:     "CAD agent not connected",
		})
		return
	}
	c.JSON(http.StatusOK, dto.AgentStatusResponse{
		Connected: true,
		Agent:     info,
		URL:       h.agentURL,
	})
}

func (h *AgentHandler) OpenSolidworks(c *gin.Context) {
	var req dto.OpenFileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ack, err := h.client.Open(c.Request.Context(), req.FilePath)
	if err != nil {
		log.Warn().Err(err).Uint("machine_id", req.MachineID).Msg("agent open failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "could not open the file — is the local agent running?",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "file opened in CAD application",
		"details": ack,
	})
}

func (h *AgentHandler) Register(c *gin.Context) {
	var req dto.AgentRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.registry.Register(req.AgentID, req.Hostname)
	log.Info().Str("agent_id", req.AgentID).Str("hostname", req.Hostname).Msg("agent registered")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "agent registered"})
}

func (h *AgentHandler) Heartbeat(c *gin.Context) {
	var req dto.AgentHeartbeatRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.registry.Heartbeat(req.AgentID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// OpenLocal is the flag-gated fallback for single-machine deployments where
// the server runs on the operator's own workstation.
func (h *AgentHandler) OpenLocal(c *gin.Context) {
	var req dto.OpenFileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.opener.Open(c.Request.Context(), req.FilePath); err != nil {
		if err == agent.ErrLocalOpenDisabled {
			c.JSON(http.StatusNotFound, apierror.New("local open is not enabled on this server"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("could not open the file"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file opened"})
}
