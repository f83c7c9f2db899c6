package agent

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// agentTTL is how long an agent stays "connected" without a heartbeat.
const agentTTL = 60 * time.Second

// Info is an agent's self-registration record.
type Info struct {
	AgentID  string    `json:"agentId"`
	Hostname string    `json:"hostname"`
	LastSeen time.Time `json:"lastSeen"`
}

// Registry tracks which desktop agents have recently checked in. Entries
// expire on their own; a silent agent simply drops off the list.
type Registry struct {
	entries *cache.Cache
}

func NewRegistry() *Registry {
	return &Registry{entries: cache.New(agentTTL, 2*agentTTL)}
}

// Register records (or refreshes) an agent.
func (r *Registry) Register(agentID, hostname string) {
	r.entries.Set(agentID, Info{
		AgentID:  agentID,
		Hostname: hostname,
		LastSeen: time.Now(),
	}, agentTTL)
}

// Heartbeat refreshes an agent's TTL. Unknown agents are ignored; they must
// register first.
func (r *Registry) Heartbeat(agentID string) bool {
	v, found := r.entries.Get(agentID)
	if !found {
		return false
	}
	info := v.(Info)
	info.LastSeen = time.Now()
	r.entries.Set(agentID, info, agentTTL)
	return true
}

// Connected lists agents seen within the TTL window.
func (r *Registry) Connected() []Info {
	items := r.entries.Items()
	out := make([]Info, 0, len(items))
	for _, it := range items {
		out = append(out, it.Object.(Info))
	}
	return out
}
