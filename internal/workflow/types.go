package workflow

import (
	"strings"
	"time"
)

// Agent is one simulated analysis role.
type Agent string

const (
	AgentOrchestration Agent = "orchestration"
	AgentClinical      Agent = "clinical"
	AgentWeb           Agent = "web"
	AgentPatent        Agent = "patent"
	AgentMarket        Agent = "market"
	AgentInternal      Agent = "internal"
)

// Agents lists every agent in execution order.
var Agents = []Agent{
	AgentOrchestration,
	AgentClinical,
	AgentWeb,
	AgentPatent,
	AgentMarket,
	AgentInternal,
}

var agentNames = map[Agent]string{
	AgentOrchestration: "Master Orchestration Agent",
	AgentClinical:      "Clinical Trials Agent",
	AgentWeb:           "Web Intelligence Agent",
	AgentPatent:        "Patent Landscape Agent",
	AgentMarket:        "IQVIA Insights Agent",
	AgentInternal:      "Internal Knowledge Agent",
}

// DisplayName is the label shown in the processing list.
func (a Agent) DisplayName() string {
	if name, ok := agentNames[a]; ok {
		return name
	}
	return string(a)
}

// Ordinal is the agent's position in Agents, or -1.
func (a Agent) Ordinal() int {
	for i, agent := range Agents {
		if agent == a {
			return i
		}
	}
	return -1
}

// Status is an agent's progress through a run.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
)

// Label is the tag text rendered next to an agent.
func (s Status) Label() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusDone:
		return "Completed"
	default:
		return "Queued"
	}
}

// next is the only status s may move to.
func (s Status) next() Status {
	switch s {
	case StatusPending:
		return StatusRunning
	case StatusRunning:
		return StatusDone
	default:
		return ""
	}
}

// View is the top-level phase.
type View string

const (
	ViewInput      View = "input"
	ViewProcessing View = "processing"
	ViewResults    View = "results"
)

// Tab identifies a results tab.
type Tab string

const (
	TabSummary        Tab = "summary"
	TabEvidence       Tab = "evidence"
	TabFeasibility    Tab = "feasibility"
	TabRecommendation Tab = "recommendation"
)

// Tabs lists the results tabs in display order.
var Tabs = []Tab{TabSummary, TabEvidence, TabFeasibility, TabRecommendation}

// Title is the capitalised tab label.
func (t Tab) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (t Tab) valid() bool {
	for _, tab := range Tabs {
		if tab == t {
			return true
		}
	}
	return false
}

// Mode is the analysis mode chosen before a run.
type Mode string

const (
	ModeGeneral  Mode = "General"
	ModeClinical Mode = "Clinical"
	ModePatent   Mode = "Patent"
	ModeMarket   Mode = "Market"
)

// Modes lists the selectable analysis modes.
var Modes = []Mode{ModeGeneral, ModeClinical, ModePatent, ModeMarket}

// Geography is the market a run targets.
type Geography string

const GeographyIndia Geography = "India"

// Geographies lists the selectable geographies.
var Geographies = []Geography{GeographyIndia}

// ParseMode matches s exactly against Modes.
func ParseMode(s string) (Mode, bool) {
	for _, mode := range Modes {
		if string(mode) == s {
			return mode, true
		}
	}
	return "", false
}

// ParseGeography matches s exactly against Geographies.
func ParseGeography(s string) (Geography, bool) {
	for _, geo := range Geographies {
		if string(geo) == s {
			return geo, true
		}
	}
	return "", false
}

// RunConfig is the selection frozen when a run starts.
type RunConfig struct {
	Mode      Mode
	Geography Geography
}

// DefaultRunConfig is the selection the input view starts with.
func DefaultRunConfig() RunConfig {
	return RunConfig{Mode: ModeGeneral, Geography: GeographyIndia}
}

// AgentState pairs an agent with its status for ordered rendering.
type AgentState struct {
	Agent  Agent
	Status Status
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	View      View
	Tab       Tab
	Agents    []AgentState
	Config    *RunConfig
	RunID     string
	StartedAt time.Time
}

// Status returns the status recorded for agent in the snapshot.
func (s Snapshot) Status(agent Agent) Status {
	for _, st := range s.Agents {
		if st.Agent == agent {
			return st.Status
		}
	}
	return StatusPending
}
