package orchestrator

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

// State is the coarse lifecycle state reported for a container.
type State string

const (
	StateRunning    State = "running"
	StateExited     State = "exited"
	StateCreated    State = "created"
	StatePaused     State = "paused"
	StateRestarting State = "restarting"
	StateOther      State = "other"
)

// States lists every state in display order.
var States = []State{StateRunning, StateExited, StateCreated, StatePaused, StateRestarting, StateOther}

// ParseState maps a backend state string onto the known states. Anything the
// dashboard does not model (dead, removing, empty) becomes StateOther.
func ParseState(value string) State {
	switch s := State(strings.ToLower(strings.TrimSpace(value))); s {
	case StateRunning, StateExited, StateCreated, StatePaused, StateRestarting:
		return s
	default:
		return StateOther
	}
}

// UnmarshalJSON normalizes the wire value through ParseState.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseState(raw)
	return nil
}

// Action is a lifecycle command accepted by the backend.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionDelete  Action = "delete"
)

// Actions lists the lifecycle actions in menu order.
var Actions = []Action{ActionStart, ActionStop, ActionRestart, ActionDelete}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionStart, ActionStop, ActionRestart, ActionDelete:
		return true
	}
	return false
}

// PastTense returns the verb used in completion messages.
func (a Action) PastTense() string {
	switch a {
	case ActionStart:
		return "started"
	case ActionStop:
		return "stopped"
	case ActionRestart:
		return "restarted"
	case ActionDelete:
		return "deleted"
	}
	return string(a) + "ed"
}

// ContainerListResponse mirrors /api/containers.
type ContainerListResponse struct {
	Containers []Container `json:"containers"`
}

// Container is one fleet member as reported by the backend. Snapshots are
// replaced wholesale on every poll; FullID is the identity.
type Container struct {
	ShortID      string   `json:"id"`
	FullID       string   `json:"full_id"`
	Image        string   `json:"image"`
	State        State    `json:"state"`
	Status       string   `json:"status"`
	Names        []string `json:"names"`
	URL          string   `json:"url"`
	TenantID     string   `json:"tenant_id"`
	TemplateID   string   `json:"template_id"`
	TemplateName string   `json:"template_name"`
}

// DisplayID returns the short id, deriving it from FullID when the backend
// omitted it.
func (c Container) DisplayID() string {
	if id := strings.TrimSpace(c.ShortID); id != "" {
		return id
	}
	return ShortID(c.FullID)
}

// ShortID truncates a full container id to the 12 characters docker shows.
func ShortID(fullID string) string {
	runes := []rune(strings.TrimSpace(fullID))
	if len(runes) <= 12 {
		return string(runes)
	}
	return string(runes[:12])
}

// TemplateListResponse mirrors /api/templates.
type TemplateListResponse struct {
	Templates []Template `json:"templates"`
}

// Template is a launchable configuration.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Port        string `json:"port"`
}

// LaunchRequest is the body of POST /api/launch.
type LaunchRequest struct {
	Template string `json:"template"`
}

// LaunchResult mirrors the launch response.
type LaunchResult struct {
	Message     string   `json:"message"`
	ContainerID string   `json:"container_id"`
	TenantID    string   `json:"tenant_id"`
	URL         string   `json:"url"`
	Template    Template `json:"template"`
}

// LogsResponse mirrors /api/containers/{id}/logs.
type LogsResponse struct {
	Logs        string `json:"logs"`
	ContainerID string `json:"container_id"`
}

// InspectResponse mirrors /api/containers/{id}/inspect.
type InspectResponse struct {
	Details     Details `json:"details"`
	ContainerID string  `json:"container_id"`
}

// Details is the simplified inspect payload served by the backend. Nested
// objects keep docker's own field names.
type Details struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Created         string            `json:"created"`
	Path            string            `json:"path"`
	Args            []string          `json:"args"`
	Image           string            `json:"image"`
	Platform        string            `json:"platform"`
	Driver          string            `json:"driver"`
	RestartCount    int               `json:"restart_count"`
	LogPath         string            `json:"log_path"`
	State           *ContainerState   `json:"state"`
	Config          *container.Config `json:"config"`
	Mounts          []Mount           `json:"mounts"`
	NetworkSettings *NetworkSettings  `json:"network_settings"`
}

// ContainerState is the subset of docker's inspect state the dashboard shows.
type ContainerState struct {
	Status     string `json:"Status"`
	Running    bool   `json:"Running"`
	Paused     bool   `json:"Paused"`
	Restarting bool   `json:"Restarting"`
	OOMKilled  bool   `json:"OOMKilled"`
	Dead       bool   `json:"Dead"`
	Pid        int    `json:"Pid"`
	ExitCode   int    `json:"ExitCode"`
	Error      string `json:"Error"`
	StartedAt  string `json:"StartedAt"`
	FinishedAt string `json:"FinishedAt"`
}

// Mount is a volume or bind mount attached to the container.
type Mount struct {
	Type        string `json:"Type"`
	Name        string `json:"Name"`
	Source      string `json:"Source"`
	Destination string `json:"Destination"`
	RW          bool   `json:"RW"`
}

// NetworkSettings holds attached networks and published ports.
type NetworkSettings struct {
	Ports    nat.PortMap                `json:"Ports"`
	Networks map[string]NetworkEndpoint `json:"Networks"`
}

// NetworkEndpoint is one attached network.
type NetworkEndpoint struct {
	IPAddress string `json:"IPAddress"`
	Gateway   string `json:"Gateway"`
}

// CreatedAt parses the Created timestamp.
func (d Details) CreatedAt() time.Time {
	return parseTime(d.Created)
}

// StartedAt parses the state's StartedAt timestamp.
func (d Details) StartedAt() time.Time {
	if d.State == nil {
		return time.Time{}
	}
	return parseTime(d.State.StartedAt)
}

// ExposedPorts returns the container's exposed ports as "port/proto" strings.
func (d Details) ExposedPorts() []string {
	if d.Config == nil || len(d.Config.ExposedPorts) == 0 {
		return nil
	}
	ports := make([]nat.Port, 0, len(d.Config.ExposedPorts))
	for p := range d.Config.ExposedPorts {
		ports = append(ports, p)
	}
	nat.Sort(ports, func(a, b nat.Port) bool {
		if a.Int() != b.Int() {
			return a.Int() < b.Int()
		}
		return a.Proto() < b.Proto()
	})
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = p.Port() + "/" + p.Proto()
	}
	return out
}

// PublishedPorts returns host bindings as "port/proto -> host:port", sorted
// by container port. Unbound ports are omitted.
func (d Details) PublishedPorts() []string {
	if d.NetworkSettings == nil || len(d.NetworkSettings.Ports) == 0 {
		return nil
	}
	ports := make([]nat.Port, 0, len(d.NetworkSettings.Ports))
	for p := range d.NetworkSettings.Ports {
		ports = append(ports, p)
	}
	nat.Sort(ports, func(a, b nat.Port) bool {
		if a.Int() != b.Int() {
			return a.Int() < b.Int()
		}
		return a.Proto() < b.Proto()
	})
	var out []string
	for _, p := range ports {
		for _, binding := range d.NetworkSettings.Ports[p] {
			host := binding.HostIP
			if host == "" {
				host = "0.0.0.0"
			}
			out = append(out, p.Port()+"/"+p.Proto()+" -> "+host+":"+binding.HostPort)
		}
	}
	return out
}

// errorBody is the failure payload shared by every endpoint.
type errorBody struct {
	Error string `json:"error"`
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			// Docker reports never-started containers with the zero date.
			if t.Year() <= 1 {
				return time.Time{}
			}
			return t
		}
	}
	return time.Time{}
}
