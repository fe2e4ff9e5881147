package domain

type PodStatus string

const (
	PodRunning PodStatus = "running"
	PodStopped PodStatus = "stopped"
	PodInvalid PodStatus = "invalid"
)

// Pod is the subset of the cloud API's pod object the CLI cares about.
type Pod struct {
	ID            string   `json:"id"`
	DesiredStatus string   `json:"desiredStatus"`
	Runtime       *Runtime `json:"runtime,omitempty"`
}

type Runtime struct {
	Ports []PortMapping `json:"ports"`
}

type PortMapping struct {
	IP          string `json:"ip"`
	PrivatePort int    `json:"privatePort"`
	PublicPort  int    `json:"publicPort"`
	IsIPPublic  bool   `json:"isIpPublic"`
}

// Status collapses the API's desiredStatus into the coarse states the CLI
// shows: RUNNING is running, everything else known is stopped.
func (p Pod) Status() PodStatus {
	if p.ID == "" {
		return PodInvalid
	}
	if p.DesiredStatus == "RUNNING" {
		return PodRunning
	}
	return PodStopped
}

// SSHEndpoint returns the public ip/port that maps to the pod's sshd, if the
// runtime has one.
func (p Pod) SSHEndpoint() (string, int, bool) {
	if p.Runtime == nil {
		return "", 0, false
	}
	for _, port := range p.Runtime.Ports {
		if port.PrivatePort == 22 && port.IsIPPublic {
			return port.IP, port.PublicPort, true
		}
	}
	return "", 0, false
}
