// Where: cli/internal/infra/zipdeploy/status.go
// What: Deployment status values reported by the SCM endpoint.
package zipdeploy

import (
	"strconv"
	"strings"
)

// Status is the Kudu deployment status.
type Status int

const (
	StatusUnknown   Status = -1
	StatusPending   Status = 0
	StatusBuilding  Status = 1
	StatusDeploying Status = 2
	StatusFailed    Status = 3
	StatusSuccess   Status = 4
)

var statusNames = map[Status]string{
	StatusUnknown:   "Unknown",
	StatusPending:   "Pending",
	StatusBuilding:  "Building",
	StatusDeploying: "Deploying",
	StatusFailed:    "Failed",
	StatusSuccess:   "Success",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return strconv.Itoa(int(s))
}

// Terminal reports whether polling stops at this status.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusUnknown
}

// parseStatus accepts the numeric or named form; JSON numbers arrive as float64.
func parseStatus(raw any) (Status, bool) {
	switch v := raw.(type) {
	case float64:
		s := Status(int(v))
		_, ok := statusNames[s]
		return s, ok
	case string:
		v = strings.TrimSpace(v)
		if n, err := strconv.Atoi(v); err == nil {
			s := Status(n)
			_, ok := statusNames[s]
			return s, ok
		}
		for s, name := range statusNames {
			if strings.EqualFold(name, v) {
				return s, true
			}
		}
	}
	return StatusUnknown, false
}
