package actions

import (
	"encoding/json"
	"fmt"
	"time"
)

// State is a step of the sync state machine.
type State uint32

const (
	StateIdle State = iota
	StateConfigLoaded
	StateDependenciesChecked
	StateConnectionsVerified
	StateLocked
	StateTableInspected
	StateAppended
	StateCreatedAndIndexed
	StateStatisticsUpdated
	StateDone
	StateFailed
)

var stateNames = []string{
	"Idle",
	"ConfigLoaded",
	"DependenciesChecked",
	"ConnectionsVerified",
	"Locked",
	"TableInspected",
	"Appended",
	"CreatedAndIndexed",
	"StatisticsUpdated",
	"Done",
	"Failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

func (s State) MarshalJSON() ([]byte, error) {
	if int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unhandled State value %v in custom MarshalJSON() conversion", uint32(s))
	}
	return json.Marshal(s.String())
}

// RunStatus is the summary logged at the end of every run.
type RunStatus struct {
	RunId     string    `json:"runId"`
	Job       string    `json:"job"`
	Mode      string    `json:"mode,omitempty"`
	State     State     `json:"state"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Rows      int64     `json:"rows"`
	Error     string    `json:"error,omitempty"`
}

// plainRunStatus has no String method so it can be printed with %+v.
type plainRunStatus RunStatus

func (r RunStatus) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", plainRunStatus(r))
	}
	return string(b)
}
