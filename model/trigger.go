package model

import (
	"fmt"
	"strings"
	"time"
)

type TriggerKind string

const (
	FileChange TriggerKind = "file-change"
	Schedule   TriggerKind = "schedule"
	Manual     TriggerKind = "manual"
)

func ParseTriggerKind(value string) (TriggerKind, error) {
	switch kind := TriggerKind(value); kind {
	case FileChange, Schedule, Manual:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown trigger kind %q", value)
	}
}

// Trigger is the event which starts one update cycle.
type Trigger struct {
	Kind         TriggerKind
	Time         time.Time
	Paths        []string
	BlockedUsers string
	FastMode     bool
}

func FileChanged(at time.Time, fast bool, paths ...string) Trigger {
	return Trigger{Kind: FileChange, Time: at, Paths: paths, FastMode: fast}
}

func ScheduledTick(at time.Time) Trigger {
	return Trigger{Kind: Schedule, Time: at}
}

func ManualRun(at time.Time, blockedUsers string, fast bool) Trigger {
	return Trigger{Kind: Manual, Time: at, BlockedUsers: blockedUsers, FastMode: fast}
}

// BlockedUserList returns identifiers of a manual trigger in the given order.
// Other trigger kinds never carry a list.
func (t Trigger) BlockedUserList() []string {
	if t.Kind != Manual {
		return nil
	}

	var result []string
	for _, id := range strings.Split(t.BlockedUsers, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			result = append(result, id)
		}
	}

	return result
}

func (t Trigger) String() string {
	switch t.Kind {
	case FileChange:
		return fmt.Sprintf("{%s: %v fast=%t}", t.Kind, t.Paths, t.FastMode)
	case Manual:
		return fmt.Sprintf("{%s: blocked_users=%q fast=%t}", t.Kind, t.BlockedUsers, t.FastMode)
	default:
		return fmt.Sprintf("{%s: %s}", t.Kind, t.Time.Format(time.RFC3339))
	}
}
