package history

import (
	"fmt"
	"time"

	"github.com/mrdunski/subscription-updater/workspace"
)

type Cmd struct {
	workspace.Workspace
	Last int `help:"Show only the newest records (all when 0)." default:"0"`
}

func (c Cmd) Run() error {
	records, err := c.Journal().Load()
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	if c.Last > 0 && len(records) > c.Last {
		records = records[len(records)-c.Last:]
	}
	for _, record := range records {
		state := "pushed"
		if !record.Pushed {
			state = "local"
		}
		fmt.Printf("%s %-11s %-6s %s %s\n", record.Time.Format(time.RFC3339), record.Trigger, state, record.Hash, record.Message)
	}

	return nil
}
