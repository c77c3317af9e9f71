package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mrdunski/subscription-updater/files"
	"github.com/mrdunski/subscription-updater/journal"
	"github.com/mrdunski/subscription-updater/orchestrator"
	"github.com/mrdunski/subscription-updater/procedure"
	"github.com/mrdunski/subscription-updater/queue"
	"github.com/mrdunski/subscription-updater/repository"
)

const defaultJournal = ".git/updater-journal.log"

type Workspace struct {
	Path             string `name:"repo" env:"REPO_PATH" help:"Working tree of the subscription repository." type:"path" default:"." group:"Workspace"`
	ServerListFile   string `help:"Server list consumed by the update procedure." env:"SERVER_LIST_FILE" default:"main.txt" group:"Workspace"`
	BlockedUsersFile string `help:"Blocked users list, one identifier per line." env:"BLOCKED_USERS_FILE" default:"blocked_users.txt" group:"Workspace"`
	UsersFile        string `help:"User list consumed by the update procedure." env:"USERS_FILE" default:"users.txt" group:"Workspace"`
	JournalFile      string `help:"Journal of published commits (inside .git by default)." env:"JOURNAL_FILE" optional:"" group:"Workspace"`
}

func (c Workspace) Volume() files.Volume {
	return files.NewVolume(c.Path)
}

// TrackedFiles are the inputs whose modification should start a cycle.
func (c Workspace) TrackedFiles() []string {
	var result []string
	for _, file := range []string{c.ServerListFile, c.BlockedUsersFile, c.UsersFile} {
		if file != "" {
			result = append(result, file)
		}
	}

	return result
}

func (c Workspace) Journal() journal.Journal {
	if c.JournalFile == "" {
		return journal.Open(filepath.Join(c.Path, defaultJournal))
	}
	if filepath.IsAbs(c.JournalFile) {
		return journal.Open(c.JournalFile)
	}

	return journal.Open(filepath.Join(c.Path, c.JournalFile))
}

// RunLock guards cycles of group against other processes using this tree.
func (c Workspace) RunLock(group string) *queue.FileLock {
	name := strings.NewReplacer("/", "_", "@", "_", " ", "_").Replace(group)
	return queue.NewFileLock(filepath.Join(c.Path, ".git", "updater-"+name+".lock"))
}

func (c Workspace) OpenRepository(cfg repository.GitConfig) (*repository.Git, error) {
	repo, err := repository.Open(c.Path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository {%s}: %w", c.Path, err)
	}

	return repo, nil
}

// Orchestrator wires all collaborators of one working tree.
func (c Workspace) Orchestrator(gitCfg repository.GitConfig, scriptCfg procedure.ScriptConfig, cycleCfg orchestrator.CycleConfig) (*orchestrator.Orchestrator, error) {
	repo, err := c.OpenRepository(gitCfg)
	if err != nil {
		return nil, err
	}

	return &orchestrator.Orchestrator{
		Group:            queue.Group(cycleCfg.Workflow, repo.Branch()),
		Volume:           c.Volume(),
		BlockedUsersFile: c.BlockedUsersFile,
		Procedure:        scriptCfg.Script(c.Path),
		Repository:       repo,
		Journal:          c.Journal(),
		BlockedUsers:     scriptCfg.BlockedUsersSecret,
		MessagePrefix:    cycleCfg.CommitMessage,
	}, nil
}
