package model

import (
	"fmt"
	"time"
)

type Signature struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

// CommitRecord describes a published update. It is never changed once created.
type CommitRecord struct {
	Hash    string      `json:"hash"`
	Message string      `json:"message"`
	Author  Signature   `json:"author"`
	Time    time.Time   `json:"time"`
	Paths   []string    `json:"paths"`
	Trigger TriggerKind `json:"trigger"`
	Pushed  bool        `json:"pushed"`
}

func (c CommitRecord) String() string {
	hash := c.Hash
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return fmt.Sprintf("{%s %q files=%d pushed=%t}", hash, c.Message, len(c.Paths), c.Pushed)
}

// UpdateEnv is the input handed to the external update procedure.
type UpdateEnv struct {
	BlockedUsers string
	FastMode     bool
}
