package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Identity names the player installation and the current run.
type Identity struct {
	UserID    string
	SessionID string
}

// LoadIdentity reads the persisted user id from dir/user_id, creating a new
// one when the file is missing or unreadable. Every call starts a new
// session id.
func LoadIdentity(dir string) (Identity, error) {
	id := Identity{SessionID: uuid.NewString()}
	path := filepath.Join(dir, "user_id")

	if data, err := os.ReadFile(path); err == nil {
		if u, err := uuid.Parse(strings.TrimSpace(string(data))); err == nil {
			id.UserID = u.String()
			return id, nil
		}
	}

	id.UserID = uuid.NewString()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return id, fmt.Errorf("telemetry: cannot create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(id.UserID+"\n"), 0o600); err != nil {
		return id, fmt.Errorf("telemetry: cannot persist user id: %w", err)
	}
	return id, nil
}
