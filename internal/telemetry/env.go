package telemetry

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys read by LoadSettings.
const (
	EnvURL       = "BIRDS_TELEMETRY_URL"
	EnvDisabled  = "BIRDS_TELEMETRY_DISABLED"
	EnvQueueSize = "BIRDS_TELEMETRY_QUEUE"
)

// Settings selects where telemetry goes.
type Settings struct {
	URL       string // websocket collector, empty for local only
	Disabled  bool   // skip the collector, sqlite still records
	QueueSize int
}

// LoadSettings reads the .env files (missing files are fine), then lets the
// process environment override them.
func LoadSettings(files ...string) (Settings, error) {
	vals := map[string]string{}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Settings{}, err
		}
		for k, v := range m {
			vals[k] = v
		}
	}
	for _, k := range []string{EnvURL, EnvDisabled, EnvQueueSize} {
		if v, ok := os.LookupEnv(k); ok {
			vals[k] = v
		}
	}

	s := Settings{URL: strings.TrimSpace(vals[EnvURL])}
	if v := vals[EnvDisabled]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s, errors.New("telemetry: " + EnvDisabled + " must be a boolean")
		}
		s.Disabled = b
	}
	if v := vals[EnvQueueSize]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return s, errors.New("telemetry: " + EnvQueueSize + " must be a positive integer")
		}
		s.QueueSize = n
	}
	return s, nil
}
