package instance

import (
	"os"

	"github.com/angelmondragon/carpenter-backend/pkg/env"
)

// GetID identifies this process in logs. CARPENTER_INSTANCE_ID wins, then the
// hostname, then a fixed fallback.
func GetID() string {
	if id := env.Get("INSTANCE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "carpenter-0"
}
