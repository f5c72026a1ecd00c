package instance

import "os"

// GetID identifies this api process in logs. FERREMAS_INSTANCE_ID wins, then
// the platform dyno name, then the hostname.
func GetID() string {
	for _, key := range []string{"FERREMAS_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
