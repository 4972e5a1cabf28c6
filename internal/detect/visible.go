package detect

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Environment variables through which schedulers restrict the devices of a job.
const (
	cudaVisibleDevices = "CUDA_VISIBLE_DEVICES"
	rocrVisibleDevices = "ROCR_VISIBLE_DEVICES"
)

// visibleDevices returns the entries of the restriction variable env, or nil when it is unset.
func visibleDevices(env string) []string {
	value, ok := os.LookupEnv(env)
	if !ok {
		return nil
	}
	log.Tracef("%s=%q", env, value)

	entries := strings.Split(value, ",")
	for i := range entries {
		entries[i] = strings.TrimSpace(entries[i])
	}
	return entries
}

// isVisible reports whether any of a device's identifiers (its index, its uuid) is listed in
// visible. A nil list makes every device visible; an empty entry matches nothing.
func isVisible(visible []string, ids ...string) bool {
	if visible == nil {
		return true
	}
	for _, entry := range visible {
		for _, id := range ids {
			if id != "" && entry == id {
				return true
			}
		}
	}
	return false
}
