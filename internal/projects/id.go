package projects

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID generates a project identifier from the wall clock plus a random
// suffix. Two calls within the same millisecond still produce distinct ids,
// and ids never collide across restarts the way a monotonic counter could.
func NewID() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return millis + "-" + suffix
}
