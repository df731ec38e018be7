package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResumeKey builds "<userID>/<unixMillis>-<filename>". Directory parts of the
// client supplied name are dropped.
func ResumeKey(userID uuid.UUID, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "resume"
	}
	return fmt.Sprintf("%s/%d-%s", userID, at.UnixMilli(), name)
}

// DisplayName recovers the client filename from a key built by ResumeKey.
func DisplayName(key string) string {
	base := path.Base(key)
	if i := strings.Index(base, "-"); i > 0 {
		return base[i+1:]
	}
	return base
}
