package attachment

import (
	"path"
	"regexp"
	"strings"
)

var unsafeFilenameRunes = regexp.MustCompile(`[^A-Za-z0-9.\-]+`)

// SanitizeFilename strips any path components from the name (both slash
// conventions) and replaces every character outside [A-Za-z0-9.-] with an
// underscore. Returns "" when nothing usable remains.
func SanitizeFilename(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "/" || name == "." || name == ".." {
		return ""
	}

	return unsafeFilenameRunes.ReplaceAllString(name, "_")
}
