package engine

import (
	"os"
	"path/filepath"
)

// Logs returns the captured combined output of a container's run (spec.md
// §4.10). A missing log file yields an empty string, not an error.
func (e *Engine) Logs(id string) (string, error) {
	path := filepath.Join(e.subvolumePath(id), id+".log")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", kernelRefusalErr(id, err)
	}
	return string(data), nil
}
