package platform

import (
	"os"
	"runtime"
)

// ExecutableMode is the permission set given to installed binaries.
const ExecutableMode os.FileMode = 0o755

// MakeExecutable gives path ExecutableMode. Windows has no execute bits, so
// there it only checks that path exists.
func MakeExecutable(path string) error {
	if runtime.GOOS == "windows" {
		_, err := os.Stat(path)
		return err
	}
	return os.Chmod(path, ExecutableMode)
}
