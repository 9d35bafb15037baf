package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvFile is the conventional name of the environment file.
const DotEnvFile = ".env"

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win over the file. A missing file is not
// an error; the returned bool reports whether anything was read.
func LoadDotEnv(path string) (bool, error) {
	if path == "" {
		path = DotEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}
