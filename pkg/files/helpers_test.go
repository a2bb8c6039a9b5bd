package files

import (
	"os"
	"path/filepath"
)

func mkdir(root, name string) error {
	return os.Mkdir(filepath.Join(root, name), 0755)
}
