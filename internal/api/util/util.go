package util

import (
	"os"
	"path/filepath"
)

func GetProjectRoot() string {
	if root := os.Getenv("APP_ROOT"); root != "" {
		return root
	}

	if os.Getenv("GO_ENV") == "prod" {
		return "./"
	}

	// "go test" changes the working dir to the package dir, so walk up
	// to the module root.
	dir, err := os.Getwd()
	if err != nil {
		return "./"
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "./"
		}
		dir = parent
	}
}
