package main

import (
	"log"
	"os"
	"strings"

	"fileagg/cmd"
	"fileagg/pkg/logging"
	"fileagg/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	logger, err := logging.New(false, "fileagg", version.Get().Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	active, err := cmd.Execute(logger)
	if err != nil {
		active.Error("fileagg execution failed", zap.Error(err))
		syncLogger(active)
		os.Exit(1)
	}
	syncLogger(active)
}

// syncLogger flushes the logger when stderr can be synced; consoles and
// pipes report "invalid argument", which is ignored.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if err := logger.Sync(); err != nil {
		lowerErr := strings.ToLower(err.Error())
		if !strings.Contains(lowerErr, "invalid argument") && !strings.Contains(lowerErr, "inappropriate ioctl") {
			log.Printf("Logger sync failed: %v", err)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
