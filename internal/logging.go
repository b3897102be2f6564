package internal

import (
	"io"
	"log"
	"os"
)

// InitLogging routes the standard logger with microsecond timestamps. Log
// lines go to stdout, except in oneshot mode, which prints its result there,
// or when LOG_STDERR is set.
func InitLogging(mode string) {
	log.SetOutput(logOutput(mode))
	flags := log.LstdFlags | log.Lmicroseconds
	if os.Getenv("LOG_UTC") != "" {
		flags |= log.LUTC
	}
	log.SetFlags(flags)
}

func logOutput(mode string) io.Writer {
	if mode == "oneshot" || os.Getenv("LOG_STDERR") != "" {
		return os.Stderr
	}
	return os.Stdout
}
