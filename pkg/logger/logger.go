package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// Get returns the shared application logger, initializing it on first use.
// Level comes from UPNEXT_LOG_LEVEL (default info).
func Get() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		level, err := logrus.ParseLevel(os.Getenv("UPNEXT_LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
	})
	return logger
}
