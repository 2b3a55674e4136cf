package logger

import (
	"os"
	"sync"

	"github.com/jsphweid/mdlfit/constants"
	"github.com/sirupsen/logrus"
)

var (
	projectLogger *logrus.Logger
	once          sync.Once
)

// GetProjectLogger returns the logger shared by every package of the project.
func GetProjectLogger() *logrus.Logger {
	once.Do(func() {
		projectLogger = logrus.New()
		projectLogger.SetOutput(os.Stderr)
		projectLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		level, err := logrus.ParseLevel(constants.GetLogLevel())
		if err != nil {
			level = logrus.InfoLevel
		}
		projectLogger.SetLevel(level)
	})
	return projectLogger
}
