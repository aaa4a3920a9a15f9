package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	log  *logrus.Logger
)

// Get returns the process-wide logger. Level starts at Info and is lowered or
// raised once configuration is loaded.
func Get() *logrus.Logger {
	once.Do(func() {
		log = logrus.New()
		log.Out = os.Stderr
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			PadLevelText:  true,
		})
	})
	return log
}

// SetLevel parses level and applies it. Unknown levels fall back to info.
func SetLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Get().SetLevel(lvl)
	return lvl
}
