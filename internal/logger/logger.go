package logger

import (
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init menyiapkan logger terstruktur. JSON untuk production, teks untuk development.
func Init(level, env string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if env == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
