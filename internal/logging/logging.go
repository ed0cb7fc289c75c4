package logging

import (
	"fmt"
	"os"

	"github.com/krakosik/runway/internal/dto"
	"github.com/sirupsen/logrus"
)

const FormatJSON = "json"

// Configure sets the level and output format of the standard logrus logger.
func Configure(level, format string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("%w: %v", dto.ErrInvalidArgument, err)
	}
	logrus.SetLevel(parsed)
	logrus.SetOutput(os.Stdout)

	if format == FormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
