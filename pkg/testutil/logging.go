package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Packages whose tests import testutil only see log output under -v.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if arg == "-test.v" || arg == "-test.v=true" {
			return
		}
	}
	logrus.SetOutput(io.Discard)
}
