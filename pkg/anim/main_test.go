package anim

import (
	"io"
	"os"
	"testing"

	"github.com/decker502/legacyanim/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.SetupLoggerTo(io.Discard, 0)
	os.Exit(m.Run())
}
