package tools

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
)

var (
	mu             sync.Mutex
	isEnabled      = true
	printTimestamp = true
	logger         = log.New(os.Stdout, "", 0)
)

func EnableLogger() {
	mu.Lock()
	defer mu.Unlock()
	isEnabled = true
}

func DisableLogger() {
	mu.Lock()
	defer mu.Unlock()
	isEnabled = false
}

func EnableLoggerTimestamp() {
	mu.Lock()
	defer mu.Unlock()
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	mu.Lock()
	defer mu.Unlock()
	printTimestamp = false
}

// SetLoggerOutput redirects the user facing messages, stdout by default
func SetLoggerOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func LogOutput(val ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !isEnabled {
		return
	}
	line := fmt.Sprintln(val...)
	if printTimestamp {
		line = "[" + time.Now().Format("2006-01-02 15.04:05.000") + "] " + line
	}
	logger.Print(line)
}

// NewProgressLogger reports the run progress every step resolved tiles and on the last one
func NewProgressLogger(step int) tiler.ProgressFunc {
	if step < 1 {
		step = 1
	}
	return func(completed, submitted int) {
		if completed%step == 0 || completed == submitted {
			LogOutput(fmt.Sprintf("processed %d/%d tiles", completed, submitted))
		}
	}
}
