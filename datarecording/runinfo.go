package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

type runInfo struct {
	Property string
	Value    string
}

// A RunRecorder stores metadata about one simulation run next to the
// recorded data.
type RunRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []runInfo
}

// NewRunRecorder creates a RunRecorder writing through the given recorder.
func NewRunRecorder(recorder DataRecorder) *RunRecorder {
	r := &RunRecorder{
		tableName: "run_info",
		recorder:  recorder,
	}

	r.recorder.CreateTable(r.tableName, runInfo{})

	return r
}

// Start captures the start time and the command line of the run.
func (r *RunRecorder) Start(runID string) {
	currentTime := time.Now()
	startTime := currentTime.Format("2006-01-02 15:04:05.000000000")
	r.entries = append(r.entries, runInfo{"Run ID", runID})
	r.entries = append(r.entries, runInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	r.entries = append(r.entries, runInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cwd := filepath.Dir(ex)
	r.entries = append(r.entries, runInfo{"Working Directory", cwd})
}

// End writes the collected metadata along with the end time.
func (r *RunRecorder) End() {
	for _, entry := range r.entries {
		r.recorder.InsertData(r.tableName, entry)
	}

	endTime := time.Now()
	endValue := endTime.Format("2006-01-02 15:04:05.000000000")
	r.recorder.InsertData(r.tableName, runInfo{"End Time", endValue})

	r.entries = nil

	r.recorder.Flush()
}
