package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExecInfo is a property of the program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecInfoTable is the table that stores ExecInfo entries.
const ExecInfoTable = "exec_info"

// Records program execution
type execRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{
		recorder: recorder,
	}

	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return e
}

// Start logs the current execution.
func (e *execRecorder) Start() {
	currentTime := time.Now()
	startTime := currentTime.Format("2006-01-02 15:04:05.000000000")
	e.entries = append(e.entries, ExecInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	e.entries = append(e.entries, ExecInfo{"Command", cmd})

	cwd, err := os.Getwd()
	if err != nil {
		cwd = filepath.Dir(os.Args[0])
	}

	e.entries = append(e.entries, ExecInfo{"Working Directory", cwd})
}

// End writes the execution information along with the exit time.
func (e *execRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	endTime := time.Now()
	endValue := endTime.Format("2006-01-02 15:04:05.000000000")
	e.recorder.InsertData(ExecInfoTable, ExecInfo{"End Time", endValue})

	e.entries = nil

	e.recorder.Flush()
}
