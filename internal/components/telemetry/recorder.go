package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	REPORT_BROKEN ReportKind = iota
	REPORT_WARNING
	REPORT_DEBUG
	REPORT_COUNT
)

type Report struct {
	Kind   ReportKind
	ID     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory so tests can make
// assertions on what a component reported.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Kind: REPORT_BROKEN, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Kind: REPORT_WARNING, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Report{Kind: REPORT_DEBUG, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Report{Kind: REPORT_COUNT, ID: id, Count: count})
}

// Reports returns the reports of a given kind whose id ends with `suffix`,
// an empty suffix matches everything.
func (r *Recorder) Reports(kind ReportKind, suffix string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind != kind {
			continue
		}
		if !strings.HasSuffix(report.ID, suffix) {
			continue
		}
		out = append(out, report)
	}
	return out
}
