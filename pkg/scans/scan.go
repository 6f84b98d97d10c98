// Package scans is the authoritative client-side cache of scan jobs.
// It mirrors the backend's job snapshots, never inventing state: every
// snapshot applied here came wholesale from the server, and the module
// status matrix is derived, never stored.
package scans

import "github.com/reconsole/reconsole/pkg/jsonutil"

// Status is the server-side lifecycle state of a scan job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition occurs from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ModuleResult is one module's result payload. The shape is module
// specific; a failed module embeds an "error" key instead.
type ModuleResult map[string]any

// Failed reports whether the module finished with an embedded error.
func (r ModuleResult) Failed() bool {
	_, ok := r["error"]
	return ok
}

// Scan is a server job snapshot (GET /api/scans/{id}). List responses
// carry a reduced shape; decoding one into Scan leaves the progress and
// result fields at their zero values.
type Scan struct {
	ID            int                     `json:"id"`
	Target        string                  `json:"target"`
	ScanType      string                  `json:"scan_type"`
	Status        Status                  `json:"status"`
	Progress      int                     `json:"progress"`
	CurrentModule *string                 `json:"current_module"`
	Results       map[string]ModuleResult `json:"results"`
	CreatedAt     jsonutil.Time           `json:"created_at"`
	StartedAt     *jsonutil.Time          `json:"started_at"`
	CompletedAt   *jsonutil.Time          `json:"completed_at"`
}

// clone deep-copies a snapshot so callers can never mutate store state.
func (s *Scan) clone() *Scan {
	if s == nil {
		return nil
	}
	c := *s
	if s.CurrentModule != nil {
		m := *s.CurrentModule
		c.CurrentModule = &m
	}
	if s.StartedAt != nil {
		ts := *s.StartedAt
		c.StartedAt = &ts
	}
	if s.CompletedAt != nil {
		ts := *s.CompletedAt
		c.CompletedAt = &ts
	}
	if s.Results != nil {
		c.Results = make(map[string]ModuleResult, len(s.Results))
		for mod, res := range s.Results {
			cp := make(ModuleResult, len(res))
			for k, v := range res {
				cp[k] = v
			}
			c.Results[mod] = cp
		}
	}
	return &c
}

// Options selects which modules a scan runs, mirroring the backend's
// ScanOptions schema including its defaults.
type Options struct {
	WAF       bool    `json:"waf"`
	Port      bool    `json:"port"`
	Subdo     bool    `json:"subdo"`
	CMS       bool    `json:"cms"`
	Tech      bool    `json:"tech"`
	Dir       bool    `json:"dir"`
	WP        bool    `json:"wp"`
	Proxy     *string `json:"proxy,omitempty"`
	UserAgent *string `json:"user_agent,omitempty"`
	UseTor    bool    `json:"use_tor"`
}

// DefaultOptions matches the backend defaults: everything on except the
// WordPress module and Tor routing.
func DefaultOptions() Options {
	return Options{WAF: true, Port: true, Subdo: true, CMS: true, Tech: true, Dir: true}
}

// AllModules lists every module identifier in backend execution order.
var AllModules = []string{"waf", "port", "subdo", "cms", "tech", "dir", "wp"}

// Modules returns the enabled module identifiers in execution order.
func (o Options) Modules() []string {
	enabled := map[string]bool{
		"waf": o.WAF, "port": o.Port, "subdo": o.Subdo,
		"cms": o.CMS, "tech": o.Tech, "dir": o.Dir, "wp": o.WP,
	}
	var out []string
	for _, m := range AllModules {
		if enabled[m] {
			out = append(out, m)
		}
	}
	return out
}

// createRequest is the POST /api/scans/ body.
type createRequest struct {
	Target  string  `json:"target"`
	Options Options `json:"options"`
}
