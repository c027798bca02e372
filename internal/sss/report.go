package sss

import "fmt"

// Plan is implemented by *DedupePlan and *OrganizePlan.
type Plan interface {
	operation() string
	size() int
	destination() string
}

// RunReport summarizes one execution or simulation.
type RunReport struct {
	RunID     int64 // 0 for simulations and empty plans
	RunUUID   string
	Operation string
	Moved     int
	Simulated int
	OutRoot   string
}

// Total is Moved + Simulated.
func (r *RunReport) Total() int {
	return r.Moved + r.Simulated
}

// Render formats the report as a single summary line.
func (r *RunReport) Render() string {
	return fmt.Sprintf("Summary: total=%d | moved=%d | simulated=%d | out_root=%s",
		r.Total(), r.Moved, r.Simulated, r.OutRoot)
}

// SimulateReport describes what executing p would do without touching disk
// or the journal.
func (s *Service) SimulateReport(p Plan) *RunReport {
	return &RunReport{
		Operation: p.operation(),
		Simulated: p.size(),
		OutRoot:   p.destination(),
	}
}
