package simulate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/report"
)

// verifyMatch compares the stored match and its report with the plan.
// Disagreements are recorded as mismatches; only transport failures are
// returned as errors.
func verifyMatch(ctx context.Context, c *client, id string, p matchPlan, cnt *counters) (bool, error) {
	var m model.Match
	if _, err := c.do(ctx, http.MethodGet, "/matches/"+id, nil, &m); err != nil {
		return false, fmt.Errorf("fetch match %s: %w", id, err)
	}
	var r report.Report
	if _, err := c.do(ctx, http.MethodGet, "/reports?match="+url.QueryEscape(id), nil, &r); err != nil {
		return false, fmt.Errorf("fetch report %s: %w", id, err)
	}

	ok := true
	fail := func(format string, args ...any) {
		ok = false
		cnt.mismatch("match %s: "+format, append([]any{id}, args...)...)
	}

	home, away := p.goals()
	if m.HomeScore != home || m.AwayScore != away {
		fail("score %d-%d, sent %d-%d goals", m.HomeScore, m.AwayScore, home, away)
	}
	if len(m.Events) != len(p.Events) {
		fail("%d events stored, sent %d", len(m.Events), len(p.Events))
	}
	for i := range m.Events {
		if i < len(p.Events) && m.Events[i].ID != p.Events[i].ID {
			fail("event %d is %s, sent %s", i, m.Events[i].ID, p.Events[i].ID)
			break
		}
	}
	capacity := p.Setup.SubstitutionCap
	if m.HomeSubstitutionWindows != capacity || m.AwaySubstitutionWindows != capacity {
		fail("windows %d/%d, cap %d", m.HomeSubstitutionWindows, m.AwaySubstitutionWindows, capacity)
	}
	if !m.Finished() {
		fail("still in %s", m.CurrentHalf)
	}
	if r.Summary.Home.Goals != m.HomeScore || r.Summary.Away.Goals != m.AwayScore {
		fail("report goals %d-%d, score %d-%d",
			r.Summary.Home.Goals, r.Summary.Away.Goals, m.HomeScore, m.AwayScore)
	}
	if len(r.Events) != len(m.Events) {
		fail("report has %d events, match %d", len(r.Events), len(m.Events))
	}
	return ok, nil
}
