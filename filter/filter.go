// Package filter compiles expr expressions for selecting torrents.
//
// Expressions see the torrent under evaluation as Torrent plus a set of
// helper functions, so selections read naturally:
//
//	Torrent.Ratio > 2.0 and daysSince(added) > 30
//	hasTag("iso") and isComplete()
//	inCategory("os") and sizeGB() > 4.0
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/yjl9903/nqbtc/qbittorrent"
)

// Filter is a compiled torrent selection expression.
type Filter struct {
	program    *vm.Program
	expression string
}

// Compile parses and type-checks a filter expression.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(staticEnv()),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compiling filter expression: %w", err)
	}

	return &Filter{program: program, expression: expression}, nil
}

// Expression returns the source text the filter was compiled from.
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against one torrent.
func (f *Filter) Match(t qbittorrent.Torrent) (bool, error) {
	result, err := expr.Run(f.program, torrentEnv(t))
	if err != nil {
		return false, fmt.Errorf("evaluating filter for %q: %w", t.Name, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression %q is not boolean (got %T)", f.expression, result)
	}
	return matched, nil
}

// Apply returns the torrents the filter selects, preserving input order.
func (f *Filter) Apply(torrents []qbittorrent.Torrent) ([]qbittorrent.Torrent, error) {
	matched := make([]qbittorrent.Torrent, 0, len(torrents))
	for _, t := range torrents {
		ok, err := f.Match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// staticEnv declares the helpers available at compile time.
func staticEnv() map[string]any {
	return map[string]any{
		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,

		// String helpers, all case-insensitive
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// torrentEnv builds the evaluation environment for one torrent.
func torrentEnv(t qbittorrent.Torrent) map[string]any {
	env := staticEnv()

	env["Torrent"] = t
	env["added"] = t.AddedTime()
	env["completed"] = t.CompletionTime()

	env["hasTag"] = func(tag string) bool {
		for _, have := range t.TagList() {
			if strings.EqualFold(have, tag) {
				return true
			}
		}
		return false
	}
	env["inCategory"] = func(category string) bool {
		return strings.EqualFold(t.Category, category)
	}
	env["inState"] = func(state string) bool {
		return strings.EqualFold(t.State, state)
	}
	env["onTracker"] = func(substr string) bool {
		return strings.Contains(strings.ToLower(t.Tracker), strings.ToLower(substr))
	}

	env["isComplete"] = t.IsComplete
	env["isStopped"] = t.IsStopped
	env["isSeeding"] = t.IsSeeding
	env["isErrored"] = t.IsErrored

	env["sizeGB"] = func() float64 {
		return float64(t.Size) / (1 << 30)
	}
	env["uploadedGB"] = func() float64 {
		return float64(t.Uploaded) / (1 << 30)
	}

	return env
}
