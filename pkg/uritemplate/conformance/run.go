package conformance

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/randalmurphal/uritemplate/pkg/uritemplate"
)

// Outcome is the result of one case.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result records one case.
type Result struct {
	Section  string
	Template string
	Outcome  Outcome
	Reason   string
	Got      string
}

// Report summarizes a run.
type Report struct {
	Passed  int
	Failed  int
	Skipped int
	Results []Result
}

// Failures returns the failed results.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == Failed {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) add(res Result) {
	switch res.Outcome {
	case Passed:
		r.Passed++
	case Failed:
		r.Failed++
	case Skipped:
		r.Skipped++
	}
	r.Results = append(r.Results, res)
}

// Run checks every case in suite. Sections run in name order.
//
// A case is skipped when its compiled template needs a level above
// maxLevel, or when a variable it names is a list or object. Null
// variables are treated as undefined.
func Run(suite Suite, maxLevel int) Report {
	names := make([]string, 0, len(suite))
	for name := range suite {
		names = append(names, name)
	}
	sort.Strings(names)

	var report Report
	for _, name := range names {
		section := suite[name]
		for _, c := range section.TestCases {
			res := runCase(section, c, maxLevel)
			res.Section = name
			res.Template = c.Template
			report.add(res)
		}
	}
	return report
}

func runCase(section Section, c Case, maxLevel int) Result {
	t, err := uritemplate.Compile(c.Template)
	if err != nil {
		if c.MustFail {
			return Result{Outcome: Passed}
		}
		return Result{Outcome: Failed, Reason: err.Error()}
	}

	if level := t.Level(); level > maxLevel {
		return Result{Outcome: Skipped, Reason: fmt.Sprintf("level %d", level)}
	}
	if c.MustFail {
		return Result{Outcome: Failed, Reason: "compiled, expected an error"}
	}

	vars := uritemplate.Map{}
	for _, name := range t.VarNames() {
		v, ok := section.Variables[name]
		if !ok {
			continue
		}
		switch v.Kind {
		case KindString, KindNumber:
			vars[name] = v.Text
		case KindList, KindObject:
			return Result{Outcome: Skipped, Reason: fmt.Sprintf("variable %q is a composite value", name)}
		}
	}

	got := t.Expand(vars)
	if len(c.Expected) == 0 || slices.Contains(c.Expected, got) {
		return Result{Outcome: Passed, Got: got}
	}
	return Result{
		Outcome: Failed,
		Got:     got,
		Reason:  "expected " + strings.Join(c.Expected, " or "),
	}
}
