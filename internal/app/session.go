// Package app is the interactive terminal session: it owns the search boxes,
// the trip and the planner, and prints their state as it changes.
package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rotaplan/internal/common/config"
	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/internal/i18n"
	"github.com/rotaplan/internal/planner"
	"github.com/rotaplan/internal/query"
	"github.com/rotaplan/internal/routeapi"
	"github.com/rotaplan/internal/search"
	"github.com/rotaplan/internal/view"
)

// API is everything the session needs from the routing service.
type API interface {
	routeapi.Geocoder
	routeapi.Planner
}

// Session lives for one run of the terminal client. Close releases its
// controllers; nothing is printed afterwards.
type Session struct {
	logger logger.Logger
	tr     *i18n.Translator
	view   *view.View

	outMu sync.Mutex
	out   io.Writer

	origin      *search.Input
	destination *search.Input
	active      *search.Input
	trip        search.Trip
	planner     *planner.Planner

	unsubscribe []func()
	closeOnce   sync.Once
}

func NewSession(ctx context.Context, cfg *config.Config, api API, tr *i18n.Translator, out io.Writer, log logger.Logger) *Session {
	inputCfg := func(name string) search.InputConfig {
		return search.InputConfig{
			Name:           name,
			Debounce:       cfg.Search.Debounce,
			MinQueryLength: cfg.Search.MinQueryLength,
			Logger:         log,
		}
	}

	s := &Session{
		logger:      log,
		tr:          tr,
		view:        view.New(tr),
		out:         out,
		origin:      search.NewInput(ctx, api, inputCfg("origin")),
		destination: search.NewInput(ctx, api, inputCfg("destination")),
		planner:     planner.New(ctx, api, log),
	}

	s.unsubscribe = append(s.unsubscribe,
		s.origin.Subscribe(s.onSearch("search.origin")),
		s.destination.Subscribe(s.onSearch("search.destination")),
		s.planner.Subscribe(s.onPlan),
	)
	return s
}

func (s *Session) onSearch(fieldKey string) func(search.InputState) {
	return func(st search.InputState) {
		if st.Status != query.Succeeded && st.Status != query.Failed {
			return
		}
		s.render(func(w io.Writer) { s.view.SearchState(w, s.tr.T(fieldKey), st) })
	}
}

// onPlan renders every plan transition; Idle only follows a reset and
// prints the empty state.
func (s *Session) onPlan(st planner.State) {
	if st.Status == query.Pending {
		return
	}
	s.render(func(w io.Writer) { s.view.PlanState(w, st) })
}

// render builds the whole block first so concurrent updates never interleave.
func (s *Session) render(fn func(w io.Writer)) {
	var buf bytes.Buffer
	fn(&buf)

	s.outMu.Lock()
	defer s.outMu.Unlock()
	_, _ = s.out.Write(buf.Bytes())
}

func (s *Session) println(a ...interface{}) {
	s.render(func(w io.Writer) { fmt.Fprintln(w, a...) })
}

// Run reads commands from in until quit, EOF or ctx is done.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.render(func(w io.Writer) { s.view.Title(w) })
	s.println(s.tr.T("app.help"))

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		s.render(func(w io.Writer) { io.WriteString(w, s.tr.T("app.prompt")) })
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		case line := <-lines:
			if s.Execute(line) {
				s.println(s.tr.T("app.bye"))
				return nil
			}
		}
	}
}

// Execute runs one command line. It returns true when the user asked to quit.
func (s *Session) Execute(line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	s.logger.Debug("Command", "cmd", cmd, "arg", arg)

	switch strings.ToLower(cmd) {
	case "":
	case "from":
		s.searchFor(s.origin, arg, "from <text>")
	case "to":
		s.searchFor(s.destination, arg, "to <text>")
	case "pick":
		s.pick(arg)
	case "swap":
		if s.trip.Swap() {
			s.println(s.tr.T("search.swapped"))
			s.printTrip()
		} else {
			s.println(s.tr.T("search.nothing_to_swap"))
		}
	case "plan":
		s.plan()
	case "retry":
		s.retry()
	case "reset":
		s.planner.Reset()
	case "detail":
		s.detail(arg)
	case "geojson":
		s.geojson()
	case "lang":
		if err := s.tr.SetLanguage(arg); err != nil {
			s.println(s.tr.T("app.unknown_language", "lang", arg))
		} else {
			s.println(s.tr.T("app.language_set", "lang", s.tr.Language()))
		}
	case "help", "?":
		s.println(s.tr.T("app.help"))
	case "quit", "exit", "q":
		return true
	default:
		s.println(s.tr.T("app.unknown_command", "cmd", cmd))
	}
	return false
}

func (s *Session) searchFor(in *search.Input, text, usage string) {
	if text == "" {
		s.println(s.tr.T("app.usage", "usage", usage))
		return
	}
	s.active = in
	in.Type(text)
}

func (s *Session) pick(arg string) {
	if s.active == nil {
		s.println(s.tr.T("search.no_active"))
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		s.println(s.tr.T("app.usage", "usage", "pick <n>"))
		return
	}

	loc, err := s.active.Select(n - 1)
	if err != nil {
		s.println(s.tr.T("results.no_such_option", "n", arg))
		return
	}

	field := "search.origin"
	if s.active == s.destination {
		field = "search.destination"
		s.trip.SetDestination(loc)
	} else {
		s.trip.SetOrigin(loc)
	}
	s.active = nil
	s.println(s.tr.T("search.selected", "field", s.tr.T(field), "name", loc.Label()))
}

func (s *Session) printTrip() {
	o, ok := s.trip.Origin()
	if ok {
		s.println(s.tr.T("search.selected", "field", s.tr.T("search.origin"), "name", o.Label()))
	}
	d, ok := s.trip.Destination()
	if ok {
		s.println(s.tr.T("search.selected", "field", s.tr.T("search.destination"), "name", d.Label()))
	}
}

func (s *Session) plan() {
	origin, destination, err := s.trip.Endpoints()
	if err != nil {
		s.println(s.tr.T("search.missing_title") + ": " + s.tr.T("search.missing_body"))
		return
	}
	s.planner.Plan(origin, destination)
}

// retry repeats whichever request failed last, preferring the plan.
func (s *Session) retry() {
	if s.planner.State().Err == nil && s.active != nil && s.active.State().Err != nil {
		s.active.Retry()
		return
	}
	s.planner.Retry()
}

func (s *Session) detail(arg string) {
	plan := s.planner.State().Data
	if plan == nil {
		s.println(s.tr.T("results.no_plan"))
		return
	}
	n, err := strconv.Atoi(arg)
	opts := planner.Options(plan)
	if err != nil || n < 1 || n > len(opts) {
		s.println(s.tr.T("results.no_such_option", "n", arg))
		return
	}
	s.render(func(w io.Writer) { s.view.Detail(w, opts[n-1]) })
}

func (s *Session) geojson() {
	plan := s.planner.State().Data
	if plan == nil {
		s.println(s.tr.T("results.no_plan"))
		return
	}
	data, err := json.MarshalIndent(plan.FeatureCollection(), "", "  ")
	if err != nil {
		s.logger.Error("Failed to encode GeoJSON", "error", err)
		return
	}
	s.println(string(data))
}

// Close stops every controller and detaches the renderers.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, u := range s.unsubscribe {
			u()
		}
		s.origin.Close()
		s.destination.Close()
		s.planner.Close()
		s.logger.Debug("Session closed")
	})
}
