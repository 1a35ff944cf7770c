// Package view renders search results, route options and route details as
// plain text.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotaplan/internal/format"
	"github.com/rotaplan/internal/i18n"
	"github.com/rotaplan/internal/planner"
	"github.com/rotaplan/internal/search"
	"github.com/rotaplan/pkg/routing/models"
)

const indent = "   "

// View writes localized text. It holds no state besides the translator.
type View struct {
	tr *i18n.Translator
}

func New(tr *i18n.Translator) *View {
	return &View{tr: tr}
}

func (v *View) t(key string, vars ...interface{}) string {
	return v.tr.T(key, vars...)
}

func (v *View) duration(minutes float64) string {
	return format.Duration(minutes, v.tr.Language())
}

// mins renders "12.5 dk" style values used on detail pages.
func (v *View) mins(m float64) string {
	return format.Decimal(m) + " " + v.t("detail.min")
}

// Title prints the application banner.
func (v *View) Title(w io.Writer) {
	title := v.t("app.title")
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
}

// SearchState prints the candidate list of a search box, or its progress.
func (v *View) SearchState(w io.Writer, field string, s search.InputState) {
	switch {
	case s.Loading:
		fmt.Fprintf(w, "%s: %s\n", field, v.t("search.searching"))
	case s.Err != nil:
		fmt.Fprintf(w, "%s: %s\n", field, v.t("search.failed", "error", s.Err))
	case len(s.Data) == 0:
		fmt.Fprintf(w, "%s: %s\n", field, v.t("search.no_results"))
	default:
		fmt.Fprintf(w, "%s:\n", field)
		for i, r := range s.Data {
			fmt.Fprintf(w, "  [%d] %s", i+1, r.Name)
			if r.Address != "" {
				fmt.Fprintf(w, ", %s", r.Address)
			}
			fmt.Fprintln(w)
		}
	}
}

// PlanState prints the loading or error screen, or the full result list.
func (v *View) PlanState(w io.Writer, s planner.State) {
	switch {
	case s.Loading:
		fmt.Fprintln(w, v.t("results.loading"))
	case s.Err != nil:
		fmt.Fprintf(w, "⚠️  %s\n%s%s\n%s'retry' → %s\n",
			v.t("results.error"), indent, s.Err, indent, v.t("results.retry"))
	case s.Data == nil:
		fmt.Fprintln(w, v.t("results.no_plan"))
	default:
		v.Results(w, s.Data)
	}
}

// Results prints the route header, the traffic warning and one card per option.
func (v *View) Results(w io.Writer, plan *models.PlanResponse) {
	fmt.Fprintf(w, "%s → %s\n\n", plan.Origin.Label(), plan.Destination.Label())

	if warn, ok := planner.TrafficWarning(plan); ok {
		v.TrafficWarning(w, warn)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, v.t("results.section"))
	for i, opt := range planner.Options(plan) {
		v.Card(w, i+1, opt)
	}
}

func (v *View) TrafficWarning(w io.Writer, warn planner.Warning) {
	fmt.Fprintf(w, "🚦 %s\n", v.t("results.traffic_title"))
	fmt.Fprintf(w, "%s%s\n", indent, v.t("results.traffic_body", "km", format.Decimal(warn.DistanceKM)))
	if warn.Address != "" {
		fmt.Fprintf(w, "%s%s\n", indent, warn.Address)
	}
}

// Card prints one option line, numbered from 1.
func (v *View) Card(w io.Writer, n int, opt planner.Option) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s %s", n, format.RouteIcon(string(opt.Kind)), v.cardTitle(opt.Kind))

	switch opt.Kind {
	case planner.KindTransit:
		fmt.Fprintf(&b, " · %s", v.t("results.transfers", "n", opt.Transit.TransferCount()))
	case planner.KindParkAndRide:
		fmt.Fprintf(&b, " · %s", opt.ParkAndRide.Parking.Name)
	}

	fmt.Fprintf(&b, " · %s %s", v.duration(opt.Minutes), v.t("results.duration"))

	if opt.Kind == planner.KindParkAndRide {
		fmt.Fprintf(&b, " (🚇 %s)", v.duration(opt.ParkAndRide.Transit.TotalMin))
	}
	if opt.Fastest {
		fmt.Fprintf(&b, "  %s", v.t("results.fastest"))
	}

	fmt.Fprintln(w, b.String())
}

func (v *View) cardTitle(k planner.Kind) string {
	switch k {
	case planner.KindCar:
		return v.t("card.car")
	case planner.KindTransit:
		return v.t("card.transit")
	default:
		return v.t("card.park_ride")
	}
}

func detailKey(k planner.Kind) string {
	if k == planner.KindParkAndRide {
		return "park_ride"
	}
	return string(k)
}

// Detail prints the detail page of one option.
func (v *View) Detail(w io.Writer, opt planner.Option) {
	key := detailKey(opt.Kind)
	fmt.Fprintf(w, "%s\n%s\n\n", v.t("detail.title."+key), v.t("detail.subtitle."+key))

	switch opt.Kind {
	case planner.KindCar:
		fmt.Fprintf(w, "%s: %s\n", v.t("detail.car_estimate"), v.mins(opt.Minutes))
		fmt.Fprintln(w, v.t("detail.car_note"))
	case planner.KindTransit:
		v.TransitSummary(w, opt.Transit)
	case planner.KindParkAndRide:
		v.ParkAndRide(w, opt.ParkAndRide)
	}
}

// TransitSummary prints totals followed by one line per segment.
func (v *View) TransitSummary(w io.Writer, t *models.TransitInfo) {
	if t == nil {
		return
	}

	fmt.Fprintf(w, "%s: %s\n", v.t("detail.total"), v.mins(t.TotalMin))
	fmt.Fprintf(w, "%s: %s\n", v.t("detail.walk_to_station"), v.mins(t.WalkToStationMin))
	fmt.Fprintf(w, "%s: %s\n", v.t("detail.in_vehicle"), v.mins(t.InVehicleMin))
	fmt.Fprintf(w, "%s: %s\n", v.t("detail.walk_from_station"), v.mins(t.WalkFromStationMin))

	if len(t.Segments) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, seg := range t.Segments {
		v.segment(w, seg)
	}
}

func (v *View) segment(w io.Writer, seg models.TransitSegment) {
	line := fmt.Sprintf("● %s [%s]", seg.Line, format.LineColor(seg.Line))
	if seg.IsTransfer {
		line = "↔ " + v.t("detail.transfer")
	}
	fmt.Fprintf(w, "%s%s  %s → %s  ~ %s\n",
		indent, line, orDash(seg.FromName), orDash(seg.ToName), v.mins(seg.TimeMin))
}

func (v *View) ParkAndRide(w io.Writer, pr *models.ParkAndRideOption) {
	if pr == nil {
		return
	}

	name := pr.Parking.Name
	if name == "" {
		name = v.t("detail.parking_unknown")
	}
	fmt.Fprintf(w, "%s: %s\n", v.t("detail.parking"), name)
	if pr.Parking.District != "" {
		fmt.Fprintf(w, "%s: %s\n", v.t("detail.district"), pr.Parking.District)
	}
	fmt.Fprintf(w, "%s: %s\n", v.t("detail.car_to_parking"), v.mins(pr.CarMin))
	fmt.Fprintf(w, "%s: %s (%s)\n", v.t("detail.parking_walk"), v.mins(pr.WalkMin), format.Distance(pr.WalkDistM))
	fmt.Fprintf(w, "%s: %s\n", v.t("detail.transit"), v.mins(pr.Transit.TotalMin))
	fmt.Fprintf(w, "%s: %s\n", v.t("detail.total"), v.mins(pr.TotalMin))
	fmt.Fprintf(w, "%s\n\n", v.t("detail.park_ride_note"))

	v.TransitSummary(w, &pr.Transit)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
