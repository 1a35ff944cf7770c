package view

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rotaplan/internal/i18n"
	"github.com/rotaplan/internal/planner"
	"github.com/rotaplan/internal/search"
	"github.com/rotaplan/pkg/routing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newView(t *testing.T, lang string) *View {
	t.Helper()
	tr, err := i18n.New(lang)
	require.NoError(t, err)
	return New(tr)
}

func samplePlan() *models.PlanResponse {
	dist := 3.5
	addr := "Beşiktaş"
	transit := models.TransitInfo{
		TotalMin:           26,
		WalkToStationMin:   4,
		WalkFromStationMin: 3,
		InVehicleMin:       19,
		Segments: []models.TransitSegment{
			{Line: "T1", FromName: "Sultanahmet", ToName: "Kabataş", TimeMin: 9},
			{Line: "TRANSFER", FromName: "Kabataş", ToName: "Taksim", TimeMin: 2, IsTransfer: true},
			{Line: "M2", FromName: "Taksim", TimeMin: 8},
		},
	}
	return &models.PlanResponse{
		Origin:       models.Location{Name: "Sultanahmet"},
		Destination:  models.Location{Name: "Levent"},
		CarOnlyMin:   22,
		TransitOnly:  transit,
		TrafficBreak: models.TrafficBreak{DistanceKM: &dist, Address: &addr},
		ParkAndRideOptions: []models.ParkAndRideOption{{
			Parking:   models.ParkingInfo{Name: "İSPARK Kabataş", District: "Beyoğlu"},
			CarMin:    8,
			WalkDistM: 240,
			WalkMin:   3,
			Transit:   transit,
			TotalMin:  37,
		}},
	}
}

func TestResults(t *testing.T) {
	v := newView(t, "tr")
	var buf bytes.Buffer
	v.Results(&buf, samplePlan())
	out := buf.String()

	assert.Contains(t, out, "Sultanahmet → Levent")
	assert.Contains(t, out, "Trafik Uyarısı")
	assert.Contains(t, out, "3.5 km sonra yoğun trafik")
	assert.Contains(t, out, "Rota Seçenekleri")
	assert.Contains(t, out, "[1] 🚗 Sadece Araç · 22 dk süre  ⚡ EN HIZLI")
	assert.Contains(t, out, "[2] 🚇 Toplu Taşıma · 1 aktarma · 26 dk süre\n")
	assert.Contains(t, out, "[3] 🅿️ Park & Ride · İSPARK Kabataş · 37 dk süre (🚇 26 dk)")
}

func TestResultsWithoutTrafficBreak(t *testing.T) {
	v := newView(t, "en")
	plan := samplePlan()
	plan.TrafficBreak = models.TrafficBreak{}

	var buf bytes.Buffer
	v.Results(&buf, plan)
	assert.NotContains(t, buf.String(), "Traffic Warning")
	assert.Contains(t, buf.String(), "Car Only · 22 min duration  ⚡ FASTEST")
}

func TestTransitDetail(t *testing.T) {
	v := newView(t, "tr")
	opts := planner.Options(samplePlan())

	var buf bytes.Buffer
	v.Detail(&buf, opts[1])
	out := buf.String()

	assert.Contains(t, out, "Toplu Taşıma Detayı")
	assert.Contains(t, out, "⏱️ Toplam süre: 26.0 dk")
	assert.Contains(t, out, "● T1 [#FF0000]  Sultanahmet → Kabataş  ~ 9.0 dk")
	assert.Contains(t, out, "↔ Aktarma (yürüyüş)  Kabataş → Taksim  ~ 2.0 dk")
	assert.Contains(t, out, "● M2 [#00A54F]  Taksim → -  ~ 8.0 dk")
}

func TestParkAndRideDetail(t *testing.T) {
	v := newView(t, "tr")
	opts := planner.Options(samplePlan())

	var buf bytes.Buffer
	v.Detail(&buf, opts[2])
	out := buf.String()

	assert.Contains(t, out, "Park & Ride Detayı")
	assert.Contains(t, out, "🅿️ Otopark: İSPARK Kabataş")
	assert.Contains(t, out, "📍 İlçe: Beyoğlu")
	assert.Contains(t, out, "🚗 Otoparka araçla: 8.0 dk")
	assert.Contains(t, out, "🚶 Otopark → istasyon yürüyüş: 3.0 dk (240 m)")
	assert.Contains(t, out, "⏱️ Toplam süre: 37.0 dk")
	assert.Contains(t, out, "↔ Aktarma (yürüyüş)")
}

func TestCarDetail(t *testing.T) {
	v := newView(t, "en")
	opts := planner.Options(samplePlan())

	var buf bytes.Buffer
	v.Detail(&buf, opts[0])
	assert.Contains(t, buf.String(), "Car Route Details")
	assert.Contains(t, buf.String(), "🚗 Estimated time: 22.0 min")
}

func TestPlanState(t *testing.T) {
	v := newView(t, "tr")

	var buf bytes.Buffer
	v.PlanState(&buf, planner.State{Loading: true})
	assert.Equal(t, "Rotalar hesaplanıyor...\n", buf.String())

	buf.Reset()
	v.PlanState(&buf, planner.State{Err: errors.New("API error: 500 - boom")})
	assert.Contains(t, buf.String(), "Bir hata oluştu")
	assert.Contains(t, buf.String(), "500 - boom")
	assert.Contains(t, buf.String(), "Tekrar Dene")

	buf.Reset()
	v.PlanState(&buf, planner.State{})
	assert.Contains(t, buf.String(), "Henüz")
}

func TestSearchState(t *testing.T) {
	v := newView(t, "tr")

	var buf bytes.Buffer
	v.SearchState(&buf, "Başlangıç", search.InputState{Data: []models.GeocodeResult{
		{Name: "Taksim Square", Address: "Beyoğlu"},
		{Name: "Taksim Metro"},
	}})
	assert.Equal(t, "Başlangıç:\n  [1] Taksim Square, Beyoğlu\n  [2] Taksim Metro\n", buf.String())

	buf.Reset()
	v.SearchState(&buf, "Varış", search.InputState{})
	assert.Equal(t, "Varış: Sonuç bulunamadı\n", buf.String())
}
