package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rotaplan/internal/common/config"
	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/internal/i18n"
	"github.com/rotaplan/internal/routeapi"
	"github.com/rotaplan/internal/stubserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the test read output while subscribers are writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func newSession(t *testing.T) (*stubserver.Server, *Session, *syncBuffer) {
	t.Helper()
	stub := stubserver.New(logger.Nop())
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	tr, err := i18n.New("tr")
	require.NoError(t, err)

	cfg := &config.Config{
		Search: config.SearchConfig{Debounce: 20 * time.Millisecond, MinQueryLength: 2},
	}
	out := &syncBuffer{}
	s := NewSession(context.Background(), cfg, routeapi.NewHTTPClient(srv.URL, 0, logger.Nop()), tr, out, logger.Nop())
	t.Cleanup(s.Close)
	return stub, s, out
}

func outputContains(out *syncBuffer, text string) func() bool {
	return func() bool { return strings.Contains(out.String(), text) }
}

func TestFullJourney(t *testing.T) {
	stub, s, out := newSession(t)

	s.Execute("from Sultanahmet")
	require.Eventually(t, outputContains(out, "[1] Sultanahmet, Fatih"), time.Second, 5*time.Millisecond)
	s.Execute("pick 1")
	assert.Contains(t, out.String(), "Başlangıç: Sultanahmet")

	s.Execute("to Levent")
	require.Eventually(t, outputContains(out, "[1] Levent, Beşiktaş"), time.Second, 5*time.Millisecond)
	s.Execute("pick 1")
	assert.Contains(t, out.String(), "Varış: Levent")

	s.Execute("plan")
	require.Eventually(t, outputContains(out, "Rota Seçenekleri"), time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "Rotalar hesaplanıyor...")
	assert.Contains(t, out.String(), "Trafik Uyarısı")
	assert.Equal(t, []string{"Sultanahmet", "Levent"}, stub.Requests("/geocode"))

	out.Reset()
	s.Execute("detail 2")
	assert.Contains(t, out.String(), "Toplu Taşıma Detayı")
	assert.Contains(t, out.String(), "Aktarma (yürüyüş)")

	out.Reset()
	s.Execute("geojson")
	assert.Contains(t, out.String(), `"FeatureCollection"`)
	assert.Contains(t, out.String(), `"traffic_break"`)

	out.Reset()
	s.Execute("detail 9")
	assert.Contains(t, out.String(), "Böyle bir seçenek yok: 9")
}

func TestPlanFailureAndRetry(t *testing.T) {
	stub, s, out := newSession(t)

	s.Execute("from Sultanahmet")
	require.Eventually(t, outputContains(out, "[1] Sultanahmet"), time.Second, 5*time.Millisecond)
	s.Execute("pick 1")
	s.Execute("to Levent")
	require.Eventually(t, outputContains(out, "[1] Levent"), time.Second, 5*time.Millisecond)
	s.Execute("pick 1")

	stub.FailWith("/plan", http.StatusInternalServerError, "boom")
	s.Execute("plan")
	require.Eventually(t, outputContains(out, "Bir hata oluştu"), time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "500 - boom")

	stub.ClearFailures()
	s.Execute("retry")
	require.Eventually(t, outputContains(out, "Rota Seçenekleri"), time.Second, 5*time.Millisecond)
	assert.Len(t, stub.Requests("/plan"), 2)

	out.Reset()
	s.Execute("reset")
	require.Eventually(t, outputContains(out, "Henüz hesaplanmış bir rota yok."), time.Second, 5*time.Millisecond)

	out.Reset()
	s.Execute("detail 1")
	assert.Contains(t, out.String(), "Henüz hesaplanmış bir rota yok.")
}

func TestSwapAndMissingEndpoints(t *testing.T) {
	_, s, out := newSession(t)

	s.Execute("swap")
	assert.Contains(t, out.String(), "Değiştirilecek konum yok.")

	s.Execute("plan")
	assert.Contains(t, out.String(), "Eksik Bilgi: Lütfen başlangıç ve varış noktalarını seçin.")

	s.Execute("from Taksim")
	require.Eventually(t, outputContains(out, "[1] Taksim Square, Beyoğlu"), time.Second, 5*time.Millisecond)
	s.Execute("pick 1")

	out.Reset()
	s.Execute("swap")
	assert.Contains(t, out.String(), "Başlangıç ve varış değiştirildi.")
	assert.Contains(t, out.String(), "Varış: Taksim Square")
	assert.NotContains(t, out.String(), "Başlangıç: Taksim Square")
}

func TestCommandErrors(t *testing.T) {
	_, s, out := newSession(t)

	s.Execute("pick 1")
	assert.Contains(t, out.String(), "Önce 'from' veya 'to' ile arama yapın.")

	s.Execute("from")
	assert.Contains(t, out.String(), "Kullanım: from <text>")

	s.Execute("fly Ankara")
	assert.Contains(t, out.String(), "Bilinmeyen komut: fly")

	s.Execute("lang fr")
	assert.Contains(t, out.String(), "Desteklenmeyen dil: fr")

	s.Execute("lang en")
	assert.Contains(t, out.String(), "Language: en")

	s.Execute("geojson")
	assert.Contains(t, out.String(), "No route has been planned yet.")

	assert.False(t, s.Execute(""))
	assert.True(t, s.Execute("quit"))
}

func TestRunStopsOnQuit(t *testing.T) {
	_, s, out := newSession(t)

	err := s.Run(context.Background(), strings.NewReader("help\nquit\nplan\n"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "İstanbul Rota Planlayıcı")
	assert.Contains(t, out.String(), "Güle güle!")
	assert.NotContains(t, out.String(), "Eksik Bilgi")
}

func TestRunStopsOnEOF(t *testing.T) {
	_, s, _ := newSession(t)
	require.NoError(t, s.Run(context.Background(), strings.NewReader("help\n")))
}
