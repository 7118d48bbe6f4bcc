package overrides

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/production-calendar/internal/calendar"
	"go.uber.org/zap/zaptest"
)

// consultantPage mimics the consultant.ru layout: month tables nested in a
// layout table, NBSP after day numbers, '*' on shortened days, "inactive"
// cells for days of neighbouring months.
const consultantPage = `<!DOCTYPE html>
<html><body>
<table class="layout"><tr>
<td>
<table class="cal">
  <thead>
    <tr><th colspan="7" class="month">Апрель</th></tr>
    <tr><th>Пн</th><th>Вт</th><th>Ср</th><th>Чт</th><th>Пт</th><th>Сб</th><th>Вс</th></tr>
  </thead>
  <tbody>
    <tr><td>22</td><td>23</td><td>24</td><td>25</td><td>26</td><td class="work">27&nbsp;</td><td class="weekend">28</td></tr>
    <tr><td class="holiday weekend">29&nbsp;</td><td class="holiday weekend">30&nbsp;</td><td class="inactive holiday">1</td><td class="inactive">2</td><td class="inactive">3</td><td class="inactive">4</td><td class="inactive">5</td></tr>
  </tbody>
</table>
</td>
<td>
<table class="cal">
  <thead><tr><th colspan="7" class="month">Май</th></tr></thead>
  <tbody>
    <tr><td class="holiday weekend">1&nbsp;</td><td>2</td><td>3</td><td class="weekend">4</td><td class="weekend">5</td></tr>
    <tr><td>6</td><td>7</td><td class="preholiday">8*&nbsp;</td><td class="holiday weekend">9&nbsp;</td><td class="holiday weekend">10&nbsp;</td><td class="weekend">11</td><td class="weekend">12</td></tr>
  </tbody>
</table>
</td>
</tr></table>
<table class="legend"><tr><td class="holiday">Праздник</td></tr></table>
</body></html>`

func TestParseConsultantPage(t *testing.T) {
	days, err := parseConsultantPage(2024, []byte(consultantPage))
	require.NoError(t, err)

	want := map[string]calendar.Kind{
		"2024-04-27": calendar.KindWork,
		"2024-04-29": calendar.KindHoliday,
		"2024-04-30": calendar.KindHoliday,
		"2024-05-01": calendar.KindHoliday,
		"2024-05-08": calendar.KindPreholiday,
		"2024-05-09": calendar.KindHoliday,
		"2024-05-10": calendar.KindHoliday,
	}

	got := make(map[string]calendar.Kind, len(days))
	for _, d := range days {
		got[d.AsMap()["day"]] = d.Kind()
	}
	assert.Equal(t, want, got)
	assert.Len(t, days, len(want))
}

func TestParseConsultantPage_Errors(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"no month tables", `<html><body><p>Страница не найдена</p></body></html>`},
		{"unknown month", `<table><tr><th class="month">Brumaire</th></tr></table>`},
		{"bad day number", `<table><tr><th class="month">Май</th></tr><tr><td class="holiday">x</td></tr></table>`},
		{"impossible date", `<table><tr><th class="month">Февраль</th></tr><tr><td class="holiday">30</td></tr></table>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConsultantPage(2024, []byte(tt.page))
			assert.Error(t, err)
		})
	}
}

func TestConsultantProvider_FetchOverrides(t *testing.T) {
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(consultantPage))
	}))
	defer server.Close()

	p := NewConsultantProvider(server.URL+"/law/ref/calendar/proizvodstvennye/", HTTPOptions{}, zaptest.NewLogger(t))
	assert.Equal(t, "consultant", p.Name())

	days, err := p.FetchOverrides(context.Background(), 2024)
	require.NoError(t, err)
	assert.Len(t, days, 7)
	assert.Equal(t, "/law/ref/calendar/proizvodstvennye/2024/", requested)
}

func TestConsultantProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewConsultantProvider(server.URL, HTTPOptions{Timeout: time.Second}, zaptest.NewLogger(t))

	_, err := p.FetchOverrides(context.Background(), 2024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestConsultantProvider_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(consultantPage))
	}))
	defer server.Close()

	p := NewConsultantProvider(server.URL, HTTPOptions{RequestsPerSecond: 1}, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.FetchOverrides(ctx, 2024)
	require.ErrorIs(t, err, context.Canceled)
}
