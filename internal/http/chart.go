package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"sales-console/internal/service"
)

// dashboardChart serves the sales-by-day chart as a standalone document the
// dashboard embeds in an iframe. echarts renders a complete page, so keeping
// it on its own route avoids splicing markup.
func (h *Handler) dashboardChart(c *gin.Context) {
	data, err := h.dashboard.Load(c.Request.Context())
	if err != nil {
		if h.dropSession(c, err) {
			return
		}
		c.String(http.StatusBadGateway, "Error al cargar los datos del dashboard")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := salesChart(data.DailyTotals).Render(c.Writer); err != nil {
		h.logger.Warnf("render chart: %v", err)
	}
}

func salesChart(totals []service.DailyTotal) *charts.Bar {
	days := make([]string, len(totals))
	values := make([]opts.BarData, len(totals))
	for i, t := range totals {
		days[i] = t.Day
		values[i] = opts.BarData{Name: t.Day, Value: t.Total}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Ventas por día"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "100%",
			Height: "360px",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(days)
	bar.AddSeries("Ventas", values)
	return bar
}
