package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ecomlens/internal/analytics"
	"ecomlens/internal/config"
	"ecomlens/internal/store"
)

// AnalyticsService runs the engine's analyses against the current ledger
// snapshot. Every method takes its snapshot once, so a reload mid-request
// cannot mix dataset versions.
type AnalyticsService struct {
	store    *store.Store
	defaults config.AnalyticsConfig
	logger   *slog.Logger
}

// NewAnalyticsService creates an analytics service over the given store.
func NewAnalyticsService(s *store.Store, defaults config.AnalyticsConfig, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		store:    s,
		defaults: defaults,
		logger:   logger.With(slog.String("service", "analytics")),
	}
}

// Report bundles the output of all analyses for the export and dashboard
// surfaces.
type Report struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	KPI         analytics.KPI              `json:"kpi"`
	Trend       analytics.KPITrend         `json:"trend"`
	Segments    *analytics.RFMResult       `json:"segments"`
	Funnel      []analytics.FunnelStage    `json:"funnel"`
	Forecast    []analytics.DailyPoint     `json:"forecast"`
	Categories  []analytics.DimensionStat  `json:"categories"`
	Channels    []analytics.DimensionStat  `json:"channels"`
	Cities      []analytics.DimensionStat  `json:"cities"`
	TopUsers    []analytics.TopUser        `json:"top_users"`
	TopProducts []analytics.TopProduct     `json:"top_products"`
}

func (s *AnalyticsService) snapshot(f store.OrderFilter) (*analytics.Dataset, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return f.Apply(ds)
}

// KPI computes headline metrics over the optionally filtered ledger.
func (s *AnalyticsService) KPI(ctx context.Context, f store.OrderFilter) (analytics.KPI, error) {
	ds, err := s.snapshot(f)
	if err != nil {
		return analytics.KPI{}, err
	}
	return analytics.ComputeKPI(ds), nil
}

// Trend compares the trailing window against the one before it. days <= 0
// uses the configured default.
func (s *AnalyticsService) Trend(ctx context.Context, days int) (analytics.KPITrend, error) {
	if days <= 0 {
		days = s.defaults.TrendDays
	}
	ds, err := s.store.Snapshot()
	if err != nil {
		return analytics.KPITrend{}, err
	}
	return analytics.KPITrendOver(ds, days)
}

// Segments clusters customers on RFM features. k <= 0 uses the configured
// default cluster count.
func (s *AnalyticsService) Segments(ctx context.Context, k int) (*analytics.RFMResult, error) {
	if k <= 0 {
		k = s.defaults.Clusters
	}
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := analytics.SegmentCustomers(ds, k, analytics.DefaultSegmentLabels)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "customer segmentation completed",
		slog.Int("clusters", k),
		slog.Int("customers", len(result.Records)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return result, nil
}

// Funnel estimates browse/cart/order/pay conversion from order counts.
func (s *AnalyticsService) Funnel(ctx context.Context) ([]analytics.FunnelStage, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.EstimateFunnel(ds), nil
}

// Forecast extrapolates daily sales. horizon <= 0 uses the configured
// default.
func (s *AnalyticsService) Forecast(ctx context.Context, horizon int) ([]analytics.DailyPoint, error) {
	if horizon <= 0 {
		horizon = s.defaults.ForecastDays
	}
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.ForecastSales(ds, horizon)
}

// Dimension rolls the ledger up by category, channel or city.
func (s *AnalyticsService) Dimension(ctx context.Context, name string) ([]analytics.DimensionStat, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	dim, err := analytics.ParseDimension(name)
	if err != nil {
		return nil, err
	}
	return analytics.ByDimension(ds, dim)
}

// Daily returns per-day sales and order counts over the trailing window.
// days <= 0 uses the configured default.
func (s *AnalyticsService) Daily(ctx context.Context, days int) ([]analytics.DailyPoint, error) {
	if days <= 0 {
		days = s.defaults.DailyDays
	}
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.DailyStats(ds, days)
}

// TopUsers ranks customers by total spend. n <= 0 uses the configured
// default.
func (s *AnalyticsService) TopUsers(ctx context.Context, n int) ([]analytics.TopUser, error) {
	if n <= 0 {
		n = s.defaults.TopN
	}
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.TopUsers(ds, n)
}

// TopProducts ranks products by sales. n <= 0 uses the configured default.
func (s *AnalyticsService) TopProducts(ctx context.Context, n int) ([]analytics.TopProduct, error) {
	if n <= 0 {
		n = s.defaults.TopN
	}
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.TopProducts(ds, n)
}

// FullReport runs every analysis against one snapshot. The analyses are
// independent pure functions of the dataset, so they run concurrently.
func (s *AnalyticsService) FullReport(ctx context.Context) (*Report, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	report := &Report{GeneratedAt: time.Now()}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		report.KPI = analytics.ComputeKPI(ds)
		return nil
	})
	g.Go(func() error {
		trend, err := analytics.KPITrendOver(ds, s.defaults.TrendDays)
		if err != nil {
			return err
		}
		report.Trend = trend
		return nil
	})
	g.Go(func() error {
		segments, err := analytics.SegmentCustomers(ds, s.defaults.Clusters, analytics.DefaultSegmentLabels)
		if err != nil {
			return err
		}
		report.Segments = segments
		return nil
	})
	g.Go(func() error {
		report.Funnel = analytics.EstimateFunnel(ds)
		return nil
	})
	g.Go(func() error {
		forecast, err := analytics.ForecastSales(ds, s.defaults.ForecastDays)
		if err != nil {
			return err
		}
		report.Forecast = forecast
		return nil
	})
	g.Go(func() error {
		var err error
		if report.Categories, err = analytics.ByDimension(ds, analytics.DimensionCategory); err != nil {
			return err
		}
		if report.Channels, err = analytics.ByDimension(ds, analytics.DimensionChannel); err != nil {
			return err
		}
		report.Cities, err = analytics.ByDimension(ds, analytics.DimensionCity)
		return err
	})
	g.Go(func() error {
		var err error
		if report.TopUsers, err = analytics.TopUsers(ds, s.defaults.TopN); err != nil {
			return err
		}
		report.TopProducts, err = analytics.TopProducts(ds, s.defaults.TopN)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "full report assembled",
		slog.Int("orders", ds.Len()),
		slog.Int("segments", len(report.Segments.Summaries)),
	)
	return report, nil
}
