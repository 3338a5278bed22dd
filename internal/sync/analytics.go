package sync

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/recoverydesk/internal/models"
)

const (
	trendMonths  = 6
	topCustomers = 5
)

// parseDay reads a stored date or timestamp in loc
func parseDay(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	if len(s) >= len(dateLayout) {
		if t, err := time.ParseInLocation(dateLayout, s[:len(dateLayout)], loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type monthKey struct {
	year  int
	month time.Month
}

func monthOf(s string, loc *time.Location) (monthKey, bool) {
	t, ok := parseDay(s, loc)
	if !ok {
		return monthKey{}, false
	}
	return monthKey{t.Year(), t.Month()}, true
}

func trendDirection(current, last float64) string {
	if current >= last {
		return "up"
	}
	return "down"
}

func percentChange(current, last float64) int {
	if last <= 0 {
		return 0
	}
	return int(math.Round((current - last) / last * 100))
}

// Dashboard computes the dashboard aggregates for the engine's current month
func (e *Engine) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := e.read(ctx, func(u *unit) error {
		disks, err := u.hardDisks()
		if err != nil {
			return err
		}
		inwards, err := u.inwards()
		if err != nil {
			return err
		}
		records, err := u.masterRecords()
		if err != nil {
			return err
		}
		customers, err := u.customers()
		if err != nil {
			return err
		}
		invoices, err := u.invoices()
		if err != nil {
			return err
		}
		stats = e.computeDashboard(len(disks), len(customers), inwards, records, invoices)
		return nil
	})
	return stats, err
}

func (e *Engine) computeDashboard(totalJobs, totalCustomers int, inwards []models.InwardRecord, records []models.MasterRecordData, invoices []models.GeneratedInvoice) models.DashboardStats {
	now := e.now()
	loc := now.Location()
	thisMonth := monthKey{now.Year(), now.Month()}
	prev := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, loc)
	lastMonth := monthKey{prev.Year(), prev.Month()}

	inwardByMonth := map[monthKey]int{}
	for _, in := range inwards {
		if k, ok := monthOf(in.Date, loc); ok {
			inwardByMonth[k]++
		}
	}

	completedByMonth := map[monthKey]int{}
	var pending, inProgress, completed int
	var turnaroundDays, turnaroundJobs int
	jobsByCustomer := map[string]int{}
	var customerOrder []string
	for _, r := range records {
		switch r.Status {
		case models.StatusPending:
			pending++
		case models.StatusInProgress:
			inProgress++
		case models.StatusCompleted:
			completed++
		}
		if k, ok := monthOf(r.CompletedDate, loc); ok {
			completedByMonth[k]++
		}
		if r.Status == models.StatusCompleted && r.CompletedDate != "" {
			received, okR := parseDay(r.ReceivedDate, loc)
			done, okD := parseDay(r.CompletedDate, loc)
			if okR && okD {
				turnaroundDays += int(math.Floor(done.Sub(received).Hours() / 24))
			}
			turnaroundJobs++
		}
		if _, seen := jobsByCustomer[r.CustomerName]; !seen {
			customerOrder = append(customerOrder, r.CustomerName)
		}
		jobsByCustomer[r.CustomerName]++
	}

	revenueByMonth := map[monthKey]decimal.Decimal{}
	total := decimal.Zero
	for _, inv := range invoices {
		amount := decimal.NewFromFloat(inv.GrandTotal)
		total = total.Add(amount)
		if k, ok := monthOf(inv.GeneratedDate, loc); ok {
			revenueByMonth[k] = revenueByMonth[k].Add(amount)
		}
	}

	stats := models.DashboardStats{
		TotalJobs:        totalJobs,
		TotalCustomers:   totalCustomers,
		TotalRevenue:     total.InexactFloat64(),
		MonthlyRevenue:   revenueByMonth[thisMonth].InexactFloat64(),
		LastMonthRevenue: revenueByMonth[lastMonth].InexactFloat64(),
		PendingJobs:      pending,
		InProgressJobs:   inProgress,
		CompletedJobs:    completed,
		MonthlyInward:    inwardByMonth[thisMonth],
		LastMonthInward:  inwardByMonth[lastMonth],
		MonthlyCompleted: completedByMonth[thisMonth],
	}
	if totalJobs > 0 {
		stats.AvgRevenuePerJob = total.Div(decimal.NewFromInt(int64(totalJobs))).InexactFloat64()
		stats.CompletionRate = float64(completed) / float64(totalJobs) * 100
	}
	if turnaroundJobs > 0 {
		stats.AvgTurnaroundDays = int(math.Round(float64(turnaroundDays) / float64(turnaroundJobs)))
	}

	stats.MonthlyTrend = make([]models.MonthlyTrend, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		t := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
		k := monthKey{t.Year(), t.Month()}
		stats.MonthlyTrend = append(stats.MonthlyTrend, models.MonthlyTrend{
			Month:     t.Format("Jan"),
			Inward:    inwardByMonth[k],
			Completed: completedByMonth[k],
			Revenue:   revenueByMonth[k].InexactFloat64(),
		})
	}

	stats.StatusDistribution = []models.StatusCount{
		{Status: models.StatusPending, Name: models.StatusPending.Label(), Value: pending},
		{Status: models.StatusInProgress, Name: models.StatusInProgress.Label(), Value: inProgress},
		{Status: models.StatusCompleted, Name: models.StatusCompleted.Label(), Value: completed},
	}

	top := make([]models.CustomerStat, 0, len(customerOrder))
	for _, name := range customerOrder {
		top = append(top, models.CustomerStat{Name: name, Jobs: jobsByCustomer[name]})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Jobs > top[j].Jobs })
	if len(top) > topCustomers {
		top = top[:topCustomers]
	}
	stats.TopCustomers = top

	stats.InwardTrend = trendDirection(float64(stats.MonthlyInward), float64(stats.LastMonthInward))
	stats.InwardChange = percentChange(float64(stats.MonthlyInward), float64(stats.LastMonthInward))
	stats.RevenueTrend = trendDirection(stats.MonthlyRevenue, stats.LastMonthRevenue)
	stats.RevenueChange = percentChange(stats.MonthlyRevenue, stats.LastMonthRevenue)
	return stats
}
