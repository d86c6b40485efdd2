package stats

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/catalog"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

// categoryKeywords is the ordered substring test deriving a roll-up
// category from a device's display name. The order is a tie-break rule:
// changing it changes aggregate reports, so it stays fixed.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"开关", "智能开关"},
	{"插座", "智能插座"},
	{"传感器", "传感器"},
	{"网关", "网关"},
	{"面板", "控制面板"},
}

// categoryOther is the catch-all bucket for names matching no keyword.
const categoryOther = "其他设备"

// DeriveCategory maps a device display name to its roll-up category via the
// first matching keyword.
func DeriveCategory(deviceName string) string {
	for _, kw := range categoryKeywords {
		if strings.Contains(deviceName, kw.keyword) {
			return kw.category
		}
	}
	return categoryOther
}

// Aggregate joins extracted labels against the catalog: matched labels
// increment per-pdid counts and feed brand and category buckets; unmatched
// labels are surfaced but excluded from priced totals. The conservation
// invariant holds: matched occurrences plus unmatched labels equals the
// total labels found.
func Aggregate(report *models.LabelReport, cat *catalog.Catalog) *models.AggregateReport {
	byPDID := cat.ByPDID()
	agg := &models.AggregateReport{
		DeviceCounts: make(map[int]int),
		TotalPrice:   decimal.Zero,
	}

	for _, label := range report.AllLabels() {
		row, ok := byPDID[label.PDID]
		if !ok {
			agg.UnmatchedLabels = append(agg.UnmatchedLabels, label)
			continue
		}
		agg.DeviceCounts[label.PDID]++
		agg.TotalDevices++
		agg.TotalPrice = agg.TotalPrice.Add(row.UnitPrice)
	}
	agg.UniquePDIDs = len(agg.DeviceCounts)
	agg.SuccessfulMatches = agg.TotalDevices

	// Buckets are built from the final counts so each device appears once
	// per bucket with its total occurrence count.
	for _, pdid := range sortedPDIDs(agg.DeviceCounts) {
		row := byPDID[pdid]
		detail := models.DeviceDetail{
			PDID:          pdid,
			DeviceName:    row.Name,
			Brand:         row.Brand,
			Specification: row.Specification,
			UnitPrice:     row.UnitPrice,
			Count:         agg.DeviceCounts[pdid],
		}
		brand := row.Brand
		if brand == "" {
			brand = "未知品牌"
		}
		addToBucket(&agg.Brands, brand, detail)
		addToBucket(&agg.Categories, DeriveCategory(row.Name), detail)
	}
	return agg
}

func sortedPDIDs(counts map[int]int) []int {
	out := make([]int, 0, len(counts))
	for pdid := range counts {
		out = append(out, pdid)
	}
	sort.Ints(out)
	return out
}

// addToBucket appends a device to the named bucket, creating the bucket in
// first-seen order.
func addToBucket(buckets *[]models.BucketStat, name string, d models.DeviceDetail) {
	for i := range *buckets {
		if (*buckets)[i].Name == name {
			appendDevice(&(*buckets)[i], d)
			return
		}
	}
	b := models.BucketStat{Name: name, TotalPrice: decimal.Zero}
	appendDevice(&b, d)
	*buckets = append(*buckets, b)
}

func appendDevice(b *models.BucketStat, d models.DeviceDetail) {
	b.Devices = append(b.Devices, d)
	b.TotalCount += d.Count
	b.TotalPrice = b.TotalPrice.Add(d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Count))))
}
