package stats

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/catalog"
	"github.com/zZLong798/smarthome-ceshi/pkg/moldlib/models"
)

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"智能开关三键", "智能开关"},
		{"墙壁插座", "智能插座"},
		{"人体传感器", "传感器"},
		{"多模网关", "网关"},
		{"场景面板", "控制面板"},
		{"窗帘电机", "其他设备"},
		{"", "其他设备"},
		// Keyword order is the tie-break: 开关 is tested before 面板.
		{"开关面板", "智能开关"},
	}
	for _, tt := range tests {
		if got := DeriveCategory(tt.name); got != tt.expected {
			t.Errorf("DeriveCategory(%q) = %q, expected %q", tt.name, got, tt.expected)
		}
	}
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func aggregateCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Rows: []models.CatalogRow{
			{Row: 2, PDID: 101, Name: "智能开关三键", Brand: "米家", UnitPrice: price("129.50"), Enabled: true},
			{Row: 3, PDID: 102, Name: "人体传感器", Brand: "米家", UnitPrice: price("59.00"), Enabled: true},
			{Row: 4, PDID: 103, Name: "多模网关", Brand: "绿米", UnitPrice: price("249.00"), Enabled: true},
			{Row: 5, PDID: 104, Name: "已停用开关", Enabled: false},
		},
	}
}

func labelReport(pdids ...int) *models.LabelReport {
	report := &models.LabelReport{TotalSlides: 1}
	detail := models.SlideDetail{}
	for _, id := range pdids {
		detail.Labels = append(detail.Labels, models.ShapeLabel{PDID: id, Pattern: "strict"})
	}
	report.Slides = []models.SlideDetail{detail}
	report.TotalLabelsFound = len(detail.Labels)
	return report
}

func TestAggregate(t *testing.T) {
	// 101 twice, 102 once, 999 unknown, 104 disabled.
	report := labelReport(101, 102, 101, 999, 104)
	agg := Aggregate(report, aggregateCatalog())

	if agg.TotalDevices != 3 || agg.SuccessfulMatches != 3 {
		t.Errorf("matched = %d, expected 3", agg.TotalDevices)
	}
	if agg.UniquePDIDs != 2 {
		t.Errorf("unique pdids = %d, expected 2", agg.UniquePDIDs)
	}
	if agg.DeviceCounts[101] != 2 || agg.DeviceCounts[102] != 1 {
		t.Errorf("unexpected counts: %v", agg.DeviceCounts)
	}

	// Conservation: matched occurrences plus unmatched labels equals the
	// total labels found.
	if agg.TotalDevices+len(agg.UnmatchedLabels) != report.TotalLabelsFound {
		t.Errorf("conservation violated: %d matched + %d unmatched != %d total",
			agg.TotalDevices, len(agg.UnmatchedLabels), report.TotalLabelsFound)
	}
	if len(agg.UnmatchedLabels) != 2 {
		t.Fatalf("expected 2 unmatched labels, got %d", len(agg.UnmatchedLabels))
	}
	if agg.UnmatchedLabels[0].PDID != 999 || agg.UnmatchedLabels[1].PDID != 104 {
		t.Errorf("unexpected unmatched labels: %+v", agg.UnmatchedLabels)
	}

	// 129.50 * 2 + 59.00.
	if !agg.TotalPrice.Equal(price("318.00")) {
		t.Errorf("total price = %s, expected 318.00", agg.TotalPrice)
	}
}

func TestAggregateBuckets(t *testing.T) {
	agg := Aggregate(labelReport(101, 102, 103, 101), aggregateCatalog())

	if len(agg.Brands) != 2 {
		t.Fatalf("expected 2 brand buckets, got %d", len(agg.Brands))
	}
	mijia := agg.Brands[0]
	if mijia.Name != "米家" || mijia.TotalCount != 3 {
		t.Errorf("unexpected first brand bucket: %+v", mijia)
	}
	// 129.50 * 2 + 59.00.
	if !mijia.TotalPrice.Equal(price("318.00")) {
		t.Errorf("米家 total = %s, expected 318.00", mijia.TotalPrice)
	}
	if agg.Brands[1].Name != "绿米" || agg.Brands[1].TotalCount != 1 {
		t.Errorf("unexpected second brand bucket: %+v", agg.Brands[1])
	}

	var categories []string
	for _, b := range agg.Categories {
		categories = append(categories, b.Name)
	}
	if len(categories) != 3 || categories[0] != "智能开关" || categories[1] != "传感器" || categories[2] != "网关" {
		t.Errorf("unexpected category buckets: %v", categories)
	}

	// Bucket totals conserve the matched occurrence count.
	sum := 0
	for _, b := range agg.Categories {
		sum += b.TotalCount
	}
	if sum != agg.TotalDevices {
		t.Errorf("category counts sum to %d, expected %d", sum, agg.TotalDevices)
	}
}

func TestAggregateUnknownBrand(t *testing.T) {
	cat := &catalog.Catalog{Rows: []models.CatalogRow{
		{Row: 2, PDID: 1, Name: "无品牌设备", Enabled: true},
	}}
	agg := Aggregate(labelReport(1), cat)

	if len(agg.Brands) != 1 || agg.Brands[0].Name != "未知品牌" {
		t.Errorf("blank brand should bucket under the placeholder: %+v", agg.Brands)
	}
}

func TestAggregateEmptyReport(t *testing.T) {
	agg := Aggregate(labelReport(), aggregateCatalog())
	if agg.TotalDevices != 0 || agg.UniquePDIDs != 0 || len(agg.UnmatchedLabels) != 0 {
		t.Errorf("empty report aggregate = %+v", agg)
	}
	if !agg.TotalPrice.Equal(decimal.Zero) {
		t.Errorf("total price = %s, expected 0", agg.TotalPrice)
	}
}
