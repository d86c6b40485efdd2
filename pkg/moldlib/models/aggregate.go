package models

import "github.com/shopspring/decimal"

// DeviceDetail is one catalog-matched device with its occurrence count.
type DeviceDetail struct {
	PDID          int             `json:"pdid"`
	DeviceName    string          `json:"device_name"`
	Brand         string          `json:"brand,omitempty"`
	Specification string          `json:"specification,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Count         int             `json:"count"`
}

// BucketStat is a brand or category roll-up bucket.
type BucketStat struct {
	// Name is the bucket key (brand name or derived category).
	Name string `json:"name"`
	// Devices are the matched devices in the bucket, in first-seen order.
	Devices []DeviceDetail `json:"devices"`
	// TotalCount sums occurrence counts in the bucket.
	TotalCount int `json:"total_count"`
	// TotalPrice sums unit price × count over the bucket.
	TotalPrice decimal.Decimal `json:"total_price"`
}

// AggregateReport joins extracted labels against the catalog.
type AggregateReport struct {
	// TotalDevices is the sum of matched occurrence counts.
	TotalDevices int `json:"total_devices"`
	// UniquePDIDs is the number of distinct matched product identifiers.
	UniquePDIDs int `json:"unique_pdids"`
	// SuccessfulMatches equals TotalDevices (labels with a catalog match).
	SuccessfulMatches int `json:"successful_matches"`
	// DeviceCounts maps product identifier to occurrence count.
	DeviceCounts map[int]int `json:"device_counts"`
	// Brands holds per-brand roll-ups in first-seen order.
	Brands []BucketStat `json:"brand_stats"`
	// Categories holds per-category roll-ups in first-seen order.
	Categories []BucketStat `json:"category_stats"`
	// UnmatchedLabels are labels with no catalog match, excluded from
	// priced totals.
	UnmatchedLabels []ShapeLabel `json:"unmatched_labels"`
	// TotalPrice sums unit price × count over all matched devices.
	TotalPrice decimal.Decimal `json:"total_price"`
}
