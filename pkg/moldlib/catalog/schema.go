// Package catalog loads the mold-library product sheet and discovers its
// column layout by header text.
package catalog

import "strings"

// Schema maps catalog concerns to 1-based column indexes (0 = not found).
// Header matching is substring-based so hand-edited sheets with decorated
// headers still resolve; the matching policy lives only here.
type Schema struct {
	PDID      int
	Name      int
	ShortName int
	Brand     int
	Price     int
	Spec      int
	Category  int
	Image     int
	Enabled   int
}

// headerRule binds a schema field to its accepted header substrings.
// Rules are tried in order; the first header containing any substring wins.
type headerRule struct {
	field      func(*Schema) *int
	substrings []string
}

var headerRules = []headerRule{
	{func(s *Schema) *int { return &s.PDID }, []string{"产品ID", "PDID", "pdid", "product id"}},
	// 设备简称 must be tested before 设备名称 since both contain 设备.
	{func(s *Schema) *int { return &s.ShortName }, []string{"设备简称", "简称", "short name"}},
	{func(s *Schema) *int { return &s.Name }, []string{"设备名称", "device name"}},
	{func(s *Schema) *int { return &s.Brand }, []string{"品牌", "brand"}},
	{func(s *Schema) *int { return &s.Price }, []string{"单价", "price"}},
	{func(s *Schema) *int { return &s.Spec }, []string{"主规格", "规格", "spec"}},
	{func(s *Schema) *int { return &s.Category }, []string{"设备品类", "品类", "category"}},
	{func(s *Schema) *int { return &s.Image }, []string{"图片", "image"}},
	{func(s *Schema) *int { return &s.Enabled }, []string{"启用", "enabled"}},
}

// DiscoverSchema scans a header row and produces the column-index mapping
// consumed by all later stages.
func DiscoverSchema(headers []string) Schema {
	var s Schema
	for _, rule := range headerRules {
		target := rule.field(&s)
		for col, h := range headers {
			if *target != 0 {
				break
			}
			for _, sub := range rule.substrings {
				if strings.Contains(h, sub) || strings.Contains(strings.ToLower(h), strings.ToLower(sub)) {
					*target = col + 1
					break
				}
			}
		}
	}
	return s
}

// HasImage reports whether an image column was located. Its absence is a
// valid state: the sheet simply never used embedded images.
func (s Schema) HasImage() bool { return s.Image != 0 }
