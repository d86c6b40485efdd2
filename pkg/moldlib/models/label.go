package models

// Rect is a shape bounding box in pixels.
type Rect struct {
	// L is the left offset in pixels.
	L int `json:"l"`
	// T is the top offset in pixels.
	T int `json:"t"`
	// W is the width in pixels.
	W int `json:"w"`
	// H is the height in pixels.
	H int `json:"h"`
}

// ShapeLabel is one pdid label found in a slide's shape tree.
type ShapeLabel struct {
	// PDID is the numeric value carried by the label.
	PDID int `json:"pdid"`
	// Text is the full trimmed shape text that matched.
	Text string `json:"text"`
	// ShapeName is the owning shape's name.
	ShapeName string `json:"shape_name"`
	// ParentGroup is the immediate enclosing group's name ("" at top level).
	ParentGroup string `json:"parent_group,omitempty"`
	// GroupPath lists every enclosing group name, outermost first.
	GroupPath []string `json:"group_path,omitempty"`
	// SlideIndex is the 0-based slide index.
	SlideIndex int `json:"slide_index"`
	// Pattern names the pattern that matched (strict or loose).
	Pattern string `json:"pattern"`
	// Geometry is the shape bounding box as written on the shape itself.
	// For grouped shapes the coordinates are local to the enclosing group's
	// child space, not slide-absolute.
	Geometry Rect `json:"position"`
}

// SlideDetail groups the labels found on one slide.
type SlideDetail struct {
	// SlideIndex is the 0-based slide index.
	SlideIndex int `json:"slide_index"`
	// Labels are the labels found on the slide, in enumeration order.
	Labels []ShapeLabel `json:"labels"`
}

// LabelReport is the deck-side extraction result.
type LabelReport struct {
	// DeckFile is the source presentation file name.
	DeckFile string `json:"deck_file"`
	// TotalSlides is the number of slides scanned.
	TotalSlides int `json:"total_slides"`
	// TotalLabelsFound is the number of labels across all slides.
	TotalLabelsFound int `json:"total_labels_found"`
	// Slides holds per-slide detail in slide order.
	Slides []SlideDetail `json:"per_slide_detail"`
}

// AllLabels flattens the per-slide detail in slide order.
func (r *LabelReport) AllLabels() []ShapeLabel {
	var out []ShapeLabel
	for _, s := range r.Slides {
		out = append(out, s.Labels...)
	}
	return out
}
