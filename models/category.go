package models

// TaskCategory is the closed set of board categories. Data can never carry a
// category that the lookup table does not know about: every entry point runs
// NormalizeCategory before a category is stored or displayed.
type TaskCategory string

const (
	CategoryTask     TaskCategory = "task"
	CategoryMeeting  TaskCategory = "meeting"
	CategoryReview   TaskCategory = "review"
	CategoryBugfix   TaskCategory = "bugfix"
	CategoryDocument TaskCategory = "document"
	CategoryResearch TaskCategory = "research"
)

// CategoryInfo is the display metadata attached to a category key.
type CategoryInfo struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	BgColor string `json:"bgColor"`
}

var categoryInfos = map[TaskCategory]CategoryInfo{
	CategoryTask:     {Name: "Task", Color: "#3498db", BgColor: "#eaf4fd"},
	CategoryMeeting:  {Name: "Meeting", Color: "#9b59b6", BgColor: "#f4ecf9"},
	CategoryReview:   {Name: "Review", Color: "#f39c12", BgColor: "#fdf2e0"},
	CategoryBugfix:   {Name: "Bugfix", Color: "#e74c3c", BgColor: "#fceae8"},
	CategoryDocument: {Name: "Document", Color: "#2ecc71", BgColor: "#e9faf0"},
	CategoryResearch: {Name: "Research", Color: "#1abc9c", BgColor: "#e6f9f5"},
}

// categoryOrder fixes a stable display order for iteration.
var categoryOrder = []TaskCategory{
	CategoryTask,
	CategoryMeeting,
	CategoryReview,
	CategoryBugfix,
	CategoryDocument,
	CategoryResearch,
}

// Categories returns the closed category set in display order.
func Categories() []TaskCategory {
	out := make([]TaskCategory, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Known reports whether c is a member of the closed category set.
func (c TaskCategory) Known() bool {
	_, ok := categoryInfos[c]
	return ok
}

// NormalizeCategory maps an arbitrary input value to a category key.
// Anything that is not exactly a known key (nil, empty string, numbers,
// slices, unknown strings) falls back to CategoryTask. Matching is
// case-sensitive: "MEETING" is not a category.
func NormalizeCategory(v any) TaskCategory {
	s, ok := v.(string)
	if !ok {
		if c, isCat := v.(TaskCategory); isCat {
			s = string(c)
		} else {
			return CategoryTask
		}
	}
	if s == "" {
		return CategoryTask
	}
	c := TaskCategory(s)
	if !c.Known() {
		return CategoryTask
	}
	return c
}

// CategoryInfoFor looks up display metadata for a category key, falling back
// to the baseline category's metadata for unknown keys.
func CategoryInfoFor(c TaskCategory) CategoryInfo {
	if info, ok := categoryInfos[c]; ok {
		return info
	}
	return categoryInfos[CategoryTask]
}
