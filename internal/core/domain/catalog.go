package domain

// Label describes how an enum value is presented to people.
type Label struct {
	Value string
	Label string
	Color string
	Icon  string
}

var priorityLabels = map[Priority]Label{
	PriorityUrgent: {Value: "urgent", Label: "Urgent", Color: "danger", Icon: "🚨"},
	PriorityHigh:   {Value: "high", Label: "High", Color: "warning", Icon: "⚠️"},
	PriorityMedium: {Value: "medium", Label: "Medium", Color: "info", Icon: "ℹ️"},
	PriorityLow:    {Value: "low", Label: "Low", Color: "success", Icon: "✅"},
}

var statusLabels = map[RequestStatus]Label{
	StatusPending:    {Value: "pending", Label: "Pending", Color: "warning", Icon: "⏳"},
	StatusInProgress: {Value: "in_progress", Label: "In Progress", Color: "info", Icon: "🔄"},
	StatusResolved:   {Value: "resolved", Label: "Resolved", Color: "success", Icon: "✅"},
	StatusCancelled:  {Value: "cancelled", Label: "Cancelled", Color: "danger", Icon: "❌"},
}

var categoryLabels = map[Category]Label{
	CategoryPlumbing:   {Value: "plumbing", Label: "Plumbing", Icon: "🚰"},
	CategoryElectrical: {Value: "electrical", Label: "Electrical", Icon: "⚡"},
	CategoryCarpentry:  {Value: "carpentry", Label: "Carpentry", Icon: "🔨"},
	CategoryCleaning:   {Value: "cleaning", Label: "Cleaning", Icon: "🧹"},
	CategorySecurity:   {Value: "security", Label: "Security", Icon: "🔒"},
	CategoryOther:      {Value: "other", Label: "Other", Icon: "📋"},
}

func (p Priority) Label() Label      { return priorityLabels[p] }
func (s RequestStatus) Label() Label { return statusLabels[s] }
func (c Category) Label() Label      { return categoryLabels[c] }

// Catalog holds the ordered labels of every enum the views need.
type Catalog struct {
	Priorities []Label
	Statuses   []Label
	Categories []Label
}

// NewCatalog builds the catalog in display order.
func NewCatalog() Catalog {
	c := Catalog{
		Priorities: make([]Label, 0, len(Priorities)),
		Statuses:   make([]Label, 0, len(Statuses)),
		Categories: make([]Label, 0, len(Categories)),
	}
	for _, p := range Priorities {
		c.Priorities = append(c.Priorities, p.Label())
	}
	for _, s := range Statuses {
		c.Statuses = append(c.Statuses, s.Label())
	}
	for _, cat := range Categories {
		c.Categories = append(c.Categories, cat.Label())
	}
	return c
}
