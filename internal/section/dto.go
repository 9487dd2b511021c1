package section

type CreateSectionDTO struct {
	ModuleID   string      `json:"module_id" validate:"required,uuid"`
	Name       string      `json:"name" validate:"required"`
	Type       SectionType `json:"type" validate:"required"`
	Content    string      `json:"content"`
	Link       string      `json:"link"`
	OrderIndex int         `json:"order_index"`
	IsRequired *bool       `json:"is_required"`
}

type UpdateSectionDTO struct {
	Name       *string      `json:"name"`
	Type       *SectionType `json:"type"`
	Content    *string      `json:"content"`
	Link       *string      `json:"link"`
	OrderIndex *int         `json:"order_index"`
	IsRequired *bool        `json:"is_required"`
}

type ReorderItem struct {
	ID         string `json:"id" validate:"required,uuid"`
	OrderIndex int    `json:"order_index"`
}

type ReorderDTO struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,dive"`
}
