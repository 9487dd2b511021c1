package subject

type CreateSubjectDTO struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

type UpdateSubjectDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
	IsActive    *bool   `json:"is_active"`
}

type ReorderItem struct {
	ID         string `json:"id" validate:"required,uuid"`
	OrderIndex int    `json:"order_index"`
}

type ReorderDTO struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,dive"`
}
