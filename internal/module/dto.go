package module

type CreateModuleDTO struct {
	SubjectID   string `json:"subject_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

type UpdateModuleDTO struct {
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
