package request

type CreateBookRequest struct {
	ISBN            string   `json:"isbn" validate:"required,min=10,max=20"`
	Title           string   `json:"title" validate:"required,max=200"`
	AuthorID        int64    `json:"author_id" validate:"required,gt=0"`
	PublisherID     *int64   `json:"publisher_id" validate:"omitempty,gt=0"`
	CategoryID      *int64   `json:"category_id" validate:"omitempty,gt=0"`
	PublicationYear *int     `json:"publication_year" validate:"omitempty,gte=1000"`
	Pages           *int     `json:"pages" validate:"omitempty,gt=0"`
	Language        string   `json:"language" validate:"omitempty,max=30"`
	Description     *string  `json:"description"`
	TotalCopies     int      `json:"total_copies" validate:"required,gte=0"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	Location        *string  `json:"location" validate:"omitempty,max=50"`
}

type UpdateBookRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	PublisherID     *int64   `json:"publisher_id" validate:"omitempty,gt=0"`
	CategoryID      *int64   `json:"category_id" validate:"omitempty,gt=0"`
	PublicationYear *int     `json:"publication_year" validate:"omitempty,gte=1000"`
	Pages           *int     `json:"pages" validate:"omitempty,gt=0"`
	Language        string   `json:"language" validate:"omitempty,max=30"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	Location        *string  `json:"location" validate:"omitempty,max=50"`
	Status          string   `json:"status" validate:"omitempty,oneof=available unavailable maintenance"`
}

type CreateAuthorRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreatePublisherRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}
