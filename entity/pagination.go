package entity

// Pagination is what list screens show under the table.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// EmptyPagination is the state after a failed or empty fetch.
func EmptyPagination(perPage int) Pagination {
	return Pagination{
		CurrentPage:  1,
		TotalPages:   1,
		TotalItems:   0,
		ItemsPerPage: perPage,
	}
}

// NewPagination computes the page count for totalItems.
func NewPagination(currentPage, totalItems, itemsPerPage int) Pagination {
	if itemsPerPage <= 0 {
		itemsPerPage = 1
	}
	totalPages := totalItems / itemsPerPage
	if totalItems%itemsPerPage > 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	return Pagination{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: itemsPerPage,
	}
}

// List is a page of records with its pagination.
type List struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}
