package domain

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination нормализованные параметры постраничной выборки. Номер страницы начинается с 1.
type Pagination struct {
	Page int
	Size int
}

// NewPagination приводит page и size к допустимым значениям: page < 1 превращается в 1,
// size ограничивается диапазоном [1, MaxPageSize].
func NewPagination(page, size int) Pagination {
	if page < 1 {
		page = 1
	}
	size = max(1, min(size, MaxPageSize))
	return Pagination{Page: page, Size: size}
}

// Offset кол-во записей, которые нужно пропустить.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

func (p Pagination) Limit() int {
	return p.Size
}
