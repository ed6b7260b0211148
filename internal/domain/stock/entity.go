package stock

import (
	"errors"
	"strings"
)

var (
	ErrEmptyStockID   = errors.New("stock id cannot be empty")
	ErrEmptyBookTitle = errors.New("book title cannot be empty")
)

// Status is the lending status of the physical copy, independent of rentals.
type Status int16

const (
	StatusAvailable   Status = 0
	StatusUnavailable Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Stock struct {
	id        string
	bookTitle string
	status    Status
	occupied  bool
}

func NewStock(id, bookTitle string, status Status, occupied bool) (*Stock, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyStockID
	}
	bookTitle = strings.TrimSpace(bookTitle)
	if bookTitle == "" {
		return nil, ErrEmptyBookTitle
	}
	return &Stock{id: id, bookTitle: bookTitle, status: status, occupied: occupied}, nil
}

// IsLendable reports whether the copy may be put on a new rental at all.
func (s *Stock) IsLendable() bool {
	return s.status == StatusAvailable
}

func (s *Stock) ID() string        { return s.id }
func (s *Stock) BookTitle() string { return s.bookTitle }
func (s *Stock) Status() Status    { return s.status }
func (s *Stock) Occupied() bool    { return s.occupied }
