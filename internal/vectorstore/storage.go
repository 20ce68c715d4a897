package vectorstore

import "qaindex/internal/domain"

// Storage holds a fitted matrix and supports similarity search over it.
type Storage interface {
	Init(dimension int) error
	Load(m domain.Matrix) error
	Search(vector domain.SparseVector, topK int) ([]domain.Hit, error)
	Clear() error
}
