package posgrest

import (
	"context"

	"gorm.io/gorm"
)

// repository is a generic GORM-based repository. The offer store and any
// future persisted entities share the same CRUD surface.
type repository[T interface{}] struct {
	db *gorm.DB
}

// New creates a repository instance for type T backed by the given
// connection.
func New[T interface{}](db *gorm.DB) *repository[T] {
	return &repository[T]{
		db,
	}
}

// Create inserts a new entity.
func (r *repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(&entity).Error
}

// GetByID retrieves a single entity by primary key. Returns
// gorm.ErrRecordNotFound when the row does not exist.
func (r *repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetAll retrieves every entity of type T.
func (r *repository[T]) GetAll(ctx context.Context) (*[]T, error) {
	var entities []T
	err := r.db.WithContext(ctx).Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return &entities, nil
}

// GetBy retrieves entities matching a field value.
func (r *repository[T]) GetBy(ctx context.Context, key string, value interface{}) (*[]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Where(key, value).Find(&entities).Error; err != nil {
		return nil, err
	}
	return &entities, nil
}

// Update updates an existing entity identified by primary key.
func (r *repository[T]) Update(ctx context.Context, entity *T, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Updates(entity).Error
}
