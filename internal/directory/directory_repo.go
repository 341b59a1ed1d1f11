package directory

import (
	"context"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	EmployeeExists(ctx context.Context, id string) (bool, error)
	ClientExists(ctx context.Context, id string) (bool, error)
	FindEmployeeByID(ctx context.Context, id string) (*Employee, error)
	FindClientByID(ctx context.Context, id string) (*Client, error)
}

type repository struct {
	db *gorm.DB
	sf singleflight.Group
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Existence checks run on every booking create/update, so concurrent lookups
// for the same id are collapsed into one query.
func (r *repository) EmployeeExists(ctx context.Context, id string) (bool, error) {
	v, err, _ := r.sf.Do("employee:"+id, func() (interface{}, error) {
		var count int64
		err := r.db.WithContext(ctx).
			Model(&Employee{}).
			Where("id = ?", id).
			Where("active = true").
			Count(&count).Error
		return count > 0, err
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (r *repository) ClientExists(ctx context.Context, id string) (bool, error) {
	v, err, _ := r.sf.Do("client:"+id, func() (interface{}, error) {
		var count int64
		err := r.db.WithContext(ctx).
			Model(&Client{}).
			Where("id = ?", id).
			Where("active = true").
			Count(&count).Error
		return count > 0, err
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (r *repository) FindEmployeeByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindClientByID(ctx context.Context, id string) (*Client, error) {
	var c Client
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
