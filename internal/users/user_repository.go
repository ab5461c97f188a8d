package users

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

var userColumns = []interface{}{
	"id", "username", "role", "department", "position", "created_at",
}

type UserRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *UserRepository {
	return &UserRepository{repository: r}
}

func (r *UserRepository) GetUser(id int) (*models.User, error) {
	var user models.User
	found, err := r.repository.GoquDBWrapper.
		Select(userColumns...).
		From("users").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("user", fmt.Sprint(id))
	}

	return &user, nil
}

func (r *UserRepository) GetUsers() ([]models.User, error) {
	var found = []models.User{}
	query := r.repository.GoquDBWrapper.
		Select(userColumns...).
		From("users").
		Order(goqu.I("username").Asc())

	if err := query.Executor().ScanStructs(&found); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return found, nil
}

func (r *UserRepository) PersistUser(req models.CreateUserRequest, passwordHash []byte) (*models.User, error) {
	user := models.User{
		Username:   req.Username,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
	}

	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"username":      req.Username,
			"password_hash": string(passwordHash),
			"role":          req.Role,
			"department":    req.Department,
			"position":      req.Position,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError(
				fmt.Sprintf("username %s is taken", req.Username),
				string(pqErr.Code),
			)
		}
		return nil, fmt.Errorf("failed to insert user record: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) UpdateUser(id int, req models.UpdateUserRequest, passwordHash []byte) (*models.User, error) {
	updates := make(map[string]interface{})

	if passwordHash != nil {
		updates["password_hash"] = string(passwordHash)
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		return nil, custom_error.NewValidationError("no fields to update")
	}

	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Returning(userColumns...)

	var user models.User
	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("user", fmt.Sprint(id))
	}

	return &user, nil
}

func (r *UserRepository) DeleteUser(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("users").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("user", fmt.Sprint(id))
	}

	return nil
}
