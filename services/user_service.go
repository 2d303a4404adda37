package services

import (
	"context"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/repositories"
	"flowershop_backend/utils"
)

type UserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
	IsActive  bool
}

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if err := s.checkUnique(ctx, in, 0); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, apperr.BadRequest("Invalid user role")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		IsActive:  in.IsActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindAll(ctx context.Context, q paginate.Query) (*models.Paginated[models.User], error) {
	return s.users.Paginate(ctx, q)
}

func (s *UserService) FindOne(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent user"))
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, apperr.NotFound("Nonexistent user"))
	}
	if !in.Role.Valid() {
		return nil, apperr.BadRequest("Invalid user role")
	}
	if err := s.checkUnique(ctx, in, id); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user.Username = in.Username
	user.Email = in.Email
	user.Password = hash
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Role = in.Role
	user.IsActive = in.IsActive

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Remove(ctx context.Context, id uint) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return missing(err, apperr.BadRequest("Nonexistent user to delete"))
	}
	_, err := s.users.Delete(ctx, id)
	return err
}

func (s *UserService) checkUnique(ctx context.Context, in UserInput, exceptID uint) error {
	taken, err := s.users.Taken(ctx, "username", in.Username, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.BadRequest("Username already in use")
	}

	taken, err = s.users.Taken(ctx, "email", in.Email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.BadRequest("Email address already in use")
	}
	return nil
}
