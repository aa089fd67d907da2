package services

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/models"
	"stockhub/internal/pagination"
)

// DefaultRoleName is assigned when sign-up carries no explicit role.
const DefaultRoleName = "user"

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user. Email and username must be unique,
// the role name must resolve to an existing role, and name fields are
// title-cased before storage.
func (s *userService) CreateUser(in CreateUserInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	email := strings.ToLower(in.Email)

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}
	s.db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	role, err := s.resolveRole(in.Role)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Name:     formatName(in.Name),
		LastName: formatName(in.LastName),
		Username: in.Username,
		Email:    email,
		Password: string(hashedPassword),
		RoleID:   role.ID,
		Role:     *role,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email with the role preloaded.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID with the role preloaded.
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// ListUsers returns a paginated list of users ordered by creation time.
func (s *userService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.User{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := base.Preload("Role").Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateUser applies a partial profile update. A changed email is
// re-checked for uniqueness, a present role is re-resolved by name, and
// a present password is always re-hashed.
func (s *userService) UpdateUser(id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		if email != user.Email {
			var count int64
			s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count)
			if count > 0 {
				return nil, apperrors.ErrDuplicateEmail
			}
			user.Email = email
		}
	}
	if in.Username != nil && *in.Username != user.Username {
		var count int64
		s.db.Model(&models.User{}).Where("username = ? AND id <> ?", *in.Username, id).Count(&count)
		if count > 0 {
			return nil, apperrors.ErrDuplicateUsername
		}
		user.Username = *in.Username
	}
	if in.Name != nil {
		user.Name = formatName(*in.Name)
	}
	if in.LastName != nil {
		user.LastName = formatName(*in.LastName)
	}
	if in.Role != nil {
		role, err := s.resolveRole(*in.Role)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = *role
	}
	if in.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.Password = string(hashedPassword)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// DeleteUser soft-deletes a user.
func (s *userService) DeleteUser(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AttemptSignIn verifies credentials. An unknown email and a wrong
// password both return the same invalid-credentials error so callers
// cannot tell which part failed.
func (s *userService) AttemptSignIn(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// resolveRole maps a role name to its row, defaulting the empty name.
func (s *userService) resolveRole(name string) (*models.Role, error) {
	if name == "" {
		name = DefaultRoleName
	}
	var role models.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &role, nil
}

// formatName normalizes a human name: trimmed, lowercased, first letter
// uppercased.
func formatName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
