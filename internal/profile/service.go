package profile

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Service reads and updates shopper profiles.
type Service interface {
	Get(ctx context.Context, shopperID uuid.UUID) (*Profile, error)
	UpdatePersonal(ctx context.Context, shopperID uuid.UUID, info PersonalInfo) (*Profile, error)
	UpdateNotifications(ctx context.Context, shopperID uuid.UUID, prefs Notifications) (*Profile, error)
	UpdatePrivacy(ctx context.Context, shopperID uuid.UUID, privacy Privacy) (*Profile, error)
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db}, nil
}

func (s *service) Get(ctx context.Context, shopperID uuid.UUID) (*Profile, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id is required")
	}
	var row models.Profile
	err := s.db.WithContext(ctx).First(&row, "shopper_id = ?", shopperID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p := Default(shopperID)
		return &p, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	p := fromModel(row)
	return &p, nil
}

func (s *service) UpdatePersonal(ctx context.Context, shopperID uuid.UUID, info PersonalInfo) (*Profile, error) {
	info = trimPersonal(info)
	if err := validateStruct(info); err != nil {
		return nil, err
	}
	return s.update(ctx, shopperID, func(p *Profile) { p.Personal = info })
}

func (s *service) UpdateNotifications(ctx context.Context, shopperID uuid.UUID, prefs Notifications) (*Profile, error) {
	return s.update(ctx, shopperID, func(p *Profile) { p.Notifications = prefs })
}

func (s *service) UpdatePrivacy(ctx context.Context, shopperID uuid.UUID, privacy Privacy) (*Profile, error) {
	if err := validateStruct(privacy); err != nil {
		return nil, err
	}
	return s.update(ctx, shopperID, func(p *Profile) { p.Privacy = privacy })
}

func (s *service) update(ctx context.Context, shopperID uuid.UUID, apply func(*Profile)) (*Profile, error) {
	current, err := s.Get(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	apply(current)

	row := current.toModel()
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "shopper_id"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return s.Get(ctx, shopperID)
}

func trimPersonal(info PersonalInfo) PersonalInfo {
	info.FirstName = strings.TrimSpace(info.FirstName)
	info.LastName = strings.TrimSpace(info.LastName)
	info.Username = strings.TrimSpace(info.Username)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Location = strings.TrimSpace(info.Location)
	info.Bio = strings.TrimSpace(info.Bio)
	return info
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	for _, fe := range fieldErrs {
		details[fe.Field()] = message(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "username":
		return "may only contain letters, digits, dots, dashes and underscores"
	}
	return "is invalid"
}
