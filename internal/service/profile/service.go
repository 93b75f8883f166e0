package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/sanitizer"
)

// updatableFields may be changed through UpdateInfo
var updatableFields = map[string]bool{
	models.FieldHeight:      true,
	models.FieldWeight:      true,
	models.FieldAge:         true,
	models.FieldInformation: true,
	models.FieldTarget:      true,
}

// readableFields may be requested through GetInfo
var readableFields = map[string]bool{
	models.FieldHeight:      true,
	models.FieldWeight:      true,
	models.FieldAge:         true,
	models.FieldGender:      true,
	models.FieldInformation: true,
	models.FieldTarget:      true,
}

// profileService implements the ProfileService interface
type profileService struct {
	profileRepo repositories.ProfileRepository
	text        *sanitizer.TextSanitizer
	logger      *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repositories.ProfileRepository, logger *slog.Logger) services.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		text:        sanitizer.New(),
		logger:      logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int64, update *models.ProfileUpdate) (*models.Profile, error) {
	if update.IsEmpty() {
		return nil, &domain.ValidationError{Message: "no updates provided"}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.text.PlainPtr(update.Information)
	s.text.PlainPtr(update.Target)
	update.Apply(profile)
	if err := validateProfile(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated",
		"user_id", userID,
		"fields", update.FieldNames(),
	)

	return profile, nil
}

func (s *profileService) UpdateInfo(ctx context.Context, userID int64, updates map[string]interface{}) (*services.InfoUpdateOutcome, error) {
	if len(updates) == 0 {
		return nil, &domain.ValidationError{Message: "no updates provided"}
	}

	update := &models.ProfileUpdate{}
	var ignored []string

	for key, raw := range updates {
		if !updatableFields[key] {
			ignored = append(ignored, key)
			continue
		}
		if err := assignField(update, key, raw); err != nil {
			return nil, &domain.ValidationError{Message: err.Error()}
		}
	}
	sort.Strings(ignored)

	if update.IsEmpty() {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("no supported fields in update (supported: %s)", strings.Join(sortedKeys(updatableFields), ", ")),
		}
	}

	profile, err := s.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	return &services.InfoUpdateOutcome{
		UpdatedFields: update.FieldNames(),
		IgnoredFields: ignored,
		Profile:       profile,
	}, nil
}

func (s *profileService) GetInfo(ctx context.Context, userID int64, attributes []string) (map[string]interface{}, error) {
	var wanted []string
	for _, attr := range attributes {
		attr = strings.TrimSpace(attr)
		if readableFields[attr] {
			wanted = append(wanted, attr)
		}
	}
	if len(attributes) > 0 && len(wanted) == 0 {
		return nil, &domain.NotFoundError{
			Message: fmt.Sprintf("none of the requested attributes exist (available: %s)", strings.Join(sortedKeys(readableFields), ", ")),
		}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	all := profile.Fields()
	if len(wanted) == 0 {
		return all, nil
	}

	selected := make(map[string]interface{}, len(wanted))
	for _, attr := range wanted {
		selected[attr] = all[attr]
	}
	return selected, nil
}

func (s *profileService) HealthMetrics(ctx context.Context, userID int64) (*models.HealthMetrics, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ComputeMetrics(profile)
}

func validateProfile(p *models.Profile) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Height, validation.Required, validation.Min(50.0), validation.Max(260.0)),
		validation.Field(&p.Weight, validation.Required, validation.Min(20.0), validation.Max(400.0)),
		validation.Field(&p.Age, validation.Required, validation.Min(1), validation.Max(130)),
		validation.Field(&p.Gender, validation.Required, validation.In(models.GenderMale, models.GenderFemale)),
		validation.Field(&p.Information, validation.Length(0, 2000)),
		validation.Field(&p.Target, validation.Length(0, 2000)),
	)
}

// assignField coerces a loosely typed value (JSON number, numeric string or
// text) into the typed update
func assignField(u *models.ProfileUpdate, key string, raw interface{}) error {
	switch key {
	case models.FieldHeight, models.FieldWeight:
		v, err := toFloat(raw)
		if err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		if key == models.FieldHeight {
			u.Height = &v
		} else {
			u.Weight = &v
		}
	case models.FieldAge:
		v, err := toFloat(raw)
		if err != nil {
			return fmt.Errorf("age: %v", err)
		}
		if v != float64(int(v)) {
			return fmt.Errorf("age: must be a whole number")
		}
		age := int(v)
		u.Age = &age
	case models.FieldInformation, models.FieldTarget:
		text, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%s: must be text", key)
		}
		if key == models.FieldInformation {
			u.Information = &text
		} else {
			u.Target = &text
		}
	}
	return nil
}

func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("must be a number")
		}
		return f, nil
	default:
		return 0, fmt.Errorf("must be a number")
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
