package models

import "time"

// Gender values accepted on a profile
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Profile field names, as exposed to clients and assistant tools
const (
	FieldHeight      = "height"
	FieldWeight      = "weight"
	FieldAge         = "age"
	FieldGender      = "gender"
	FieldInformation = "information"
	FieldTarget      = "target"
)

// Profile defaults applied at registration
const (
	DefaultHeight = 170.0
	DefaultWeight = 55.0
	DefaultAge    = 21
)

// Profile holds body metrics and free-text goals for a user (one per user).
type Profile struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Height      float64   `json:"height" db:"height"` // centimeters
	Weight      float64   `json:"weight" db:"weight"` // kilograms
	Age         int       `json:"age" db:"age"`
	Gender      string    `json:"gender" db:"gender"`
	Information string    `json:"information" db:"information"`
	Target      string    `json:"target" db:"target"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewDefaultProfile returns the profile created alongside a new account
func NewDefaultProfile(userID int64) *Profile {
	return &Profile{
		UserID:    userID,
		Height:    DefaultHeight,
		Weight:    DefaultWeight,
		Age:       DefaultAge,
		Gender:    GenderMale,
		UpdatedAt: time.Now(),
	}
}

// Fields returns the profile as a field-name keyed map
func (p *Profile) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldHeight:      p.Height,
		FieldWeight:      p.Weight,
		FieldAge:         p.Age,
		FieldGender:      p.Gender,
		FieldInformation: p.Information,
		FieldTarget:      p.Target,
	}
}

// ProfileUpdate carries a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	Height      *float64
	Weight      *float64
	Age         *int
	Gender      *string
	Information *string
	Target      *string
}

// IsEmpty reports whether no field is set
func (u *ProfileUpdate) IsEmpty() bool {
	return u.Height == nil && u.Weight == nil && u.Age == nil &&
		u.Gender == nil && u.Information == nil && u.Target == nil
}

// FieldNames lists the set fields in a stable order
func (u *ProfileUpdate) FieldNames() []string {
	var names []string
	if u.Height != nil {
		names = append(names, FieldHeight)
	}
	if u.Weight != nil {
		names = append(names, FieldWeight)
	}
	if u.Age != nil {
		names = append(names, FieldAge)
	}
	if u.Gender != nil {
		names = append(names, FieldGender)
	}
	if u.Information != nil {
		names = append(names, FieldInformation)
	}
	if u.Target != nil {
		names = append(names, FieldTarget)
	}
	return names
}

// Apply merges the set fields into p
func (u *ProfileUpdate) Apply(p *Profile) {
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Information != nil {
		p.Information = *u.Information
	}
	if u.Target != nil {
		p.Target = *u.Target
	}
}

// HealthMetrics are derived from the profile body metrics
type HealthMetrics struct {
	BMI             float64            `json:"bmi"`
	BMICategory     string             `json:"bmi_category"`
	BMR             float64            `json:"bmr"`
	DailyCalories   float64            `json:"daily_calories"`
	RecommendedDiet RecommendedMacros  `json:"recommended_macros"`
	Profile         map[string]float64 `json:"profile"`
}

// RecommendedMacros are daily gram targets derived from daily calories
type RecommendedMacros struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}
