package profile

import (
	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
)

// Activity multiplier for a sedentary lifestyle
const sedentaryFactor = 1.2

// ComputeMetrics derives BMI (kg/m^2), BMR (Mifflin-St Jeor) and daily
// calorie and macro targets from a profile.
func ComputeMetrics(p *models.Profile) (*models.HealthMetrics, error) {
	if p.Height <= 0 || p.Weight <= 0 || p.Age <= 0 {
		return nil, &domain.ValidationError{Message: "height, weight and age must be positive to compute metrics"}
	}

	meters := p.Height / 100
	bmi := models.Round(p.Weight/(meters*meters), 2)

	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == models.GenderFemale {
		bmr -= 161
	} else {
		bmr += 5
	}
	bmr = models.Round(bmr, 2)
	calories := models.Round(bmr*sedentaryFactor, 2)

	return &models.HealthMetrics{
		BMI:             bmi,
		BMICategory:     BMICategory(bmi),
		BMR:             bmr,
		DailyCalories:   calories,
		RecommendedDiet: RecommendMacros(calories),
		Profile: map[string]float64{
			"height": p.Height,
			"weight": p.Weight,
			"age":    float64(p.Age),
		},
	}, nil
}

// BMICategory buckets a BMI value (Chinese adult thresholds)
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "偏瘦"
	case bmi < 24:
		return "正常"
	case bmi < 28:
		return "偏胖"
	default:
		return "肥胖"
	}
}

// RecommendMacros splits daily calories into gram targets:
// 17.5% protein, 52.5% carbohydrates, 27.5% fat.
func RecommendMacros(calories float64) models.RecommendedMacros {
	return models.RecommendedMacros{
		Calories:      calories,
		Protein:       models.Round(calories*0.175/4, 1),
		Carbohydrates: models.Round(calories*0.525/4, 1),
		Fat:           models.Round(calories*0.275/9, 1),
	}
}
