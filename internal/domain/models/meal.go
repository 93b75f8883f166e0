package models

import (
	"math"
	"time"
)

// Meal types accepted for a meal record
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealTypes lists meal types in display order
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Nutrients is a macro breakdown. For foods it is per 100g.
type Nutrients struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}

// Scale returns n multiplied by ratio, rounded to two decimals
func (n Nutrients) Scale(ratio float64) Nutrients {
	return Nutrients{
		Calories:      Round(n.Calories*ratio, 2),
		Protein:       Round(n.Protein*ratio, 2),
		Carbohydrates: Round(n.Carbohydrates*ratio, 2),
		Fat:           Round(n.Fat*ratio, 2),
	}
}

// Add returns the rounded sum of n and o
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:      Round(n.Calories+o.Calories, 2),
		Protein:       Round(n.Protein+o.Protein, 2),
		Carbohydrates: Round(n.Carbohydrates+o.Carbohydrates, 2),
		Fat:           Round(n.Fat+o.Fat, 2),
	}
}

// Food is a catalog entry with nutrients per 100g
type Food struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Per100g   Nutrients `json:"per_100g"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// MealItem is one food logged into a meal, with nutrients scaled to its weight
type MealItem struct {
	ID          int64     `json:"id" db:"id"`
	MealID      int64     `json:"meal_id" db:"meal_id"`
	FoodID      int64     `json:"food_id" db:"food_id"`
	FoodName    string    `json:"food_name" db:"food_name"`
	WeightGrams float64   `json:"weight" db:"weight"`
	Nutrients   Nutrients `json:"nutrients"`
}

// Meal is the record for one (user, date, meal type)
type Meal struct {
	ID       int64      `json:"id" db:"id"`
	UserID   int64      `json:"-" db:"user_id"`
	Date     time.Time  `json:"-" db:"meal_date"`
	MealType string     `json:"meal_type" db:"meal_type"`
	Totals   Nutrients  `json:"totals"`
	Items    []MealItem `json:"items"`
}

// DailyMeals is the per-day nutrition view
type DailyMeals struct {
	Date        string             `json:"date"`
	Meals       []Meal             `json:"meals"`
	Totals      Nutrients          `json:"totals"`
	Recommended *RecommendedMacros `json:"recommended,omitempty"`
}

// Round rounds v to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
