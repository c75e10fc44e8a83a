// Package nutrition считает дневные итоги питания по списку приёмов пищи.
// Итоги нигде не хранятся отдельно — всегда полный пересчёт по списку.
package nutrition

import "fitprobot/internal/models"

// Дневные цели по умолчанию
const (
	CaloriesTarget = 2200.0
	ProteinTarget  = 165.0
	CarbsTarget    = 275.0
	FatTarget      = 85.0
)

// MacroProgress — съедено и цель по одному показателю
type MacroProgress struct {
	Consumed float64
	Target   float64
}

// Percent возвращает прогресс к цели, ограниченный сверху 100
func (m MacroProgress) Percent() int {
	if m.Target <= 0 {
		return 0
	}
	percent := int(m.Consumed / m.Target * 100)
	if percent > 100 {
		return 100
	}
	return percent
}

// Summary — дневные итоги: калории и макронутриенты
type Summary struct {
	Calories MacroProgress
	Protein  MacroProgress
	Carbs    MacroProgress
	Fat      MacroProgress
}

// Aggregate пересчитывает итоги по списку приёмов пищи.
// Пустой список даёт нулевые итоги, порядок элементов не важен.
func Aggregate(meals []models.Meal) Summary {
	summary := Summary{
		Calories: MacroProgress{Target: CaloriesTarget},
		Protein:  MacroProgress{Target: ProteinTarget},
		Carbs:    MacroProgress{Target: CarbsTarget},
		Fat:      MacroProgress{Target: FatTarget},
	}

	for _, meal := range meals {
		summary.Calories.Consumed += meal.Calories
		summary.Protein.Consumed += meal.Protein
		summary.Carbs.Consumed += meal.Carbs
		summary.Fat.Consumed += meal.Fat
	}

	return summary
}
