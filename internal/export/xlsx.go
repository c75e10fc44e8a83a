// Package export собирает xlsx-отчёт пользователя: замеры тела,
// текущая тренировка и рацион. Файл отправляется пользователю в чат.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"fitprobot/internal/models"
)

// Названия листов отчёта
const (
	SheetProgress = "Замеры"
	SheetWorkout  = "Тренировка"
	SheetMeals    = "Рацион"
)

// Report — данные для выгрузки
type Report struct {
	UserName string
	Progress []models.BodyProgress
	Workout  *models.Workout
	Meals    []models.Meal
}

// WriteReport пишет отчёт в xlsx-файл и возвращает путь к нему
func WriteReport(dir string, report *Report) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeProgressSheet(f, report.Progress); err != nil {
		return "", err
	}
	if err := writeWorkoutSheet(f, report.Workout); err != nil {
		return "", err
	}
	if err := writeMealsSheet(f, report.Meals); err != nil {
		return "", err
	}

	// Удаляем стандартный лист Sheet1
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SheetProgress); err == nil {
		f.SetActiveSheet(idx)
	}

	name := fmt.Sprintf("report_%s.xlsx", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("ошибка сохранения файла: %w", err)
	}
	return path, nil
}

// writeProgressSheet заполняет лист замеров тела
func writeProgressSheet(f *excelize.File, entries []models.BodyProgress) error {
	if _, err := f.NewSheet(SheetProgress); err != nil {
		return fmt.Errorf("ошибка создания листа: %w", err)
	}

	headers := []string{"Дата", "Вес (кг)", "Грудь (см)", "Рука (см)", "Талия (см)", "Бедро (см)"}
	if err := writeHeader(f, SheetProgress, headers); err != nil {
		return err
	}

	for i, entry := range entries {
		row := i + 2
		f.SetCellValue(SheetProgress, fmt.Sprintf("A%d", row), entry.Date)
		f.SetCellValue(SheetProgress, fmt.Sprintf("B%d", row), entry.Weight)
		setIfPositive(f, SheetProgress, fmt.Sprintf("C%d", row), entry.Chest)
		setIfPositive(f, SheetProgress, fmt.Sprintf("D%d", row), entry.Arm)
		setIfPositive(f, SheetProgress, fmt.Sprintf("E%d", row), entry.Waist)
		setIfPositive(f, SheetProgress, fmt.Sprintf("F%d", row), entry.Thigh)
	}

	f.SetColWidth(SheetProgress, "A", "F", 14)
	return nil
}

// writeWorkoutSheet заполняет лист текущей тренировки
func writeWorkoutSheet(f *excelize.File, workout *models.Workout) error {
	if _, err := f.NewSheet(SheetWorkout); err != nil {
		return fmt.Errorf("ошибка создания листа: %w", err)
	}

	headers := []string{"Упражнение", "Подходы", "Повторы", "Вес (кг)", "Отдых (сек)", "RPE", "Выполнено"}
	if err := writeHeader(f, SheetWorkout, headers); err != nil {
		return err
	}
	if workout == nil {
		return nil
	}

	for i, ex := range workout.Exercises {
		row := i + 2
		f.SetCellValue(SheetWorkout, fmt.Sprintf("A%d", row), ex.Name)
		f.SetCellValue(SheetWorkout, fmt.Sprintf("B%d", row), ex.Sets)
		f.SetCellValue(SheetWorkout, fmt.Sprintf("C%d", row), ex.Reps)
		setIfPositive(f, SheetWorkout, fmt.Sprintf("D%d", row), ex.Weight)
		f.SetCellValue(SheetWorkout, fmt.Sprintf("E%d", row), ex.Rest)
		if ex.RPE > 0 {
			f.SetCellValue(SheetWorkout, fmt.Sprintf("F%d", row), ex.RPE)
		}
		f.SetCellValue(SheetWorkout, fmt.Sprintf("G%d", row), checkmark(ex.Completed))
	}

	f.SetColWidth(SheetWorkout, "A", "A", 28)
	f.SetColWidth(SheetWorkout, "B", "G", 12)
	return nil
}

// writeMealsSheet заполняет лист рациона за сегодня
func writeMealsSheet(f *excelize.File, meals []models.Meal) error {
	if _, err := f.NewSheet(SheetMeals); err != nil {
		return fmt.Errorf("ошибка создания листа: %w", err)
	}

	headers := []string{"Приём пищи", "Ккал", "Белки", "Углеводы", "Жиры", "Съедено"}
	if err := writeHeader(f, SheetMeals, headers); err != nil {
		return err
	}

	for i, meal := range meals {
		row := i + 2
		f.SetCellValue(SheetMeals, fmt.Sprintf("A%d", row), meal.Name)
		f.SetCellValue(SheetMeals, fmt.Sprintf("B%d", row), meal.Calories)
		f.SetCellValue(SheetMeals, fmt.Sprintf("C%d", row), meal.Protein)
		f.SetCellValue(SheetMeals, fmt.Sprintf("D%d", row), meal.Carbs)
		f.SetCellValue(SheetMeals, fmt.Sprintf("E%d", row), meal.Fat)
		f.SetCellValue(SheetMeals, fmt.Sprintf("F%d", row), checkmark(meal.Completed))
	}

	// Итоговая строка с формулами суммирования
	if len(meals) > 0 {
		total := len(meals) + 2
		f.SetCellValue(SheetMeals, fmt.Sprintf("A%d", total), "Итого")
		for _, col := range []string{"B", "C", "D", "E"} {
			f.SetCellFormula(SheetMeals, fmt.Sprintf("%s%d", col, total),
				fmt.Sprintf("SUM(%s2:%s%d)", col, col, total-1))
		}
	}

	f.SetColWidth(SheetMeals, "A", "A", 28)
	f.SetColWidth(SheetMeals, "B", "F", 12)
	return nil
}

// writeHeader пишет строку заголовков с жирным стилем
func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("ошибка создания стиля: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

// setIfPositive пишет значение только если оно задано
func setIfPositive(f *excelize.File, sheet, cell string, value float64) {
	if value > 0 {
		f.SetCellValue(sheet, cell, value)
	}
}

func checkmark(done bool) string {
	if done {
		return "✅"
	}
	return "—"
}
