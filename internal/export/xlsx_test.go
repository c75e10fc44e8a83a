package export

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"fitprobot/internal/models"
)

func TestWriteReportCreatesAllSheets(t *testing.T) {
	report := &Report{
		UserName: "Анна",
		Progress: []models.BodyProgress{
			{Date: "2025-03-01", Weight: 68.5, Waist: 74},
			{Date: "2025-03-08", Weight: 67.9},
		},
		Workout: &models.Workout{
			Name: "День ног",
			Exercises: []models.Exercise{
				{Name: "Присед", Sets: 4, Reps: "8", Weight: 60, Rest: 120, Completed: true},
			},
		},
		Meals: []models.Meal{
			{Name: "Омлет", Calories: 320, Protein: 24, Carbs: 4, Fat: 22, Completed: true},
			{Name: "Курица с рисом", Calories: 560, Protein: 45, Carbs: 62, Fat: 12},
		},
	}

	path, err := WriteReport(t.TempDir(), report)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("открытие файла: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{SheetProgress, SheetWorkout, SheetMeals} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("лист %q отсутствует", sheet)
		}
	}

	got, err := f.GetCellValue(SheetWorkout, "A2")
	if err != nil {
		t.Fatalf("чтение ячейки: %v", err)
	}
	if got != "Присед" {
		t.Errorf("A2 = %q, want Присед", got)
	}

	// Итоговая строка рациона идёт после двух приёмов пищи
	total, err := f.GetCellValue(SheetMeals, "A4")
	if err != nil {
		t.Fatalf("чтение ячейки: %v", err)
	}
	if total != "Итого" {
		t.Errorf("A4 = %q, want Итого", total)
	}
}

func TestWriteReportEmptyData(t *testing.T) {
	path, err := WriteReport(t.TempDir(), &Report{UserName: "Анна"})
	if err != nil {
		t.Fatalf("WriteReport с пустыми данными: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("открытие файла: %v", err)
	}
	f.Close()
}
