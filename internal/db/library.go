package db

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type libraryRecord struct {
	Preset   string
	Name     string
	ImageURL string
}

// LoadPresetLibrary reads preset,name,image_url rows from a CSV and creates
// one preset per distinct preset name that does not exist yet. It returns the
// number of presets created.
func LoadPresetLibrary(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	records, err := readLibrary(path)
	if err != nil {
		return 0, err
	}
	var order []string
	grouped := make(map[string][]libraryRecord)
	for _, record := range records {
		if _, seen := grouped[record.Preset]; !seen {
			order = append(order, record.Preset)
		}
		grouped[record.Preset] = append(grouped[record.Preset], record)
	}

	created := 0
	for _, name := range order {
		var existing Preset
		err := conn.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		preset := Preset{ID: uuid.NewString(), Name: name}
		for i, record := range grouped[name] {
			preset.Characters = append(preset.Characters, SavedCharacter{
				ID:       uuid.NewString(),
				Position: i,
				Name:     record.Name,
				ImageURL: record.ImageURL,
			})
		}
		if err := conn.Create(&preset).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func readLibrary(path string) ([]libraryRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []libraryRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			continue
		}
		record := libraryRecord{
			Preset:   strings.TrimSpace(row[0]),
			Name:     strings.TrimSpace(row[1]),
			ImageURL: strings.TrimSpace(row[2]),
		}
		if record.Preset == "" || record.Name == "" || record.ImageURL == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
