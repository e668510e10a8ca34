package main

import (
	"encoding/csv"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"quizgate/config"
	"quizgate/database"
	"quizgate/models"

	"gorm.io/gorm"
)

// Imports the lesson catalog from a CSV with the header
// course_id,title,order_index,is_free. Lessons are matched on (course_id, title).
func main() {
	config.LoadConfig()
	database.ConnectDb()

	path := "lessons.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}
	log.Printf("Total rows to import: %d", len(records)-1)

	stats := importLessons(database.Database.Db, records)

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", stats.inserted)
	log.Printf("Updated: %d", stats.updated)
	log.Printf("Skipped: %d", stats.skipped)
}

type importStats struct {
	inserted, updated, skipped int
}

func importLessons(db *gorm.DB, records [][]string) importStats {
	var stats importStats

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}

	knownCourses := make(map[uint]bool)
	for i, row := range records[1:] {
		lesson := models.Lesson{
			CourseID:   uint(parseInt(getField(row, headerIndex, "course_id"))),
			Title:      getField(row, headerIndex, "title"),
			OrderIndex: parseInt(getField(row, headerIndex, "order_index")),
			IsFree:     parseBool(getField(row, headerIndex, "is_free")),
		}
		if lesson.CourseID == 0 || lesson.Title == "" {
			stats.skipped++
			continue
		}

		if _, checked := knownCourses[lesson.CourseID]; !checked {
			var course models.Course
			err := db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error
			knownCourses[lesson.CourseID] = err == nil
		}
		if !knownCourses[lesson.CourseID] {
			log.Printf("Row %d: course %d not found, skipping", i+2, lesson.CourseID)
			stats.skipped++
			continue
		}

		var existing models.Lesson
		err := db.Where("course_id = ? AND title = ?", lesson.CourseID, lesson.Title).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&lesson).Error; err != nil {
				log.Printf("Error inserting lesson %q of course %d: %v", lesson.Title, lesson.CourseID, err)
				continue
			}
			stats.inserted++
		case err != nil:
			log.Printf("Error looking up lesson %q of course %d: %v", lesson.Title, lesson.CourseID, err)
		default:
			existing.OrderIndex = lesson.OrderIndex
			existing.IsFree = lesson.IsFree
			existing.IsDeleted = false
			if err := db.Save(&existing).Error; err != nil {
				log.Printf("Error updating lesson %q of course %d: %v", lesson.Title, lesson.CourseID, err)
				continue
			}
			stats.updated++
		}
	}
	return stats
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}

func parseBool(s string) bool {
	val, err := strconv.ParseBool(s)
	return err == nil && val
}
