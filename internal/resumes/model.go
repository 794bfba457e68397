package resumes

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Resume is the decoded JSON object exactly as the model produced it.
// Numbers are kept as json.Number.
type Resume map[string]any

// ResumeData is the typed view of the shape the model is asked to produce.
type ResumeData struct {
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Projects       []Project        `json:"projects"`
	Skills         []Skill          `json:"skills"`
	CustomSections []map[string]any `json:"customSections,omitempty"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	GitHub   string `json:"github"`
	Summary  string `json:"summary"`
}

type Education struct {
	ID          string `json:"id"`
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa"`
	Description string `json:"description"`
}

type WorkExperience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Technologies string `json:"technologies"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Description  string `json:"description"`
	Link         string `json:"link"`
}

type Skill struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Items    string `json:"items"`
}

// Decode converts a Resume into its typed view. Fields of the wrong JSON type
// fail the conversion; unknown keys are ignored.
func Decode(r Resume) (ResumeData, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return ResumeData{}, fmt.Errorf("marshal resume: %w", err)
	}
	var data ResumeData
	if err := json.NewDecoder(bytes.NewReader(payload)).Decode(&data); err != nil {
		return ResumeData{}, fmt.Errorf("decode resume: %w", err)
	}
	return data, nil
}
