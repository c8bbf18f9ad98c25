// Package types defines the shared data model for CV analysis and optimization.
package types

// ContactInfo holds contact details extracted from a CV.
// All fields are optional; a field that cannot be located stays empty.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ExperienceEntry is a single position parsed from the experience section.
type ExperienceEntry struct {
	Title     string `json:"title,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// EducationEntry is a single credential parsed from the education section.
type EducationEntry struct {
	Degree          string   `json:"degree"`
	Institution     string   `json:"institution,omitempty"`
	Location        string   `json:"location,omitempty"`
	Year            string   `json:"year,omitempty"`
	GPA             string   `json:"gpa,omitempty"`
	RelevantCourses []string `json:"relevant_courses"`
	Achievements    []string `json:"achievements"`
}

// Skills groups extracted skills into technical and professional lists.
type Skills struct {
	Technical    []string `json:"technical"`
	Professional []string `json:"professional"`
}

// StructuredCV is the normalized record extracted from free-form CV text.
// Sequence fields are always non-nil; a section missing from the source
// text yields its empty default rather than an error.
type StructuredCV struct {
	Name         string            `json:"name"`
	Subheader    string            `json:"subheader,omitempty"`
	Profile      string            `json:"profile"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	Skills       Skills            `json:"skills"`
	Achievements []string          `json:"achievements"`
	Goals        []string          `json:"goals"`
	Languages    []string          `json:"languages"`
	Contact      ContactInfo       `json:"contact_info"`
}

// NewStructuredCV returns a StructuredCV with all sequence fields
// initialized to empty slices.
func NewStructuredCV() *StructuredCV {
	return &StructuredCV{
		Experience:   []ExperienceEntry{},
		Education:    []EducationEntry{},
		Skills:       Skills{Technical: []string{}, Professional: []string{}},
		Achievements: []string{},
		Goals:        []string{},
		Languages:    []string{},
	}
}

// Normalize replaces any nil sequence fields with empty slices.
// Useful after JSON unmarshaling where absent arrays decode to nil.
func (cv *StructuredCV) Normalize() {
	if cv.Experience == nil {
		cv.Experience = []ExperienceEntry{}
	}
	if cv.Education == nil {
		cv.Education = []EducationEntry{}
	}
	if cv.Skills.Technical == nil {
		cv.Skills.Technical = []string{}
	}
	if cv.Skills.Professional == nil {
		cv.Skills.Professional = []string{}
	}
	if cv.Achievements == nil {
		cv.Achievements = []string{}
	}
	if cv.Goals == nil {
		cv.Goals = []string{}
	}
	if cv.Languages == nil {
		cv.Languages = []string{}
	}
	for i := range cv.Education {
		if cv.Education[i].RelevantCourses == nil {
			cv.Education[i].RelevantCourses = []string{}
		}
		if cv.Education[i].Achievements == nil {
			cv.Education[i].Achievements = []string{}
		}
	}
}
