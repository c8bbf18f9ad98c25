package optimizing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// Education ranking bonuses.
const (
	eduKeywordBonus = 5
	eduRecentBonus  = 15 // finished within 5 years
	eduMidBonus     = 10 // finished within 10 years
	eduOldBonus     = 5
	eduGPAHighBonus = 15 // >= 3.5
	eduGPAGoodBonus = 10 // >= 3.0
	eduGPAOkBonus   = 5  // >= 2.5
	eduRecentYears  = 5
	eduMidYears     = 10
)

var eduYearRe = regexp.MustCompile(`(19|20)\d{2}`)

// optimizeEducation sorts entries by job relevance, recency and GPA, and
// synthesizes relevant courses from job keywords when an entry has none.
func (o *Optimizer) optimizeEducation(entries []types.EducationEntry, requirements []string, jobKeywords []string) []types.EducationEntry {
	if len(entries) == 0 {
		return []types.EducationEntry{}
	}

	out := make([]types.EducationEntry, len(entries))
	copy(out, entries)

	now := o.year()
	sort.SliceStable(out, func(i, j int) bool {
		return educationScore(out[i], requirements, jobKeywords, now) >
			educationScore(out[j], requirements, jobKeywords, now)
	})

	for i := range out {
		if len(out[i].RelevantCourses) == 0 {
			out[i].RelevantCourses = synthesizeCourses(jobKeywords)
		}
	}
	return out
}

// educationScore combines keyword overlap with recency and GPA bonuses.
func educationScore(e types.EducationEntry, requirements []string, jobKeywords []string, currentYear int) int {
	text := strings.ToLower(e.Degree + " " + e.Institution + " " + strings.Join(e.RelevantCourses, " "))
	score := 0
	for _, kw := range jobKeywords {
		if strings.Contains(text, kw) {
			score += eduKeywordBonus
		}
	}
	for _, req := range requirements {
		if strings.Contains(text, strings.ToLower(req)) {
			score += eduKeywordBonus
		}
	}

	if year, ok := latestYear(e.Year); ok {
		switch age := currentYear - year; {
		case age < eduRecentYears:
			score += eduRecentBonus
		case age < eduMidYears:
			score += eduMidBonus
		default:
			score += eduOldBonus
		}
	}

	if gpa, ok := parseGPA(e.GPA); ok {
		switch {
		case gpa >= 3.5:
			score += eduGPAHighBonus
		case gpa >= 3.0:
			score += eduGPAGoodBonus
		case gpa >= 2.5:
			score += eduGPAOkBonus
		}
	}
	return score
}

// latestYear picks the last four-digit year in a date string such as
// "2019" or "2015-2019".
func latestYear(s string) (int, bool) {
	matches := eduYearRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}
	return year, true
}

var gpaNumRe = regexp.MustCompile(`\d\.\d{1,2}`)

func parseGPA(s string) (float64, bool) {
	m := gpaNumRe.FindString(s)
	if m == "" {
		return 0, false
	}
	gpa, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return gpa, true
}

// synthesizeCourses builds a short plausible course list from the top
// job keywords.
func synthesizeCourses(jobKeywords []string) []string {
	courses := make([]string, 0, MaxSynthesizedCourses)
	for _, kw := range jobKeywords {
		if len(courses) == MaxSynthesizedCourses {
			break
		}
		courses = append(courses, "Coursework in "+capitalize(kw))
	}
	return courses
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
