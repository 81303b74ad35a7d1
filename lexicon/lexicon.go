// Package lexicon holds the static lookup tables used to recognise option
// slip fields: discipline keywords, institution keywords, a city gazetteer
// and the branch-code dictionary.
//
// A Lexicon is immutable once built. Use Default for the built-in tables or
// Load to read a YAML file; callers never share a mutable global.
package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon is the set of lookup tables consulted during reconstruction.
type Lexicon struct {
	CourseKeywords  []string          `yaml:"course_keywords" mapstructure:"course_keywords"`
	CollegeKeywords []string          `yaml:"college_keywords" mapstructure:"college_keywords"`
	Cities          []string          `yaml:"cities" mapstructure:"cities"`
	DefaultCity     string            `yaml:"default_city" mapstructure:"default_city"`
	Branches        map[string]string `yaml:"branches" mapstructure:"branches"`
}

// Default returns the built-in tables.
func Default() *Lexicon {
	return &Lexicon{
		CourseKeywords: []string{
			"COMPUTER SCIENCE", "ELECTRONICS", "MECHANICAL", "CIVIL",
			"ARTIFICIAL INTELLIGENCE", "MACHINE LEARNING", "DATA SCIENCE",
			"CYBER SECURITY", "INFORMATION SCIENCE", "TELECOMMUNICATION",
			"BIOTECHNOLOGY", "CHEMICAL", "INDUSTRIAL", "AERONAUTICAL",
			"AUTOMOBILE", "BIOMEDICAL", "AGRICULTURAL", "FOOD TECHNOLOGY",
		},
		CollegeKeywords: []string{
			"COLLEGE", "UNIVERSITY", "INSTITUTE", "ENGINEERING",
			"TECHNOLOGY", "POLYTECHNIC", "AUTONOMOUS",
		},
		Cities: []string{
			"Bangalore", "Mysore", "Mangalore", "Belgaum", "Hubli",
			"Davanagere", "Shimoga", "Tumkur", "Kolar", "Chikballapur",
			"Varthur", "Basvanagudi", "Bull Temple Road",
		},
		DefaultCity: "Bangalore",
		Branches: map[string]string{
			"AI": "Artificial Intelligence and Machine Learning",
			"CS": "Computer Science Engineering",
			"CA": "Computer Science and Engineering (Cyber Security)",
			"CY": "Computer Science and Engineering (Cyber Security)",
			"DS": "Computer Science and Engineering (Data Science)",
			"AD": "Artificial Intelligence and Data Science",
			"IC": "Computer Science and Engineering (Internet of Things & Cyber Security)",
			"EC": "Electronics & Communication Engineering",
			"ME": "Mechanical Engineering",
			"CE": "Civil Engineering",
			"EE": "Electrical Engineering",
			"BT": "Biotechnology",
			"CH": "Chemical Engineering",
		},
	}
}

// Load reads a YAML lexicon from path. Tables missing from the file keep
// their built-in values.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML lexicon. Tables missing from data keep their
// built-in values.
func Parse(data []byte) (*Lexicon, error) {
	var file Lexicon
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	lex := Default().Merge(&file)
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// Merge returns a copy of l with every non-empty table of override applied.
// Neither input is modified.
func (l *Lexicon) Merge(override *Lexicon) *Lexicon {
	out := l.clone()
	if override == nil {
		return out
	}
	if len(override.CourseKeywords) > 0 {
		out.CourseKeywords = append([]string(nil), override.CourseKeywords...)
	}
	if len(override.CollegeKeywords) > 0 {
		out.CollegeKeywords = append([]string(nil), override.CollegeKeywords...)
	}
	if len(override.Cities) > 0 {
		out.Cities = append([]string(nil), override.Cities...)
	}
	if override.DefaultCity != "" {
		out.DefaultCity = override.DefaultCity
	}
	if len(override.Branches) > 0 {
		out.Branches = make(map[string]string, len(override.Branches))
		for k, v := range override.Branches {
			out.Branches[strings.ToUpper(k)] = v
		}
	}
	return out
}

// Validate checks that the lexicon can drive the classifier.
func (l *Lexicon) Validate() error {
	if len(l.CourseKeywords) == 0 {
		return fmt.Errorf("lexicon has no course keywords")
	}
	if len(l.CollegeKeywords) == 0 {
		return fmt.Errorf("lexicon has no college keywords")
	}
	if strings.TrimSpace(l.DefaultCity) == "" {
		return fmt.Errorf("lexicon has no default city")
	}
	return nil
}

// BranchName looks up the full name for a branch code.
func (l *Lexicon) BranchName(code string) (string, bool) {
	name, ok := l.Branches[strings.ToUpper(code)]
	return name, ok && name != ""
}

// Marshal encodes the lexicon as YAML.
func (l *Lexicon) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lexicon: %w", err)
	}
	return data, nil
}

func (l *Lexicon) clone() *Lexicon {
	out := &Lexicon{
		CourseKeywords:  append([]string(nil), l.CourseKeywords...),
		CollegeKeywords: append([]string(nil), l.CollegeKeywords...),
		Cities:          append([]string(nil), l.Cities...),
		DefaultCity:     l.DefaultCity,
		Branches:        make(map[string]string, len(l.Branches)),
	}
	for k, v := range l.Branches {
		out.Branches[k] = v
	}
	return out
}
