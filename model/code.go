package model

import "regexp"

// CompoundCodeExpr is the regular expression fragment matching a compound
// code. It carries no anchors or groups so callers can embed it.
const CompoundCodeExpr = `[A-Z]\d{3}[A-Z]+`

var (
	compoundCodeRe = regexp.MustCompile(CompoundCodeExpr)
	exactCodeRe    = regexp.MustCompile(`^` + CompoundCodeExpr + `$`)
	collegeCodeRe  = regexp.MustCompile(`^[A-Z]\d{3}$`)
)

// CompoundCode is a college code immediately followed by a branch code.
type CompoundCode string

// ParseCompoundCode validates s as a complete compound code.
func ParseCompoundCode(s string) (CompoundCode, bool) {
	if !exactCodeRe.MatchString(s) {
		return "", false
	}
	return CompoundCode(s), true
}

// FindCompoundCode returns the first compound code contained in s.
func FindCompoundCode(s string) (CompoundCode, bool) {
	m := compoundCodeRe.FindString(s)
	if m == "" {
		return "", false
	}
	return CompoundCode(m), true
}

// College returns the four character college code.
func (c CompoundCode) College() string {
	if len(c) < 4 {
		return ""
	}
	return string(c[:4])
}

// Branch returns the branch code following the college code.
func (c CompoundCode) Branch() string {
	if len(c) < 4 {
		return ""
	}
	return string(c[4:])
}

// Valid reports whether c splits into a well-formed college code and a
// non-empty branch code.
func (c CompoundCode) Valid() bool {
	return IsCollegeCode(c.College()) && c.Branch() != ""
}

// IsCollegeCode reports whether s is a well-formed college code.
func IsCollegeCode(s string) bool {
	return collegeCodeRe.MatchString(s)
}
