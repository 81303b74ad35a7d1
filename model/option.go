package model

// Source identifies the strategy that recovered a record.
type Source string

const (
	SourceAdvanced    Source = "advanced"
	SourceRowAnchor   Source = "row-anchor"
	SourcePageScan    Source = "page-scan"
	SourceNumberSweep Source = "number-sweep"
	SourcePlaceholder Source = "placeholder"
)

// Candidate is a partially reconstructed record. Empty fields are filled with
// defaults during assembly.
type Candidate struct {
	Priority       int
	Code           CompoundCode
	CourseName     string
	CollegeName    string
	CollegeAddress string
	Fee            string
	Location       string
	Source         Source
}

// Complete reports whether the candidate carries both a college code and a
// branch code.
func (c Candidate) Complete() bool {
	return c.Priority > 0 && c.Code.Valid()
}

// ParsedOption is one reconstructed option entry.
type ParsedOption struct {
	ID             string `json:"id" yaml:"id"`
	Priority       int    `json:"priority" yaml:"priority"`
	CollegeCode    string `json:"collegeCode" yaml:"collegeCode"`
	BranchCode     string `json:"branchCode" yaml:"branchCode"`
	CollegeName    string `json:"collegeName" yaml:"collegeName"`
	BranchName     string `json:"branchName" yaml:"branchName"`
	Location       string `json:"location" yaml:"location"`
	CollegeCourse  string `json:"collegeCourse" yaml:"collegeCourse"`
	CourseFee      string `json:"courseFee" yaml:"courseFee"`
	CollegeAddress string `json:"collegeAddress" yaml:"collegeAddress"`
	Source         Source `json:"source" yaml:"source"`

	// Placeholder marks the synthetic record emitted when nothing could be
	// recovered from the document.
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Key returns the (college, branch) pair downstream consumers index by.
func (o ParsedOption) Key() (string, string) {
	return o.CollegeCode, o.BranchCode
}
