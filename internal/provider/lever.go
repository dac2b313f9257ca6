package provider

// Candidate URL templates for Lever boards: the public postings API first,
// then the hosted board's JSON endpoint.
const (
	leverAPITemplate   = "https://api.lever.co/v0/postings/%s?mode=json"
	leverBoardTemplate = "https://jobs.lever.co/v0/postings/%s?mode=json"
)

// leverCategories is the categories object on a Lever posting.
type leverCategories struct {
	Team         string   `json:"team"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverSalaryRange is the optional salaryRange object on a Lever posting.
type leverSalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
	Interval string `json:"interval"`
}

// LeverPosting is a single posting as returned by the Lever public API.
type LeverPosting struct {
	ID               string           `json:"id"`
	Text             string           `json:"text"`
	Description      string           `json:"description"`
	DescriptionPlain string           `json:"descriptionPlain"`
	Categories       leverCategories  `json:"categories"`
	SalaryRange      leverSalaryRange `json:"salaryRange"`
	Tags             []string         `json:"tags"`
	CreatedAt        int64            `json:"createdAt"`
	WorkplaceType    string           `json:"workplaceType"`
	HostedURL        string           `json:"hostedUrl"`
	ApplyURL         string           `json:"applyUrl"`
}
