package provider

// Candidate URL templates for Greenhouse boards: the boards API with inlined
// content first, then the embedded job-board endpoint.
const (
	greenhouseAPITemplate   = "https://boards-api.greenhouse.io/v1/boards/%s/jobs?content=true"
	greenhouseEmbedTemplate = "https://boards.greenhouse.io/embed/job_board/jobs?for=%s"
)

type greenhouseLocation struct {
	Name string `json:"name"`
}

type greenhouseDepartment struct {
	Name string `json:"name"`
}

// GreenhousePosting is a single job as returned by the Greenhouse boards API.
// Content is HTML-entity-encoded HTML when the API is queried with
// content=true; the normalizer unescapes it.
type GreenhousePosting struct {
	ID          int64                  `json:"id"`
	Title       string                 `json:"title"`
	Location    greenhouseLocation     `json:"location"`
	Departments []greenhouseDepartment `json:"departments"`
	AbsoluteURL string                 `json:"absolute_url"`
	UpdatedAt   string                 `json:"updated_at"`
	Content     string                 `json:"content"`
}
