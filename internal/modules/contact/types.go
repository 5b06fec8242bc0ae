package contact

// ContactDTO is the request body for POST /api/contact.
type ContactDTO struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// subjectLabels maps the form's fixed subject categories to the label shown
// in the operator notification; anything else falls back to a generic one.
var subjectLabels = map[string]string{
	"speaking":   "Speaking Inquiry",
	"project":    "Project Collaboration",
	"consulting": "Consulting Services",
	"other":      "Other",
}

const fallbackSubjectLabel = "New Inquiry"

func subjectLabel(subject string) string {
	if label, ok := subjectLabels[subject]; ok {
		return label
	}
	return fallbackSubjectLabel
}
