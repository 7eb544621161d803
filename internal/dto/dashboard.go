package dto

// AdminOverviewResponse captures the aggregated admin dashboard payload.
type AdminOverviewResponse struct {
	Students StudentsSection `json:"students"`
	Teachers TeachersSection `json:"teachers"`
	Subjects SubjectsSection `json:"subjects"`
	Payments PaymentsSection `json:"payments"`
}

// StudentsSection summarises the learner population.
type StudentsSection struct {
	Total        int            `json:"total"`
	ByCurriculum map[string]int `json:"byCurriculum"`
}

// TeachersSection summarises tutor accounts by activation state.
type TeachersSection struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Pending int `json:"pending"`
}

// SubjectsSection counts catalog subjects per curriculum.
type SubjectsSection struct {
	Total        int            `json:"total"`
	ByCurriculum map[string]int `json:"byCurriculum"`
	ExamPrep     int            `json:"examPrep"`
}

// PaymentsSection breaks payments down by review status.
type PaymentsSection struct {
	Total         int                  `json:"total"`
	ByStatus      map[string]int       `json:"byStatus"`
	RecentPending []PendingPaymentItem `json:"recentPending"`
}

// PendingPaymentItem is one entry in the staff review queue preview.
type PendingPaymentItem struct {
	ID          string  `json:"id"`
	StudentName string  `json:"studentName"`
	Package     string  `json:"package"`
	Amount      float64 `json:"amount"`
	SubmittedAt string  `json:"submittedAt"`
}
