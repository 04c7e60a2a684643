package uploads

import "time"

// Artifact kinds.
const (
	KindBill  = "bill"
	KindPhoto = "photo"
)

// Submission types for installation photo batches.
const (
	SubmissionNewInstallation = "new_installation"
	SubmissionServiceVisit    = "service_visit"
	SubmissionFinalInspection = "final_inspection"
)

var validSubmissionTypes = map[string]struct{}{
	SubmissionNewInstallation: {},
	SubmissionServiceVisit:    {},
	SubmissionFinalInspection: {},
}

func IsValidSubmissionType(value string) bool {
	_, ok := validSubmissionTypes[value]
	return ok
}

// Processing statuses. A batch lands on partially_completed when some but
// not all of its files made it to storage.
const (
	StatusReceived           = "received"
	StatusProcessing         = "processing"
	StatusCompleted          = "completed"
	StatusPartiallyCompleted = "partially_completed"
	StatusFailed             = "failed"
)

type Artifact struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Kind           string    `bson:"kind" json:"kind"`
	SourceTag      string    `bson:"source_tag,omitempty" json:"sourceTag,omitempty"`
	SubmissionType string    `bson:"submission_type,omitempty" json:"submissionType,omitempty"`
	Technician     string    `bson:"technician,omitempty" json:"technician,omitempty"`
	ProjectID      string    `bson:"project_id,omitempty" json:"projectId,omitempty"`
	Latitude       string    `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude      string    `bson:"longitude,omitempty" json:"longitude,omitempty"`
	FirstName      string    `bson:"first_name,omitempty" json:"firstName,omitempty"`
	LastName       string    `bson:"last_name,omitempty" json:"lastName,omitempty"`
	Email          string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	OriginalName   string    `bson:"original_name" json:"originalName"`
	StoredName     string    `bson:"stored_name" json:"storedName"`
	ContentType    string    `bson:"content_type" json:"contentType"`
	SizeBytes      int64     `bson:"size_bytes" json:"sizeBytes"`
	URL            string    `bson:"url,omitempty" json:"url,omitempty"`
	Status         string    `bson:"status" json:"status"`
	FailureReason  string    `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// BillMeta carries the fields posted alongside a utility bill.
type BillMeta struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"omitempty,phone"`
	SourceTag string
}

// PhotoMeta carries the batch-level fields posted with installation photos.
type PhotoMeta struct {
	SubmissionType string `validate:"required"`
	Technician     string `validate:"required"`
	ProjectID      string
	Latitude       string
	Longitude      string
}

// PhotoResult reports one file's outcome inside a batch.
type PhotoResult struct {
	OriginalName string `json:"originalName"`
	Status       string `json:"status"`
	URL          string `json:"url,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BatchSummary is the response for a photo batch upload.
type BatchSummary struct {
	Status  string        `json:"status"`
	Total   int           `json:"total"`
	Stored  int           `json:"stored"`
	Failed  int           `json:"failed"`
	Results []PhotoResult `json:"results"`
}
