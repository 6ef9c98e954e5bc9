package services

import (
	"context"

	"github.com/shopspring/decimal"

	"merlin/internal/aggregate"
	"merlin/internal/models"
	"merlin/internal/pagination"
	"merlin/internal/upstream"
)

// BackendClient is the subset of the finance backend the services depend on.
// *upstream.Client implements it.
type BackendClient interface {
	Login(ctx context.Context, email, password string) (*upstream.AuthResult, error)
	Register(ctx context.Context, name, email, password, confirmation string) (*upstream.AuthResult, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	ListAssessments(ctx context.Context, token string) ([]models.Assessment, error)
	CreateAssessment(ctx context.Context, token, name string) error
	DeleteAssessment(ctx context.Context, token string, assessmentID int) error
	ListEntries(ctx context.Context, token string, assessmentID int) ([]models.Entry, error)
	CreateEntry(ctx context.Context, token string, entry upstream.NewEntry) error
	DeleteEntry(ctx context.Context, token string, entryID int) error
	GetAdvice(ctx context.Context, token, assessmentName string) (string, bool, error)
	GenerateAdvice(ctx context.Context, token string, assessmentID int) (string, error)
	SelectedAdvice(ctx context.Context, token string, assessmentIDs []int) (string, error)
}

// Principal is the authenticated caller of a screen request. It is built
// from an active session and carries the opened backend token.
type Principal struct {
	SessionID     string
	User          models.User
	UpstreamToken string
	IPAddress     string
}

// RegisterInput holds the registration form.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// SessionStatus answers whether the caller is logged in and as whom.
type SessionStatus struct {
	IsLoggedIn bool         `json:"is_logged_in"`
	User       *models.User `json:"user"`
}

// RefreshResult counts what a refresh pass did.
type RefreshResult struct {
	Checked int `json:"checked"`
	Expired int `json:"expired"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// SessionServicer defines the contract for session lifecycle logic.
type SessionServicer interface {
	Login(ctx context.Context, email, password, ipAddress string) (*models.Session, error)
	Register(ctx context.Context, input RegisterInput, ipAddress string) (*models.Session, error)
	Authenticate(sessionID, ipAddress string) (*Principal, error)
	Logout(ctx context.Context, principal *Principal) error
	Status(sessionID string) (*SessionStatus, error)
	Refresh(ctx context.Context) (*RefreshResult, error)
}

// CreateAssessmentInput names a new assessment either explicitly or by
// month and year.
type CreateAssessmentInput struct {
	Name  string
	Month string
	Year  int
}

// AssessmentDetails is everything the assessment detail screen shows.
type AssessmentDetails struct {
	Assessment    models.Assessment
	Entries       []models.Entry
	Result        aggregate.Result
	IncomeSeries  aggregate.Series
	ExpenseSeries aggregate.Series
}

// AssessmentServicer defines the contract for assessment screens.
type AssessmentServicer interface {
	ListAssessments(ctx context.Context, principal *Principal, page pagination.PageRequest) (*pagination.PageResponse[models.Assessment], error)
	CreateAssessment(ctx context.Context, principal *Principal, input CreateAssessmentInput) (*models.Assessment, error)
	DeleteAssessment(ctx context.Context, principal *Principal, assessmentID int) error
	GetAssessmentDetails(ctx context.Context, principal *Principal, assessmentID int) (*AssessmentDetails, error)
}

// CreateEntryInput holds a new entry as typed on the form. Amount is the
// unsigned magnitude; Kind decides the sign.
type CreateEntryInput struct {
	AssessmentID int
	Name         string
	Category     string
	Amount       decimal.Decimal
	Kind         models.EntryKind
	Date         string
}

// EntryList is an assessment's entries together with their totals.
type EntryList struct {
	AssessmentID int
	Entries      []models.Entry
	Result       aggregate.Result
}

// EntryServicer defines the contract for entry screens.
type EntryServicer interface {
	ListEntries(ctx context.Context, principal *Principal, assessmentID int) (*EntryList, error)
	CreateEntry(ctx context.Context, principal *Principal, input CreateEntryInput) (*EntryList, error)
	DeleteEntry(ctx context.Context, principal *Principal, entryID int) error
}

// Advice is generated guidance for one assessment.
type Advice struct {
	AssessmentID int    `json:"assessment_id"`
	Text         string `json:"advice"`
	Found        bool   `json:"found"`
}

// AdviceServicer defines the contract for advice screens.
type AdviceServicer interface {
	GetAdvice(ctx context.Context, principal *Principal, assessmentID int) (*Advice, error)
	GenerateAdvice(ctx context.Context, principal *Principal, assessmentID int) (*Advice, error)
	SelectedAdvice(ctx context.Context, principal *Principal, assessmentIDs []int) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(sessionID string, userID int, action, resourceType, resourceID, ipAddress string, changes map[string]any)
	ListForUser(userID int, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
