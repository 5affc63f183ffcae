package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enum types
type UserRole string

const (
	RoleBusiness UserRole = "business"
	RoleAdmin    UserRole = "admin"
)

type PlanTier string

const (
	PlanFree     PlanTier = "free"
	PlanStarter  PlanTier = "starter"
	PlanBusiness PlanTier = "business"
)

type QuestionType string

const (
	QuestionRating         QuestionType = "rating"
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionYesNo          QuestionType = "yes_no"
)

type ErrorCorrectionLevel string

const (
	ECLevelLow     ErrorCorrectionLevel = "L"
	ECLevelMedium  ErrorCorrectionLevel = "M"
	ECLevelQuality ErrorCorrectionLevel = "Q"
	ECLevelHigh    ErrorCorrectionLevel = "H"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type ReviewStatus string

const (
	ReviewStatusNew        ReviewStatus = "new"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusResolved   ReviewStatus = "resolved"
)

// JSONB type for GORM
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Base model with soft delete
type BaseModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

// User
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(30);not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	BusinessName string     `gorm:"type:varchar(100);not null" json:"business_name"`
	Role         UserRole   `gorm:"type:user_role;not null;default:'business'" json:"role"`
	Plan         PlanTier   `gorm:"type:plan_tier;not null;default:'free'" json:"plan"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (User) TableName() string { return "users" }

// Questionnaire
type Questionnaire struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	// CategoryMapping maps topic names to keyword lists used by topic extraction,
	// e.g. {"service": ["staff", "waiter"], "food": ["taste", "portion"]}
	CategoryMapping JSONB      `gorm:"type:jsonb;not null;default:'{}'" json:"category_mapping"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	IsPublic        bool       `gorm:"not null;default:true" json:"is_public"`
	// ResponseCount is a denormalized counter bumped after each review insert.
	// It is best-effort and can drift from the reviews table; cmd/dbcli can recount it.
	ResponseCount int        `gorm:"not null;default:0" json:"response_count"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Questions     []Question `gorm:"foreignKey:QuestionnaireID" json:"questions,omitempty"`
	QRCodes       []QRCode   `gorm:"foreignKey:QuestionnaireID" json:"qr_codes,omitempty"`
}

func (Questionnaire) TableName() string { return "questionnaires" }

// Question
type Question struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionnaireID uuid.UUID    `gorm:"type:uuid;not null;index" json:"questionnaire_id"`
	Type            QuestionType `gorm:"type:question_type;not null" json:"type"`
	Prompt          string       `gorm:"type:varchar(500);not null" json:"prompt"`
	Position        int          `gorm:"not null" json:"position"`
	Required        bool         `gorm:"not null;default:false" json:"required"`
	Options         JSONB        `gorm:"type:jsonb;not null;default:'{}'" json:"options"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Question) TableName() string { return "questions" }

// QRCode
type QRCode struct {
	BaseModel
	QuestionnaireID uuid.UUID `gorm:"type:uuid;not null;index" json:"questionnaire_id"`
	// Code is the short slug in the public scan URL, /q/:code
	Code            string               `gorm:"type:varchar(16);not null;uniqueIndex" json:"code"`
	Label           string               `gorm:"type:varchar(100);not null" json:"label"`
	TargetURL       string               `gorm:"type:text;not null" json:"target_url"`
	ImageKey        *string              `gorm:"type:text" json:"-"`
	LogoURL         *string              `gorm:"type:text" json:"logo_url,omitempty"`
	ForegroundColor string               `gorm:"type:varchar(7);not null;default:'#000000'" json:"foreground_color"`
	BackgroundColor string               `gorm:"type:varchar(7);not null;default:'#ffffff'" json:"background_color"`
	Size            int                  `gorm:"not null;default:512" json:"size"`
	ErrorCorrection ErrorCorrectionLevel `gorm:"type:varchar(1);not null;default:'M'" json:"error_correction"`
	ScanCount       int64                `gorm:"not null;default:0" json:"scan_count"`
	UniqueScans     int64                `gorm:"not null;default:0" json:"unique_scans"`
	LastScanAt      *time.Time           `json:"last_scan_at,omitempty"`
	ExpiresAt       *time.Time           `json:"expires_at,omitempty"`
	IsActive        bool                 `gorm:"not null;default:true" json:"is_active"`
	Questionnaire   *Questionnaire       `gorm:"foreignKey:QuestionnaireID" json:"questionnaire,omitempty"`
}

func (QRCode) TableName() string { return "qr_codes" }

// IsExpired reports whether the code has an expiry in the past. A nil expiry never expires.
func (q *QRCode) IsExpired() bool {
	return q.ExpiresAt != nil && q.ExpiresAt.Before(time.Now())
}

// Review
type Review struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionnaireID uuid.UUID      `gorm:"type:uuid;not null;index" json:"questionnaire_id"`
	QRCodeID        *uuid.UUID     `gorm:"type:uuid;index" json:"qr_code_id,omitempty"`
	Rating          int            `gorm:"type:smallint;not null" json:"rating"`
	Comment         *string        `gorm:"type:text" json:"comment,omitempty"`
	Sentiment       Sentiment      `gorm:"type:sentiment;not null;default:'neutral'" json:"sentiment"`
	Topics          StringArray    `gorm:"type:text[]" json:"topics"`
	Status          ReviewStatus   `gorm:"type:review_status;not null;default:'new'" json:"status"`
	Source          string         `gorm:"type:varchar(50);not null;default:'qr'" json:"source"`
	RespondentID    *string        `gorm:"type:varchar(64)" json:"-"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	Questionnaire   *Questionnaire `gorm:"foreignKey:QuestionnaireID" json:"questionnaire,omitempty"`
	QRCode          *QRCode        `gorm:"foreignKey:QRCodeID" json:"qr_code,omitempty"`
}

func (Review) TableName() string { return "reviews" }

// RefreshToken
type RefreshToken struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	TokenHash     string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	FamilyID      uuid.UUID  `gorm:"type:uuid;not null" json:"family_id"`
	DeviceInfo    JSONB      `gorm:"type:jsonb" json:"device_info,omitempty"`
	IPAddress     *string    `gorm:"type:inet" json:"ip_address,omitempty"`
	IsRevoked     bool       `gorm:"not null;default:false" json:"is_revoked"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	RevokedReason *string    `gorm:"type:varchar(100)" json:"revoked_reason,omitempty"`
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// TokenBlacklist
type TokenBlacklist struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JTI           string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"jti"`
	UserID        *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`
	BlacklistedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"blacklisted_at"`
	Reason        *string    `gorm:"type:varchar(100)" json:"reason,omitempty"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }

// ============================================================================
// HOOKS FOR UUID GENERATION
// ============================================================================

// setUUIDIfEmpty checks if ID is nil and sets it to a new UUID
func setUUIDIfEmpty(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// BaseModel Hook
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	setUUIDIfEmpty(&b.ID)
	return nil
}

// Question Hook
func (m *Question) BeforeCreate(tx *gorm.DB) error {
	setUUIDIfEmpty(&m.ID)
	return nil
}

// Review Hook
func (m *Review) BeforeCreate(tx *gorm.DB) error {
	setUUIDIfEmpty(&m.ID)
	return nil
}

// RefreshToken Hook
func (m *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	setUUIDIfEmpty(&m.ID)
	return nil
}

// TokenBlacklist Hook
func (m *TokenBlacklist) BeforeCreate(tx *gorm.DB) error {
	setUUIDIfEmpty(&m.ID)
	return nil
}

// StringArray type for PostgreSQL text[] array
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return "{" + stringArrayJoin(a) + "}", nil
}

func stringArrayJoin(arr []string) string {
	result := ""
	for i, s := range arr {
		if i > 0 {
			result += ","
		}
		result += "\"" + s + "\""
	}
	return result
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}

	var str string
	switch v := value.(type) {
	case []byte:
		str = string(v)
	case string:
		str = v
	default:
		*a = []string{}
		return nil
	}

	// Parse PostgreSQL array format: {item1,item2,item3}
	if str == "{}" || str == "" {
		*a = []string{}
		return nil
	}
	str = str[1 : len(str)-1] // Remove { and }
	*a = parsePostgresArray(str)
	return nil
}

func parsePostgresArray(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	var current string
	inQuote := false
	for _, c := range s {
		switch c {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				result = append(result, current)
				current = ""
			} else {
				current += string(c)
			}
		default:
			current += string(c)
		}
	}
	if current != "" {
		result = append(result, current)
	}
	return result
}
