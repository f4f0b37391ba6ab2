package registry

import (
	"time"

	"github.com/goliatone/go-enrollment/repository"
	"github.com/uptrace/bun"
)

// Status tracks volunteer applications
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// InquiryStatus tracks contact inquiries
type InquiryStatus string

const (
	InquiryPending InquiryStatus = "pending"
	InquiryRead    InquiryStatus = "read"
	InquiryReplied InquiryStatus = "replied"
)

// PaymentStatus tracks membership card payments
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentApproved PaymentStatus = "approved"
)

// PaymentType groups payment configurations
type PaymentType string

const (
	PaymentDonation   PaymentType = "donation"
	PaymentFee        PaymentType = "fee"
	PaymentMembership PaymentType = "membership"
	PaymentGeneral    PaymentType = "general"
)

// SettingType describes how a setting value is interpreted
type SettingType string

const (
	SettingBoolean SettingType = "boolean"
	SettingString  SettingType = "string"
	SettingNumber  SettingType = "number"
	SettingJSON    SettingType = "json"
)

// SectionKey names a CMS content section
type SectionKey string

const (
	SectionAbout     SectionKey = "about"
	SectionServices  SectionKey = "services"
	SectionGallery   SectionKey = "gallery"
	SectionEvents    SectionKey = "events"
	SectionJoinUs    SectionKey = "joinUs"
	SectionContact   SectionKey = "contact"
	SectionVolunteer SectionKey = "volunteer"
	SectionTeam      SectionKey = "team"
	SectionHome      SectionKey = "home"
)

// SectionKeys returns the closed set of section keys
func SectionKeys() []SectionKey {
	return []SectionKey{
		SectionAbout, SectionServices, SectionGallery, SectionEvents, SectionJoinUs,
		SectionContact, SectionVolunteer, SectionTeam, SectionHome,
	}
}

// IsValid reports whether k belongs to the closed set
func (k SectionKey) IsValid() bool {
	for _, key := range SectionKeys() {
		if key == k {
			return true
		}
	}
	return false
}

// Result is an exam result owned by a student
type Result struct {
	bun.BaseModel `bun:"table:results,alias:res"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	StudentID     int64     `bun:"student_id,notnull" json:"studentId"`
	ExamName      string    `bun:"exam_name,notnull" json:"examName"`
	MarksObtained *int      `bun:"marks_obtained" json:"marksObtained"`
	TotalMarks    int       `bun:"total_marks,notnull,default:100" json:"totalMarks"`
	Grade         string    `bun:"grade" json:"grade"`
	Rank          *int      `bun:"rank" json:"rank"`
	ResultDate    string    `bun:"result_date" json:"resultDate"`
	Remarks       string    `bun:"remarks" json:"remarks"`
	IsPublished   bool      `bun:"is_published,notnull" json:"isPublished"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// AdmitCard is an exam admit card owned by a student. FileURL may hold a
// JSON document with the card data instead of a link.
type AdmitCard struct {
	bun.BaseModel `bun:"table:admit_cards,alias:adc"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	StudentID     int64     `bun:"student_id,notnull" json:"studentId"`
	ExamName      string    `bun:"exam_name,notnull" json:"examName"`
	FileURL       string    `bun:"file_url,notnull" json:"fileUrl"`
	FileName      string    `bun:"file_name,notnull" json:"fileName"`
	TermsEnglish  string    `bun:"terms_english" json:"termsEnglish"`
	TermsHindi    string    `bun:"terms_hindi" json:"termsHindi"`
	UploadedAt    time.Time `bun:"uploaded_at,nullzero,notnull,default:current_timestamp" json:"uploadedAt"`
}

// Membership is a public membership application
type Membership struct {
	bun.BaseModel    `bun:"table:memberships,alias:mbr"`
	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID           *int64    `bun:"user_id" json:"userId"`
	MemberName       string    `bun:"member_name,notnull" json:"memberName"`
	MemberEmail      string    `bun:"member_email" json:"memberEmail"`
	MemberPhone      string    `bun:"member_phone,notnull" json:"memberPhone"`
	MemberAddress    string    `bun:"member_address" json:"memberAddress"`
	MembershipType   string    `bun:"membership_type,notnull,default:'regular'" json:"membershipType"`
	MembershipNumber string    `bun:"membership_number,unique" json:"membershipNumber"`
	QRCodeURL        string    `bun:"qr_code_url" json:"qrCodeUrl"`
	UpiID            string    `bun:"upi_id" json:"upiId"`
	IsActive         bool      `bun:"is_active,notnull" json:"isActive"`
	ValidFrom        string    `bun:"valid_from" json:"validFrom"`
	ValidUntil       string    `bun:"valid_until" json:"validUntil"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// MembershipCard is the printable card issued for a membership
type MembershipCard struct {
	bun.BaseModel `bun:"table:membership_cards,alias:mcd"`
	ID            int64         `bun:"id,pk,autoincrement" json:"id"`
	MembershipID  int64         `bun:"membership_id,notnull" json:"membershipId"`
	CardNumber    string        `bun:"card_number,notnull,unique" json:"cardNumber"`
	MemberName    string        `bun:"member_name,notnull" json:"memberName"`
	MemberPhoto   string        `bun:"member_photo" json:"memberPhoto"`
	ValidFrom     string        `bun:"valid_from,notnull" json:"validFrom"`
	ValidUntil    string        `bun:"valid_until,notnull" json:"validUntil"`
	CardImageURL  string        `bun:"card_image_url" json:"cardImageUrl"`
	IsGenerated   bool          `bun:"is_generated,notnull" json:"isGenerated"`
	PaymentStatus PaymentStatus `bun:"payment_status,notnull,default:'pending'" json:"paymentStatus"`
	PaymentAmount *int          `bun:"payment_amount" json:"paymentAmount"`
	PaymentDate   *time.Time    `bun:"payment_date,nullzero" json:"paymentDate"`
	ApprovedBy    *int64        `bun:"approved_by" json:"approvedBy"`
	ApprovedAt    *time.Time    `bun:"approved_at,nullzero" json:"approvedAt"`
	repository.Timestamps
}

// MenuItem is an entry of the admin navigation menu
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mnu"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Title         string `bun:"title,notnull" json:"title"`
	TitleHindi    string `bun:"title_hindi" json:"titleHindi"`
	Path          string `bun:"path,notnull" json:"path"`
	IconKey       string `bun:"icon_key,notnull" json:"iconKey"`
	Order         int    `bun:"order,notnull,default:0" json:"order"`
	IsActive      bool   `bun:"is_active,notnull" json:"isActive"`
	Group         string `bun:"group,default:'main'" json:"group"`
	repository.Timestamps
}

// Setting is a keyed admin configuration value
type Setting struct {
	bun.BaseModel `bun:"table:admin_settings,alias:ast"`
	ID            int64       `bun:"id,pk,autoincrement" json:"id"`
	Key           string      `bun:"key,notnull,unique" json:"key"`
	Value         string      `bun:"value,notnull" json:"value"`
	Label         string      `bun:"label,notnull" json:"label"`
	LabelHindi    string      `bun:"label_hindi" json:"labelHindi"`
	Description   string      `bun:"description" json:"description"`
	Type          SettingType `bun:"type,notnull,default:'boolean'" json:"type"`
	Category      string      `bun:"category,notnull,default:'general'" json:"category"`
	repository.Timestamps
}

// PaymentConfig describes where payments of a type are collected
type PaymentConfig struct {
	bun.BaseModel     `bun:"table:payment_configs,alias:pcf"`
	ID                int64       `bun:"id,pk,autoincrement" json:"id"`
	Type              PaymentType `bun:"type,notnull" json:"type"`
	Name              string      `bun:"name,notnull" json:"name"`
	NameHindi         string      `bun:"name_hindi" json:"nameHindi"`
	QRCodeURL         string      `bun:"qr_code_url" json:"qrCodeUrl"`
	UpiID             string      `bun:"upi_id" json:"upiId"`
	BankName          string      `bun:"bank_name" json:"bankName"`
	AccountNumber     string      `bun:"account_number" json:"accountNumber"`
	IfscCode          string      `bun:"ifsc_code" json:"ifscCode"`
	AccountHolderName string      `bun:"account_holder_name" json:"accountHolderName"`
	IsActive          bool        `bun:"is_active,notnull" json:"isActive"`
	Order             int         `bun:"order,notnull,default:0" json:"order"`
	repository.Timestamps
}

// ContentSection is a CMS block rendered on the public site
type ContentSection struct {
	bun.BaseModel `bun:"table:content_sections,alias:cms"`
	ID            int64          `bun:"id,pk,autoincrement" json:"id"`
	SectionKey    SectionKey     `bun:"section_key,notnull" json:"sectionKey"`
	Title         string         `bun:"title,notnull" json:"title"`
	TitleHindi    string         `bun:"title_hindi" json:"titleHindi"`
	Content       string         `bun:"content,notnull" json:"content"`
	ContentHindi  string         `bun:"content_hindi" json:"contentHindi"`
	ImageURLs     []string       `bun:"image_urls" json:"imageUrls"`
	IsActive      bool           `bun:"is_active,notnull" json:"isActive"`
	Order         int            `bun:"order,notnull,default:0" json:"order"`
	Metadata      map[string]any `bun:"metadata" json:"metadata"`
	repository.Timestamps
}

// VolunteerApplication is submitted from the public site
type VolunteerApplication struct {
	bun.BaseModel `bun:"table:volunteer_applications,alias:vol"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	FullName      string `bun:"full_name,notnull" json:"fullName"`
	Email         string `bun:"email,notnull" json:"email"`
	Phone         string `bun:"phone,notnull" json:"phone"`
	Address       string `bun:"address" json:"address"`
	City          string `bun:"city" json:"city"`
	Occupation    string `bun:"occupation" json:"occupation"`
	Skills        string `bun:"skills" json:"skills"`
	Availability  string `bun:"availability" json:"availability"`
	Message       string `bun:"message" json:"message"`
	Status        Status `bun:"status,notnull,default:'pending'" json:"status"`
	AdminNotes    string `bun:"admin_notes" json:"adminNotes"`
	repository.Timestamps
}

// FeeStructure is the published fee of a level
type FeeStructure struct {
	bun.BaseModel `bun:"table:fee_structures,alias:fee"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	NameHindi     string `bun:"name_hindi" json:"nameHindi"`
	Level         string `bun:"level,notnull" json:"level"`
	Amount        int    `bun:"amount,notnull" json:"amount"`
	Description   string `bun:"description" json:"description"`
	IsActive      bool   `bun:"is_active,notnull" json:"isActive"`
	repository.Timestamps
}

// Page is a static CMS page written in Markdown
type Page struct {
	bun.BaseModel   `bun:"table:pages,alias:pag"`
	ID              int64  `bun:"id,pk,autoincrement" json:"id"`
	Slug            string `bun:"slug,notnull,unique" json:"slug"`
	Title           string `bun:"title,notnull" json:"title"`
	TitleHindi      string `bun:"title_hindi" json:"titleHindi"`
	Content         string `bun:"content,notnull" json:"content"`
	ContentHindi    string `bun:"content_hindi" json:"contentHindi"`
	MetaDescription string `bun:"meta_description" json:"metaDescription"`
	IsPublished     bool   `bun:"is_published,notnull" json:"isPublished"`
	Order           int    `bun:"order,notnull,default:0" json:"order"`
	repository.Timestamps
}

// ContactInquiry is a message sent through the public contact form
type ContactInquiry struct {
	bun.BaseModel `bun:"table:contact_inquiries,alias:inq"`
	ID            int64         `bun:"id,pk,autoincrement" json:"id"`
	Name          string        `bun:"name,notnull" json:"name"`
	Email         string        `bun:"email,notnull" json:"email"`
	Phone         string        `bun:"phone" json:"phone"`
	Subject       string        `bun:"subject,notnull" json:"subject"`
	Message       string        `bun:"message,notnull" json:"message"`
	Status        InquiryStatus `bun:"status,notnull,default:'pending'" json:"status"`
	AdminNotes    string        `bun:"admin_notes" json:"adminNotes"`
	repository.Timestamps
}

// Models returns the registry tables in creation order
func Models() []any {
	return []any{
		(*Result)(nil),
		(*AdmitCard)(nil),
		(*Membership)(nil),
		(*MembershipCard)(nil),
		(*MenuItem)(nil),
		(*Setting)(nil),
		(*PaymentConfig)(nil),
		(*ContentSection)(nil),
		(*VolunteerApplication)(nil),
		(*FeeStructure)(nil),
		(*Page)(nil),
		(*ContactInquiry)(nil),
	}
}
