package enrollment

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/goliatone/go-enrollment/repository"
	"github.com/uptrace/bun"
)

// FeeLevel is the administrative level a student registers at
type FeeLevel string

const (
	FeeLevelVillage  FeeLevel = "village"
	FeeLevelBlock    FeeLevel = "block"
	FeeLevelDistrict FeeLevel = "district"
	FeeLevelHaryana  FeeLevel = "haryana"
)

var feeAmounts = map[FeeLevel]int{
	FeeLevelVillage:  99,
	FeeLevelBlock:    199,
	FeeLevelDistrict: 299,
	FeeLevelHaryana:  399,
}

// FeeLevels returns the accepted fee levels
func FeeLevels() []FeeLevel {
	return []FeeLevel{FeeLevelVillage, FeeLevelBlock, FeeLevelDistrict, FeeLevelHaryana}
}

// ResolveFeeLevel maps an unknown or empty level to village
func ResolveFeeLevel(level string) FeeLevel {
	if _, ok := feeAmounts[FeeLevel(level)]; ok {
		return FeeLevel(level)
	}
	return FeeLevelVillage
}

// Amount returns the fixed fee for the level
func (f FeeLevel) Amount() int {
	if amount, ok := feeAmounts[f]; ok {
		return amount
	}
	return feeAmounts[FeeLevelVillage]
}

// Admin is the administrator principal
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:adm"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Email         string `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string `bun:"password,notnull" json:"-"`
	Name          string `bun:"name,notnull" json:"name"`
	repository.Timestamps
}

// Student is the student principal and owner of results, admit cards
// and memberships
type Student struct {
	bun.BaseModel      `bun:"table:students,alias:std"`
	ID                 int64      `bun:"id,pk,autoincrement" json:"id"`
	Email              string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash       string     `bun:"password,notnull" json:"-"`
	FullName           string     `bun:"full_name,notnull" json:"fullName"`
	Phone              string     `bun:"phone" json:"phone"`
	FatherName         string     `bun:"father_name" json:"fatherName"`
	MotherName         string     `bun:"mother_name" json:"motherName"`
	Address            string     `bun:"address" json:"address"`
	City               string     `bun:"city" json:"city"`
	State              string     `bun:"state,default:'Haryana'" json:"state"`
	Pincode            string     `bun:"pincode" json:"pincode"`
	DateOfBirth        string     `bun:"date_of_birth" json:"dateOfBirth"`
	Gender             string     `bun:"gender" json:"gender"`
	Class              string     `bun:"class,notnull" json:"class"`
	RegistrationNumber string     `bun:"registration_number,unique" json:"registrationNumber"`
	RollNumber         string     `bun:"roll_number" json:"rollNumber"`
	PhotoURL           string     `bun:"photo_url" json:"photoUrl"`
	FeeLevel           FeeLevel   `bun:"fee_level,notnull,default:'village'" json:"feeLevel"`
	FeeAmount          int        `bun:"fee_amount,notnull,default:99" json:"feeAmount"`
	FeePaid            bool       `bun:"fee_paid,notnull,default:false" json:"feePaid"`
	PaymentDate        *time.Time `bun:"payment_date,nullzero" json:"paymentDate"`
	IsActive           bool       `bun:"is_active,notnull,default:true" json:"isActive"`
	repository.Timestamps
}

// Identity returns the admin as an authenticated identity
func (a *Admin) Identity() Identity {
	return authIdentity{
		id:    strconv.FormatInt(a.ID, 10),
		email: a.Email,
		name:  a.Name,
		role:  RoleAdmin,
	}
}

// Identity returns the student as an authenticated identity
func (s *Student) Identity() Identity {
	return authIdentity{
		id:    strconv.FormatInt(s.ID, 10),
		email: s.Email,
		name:  s.FullName,
		role:  RoleStudent,
	}
}

// AuthUser is the user payload returned alongside a token
type AuthUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

// Profile is the caller's own record plus its role, without password
type Profile struct {
	Role    Role
	Admin   *Admin
	Student *Student
}

// MarshalJSON flattens the principal record and adds the role key
func (p Profile) MarshalJSON() ([]byte, error) {
	var record any = p.Student
	if p.Role == RoleAdmin {
		record = p.Admin
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	out["role"] = p.Role
	return json.Marshal(out)
}

func (u AuthUser) idString() string {
	return strconv.FormatInt(u.ID, 10)
}
