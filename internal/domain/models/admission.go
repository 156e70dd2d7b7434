package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdmissionStatus is the review state of an application.
//
// pending → under-review → approved | rejected. Reviewers may set any status
// at any time; every change is stamped with reviewer and time.
type AdmissionStatus string

const (
	AdmissionPending     AdmissionStatus = "pending"
	AdmissionUnderReview AdmissionStatus = "under-review"
	AdmissionApproved    AdmissionStatus = "approved"
	AdmissionRejected    AdmissionStatus = "rejected"
)

// ParseAdmissionStatus returns the status for s, or false if s is not one of
// the four known states.
func ParseAdmissionStatus(s string) (AdmissionStatus, bool) {
	switch AdmissionStatus(s) {
	case AdmissionPending, AdmissionUnderReview, AdmissionApproved, AdmissionRejected:
		return AdmissionStatus(s), true
	}
	return "", false
}

// Accepted enum values for admission fields.
var (
	Genders         = []string{"Male", "Female", "Other"}
	EducationLevels = []string{"+2", "Intermediate", "A-Level", "Other"}
	Shifts          = []string{"Morning", "Day", "Evening"}
)

// DefaultProgram is the only program currently offered.
const DefaultProgram = "BBS"

type Address struct {
	District     string `bson:"district" json:"district"`
	Municipality string `bson:"municipality" json:"municipality"`
	Ward         int    `bson:"ward" json:"ward"`
	Tole         string `bson:"tole,omitempty" json:"tole,omitempty"`
}

type PreviousEducation struct {
	Level       string   `bson:"level" json:"level"`
	Board       string   `bson:"board" json:"board"`
	Institution string   `bson:"institution" json:"institution"`
	PassedYear  int      `bson:"passed_year" json:"passedYear"`
	GPA         *float64 `bson:"gpa,omitempty" json:"gpa,omitempty"`
	Percentage  *float64 `bson:"percentage,omitempty" json:"percentage,omitempty"`
}

type Guardian struct {
	Name       string `bson:"name" json:"name"`
	Relation   string `bson:"relation" json:"relation"`
	Phone      string `bson:"phone" json:"phone"`
	Occupation string `bson:"occupation,omitempty" json:"occupation,omitempty"`
}

// AdmissionDocuments holds the four optional uploaded document slots.
type AdmissionDocuments struct {
	Photo                *AssetRef `bson:"photo,omitempty" json:"photo,omitempty"`
	Citizenship          *AssetRef `bson:"citizenship,omitempty" json:"citizenship,omitempty"`
	Marksheet            *AssetRef `bson:"marksheet,omitempty" json:"marksheet,omitempty"`
	CharacterCertificate *AssetRef `bson:"character_certificate,omitempty" json:"characterCertificate,omitempty"`
}

// Refs returns the populated document slots.
func (d AdmissionDocuments) Refs() []AssetRef {
	var out []AssetRef
	for _, ref := range []*AssetRef{d.Photo, d.Citizenship, d.Marksheet, d.CharacterCertificate} {
		if !ref.IsZero() {
			out = append(out, *ref)
		}
	}
	return out
}

type Admission struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName          string              `bson:"full_name" json:"fullName"`
	Email             string              `bson:"email" json:"email"`
	Phone             string              `bson:"phone" json:"phone"`
	DateOfBirth       time.Time           `bson:"date_of_birth" json:"dateOfBirth"`
	Gender            string              `bson:"gender" json:"gender"`
	Address           Address             `bson:"address" json:"address"`
	PreviousEducation PreviousEducation   `bson:"previous_education" json:"previousEducation"`
	Program           string              `bson:"program" json:"program"`
	Shift             string              `bson:"shift" json:"shift"`
	Documents         *AdmissionDocuments `bson:"documents,omitempty" json:"documents,omitempty"`
	Guardian          Guardian            `bson:"guardian" json:"guardian"`
	Status            AdmissionStatus     `bson:"status" json:"status"`
	Remarks           string              `bson:"remarks,omitempty" json:"remarks,omitempty"`
	SubmittedAt       time.Time           `bson:"submitted_at" json:"submittedAt"`
	ReviewedAt        *time.Time          `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy        *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
