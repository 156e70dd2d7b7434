// internal/app/features/admissions/command.go
package admissions

import (
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/domain/models"
)

// SubmitCommand is a decoded admission form, ready for validation.
type SubmitCommand struct {
	FullName          string     `validate:"required,max=100" label:"Full name"`
	Email             string     `validate:"required,simpleemail" label:"Email"`
	Phone             string     `validate:"required,phone10" label:"Phone number"`
	DateOfBirth       *time.Time `validate:"required" label:"Date of birth"`
	Gender            string     `validate:"required,oneof=Male Female Other" label:"Gender"`
	Address           addressInput
	PreviousEducation educationInput
	Program           string `validate:"required,oneof=BBS" label:"Program"`
	Shift             string `validate:"required,oneof=Morning Day Evening" label:"Shift"`
	Guardian          guardianInput
}

type addressInput struct {
	District     string             `json:"district" validate:"required" label:"District"`
	Municipality string             `json:"municipality" validate:"required" label:"Municipality"`
	Ward         formdecode.FlexInt `json:"ward" validate:"gt=0" label:"Ward number"`
	Tole         string             `json:"tole"`
}

type educationInput struct {
	Level       string                `json:"level" validate:"required,oneof=+2 Intermediate A-Level Other" label:"Education level"`
	Board       string                `json:"board" validate:"required" label:"Board"`
	Institution string                `json:"institution" validate:"required" label:"Institution name"`
	PassedYear  formdecode.FlexInt    `json:"passedYear" validate:"required,gte=1950,lte=2100" label:"Passed year"`
	GPA         *formdecode.FlexFloat `json:"gpa" validate:"omitempty,gte=0,lte=4" label:"GPA"`
	Percentage  *formdecode.FlexFloat `json:"percentage" validate:"omitempty,gte=0,lte=100" label:"Percentage"`
}

type guardianInput struct {
	Name       string `json:"name" validate:"required" label:"Guardian name"`
	Relation   string `json:"relation" validate:"required" label:"Relation"`
	Phone      string `json:"phone" validate:"required,phone10" label:"Guardian phone"`
	Occupation string `json:"occupation"`
}

// documentFields are the optional upload slots, in storage order.
var documentFields = []string{"photo", "citizenship", "marksheet", "characterCertificate"}

// decodeSubmit builds a SubmitCommand from vals and validates it. Every
// shape and rule failure is reported together.
func decodeSubmit(vals *formdecode.Values) (SubmitCommand, error) {
	var errs inputval.Errors
	collect := func(err error) {
		var fe inputval.Errors
		if errors.As(err, &fe) {
			errs = append(errs, fe...)
		}
	}

	cmd := SubmitCommand{
		FullName: normalize.Name(vals.String("fullName")),
		Email:    normalize.Email(vals.String("email")),
		Phone:    vals.String("phone"),
		Gender:   vals.String("gender"),
		Program:  vals.String("program"),
		Shift:    vals.String("shift"),
	}
	if cmd.Program == "" {
		cmd.Program = models.DefaultProgram
	}

	dob, err := vals.Time("dateOfBirth")
	collect(err)
	cmd.DateOfBirth = dob

	_, err = vals.Object("address", &cmd.Address)
	collect(err)
	_, err = vals.Object("previousEducation", &cmd.PreviousEducation)
	collect(err)
	_, err = vals.Object("guardian", &cmd.Guardian)
	collect(err)

	// Rule failures on a field that already failed to decode are noise.
	shaped := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Field == "" {
			continue
		}
		shaped = append(shaped, "SubmitCommand."+strings.ToUpper(fe.Field[:1])+fe.Field[1:])
	}
	for _, fe := range inputval.Validate(cmd).Errors {
		if !underAny(fe.Field, shaped) {
			errs = append(errs, fe)
		}
	}
	if len(errs) > 0 {
		return cmd, errs
	}
	return cmd, nil
}

func underAny(field string, prefixes []string) bool {
	for _, p := range prefixes {
		if field == p || strings.HasPrefix(field, p+".") {
			return true
		}
	}
	return false
}

// collectDocuments reads the optional document uploads and checks each
// format before anything is stored.
func collectDocuments(vals *formdecode.Values, maxBytes int64) (map[string]*assets.Upload, error) {
	out := map[string]*assets.Upload{}
	for _, field := range documentFields {
		up, err := vals.File(field, maxBytes)
		if err != nil {
			return nil, err
		}
		if up == nil {
			continue
		}
		if err := assets.CheckFormat(*up, assets.AdmissionsFolder); err != nil {
			return nil, err
		}
		out[field] = up
	}
	return out, nil
}

// admission converts a validated command into a new record.
func (c SubmitCommand) admission() models.Admission {
	return models.Admission{
		FullName:    c.FullName,
		Email:       c.Email,
		Phone:       c.Phone,
		DateOfBirth: *c.DateOfBirth,
		Gender:      c.Gender,
		Address: models.Address{
			District:     c.Address.District,
			Municipality: c.Address.Municipality,
			Ward:         int(c.Address.Ward),
			Tole:         c.Address.Tole,
		},
		PreviousEducation: models.PreviousEducation{
			Level:       c.PreviousEducation.Level,
			Board:       c.PreviousEducation.Board,
			Institution: c.PreviousEducation.Institution,
			PassedYear:  int(c.PreviousEducation.PassedYear),
			GPA:         floatPtr(c.PreviousEducation.GPA),
			Percentage:  floatPtr(c.PreviousEducation.Percentage),
		},
		Program: c.Program,
		Shift:   c.Shift,
		Guardian: models.Guardian{
			Name:       c.Guardian.Name,
			Relation:   c.Guardian.Relation,
			Phone:      c.Guardian.Phone,
			Occupation: c.Guardian.Occupation,
		},
	}
}

func floatPtr(f *formdecode.FlexFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// setDocument places ref in the slot named by field.
func setDocument(d *models.AdmissionDocuments, field string, ref models.AssetRef) {
	switch field {
	case "photo":
		d.Photo = &ref
	case "citizenship":
		d.Citizenship = &ref
	case "marksheet":
		d.Marksheet = &ref
	case "characterCertificate":
		d.CharacterCertificate = &ref
	}
}
