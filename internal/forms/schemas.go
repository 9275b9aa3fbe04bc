package forms

import (
	"slices"

	"github.com/atinyakov/plantcafe/internal/models"
)

// SignupForm is the registration form.
type SignupForm struct {
	Username    string `form:"username" validate:"required,max=30"`
	FirstName   string `form:"first_name" validate:"required,max=30"`
	LastName    string `form:"last_name" validate:"required,max=30"`
	Description string `form:"description"`
	Email       string `form:"email" validate:"required,email,max=50"`
	Password    string `form:"password,notrim" validate:"required,min=6,max=50"`
	ImageURL    string `form:"image_url" validate:"omitempty,imageurl,max=255"`
}

func (f *SignupForm) applyDefaults() {
	if f.ImageURL == "" {
		f.ImageURL = models.DefaultProfileImage
	}
}

func (f *SignupForm) clearDefaults() {
	f.ImageURL = blankDefault(f.ImageURL, models.DefaultProfileImage)
}

// LoginForm holds the login credentials.
type LoginForm struct {
	Username string `form:"username" validate:"required,max=30"`
	Password string `form:"password,notrim" validate:"required,max=50"`
}

// ProfileEditForm is the signup form minus the credentials.
type ProfileEditForm struct {
	FirstName   string `form:"first_name" validate:"required,max=30"`
	LastName    string `form:"last_name" validate:"required,max=30"`
	Description string `form:"description"`
	Email       string `form:"email" validate:"required,email,max=50"`
	ImageURL    string `form:"image_url" validate:"omitempty,imageurl,max=255"`
}

func (f *ProfileEditForm) applyDefaults() {
	if f.ImageURL == "" {
		f.ImageURL = models.DefaultProfileImage
	}
}

func (f *ProfileEditForm) clearDefaults() {
	f.ImageURL = blankDefault(f.ImageURL, models.DefaultProfileImage)
}

// ProfileFormFor prefills the edit form from u.
func ProfileFormFor(u *models.User) ProfileEditForm {
	return ProfileEditForm{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Description: u.Description,
		Email:       u.Email,
		ImageURL:    blankDefault(u.ImageURL, models.DefaultProfileImage),
	}
}

// Apply copies the edited fields onto u.
func (f *ProfileEditForm) Apply(u *models.User) {
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.Description = f.Description
	u.Email = f.Email
	u.ImageURL = f.ImageURL
}

// CafeForm adds or edits a cafe. CityCode is checked against the known
// cities with CheckCity.
type CafeForm struct {
	Name        string `form:"name" validate:"required,max=30"`
	Description string `form:"description"`
	URL         string `form:"url" validate:"omitempty,url,max=255"`
	Address     string `form:"address" validate:"required,max=50"`
	CityCode    string `form:"city_code" validate:"required"`
	ImageURL    string `form:"image_url" validate:"omitempty,imageurl,max=255"`
}

func (f *CafeForm) applyDefaults() {
	if f.ImageURL == "" {
		f.ImageURL = models.DefaultCafeImage
	}
}

func (f *CafeForm) clearDefaults() {
	f.ImageURL = blankDefault(f.ImageURL, models.DefaultCafeImage)
}

// CheckCity adds a choice error when the city code is not one of codes.
// An empty code is left to the required rule.
func (f *CafeForm) CheckCity(codes []string, errs Errors) {
	if f.CityCode != "" && !slices.Contains(codes, f.CityCode) {
		errs.Add("city_code", "Not a valid choice.")
	}
}

// CafeFormFor prefills the edit form from c.
func CafeFormFor(c *models.Cafe) CafeForm {
	return CafeForm{
		Name:        c.Name,
		Description: c.Description,
		URL:         c.URL,
		Address:     c.Address,
		CityCode:    c.CityCode,
		ImageURL:    blankDefault(c.ImageURL, models.DefaultCafeImage),
	}
}

// Apply copies the form onto c.
func (f *CafeForm) Apply(c *models.Cafe) {
	c.Name = f.Name
	c.Description = f.Description
	c.URL = f.URL
	c.Address = f.Address
	c.CityCode = f.CityCode
	c.ImageURL = f.ImageURL
}

// PlantSearchForm is the JSON body of the plant list API.
type PlantSearchForm struct {
	Term string `json:"term" form:"term" validate:"required,max=100"`
}

func blankDefault(v, def string) string {
	if v == def {
		return ""
	}
	return v
}
